package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tony-hsu/gitlet/pkg/repo"
)

func newBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branch [name]",
		Short: "Create a branch at the current head, or list branches",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(func(r *repo.Repo) error {
				if len(args) == 1 {
					return r.NewBranch(args[0])
				}

				out := cmd.OutOrStdout()
				for _, b := range r.Branches() {
					if b == r.CurrentBranch() {
						fmt.Fprintf(out, "*%s\n", b)
					} else {
						fmt.Fprintln(out, b)
					}
				}
				return nil
			})
		},
	}
}

func newRmBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm-branch <name>",
		Short: "Delete a branch pointer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(func(r *repo.Repo) error {
				return r.RemoveBranch(args[0])
			})
		},
	}
}

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <branch> | -- <file> | <commit> -- <file>",
		Short: "Switch branches or restore a file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dash := cmd.ArgsLenAtDash()
			return withRepo(func(r *repo.Repo) error {
				switch {
				case dash == 0 && len(args) == 1:
					return r.CheckoutFile(args[0])
				case dash == 1 && len(args) == 2:
					return r.CheckoutFileAt(args[0], args[1])
				case dash < 0 && len(args) == 1:
					return r.CheckoutBranch(args[0])
				default:
					return fmt.Errorf("usage: gitlet %s", cmd.Use)
				}
			})
		},
	}
}

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <branch>",
		Short: "Merge a branch into the current branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(func(r *repo.Repo) error {
				report, err := r.Merge(args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if msg := report.Outcome.Message(); msg != "" {
					fmt.Fprintln(out, msg)
				}
				if report.Conflict {
					fmt.Fprintln(out, repo.ConflictMessage)
				}
				return nil
			})
		},
	}
}
