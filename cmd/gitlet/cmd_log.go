package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tony-hsu/gitlet/pkg/repo"
)

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Show the first-parent history of the current branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Discover(".")
			if err != nil {
				return err
			}
			commits, err := r.Log()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range commits {
				fmt.Fprintln(out, repo.FormatCommit(c))
			}
			return nil
		},
	}
}

func newGlobalLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "global-log",
		Short: "Show every commit ever made",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Discover(".")
			if err != nil {
				return err
			}
			text, err := r.GlobalLog()
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <message>",
		Short: "Print the ids of commits with the given message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Discover(".")
			if err != nil {
				return err
			}
			ids, err := r.Find(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show branches, staged changes and working-tree changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Discover(".")
			if err != nil {
				return err
			}
			st, err := r.Status()
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}
}

func printStatus(out io.Writer, st *repo.Status) {
	fmt.Fprintln(out, "=== Branches ===")
	for _, b := range st.Branches {
		if b == st.CurrentBranch {
			fmt.Fprintf(out, "*%s\n", b)
		} else {
			fmt.Fprintln(out, b)
		}
	}

	fmt.Fprintln(out, "\n=== Staged Files ===")
	for _, p := range st.Staged {
		fmt.Fprintln(out, p)
	}

	fmt.Fprintln(out, "\n=== Removed Files ===")
	for _, p := range st.Removed {
		fmt.Fprintln(out, p)
	}

	fmt.Fprintln(out, "\n=== Modifications Not Staged For Commit ===")
	for _, m := range st.Modifications {
		fmt.Fprintf(out, "%s (%s)\n", m.Path, m.Kind)
	}

	fmt.Fprintln(out, "\n=== Untracked Files ===")
	for _, p := range st.Untracked {
		fmt.Fprintln(out, p)
	}
	fmt.Fprintln(out)
}
