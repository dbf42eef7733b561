package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tony-hsu/gitlet/pkg/repo"
)

func newInitCmd() *cobra.Command {
	var hash string
	var noCompress bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an empty repository in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := repo.DefaultConfig()
			if hash != "" {
				cfg.Core.Hash = hash
			}
			cfg.Core.Compression = !noCompress

			if _, err := repo.InitDir(".", repo.WithConfig(cfg)); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&hash, "hash", "", "digest algorithm: sha256, sha1 or blake2b")
	cmd.Flags().BoolVar(&noCompress, "no-compress", false, "store objects uncompressed")
	return cmd
}

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>",
		Short: "Stage a file for the next commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(func(r *repo.Repo) error {
				return r.Add(args[0])
			})
		},
	}
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <file>",
		Short: "Unstage a file, or stage its removal if it is tracked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(func(r *repo.Repo) error {
				return r.Remove(args[0])
			})
		},
	}
}

func newCommitCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "commit [message]",
		Short: "Record the staged changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if message != "" {
					return fmt.Errorf("commit: give the message either as an argument or with -m")
				}
				message = args[0]
			}
			return withRepo(func(r *repo.Repo) error {
				_, err := r.Commit(message)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	return cmd
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <commit>",
		Short: "Move the current branch to a commit and check it out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(func(r *repo.Repo) error {
				return r.Reset(args[0])
			})
		},
	}
}
