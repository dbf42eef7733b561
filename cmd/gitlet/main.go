package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tony-hsu/gitlet/pkg/logging"
	"github.com/tony-hsu/gitlet/pkg/repo"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code. Refusals
// such as "No changes added to the commit." are printed to out and still
// exit 0; anything else is an error on errOut.
func run(args []string, out, errOut io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.Execute()
	switch {
	case err == nil:
		return 0
	case repo.IsUserError(err):
		fmt.Fprintln(out, repo.UserMessage(err))
		return 0
	default:
		logging.Default().WithError(err).Error("command failed")
		fmt.Fprintln(errOut, err)
		return 1
	}
}

func newRootCmd() *cobra.Command {
	settings := newSettings()

	root := &cobra.Command{
		Use:           "gitlet",
		Short:         "A small local version-control system",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return settings.apply()
		},
	}
	settings.bindFlags(root)

	root.AddCommand(newInitCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newCommitCmd())
	root.AddCommand(newRmCmd())
	root.AddCommand(newLogCmd())
	root.AddCommand(newGlobalLogCmd())
	root.AddCommand(newFindCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newCheckoutCmd())
	root.AddCommand(newBranchCmd())
	root.AddCommand(newRmBranchCmd())
	root.AddCommand(newResetCmd())
	root.AddCommand(newMergeCmd())
	return root
}

// withRepo opens the repository containing the working directory, runs fn
// and saves the repository state when fn succeeds.
func withRepo(fn func(r *repo.Repo) error) error {
	r, err := repo.Discover(".")
	if err != nil {
		return err
	}
	if err := fn(r); err != nil {
		return err
	}
	return r.Save()
}
