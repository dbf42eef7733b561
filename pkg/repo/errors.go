package repo

import "errors"

// UserError is a precondition failure reported to the operator. Returning
// one guarantees that no repository state was changed.
type UserError struct {
	msg string
}

func (e *UserError) Error() string { return e.msg }

func userError(msg string) *UserError { return &UserError{msg: msg} }

var (
	ErrNoChanges           = userError("No changes added to the commit.")
	ErrEmptyMessage        = userError("Please enter a commit message.")
	ErrFileNotFound        = userError("File does not exist.")
	ErrNothingToRemove     = userError("No reason to remove the file.")
	ErrBranchExists        = userError("A branch with that name already exists.")
	ErrBranchNotFound      = userError("A branch with that name does not exist.")
	ErrNoSuchBranch        = userError("No such branch exists.")
	ErrCannotRemoveCurrent = userError("Cannot remove the current branch.")
	ErrAlreadyOnBranch     = userError("No need to checkout the current branch.")
	ErrUntrackedInTheWay   = userError("There is an untracked file in the way; delete it or add it first.")
	ErrFileNotInCommit     = userError("File does not exist in that commit.")
	ErrCommitNotFound      = userError("No commit with that id exists.")
	ErrAmbiguousCommitID   = userError("Commit id is ambiguous.")
	ErrUncommittedChanges  = userError("You have uncommitted changes.")
	ErrSelfMerge           = userError("Cannot merge a branch with itself.")
	ErrNoCommitWithMessage = userError("Found no commit with that message.")
	ErrRepoExists          = userError("A Gitlet version-control system already exists in the current directory.")
	ErrNotARepository      = userError("Not in an initialized Gitlet directory.")
)

// IsUserError reports whether err carries a UserError.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// UserMessage returns the operator-facing message of the UserError in err's
// chain, or "" when there is none.
func UserMessage(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.msg
	}
	return ""
}
