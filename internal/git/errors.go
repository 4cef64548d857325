package git

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRepository is returned when no .git directory exists in the
	// working directory or any of its parents
	ErrNotRepository = errors.New("fatal: not a git repository (or any of the parent directories): .git")

	// ErrUnavailable is returned while the git engine cannot run commands
	ErrUnavailable = errors.New("git is not available")
)

// UnknownSubcommandError reports a subcommand outside the supported set
type UnknownSubcommandError struct {
	Name string
}

func (e *UnknownSubcommandError) Error() string {
	return fmt.Sprintf("git: '%s' is not a git command. See 'git help'.", e.Name)
}
