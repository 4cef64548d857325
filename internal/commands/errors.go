package commands

import (
	"errors"
	"fmt"

	"gitsandbox/internal/git"
	"gitsandbox/internal/vfs"
)

var (
	// ErrExit ends the session
	ErrExit = errors.New("exit")

	// ErrUsage marks user errors in how a command was invoked
	ErrUsage = errors.New("usage")
)

// UsageError carries a message shown to the user as is
type UsageError struct {
	Cmd string
	Msg string
}

func (e *UsageError) Error() string {
	return e.Cmd + ": " + e.Msg
}

func (e *UsageError) Unwrap() error { return ErrUsage }

func usagef(cmd, format string, args ...any) error {
	return &UsageError{Cmd: cmd, Msg: fmt.Sprintf(format, args...)}
}

// errorLine turns a handler error into the single line shown to the user
func errorLine(name, home string, err error) string {
	var ue *UsageError
	var pe *vfs.PathError
	var unknown *git.UnknownSubcommandError

	switch {
	case errors.As(err, &ue):
		return ue.Error()
	case errors.Is(err, git.ErrNotRepository):
		return git.ErrNotRepository.Error()
	case errors.As(err, &unknown):
		return unknown.Error()
	case errors.As(err, &pe):
		return fmt.Sprintf("%s: %s: %s", name, vfs.Display(home, pe.Path), describe(pe.Err))
	}
	return fmt.Sprintf("%s: %v", name, err)
}

func describe(err error) string {
	switch {
	case errors.Is(err, vfs.ErrNotFound):
		return "No such file or directory"
	case errors.Is(err, vfs.ErrExist):
		return "File exists"
	case errors.Is(err, vfs.ErrIsDir):
		return "Is a directory"
	case errors.Is(err, vfs.ErrNotDir):
		return "Not a directory"
	case errors.Is(err, vfs.ErrNotEmpty):
		return "Directory not empty"
	case errors.Is(err, vfs.ErrPermission):
		return "Permission denied"
	}
	return err.Error()
}
