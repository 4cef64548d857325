package vfs

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
)

var (
	ErrNotFound   = errors.New("no such file or directory")
	ErrExist      = errors.New("file exists")
	ErrIsDir      = errors.New("is a directory")
	ErrNotDir     = errors.New("not a directory")
	ErrNotEmpty   = errors.New("directory not empty")
	ErrPermission = errors.New("permission denied")
)

// PathError records a failed operation on a sandbox path
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Op + ": " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error { return e.Err }

func pathErr(op, path string, err error) error {
	return &PathError{Op: op, Path: path, Err: err}
}

// classify maps backend errors onto the sandbox sentinels so callers never
// see afero or os error values directly
func classify(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PathError
	if errors.As(err, &pe) {
		return err
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return pathErr(op, path, ErrNotFound)
	case errors.Is(err, fs.ErrExist):
		return pathErr(op, path, ErrExist)
	case errors.Is(err, fs.ErrPermission):
		return pathErr(op, path, ErrPermission)
	case errors.Is(err, syscall.ENOTDIR):
		return pathErr(op, path, ErrNotDir)
	case errors.Is(err, syscall.EISDIR):
		return pathErr(op, path, ErrIsDir)
	case errors.Is(err, syscall.ENOTEMPTY):
		return pathErr(op, path, ErrNotEmpty)
	}

	var oe *os.PathError
	if errors.As(err, &oe) {
		return pathErr(op, path, oe.Err)
	}
	return pathErr(op, path, err)
}
