package vfs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// FS is the filesystem collaborator used by the shell. Paths are absolute,
// slash separated sandbox paths.
type FS interface {
	List(ctx context.Context, p string) ([]Entry, error)
	Stat(ctx context.Context, p string) (Entry, error)
	Read(ctx context.Context, p string) ([]byte, error)
	Write(ctx context.Context, p string, data []byte) error
	Remove(ctx context.Context, p string, recursive bool) error
	Mkdir(ctx context.Context, p string, parents bool) error
}

// Entry describes one file or directory
type Entry struct {
	Name    string
	IsDir   bool
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
}

// IsFile reports whether the entry is a regular file
func (e Entry) IsFile() bool { return !e.IsDir }

// Backend selects where sandbox files live
type Backend string

const (
	BackendMemory    Backend = "memory"
	BackendDirectory Backend = "directory"
)

// Sandbox implements FS on top of an afero filesystem: an in-memory map, or a
// host directory jailed behind a base path.
type Sandbox struct {
	fs      afero.Fs
	backend Backend
	root    string
}

// NewMemory creates an empty in-memory sandbox
func NewMemory() *Sandbox {
	return &Sandbox{fs: afero.NewMemMapFs(), backend: BackendMemory}
}

// NewDirectory creates a sandbox rooted at the host directory root,
// creating it if needed
func NewDirectory(root string) (*Sandbox, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sandbox root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create sandbox root: %w", err)
	}
	return &Sandbox{
		fs:      afero.NewBasePathFs(afero.NewOsFs(), abs),
		backend: BackendDirectory,
		root:    abs,
	}, nil
}

// Backend reports which backend the sandbox uses
func (s *Sandbox) Backend() Backend { return s.backend }

// Root returns the host directory of a directory sandbox
func (s *Sandbox) Root() string { return s.root }

// RealPath maps a sandbox path to its host path. Only directory sandboxes
// have one.
func (s *Sandbox) RealPath(p string) (string, bool) {
	bp, ok := s.fs.(*afero.BasePathFs)
	if !ok {
		return "", false
	}
	real, err := bp.RealPath(clean(p))
	if err != nil {
		return "", false
	}
	return real, true
}

func (s *Sandbox) List(ctx context.Context, p string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p = clean(p)

	info, err := s.fs.Stat(p)
	if err != nil {
		return nil, classify("ls", p, err)
	}
	if !info.IsDir() {
		return nil, pathErr("ls", p, ErrNotDir)
	}

	infos, err := afero.ReadDir(s.fs, p)
	if err != nil {
		return nil, classify("ls", p, err)
	}
	entries := make([]Entry, 0, len(infos))
	for _, fi := range infos {
		entries = append(entries, toEntry(fi))
	}
	return entries, nil
}

func (s *Sandbox) Stat(ctx context.Context, p string) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	p = clean(p)

	info, err := s.fs.Stat(p)
	if err != nil {
		return Entry{}, classify("stat", p, err)
	}
	e := toEntry(info)
	if p == "/" {
		e.Name = "/"
	}
	return e, nil
}

func (s *Sandbox) Read(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p = clean(p)

	info, err := s.fs.Stat(p)
	if err != nil {
		return nil, classify("read", p, err)
	}
	if info.IsDir() {
		return nil, pathErr("read", p, ErrIsDir)
	}
	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		return nil, classify("read", p, err)
	}
	return data, nil
}

func (s *Sandbox) Write(ctx context.Context, p string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p = clean(p)

	if info, err := s.fs.Stat(p); err == nil && info.IsDir() {
		return pathErr("write", p, ErrIsDir)
	}
	if err := s.requireDir("write", path.Dir(p)); err != nil {
		return err
	}
	return classify("write", p, afero.WriteFile(s.fs, p, data, 0o644))
}

func (s *Sandbox) Remove(ctx context.Context, p string, recursive bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p = clean(p)
	if p == "/" {
		return pathErr("remove", p, ErrPermission)
	}

	info, err := s.fs.Stat(p)
	if err != nil {
		return classify("remove", p, err)
	}
	if info.IsDir() {
		if !recursive {
			return pathErr("remove", p, ErrIsDir)
		}
		return classify("remove", p, s.fs.RemoveAll(p))
	}
	return classify("remove", p, s.fs.Remove(p))
}

func (s *Sandbox) Mkdir(ctx context.Context, p string, parents bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p = clean(p)

	if parents {
		// walk down so a file in the way is reported instead of overwritten
		cur := "/"
		for _, part := range strings.Split(strings.TrimPrefix(p, "/"), "/") {
			if part == "" {
				continue
			}
			cur = path.Join(cur, part)
			info, err := s.fs.Stat(cur)
			if err == nil {
				if !info.IsDir() {
					return pathErr("mkdir", cur, ErrNotDir)
				}
				continue
			}
			if err := s.fs.Mkdir(cur, 0o755); err != nil {
				return classify("mkdir", cur, err)
			}
		}
		return nil
	}

	if _, err := s.fs.Stat(p); err == nil {
		return pathErr("mkdir", p, ErrExist)
	}
	if err := s.requireDir("mkdir", path.Dir(p)); err != nil {
		return classify("mkdir", p, err)
	}
	return classify("mkdir", p, s.fs.Mkdir(p, 0o755))
}

// Reset wipes the sandbox
func (s *Sandbox) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.backend == BackendMemory {
		s.fs = afero.NewMemMapFs()
		return nil
	}

	infos, err := afero.ReadDir(s.fs, "/")
	if err != nil {
		return classify("reset", "/", err)
	}
	for _, fi := range infos {
		if err := s.fs.RemoveAll(path.Join("/", fi.Name())); err != nil {
			return classify("reset", fi.Name(), err)
		}
	}
	return nil
}

func (s *Sandbox) requireDir(op, dir string) error {
	info, err := s.fs.Stat(dir)
	if err != nil {
		return classify(op, dir, err)
	}
	if !info.IsDir() {
		return pathErr(op, dir, ErrNotDir)
	}
	return nil
}

func toEntry(fi fs.FileInfo) Entry {
	return Entry{
		Name:    fi.Name(),
		IsDir:   fi.IsDir(),
		Size:    fi.Size(),
		Mode:    fi.Mode(),
		ModTime: fi.ModTime(),
	}
}

func clean(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}
