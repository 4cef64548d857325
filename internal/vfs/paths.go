package vfs

import (
	"path"
	"strings"
)

// Resolve turns p, absolute or relative to cwd, into a clean absolute
// sandbox path. A leading ~ expands to home.
func Resolve(home, cwd, p string) string {
	switch {
	case p == "" || p == ".":
		return clean(cwd)
	case p == "~":
		return clean(home)
	case strings.HasPrefix(p, "~/"):
		return clean(path.Join(home, p[2:]))
	case strings.HasPrefix(p, "/"):
		return clean(p)
	}
	return clean(path.Join(cwd, p))
}

// Display shortens p for the prompt, replacing the home prefix with ~
func Display(home, p string) string {
	if p == home {
		return "~"
	}
	if home != "/" && strings.HasPrefix(p, home+"/") {
		return "~" + p[len(home):]
	}
	return p
}
