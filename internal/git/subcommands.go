package git

import "sort"

// subcommands is the fixed set of porcelain commands the sandbox forwards
var subcommands = map[string]string{
	"add":      "Add file contents to the index",
	"branch":   "List, create, or delete branches",
	"checkout": "Switch branches or restore working tree files",
	"commit":   "Record changes to the repository",
	"diff":     "Show changes between commits, commit and working tree, etc",
	"init":     "Create an empty Git repository",
	"log":      "Show commit logs",
	"merge":    "Join two or more development histories together",
	"reset":    "Reset current HEAD to the specified state",
	"restore":  "Restore working tree files",
	"rm":       "Remove files from the working tree and from the index",
	"show":     "Show various types of objects",
	"stash":    "Stash the changes in a dirty working directory away",
	"status":   "Show the working tree status",
	"switch":   "Switch branches",
	"tag":      "Create, list, delete or verify a tag object",
}

// Subcommands returns the supported subcommands in sorted order
func Subcommands() []string {
	names := make([]string, 0, len(subcommands))
	for name := range subcommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the one-line summary of a subcommand
func Describe(name string) (string, bool) {
	d, ok := subcommands[name]
	return d, ok
}

// Supported reports whether name is a forwarded subcommand
func Supported(name string) bool {
	_, ok := subcommands[name]
	return ok
}
