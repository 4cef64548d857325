package completion

import (
	"context"
	"log"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"gitsandbox/internal/vfs"
)

// Kind classifies the outcome of a completion attempt
type Kind int

const (
	None       Kind = iota // nothing matched, no visible effect
	Replace                // exactly one match, Line holds the completed text
	Candidates             // ambiguous, Matches lists every candidate
)

// Result of Complete
type Result struct {
	Kind    Kind
	Line    string
	Matches []string
}

// Lister is the part of the filesystem completion needs
type Lister interface {
	List(ctx context.Context, p string) ([]vfs.Entry, error)
}

// Resolver produces completions for the edit line
type Resolver struct {
	commands    func() []string
	subcommands []string
	gitKeyword  string
	fs          Lister
}

// NewResolver creates a resolver. commands is called on every completion so
// newly registered commands are picked up.
func NewResolver(commands func() []string, gitKeyword string, subcommands []string, fs Lister) *Resolver {
	return &Resolver{
		commands:    commands,
		subcommands: subcommands,
		gitKeyword:  gitKeyword,
		fs:          fs,
	}
}

// Complete resolves the last token of line. cwd and home are sandbox paths
// used for path fragments.
func (r *Resolver) Complete(ctx context.Context, line, cwd, home string) Result {
	tokens := tokenize(line)
	last := tokens[len(tokens)-1]
	head := line[:len(line)-len(last)]

	var matches []string
	var replace func(match string) string

	switch {
	case len(tokens) == 1:
		matches = prefixed(r.commands(), last)
		replace = func(m string) string { return m + " " }

	case len(tokens) == 2 && tokens[0] == r.gitKeyword:
		matches = prefixed(r.subcommands, last)
		replace = func(m string) string { return m + " " }

	default:
		dir, base := splitFragment(last)
		entries, err := r.fs.List(ctx, vfs.Resolve(home, cwd, dir))
		if err != nil {
			log.Printf("completion: listing %q failed: %v", dir, err)
			return Result{Kind: None}
		}

		isDir := make(map[string]bool, len(entries))
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if strings.HasPrefix(e.Name, ".") && !strings.HasPrefix(base, ".") {
				continue
			}
			names = append(names, e.Name)
			isDir[e.Name] = e.IsDir
		}
		matches = prefixed(names, base)
		replace = func(m string) string {
			if isDir[m] {
				return dir + m + "/"
			}
			return dir + m + " "
		}
	}

	switch len(matches) {
	case 0:
		return Result{Kind: None}
	case 1:
		return Result{Kind: Replace, Line: head + replace(matches[0])}
	}
	return Result{Kind: Candidates, Matches: matches}
}

// tokenize splits on whitespace. A line that is empty or ends in whitespace
// gets a trailing empty token: the word being started.
func tokenize(line string) []string {
	tokens := strings.Fields(line)
	last, _ := utf8.DecodeLastRuneInString(line)
	if line == "" || unicode.IsSpace(last) {
		tokens = append(tokens, "")
	}
	return tokens
}

// splitFragment separates "src/ap" into the directory part "src/" and the
// prefix "ap"
func splitFragment(frag string) (dir, base string) {
	i := strings.LastIndex(frag, "/")
	if i < 0 {
		return "", frag
	}
	return frag[:i+1], frag[i+1:]
}

func prefixed(candidates []string, prefix string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
