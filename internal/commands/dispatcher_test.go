package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitsandbox/internal/git"
	"gitsandbox/internal/history"
	"gitsandbox/internal/vfs"
)

type fakeShell struct {
	cwd     string
	cleared int
	resets  int
	debug   bool
}

func (s *fakeShell) Cwd() string       { return s.cwd }
func (s *fakeShell) SetCwd(dir string) { s.cwd = dir }
func (s *fakeShell) Clear()            { s.cleared++ }
func (s *fakeShell) ResetSandbox(context.Context) error {
	s.resets++
	return nil
}
func (s *fakeShell) ToggleDebug() bool {
	s.debug = !s.debug
	return s.debug
}
func (s *fakeShell) DebugInfo() []string { return []string{"mode: normal"} }

type recorder struct {
	bytes.Buffer
	errors []string
}

func (r *recorder) Error(msg string) { r.errors = append(r.errors, msg) }

type fakeGit struct {
	requests []git.Request
	result   git.Result
	err      error
}

func (g *fakeGit) Available(context.Context) error                 { return nil }
func (g *fakeGit) FindRoot(context.Context, string) (string, error) { return "/", nil }
func (g *fakeGit) Run(_ context.Context, req git.Request) (git.Result, error) {
	g.requests = append(g.requests, req)
	return g.result, g.err
}

type fakeEditor struct {
	file, content string
	edit          func(string) string
}

func (e *fakeEditor) Edit(_ context.Context, file, content string, save func(string) error) error {
	e.file, e.content = file, content
	if e.edit != nil {
		return save(e.edit(content))
	}
	return nil
}

type fakePager struct{ title, content string }

func (p *fakePager) Page(_ context.Context, title, content string) error {
	p.title, p.content = title, content
	return nil
}

type fixture struct {
	d     *Dispatcher
	sh    *fakeShell
	fs    *vfs.Sandbox
	hist  *history.Store
	git   *fakeGit
	edit  *fakeEditor
	pager *fakePager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	fs := vfs.NewMemory()
	require.NoError(t, vfs.Seed(ctx, fs, "/home/user"))

	f := &fixture{
		sh:    &fakeShell{cwd: "/home/user"},
		fs:    fs,
		hist:  history.NewStore(),
		git:   &fakeGit{},
		edit:  &fakeEditor{},
		pager: &fakePager{},
	}
	f.d = NewDispatcher(Default(), &Env{
		FS:      fs,
		Git:     f.git,
		Editor:  f.edit,
		Pager:   f.pager,
		History: f.hist,
		Home:    "/home/user",
	})
	return f
}

func (f *fixture) run(line string) (*recorder, error) {
	out := &recorder{}
	err := f.d.Dispatch(context.Background(), line, f.sh, out)
	return out, err
}

func TestHistoryPipeGrep(t *testing.T) {
	f := newFixture(t)
	for _, cmd := range []string{"ls", "git status", "git log"} {
		f.hist.Append(cmd)
	}

	out, err := f.run("history | grep git")
	require.NoError(t, err)
	assert.Empty(t, out.errors)
	assert.Equal(t, "    2  git status\n    3  git log\n", out.String())
}

func TestPipeStripsQuotesAndIgnoresCase(t *testing.T) {
	f := newFixture(t)
	f.hist.Append("Git Init")
	f.hist.Append("pwd")

	out, _ := f.run(`history | grep "GIT"`)
	assert.Equal(t, "    1  Git Init\n", out.String())

	out, _ = f.run(`history | grep 'git'`)
	assert.Equal(t, "    1  Git Init\n", out.String())
}

func TestLsPipe(t *testing.T) {
	f := newFixture(t)

	out, err := f.run("ls | grep .html")
	require.NoError(t, err)
	assert.Equal(t, "index.html\n", out.String())
}

func TestPipeErrors(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"cat index.html | grep x", "cat: cannot be used as a pipe source"},
		{"history | sort", "sort: unsupported pipe filter"},
		{"history | grep", "grep: usage: grep <pattern>"},
		{"history | grep a | grep b", "only a single pipe stage"},
		{"| grep a", "missing command before"},
		{"history |", "missing command after"},
		{"ls nope | grep a", "ls: ~/nope: No such file or directory"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			f := newFixture(t)
			out, err := f.run(tt.line)
			require.NoError(t, err)
			require.Len(t, out.errors, 1)
			assert.Contains(t, out.errors[0], tt.want)
			assert.Empty(t, out.String(), "no partial output")
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	f := newFixture(t)

	out, err := f.run("foobar")
	require.NoError(t, err)
	require.Len(t, out.errors, 1)
	assert.Equal(t, "foobar: command not found", out.errors[0])
}

func TestUnknownCommandSuggestion(t *testing.T) {
	f := newFixture(t)

	out, _ := f.run("hist")
	assert.Equal(t, "hist: command not found", out.errors[0])
	assert.Equal(t, "Did you mean 'history'?\n", out.String())
}

func TestEmptyLineIsNoop(t *testing.T) {
	f := newFixture(t)

	out, err := f.run("   ")
	require.NoError(t, err)
	assert.Empty(t, out.errors)
	assert.Empty(t, out.String())
}

func TestSyntaxError(t *testing.T) {
	f := newFixture(t)

	out, _ := f.run(`echo "unterminated`)
	require.Len(t, out.errors, 1)
	assert.Contains(t, out.errors[0], "syntax error")
}

func TestPanicIsRecovered(t *testing.T) {
	f := newFixture(t)
	f.d.Registry().Register(Command{Name: "boom", Run: func(*Call) error { panic("kaboom") }})

	out, err := f.run("boom")
	require.NoError(t, err)
	assert.Equal(t, []string{"boom: internal error"}, out.errors)
}

func TestPipeSourcePanicIsRecovered(t *testing.T) {
	producers["boom"] = func(*Call) ([]string, error) { panic("kaboom") }
	t.Cleanup(func() { delete(producers, "boom") })
	f := newFixture(t)

	out, err := f.run("boom | grep x")
	require.NoError(t, err)
	assert.Equal(t, []string{"boom: internal error"}, out.errors)
	assert.Empty(t, out.String())
}

func TestQuotedBarIsNotAPipe(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(`touch "a|b" 'c|d' e\|f`)
	require.NoError(t, err)
	assert.Empty(t, out.errors)
	for _, name := range []string{"a|b", "c|d", "e|f"} {
		_, err := f.fs.Stat(context.Background(), "/home/user/"+name)
		assert.NoError(t, err, name)
	}

	f.hist.Append("git commit -m 'x|y'")
	out, err = f.run(`history | grep "x|y"`)
	require.NoError(t, err)
	assert.Empty(t, out.errors)
	assert.Equal(t, "    1  git commit -m 'x|y'\n", out.String())
}

func TestSplitPipe(t *testing.T) {
	tests := map[string][]string{
		"ls":             {"ls"},
		"ls | grep a":    {"ls ", " grep a"},
		`grep "a|b"`:     {`grep "a|b"`},
		`grep 'a|b' | x`: {`grep 'a|b' `, " x"},
		`a\|b`:           {`a\|b`},
		`"it's|" | b`:    {`"it's|" `, " b"},
		"a | b | c":      {"a ", " b ", " c"},
	}
	for line, want := range tests {
		assert.Equal(t, want, splitPipe(line), line)
	}
}

func TestExit(t *testing.T) {
	f := newFixture(t)

	out, err := f.run("exit")
	assert.ErrorIs(t, err, ErrExit)
	assert.Empty(t, out.errors)
}

func TestFileCommands(t *testing.T) {
	f := newFixture(t)

	out, _ := f.run("ls")
	assert.Equal(t, "README.md  app.js  index.html  style.css\n", out.String())

	_, _ = f.run("mkdir -p src/app")
	_, _ = f.run("touch src/app/main.go notes.txt")
	out, _ = f.run("ls src")
	assert.Equal(t, "app/\n", out.String())

	_, _ = f.run("cd src/app")
	assert.Equal(t, "/home/user/src/app", f.sh.cwd)
	out, _ = f.run("pwd")
	assert.Equal(t, "/home/user/src/app\n", out.String())
	out, _ = f.run("ls")
	assert.Equal(t, "main.go\n", out.String())

	_, _ = f.run("cd ..")
	assert.Equal(t, "/home/user/src", f.sh.cwd)
	_, _ = f.run("cd")
	assert.Equal(t, "/home/user", f.sh.cwd)

	out, _ = f.run("cat notes.txt")
	assert.Empty(t, out.String())
	assert.Empty(t, out.errors)

	out, _ = f.run("rm src")
	assert.Equal(t, []string{"rm: cannot remove 'src': Is a directory"}, out.errors)
	out, _ = f.run("rm -r src notes.txt")
	assert.Empty(t, out.errors)
	_, err := f.fs.Stat(context.Background(), "/home/user/src")
	assert.ErrorIs(t, err, vfs.ErrNotFound)

	out, _ = f.run("rm -f missing")
	assert.Empty(t, out.errors)
}

func TestFileErrors(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"cat nope.txt", "cat: ~/nope.txt: No such file or directory"},
		{"cat", "cat: missing file operand"},
		{"cd index.html", "cd: ~/index.html: Not a directory"},
		{"cd /nowhere", "cd: /nowhere: No such file or directory"},
		{"mkdir index.html", "mkdir: ~/index.html: File exists"},
		{"mkdir", "mkdir: missing operand"},
		{"ls -z", "ls: invalid option -- 'z'"},
		{"rm .", "rm: refusing to remove '.'"},
		{"rm -r /home", "rm: cannot remove '/home': it holds the working directory"},
		{"cat /home", "cat: /home: Is a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			f := newFixture(t)
			out, err := f.run(tt.line)
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, out.errors)
		})
	}
}

func TestLongListing(t *testing.T) {
	f := newFixture(t)
	_, _ = f.run("mkdir .hidden")

	out, _ := f.run("ll")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasSuffix(lines[0], " .hidden/"))
	assert.True(t, strings.HasPrefix(lines[0], "d"))
	assert.True(t, strings.HasSuffix(lines[4], " style.css"))
}

func TestCatPrintsContent(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.fs.Write(context.Background(), "/home/user/a.txt", []byte("no newline")))

	out, _ := f.run("cat a.txt")
	assert.Equal(t, "no newline\n", out.String())
}

func TestShellCommands(t *testing.T) {
	f := newFixture(t)

	_, _ = f.run("clear")
	assert.Equal(t, 1, f.sh.cleared)

	_, _ = f.run("reset")
	assert.Equal(t, 1, f.sh.resets)

	out, _ := f.run("debug")
	assert.True(t, f.sh.debug)
	assert.Equal(t, "debug tracing on\n  mode: normal\n", out.String())

	f.hist.Append("ls")
	out, _ = f.run("history")
	assert.Equal(t, "    1  ls\n", out.String())

	out, _ = f.run("help")
	assert.Contains(t, out.String(), "git <subcommand>")
	assert.Contains(t, out.String(), "Ctrl+R")

	out, _ = f.run("help vim")
	assert.Contains(t, out.String(), "edit <file>")
}

func TestGitCommand(t *testing.T) {
	f := newFixture(t)
	f.git.result = git.Result{Output: "On branch main"}

	out, _ := f.run(`git commit -m "first commit"`)
	require.Len(t, f.git.requests, 1)
	assert.Equal(t, git.Request{
		Dir:        "/home/user",
		Subcommand: "commit",
		Args:       []string{"-m", "first commit"},
	}, f.git.requests[0])
	assert.Equal(t, "On branch main\n", out.String())

	f.git.err = git.ErrNotRepository
	out, _ = f.run("git status")
	assert.Equal(t, []string{"fatal: not a git repository (or any of the parent directories): .git"}, out.errors)

	f.git.err = &git.UnknownSubcommandError{Name: "push"}
	out, _ = f.run("git push")
	assert.Equal(t, []string{"git: 'push' is not a git command. See 'git help'."}, out.errors)

	out, _ = f.run("git")
	assert.Contains(t, out.String(), "status")
	assert.Len(t, f.git.requests, 3)
}

func TestEditSavesThroughFilesystem(t *testing.T) {
	f := newFixture(t)
	f.edit.edit = func(s string) string { return s + "<!-- edited -->\n" }

	out, _ := f.run("vim index.html")
	assert.Empty(t, out.errors)
	assert.Equal(t, "/home/user/index.html", f.edit.file)

	data, err := f.fs.Read(context.Background(), "/home/user/index.html")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "<!-- edited -->\n"))
}

func TestEditNewFile(t *testing.T) {
	f := newFixture(t)
	f.edit.edit = func(string) string { return "hello\n" }

	out, _ := f.run("nano new.txt")
	assert.Empty(t, out.errors)
	assert.Equal(t, "", f.edit.content)

	data, err := f.fs.Read(context.Background(), "/home/user/new.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))

	out, _ = f.run("edit missing/new.txt")
	assert.Equal(t, []string{"edit: ~/missing: No such file or directory"}, out.errors)
}

func TestLessUsesPager(t *testing.T) {
	f := newFixture(t)

	out, _ := f.run("less README.md")
	assert.Empty(t, out.errors)
	assert.Equal(t, "README.md", f.pager.title)
	assert.Contains(t, f.pager.content, "git init")
}

func TestRegistryNames(t *testing.T) {
	r := Default()
	names := r.Names()

	for _, want := range []string{"help", "ls", "ll", "cd", "pwd", "cat", "mkdir", "touch", "rm", "clear", "reset", "history", "debug", "vi", "vim", "nano", "edit", "git", "less", "more", "exit"} {
		assert.Contains(t, names, want)
	}
	assert.IsIncreasing(t, names)

	cmd, ok := r.Lookup("vim")
	require.True(t, ok)
	assert.Equal(t, "edit", cmd.Name)
}
