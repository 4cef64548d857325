package editor

import (
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
)

// Options tune the widget
type Options struct {
	TabWidth    int
	LineNumbers bool
}

// Widget is the text area a file is edited in, plus what it knows about
// the file
type Widget struct {
	area     textarea.Model
	tabWidth int
	filename string
	mode     string
}

// NewWidget creates an empty widget
func NewWidget(opts Options) *Widget {
	if opts.TabWidth < 1 {
		opts.TabWidth = 4
	}
	area := textarea.New()
	area.ShowLineNumbers = opts.LineNumbers
	area.CharLimit = 0
	area.MaxHeight = 0
	area.Prompt = ""
	area.Placeholder = "empty file"
	return &Widget{area: area, tabWidth: opts.TabWidth, mode: "text"}
}

// Open loads content for filename, picks the language mode from its
// extension and puts the cursor at the top
func (w *Widget) Open(filename, content string) {
	w.filename = filename
	w.SetMode(ModeFor(filename))
	w.SetValue(content)
	w.area.Focus()
}

// Value returns the text being edited
func (w *Widget) Value() string {
	return w.area.Value()
}

// SetValue replaces the text and moves the cursor to the first line
func (w *Widget) SetValue(text string) {
	w.area.SetValue(text)
	for w.area.Line() > 0 {
		w.area.CursorUp()
	}
	w.area.CursorStart()
}

// SetMode sets the language hint shown in the status bar
func (w *Widget) SetMode(hint string) {
	if hint == "" {
		hint = "text"
	}
	w.mode = hint
}

func (w *Widget) Mode() string     { return w.mode }
func (w *Widget) Filename() string { return w.filename }

func (w *Widget) setSize(width, height int) {
	w.area.SetWidth(width)
	w.area.SetHeight(height)
}

func (w *Widget) insertTab() {
	w.area.InsertString(strings.Repeat(" ", w.tabWidth))
}

var modes = map[string]string{
	".html":      "html",
	".htm":       "html",
	".css":       "css",
	".js":        "javascript",
	".mjs":       "javascript",
	".ts":        "typescript",
	".json":      "json",
	".md":        "markdown",
	".go":        "go",
	".py":        "python",
	".sh":        "shell",
	".toml":      "toml",
	".yml":       "yaml",
	".yaml":      "yaml",
	".txt":       "text",
	".gitignore": "gitignore",
}

// ModeFor guesses a language hint from a file name
func ModeFor(filename string) string {
	base := strings.ToLower(path.Base(filename))
	if m, ok := modes[base]; ok {
		return m
	}
	if m, ok := modes[path.Ext(base)]; ok {
		return m
	}
	return "text"
}
