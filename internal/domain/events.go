package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventCommandExecuted    EventType = "CommandExecuted"
	EventHistoryAppended    EventType = "HistoryAppended"
	EventModeChanged        EventType = "ModeChanged"
	EventFilesystemChanged  EventType = "FilesystemChanged"
	EventGitCommandExecuted EventType = "GitCommandExecuted"
	EventError              EventType = "Error"
	EventConfigLoaded       EventType = "ConfigLoaded"
	EventConfigSaved        EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// CommandExecutedEvent is emitted after the dispatcher has run a line
type CommandExecutedEvent struct {
	Line     string
	Name     string
	Success  bool
	Error    string
	Duration time.Duration
}

func (e CommandExecutedEvent) Type() EventType { return EventCommandExecuted }

// HistoryAppendedEvent is emitted when an accepted line is stored
type HistoryAppendedEvent struct {
	Index   int
	Command string
}

func (e HistoryAppendedEvent) Type() EventType { return EventHistoryAppended }

// ModeChangedEvent is emitted when the input mode switches
type ModeChangedEvent struct {
	From string
	To   string
}

func (e ModeChangedEvent) Type() EventType { return EventModeChanged }

// FilesystemChangedEvent is emitted after a command modified the sandbox.
// A file tree view refreshes from it.
type FilesystemChangedEvent struct {
	Op    string
	Paths []string
}

func (e FilesystemChangedEvent) Type() EventType { return EventFilesystemChanged }

// GitCommandExecutedEvent is emitted for every git invocation
type GitCommandExecutedEvent struct {
	Dir      string
	Args     []string
	Success  bool
	ExitCode int
	Output   string
	Error    string
	Duration int64 // milliseconds
}

func (e GitCommandExecutedEvent) Type() EventType { return EventGitCommandExecuted }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path    string
	Backend string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
