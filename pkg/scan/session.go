package scan

import (
	"time"

	"github.com/google/uuid"

	"github.com/gnana997/figscan/pkg/figma"
	"github.com/gnana997/figscan/pkg/identity"
	"github.com/gnana997/figscan/pkg/traverse"
)

// Scope selects which set of files or pages a session traverses.
type Scope string

const (
	// ScopeLocal scans the pages of the current host document.
	ScopeLocal Scope = "local"
	// ScopeFileList scans an explicitly supplied list of file keys.
	ScopeFileList Scope = "files"
	// ScopeProject scans every file discovered in a project.
	ScopeProject Scope = "project"
)

// State is the session lifecycle state.
type State string

const (
	StateIdle         State = "idle"
	StateInitializing State = "initializing"
	StateScanning     State = "scanning"
	StateComplete     State = "complete"
	StateAborted      State = "aborted"
	StateFailed       State = "failed"
)

// Session is one in-flight or completed scan. Records is append-only while
// the session runs; once Cancelled is set no further records are appended.
// Aborted sessions keep whatever was collected and are valid, exportable
// results.
type Session struct {
	ID        string          `json:"sessionId"`
	Target    identity.Target `json:"target"`
	Scope     Scope           `json:"scope"`
	State     State           `json:"state"`
	Cancelled bool            `json:"cancelled"`

	Records []traverse.Occurrence `json:"records"`

	StartedAt  time.Time `json:"startedAt"`
	DurationMs int64     `json:"durationMs"`

	FilesScanned    int                      `json:"filesScanned"`
	FilesSkipped    int                      `json:"filesSkipped"`
	SkippedByReason map[figma.SkipReason]int `json:"skippedByReason,omitempty"`

	// Error holds the terminal failure message for failed sessions.
	Error string `json:"error,omitempty"`
}

// NewSession creates a session in the initializing state.
func NewSession(target identity.Target, scope Scope) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Target:    target,
		Scope:     scope,
		State:     StateInitializing,
		StartedAt: time.Now().UTC(),
	}
}

// TotalInstances returns the number of occurrences collected so far.
func (s *Session) TotalInstances() int { return len(s.Records) }

// Terminal reports whether the session reached a terminal state.
func (s *Session) Terminal() bool {
	switch s.State {
	case StateComplete, StateAborted, StateFailed:
		return true
	}
	return false
}

// Persistable reports whether the session should be written to the result
// store: completed and aborted sessions are; failed ones are not.
func (s *Session) Persistable() bool {
	return s.State == StateComplete || s.State == StateAborted
}

func (s *Session) addSkip(reason figma.SkipReason) {
	s.FilesSkipped++
	if s.SkippedByReason == nil {
		s.SkippedByReason = make(map[figma.SkipReason]int)
	}
	s.SkippedByReason[reason]++
}
