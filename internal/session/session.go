// Package session keeps the in-memory history of one advising session: FAQ
// questions asked, validation runs and the advisor's free-text notes.
//
// History is append-only. Callers read it through Snapshot, which returns
// copies, so formatted exports never observe later changes.
package session

import (
	"sync"
	"time"

	"github.com/JonMunkholm/advisor/internal/core"
	"github.com/google/uuid"
)

// Action identifies the kind of history entry.
type Action string

const (
	ActionAsk      Action = "ask"
	ActionValidate Action = "validate"
	ActionNotes    Action = "notes"
)

// Interaction is one FAQ question and the result shown for it.
type Interaction struct {
	ID      string           `json:"id"`
	Query   string           `json:"query"`
	Result  core.MatchResult `json:"result"`
	AskedAt time.Time        `json:"askedAt"`
}

// Run is one plan validation.
type Run struct {
	ID     string      `json:"id"`
	Source string      `json:"source,omitempty"`
	Report core.Report `json:"report"`
	RanAt  time.Time   `json:"ranAt"`
}

// Event is one line of the combined activity log.
type Event struct {
	ID     string    `json:"id"`
	Action Action    `json:"action"`
	At     time.Time `json:"at"`
}

// Snapshot is a point-in-time copy of a session.
type Snapshot struct {
	ID           string        `json:"id"`
	StartedAt    time.Time     `json:"startedAt"`
	Interactions []Interaction `json:"interactions"`
	Runs         []Run         `json:"runs"`
	Notes        string        `json:"notes"`
	Events       []Event       `json:"events"`
}

// LastRun returns the most recent validation run.
func (s Snapshot) LastRun() (Run, bool) {
	if len(s.Runs) == 0 {
		return Run{}, false
	}
	return s.Runs[len(s.Runs)-1], true
}

// Answered counts interactions that produced an answer.
func (s Snapshot) Answered() int {
	n := 0
	for _, in := range s.Interactions {
		if in.Result.Found {
			n++
		}
	}
	return n
}

// Session is the mutable history of one advising session.
// Safe for concurrent use.
type Session struct {
	mu  sync.Mutex
	now func() time.Time

	id           string
	startedAt    time.Time
	interactions []Interaction
	runs         []Run
	notes        string
	events       []Event
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// New starts an empty session with a random id.
func New(opts ...Option) *Session {
	s := &Session{now: time.Now, id: uuid.NewString()}
	for _, opt := range opts {
		opt(s)
	}
	s.startedAt = s.now()
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// RecordQuery appends an FAQ interaction and returns it.
func (s *Session) RecordQuery(query string, result core.MatchResult) Interaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := Interaction{
		ID:      uuid.NewString(),
		Query:   query,
		Result:  cloneMatch(result),
		AskedAt: s.now(),
	}
	s.interactions = append(s.interactions, in)
	s.events = append(s.events, Event{ID: in.ID, Action: ActionAsk, At: in.AskedAt})
	return in
}

// RecordValidation appends a validation run and returns it. The report is
// copied; later changes to rep are not reflected.
func (s *Session) RecordValidation(source string, rep *core.Report) Run {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := Run{
		ID:     uuid.NewString(),
		Source: source,
		RanAt:  s.now(),
	}
	if rep != nil {
		run.Report = cloneReport(rep)
	}
	s.runs = append(s.runs, run)
	s.events = append(s.events, Event{ID: run.ID, Action: ActionValidate, At: run.RanAt})
	return run
}

// SetNotes replaces the advisor's free-text notes.
func (s *Session) SetNotes(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = text
	s.events = append(s.events, Event{ID: uuid.NewString(), Action: ActionNotes, At: s.now()})
}

// Snapshot returns a copy of the session history.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		ID:           s.id,
		StartedAt:    s.startedAt,
		Interactions: append([]Interaction(nil), s.interactions...),
		Runs:         append([]Run(nil), s.runs...),
		Notes:        s.notes,
		Events:       append([]Event(nil), s.events...),
	}
}

func cloneMatch(m core.MatchResult) core.MatchResult {
	m.Suggestions = append([]core.Suggestion(nil), m.Suggestions...)
	return m
}

func cloneReport(rep *core.Report) core.Report {
	c := *rep
	c.Errors = append([]core.Issue{}, rep.Errors...)
	c.Warnings = append([]core.Issue{}, rep.Warnings...)
	c.CategoryTotals = append([]core.CategoryTotal{}, rep.CategoryTotals...)
	c.CategoryGaps = append([]core.CategoryGap(nil), rep.CategoryGaps...)
	c.PrereqFindings = append([]core.PrereqFinding(nil), rep.PrereqFindings...)
	c.Conflicts = append([]core.ScheduleConflict(nil), rep.Conflicts...)
	if rep.Columns != nil {
		c.Columns = make(map[core.Field]string, len(rep.Columns))
		for f, h := range rep.Columns {
			c.Columns[f] = h
		}
	}
	return c
}
