package console

import (
	"sync"
	"time"

	"fraudconsole/internal/models"
)

// Ticket identifies one dispatched submission within a session.
type Ticket uint64

// Session is the state behind one page load: the panel and the history.
//
// Submissions are tagged with increasing tickets. A resolved result always
// lands in the history, but only the latest dispatched ticket may change the
// panel, so a slow older response never replaces a newer one.
type Session struct {
	ID string

	mu       sync.Mutex
	history  *History
	panel    Panel
	latest   Ticket
	lastSeen time.Time
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:       id,
		history:  NewHistory(HistoryLimit),
		lastSeen: now,
	}
}

// Dispatch starts a submission and shows the loading panel.
func (s *Session) Dispatch() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest++
	s.panel = loadingPanel()
	return s.latest
}

// Resolve records a successful result. It reports whether the panel now shows it.
func (s *Session) Resolve(t Ticket, r models.PredictionResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history.Add(r)
	if t != s.latest {
		return false
	}
	s.panel = resultPanel(r)
	return true
}

// Fail records a failed submission. History is left alone.
func (s *Session) Fail(t Ticket, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t != s.latest {
		return false
	}
	s.panel = errorPanel(msg)
	return true
}

// Snapshot is a consistent copy of a session's visible state.
type Snapshot struct {
	Panel   Panel                     `json:"panel"`
	History []models.PredictionResult `json:"history"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Panel:   s.panel,
		History: s.history.Entries(),
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
