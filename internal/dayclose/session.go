package dayclose

import (
	"fmt"
	"time"
)

// SaveFunc persists a day-close record. It must be atomic: either the
// record lands fully or the call errors and nothing changed.
type SaveFunc func(Record) error

// Session drives one evening's close. State advances only after the
// record is saved, so a failed save leaves the session retryable.
type Session struct {
	UserID   string
	Date     string
	Deadline time.Time

	state   State
	record  Record
	save    SaveFunc
	saveErr error
}

// NewSession builds a session in the auto state with the given
// summary and a close deadline of now plus delay.
func NewSession(userID, date string, summary Summary, now time.Time, delay time.Duration, save SaveFunc) *Session {
	return &Session{
		UserID:   userID,
		Date:     date,
		Deadline: now.Add(delay),
		state:    StateAuto,
		record: Record{
			UserID:  userID,
			Date:    date,
			State:   StateAuto,
			Summary: summary,
		},
		save: save,
	}
}

// Resume rebuilds a session from an already-persisted record. A
// terminal record (partial, reviewed or closed) stays terminal: the
// flow never reopens a closed day.
func Resume(rec Record, save SaveFunc) *Session {
	return &Session{
		UserID: rec.UserID,
		Date:   rec.Date,
		state:  rec.State,
		record: rec,
		save:   save,
	}
}

// State returns the session's current state.
func (s *Session) State() State { return s.state }

// Record returns the record as last persisted (or staged, before the
// first save).
func (s *Session) Record() Record { return s.record }

// LastError returns the most recent save failure, nil after success.
func (s *Session) LastError() error { return s.saveErr }

// Acknowledge marks the day as seen without review. It cancels the
// pending auto close by moving past the auto state.
func (s *Session) Acknowledge(now time.Time) error {
	return s.commit(StatePartial, "", now)
}

// Review closes the day with a note for tomorrow.
func (s *Session) Review(note string, now time.Time) error {
	return s.commit(StateReviewed, note, now)
}

// AutoClose fires when the deadline passes with no user input. It is a
// no-op if the user already acted or the deadline has not arrived.
func (s *Session) AutoClose(now time.Time) error {
	if s.state != StateAuto {
		return nil
	}
	if s.Deadline.IsZero() || now.Before(s.Deadline) {
		return nil
	}
	return s.commit(StateClosed, "", now)
}

// Expired reports whether the auto-close deadline has passed while the
// session is still waiting on the user. Resumed sessions carry no
// deadline and never expire.
func (s *Session) Expired(now time.Time) bool {
	return s.state == StateAuto && !s.Deadline.IsZero() && !now.Before(s.Deadline)
}

// commit stages the record for the target state, persists it, and only
// then advances the in-memory state.
func (s *Session) commit(to State, note string, now time.Time) error {
	if !CanTransition(s.state, to) {
		return fmt.Errorf("day close: cannot move from %s to %s", s.state, to)
	}

	staged := s.record
	switch to {
	case StatePartial, StateReviewed:
		staged.State = to
	case StateClosed:
		// A silent timeout records as auto; a close after an
		// acknowledge or review keeps the tag already set.
		if s.state == StateAuto {
			staged.State = StateAuto
		}
	}
	staged.ClosedAt = now
	if note != "" {
		staged.TomorrowNote = note
	}

	if err := s.save(staged); err != nil {
		s.saveErr = fmt.Errorf("save day close: %w", err)
		return s.saveErr
	}

	s.saveErr = nil
	s.record = staged
	s.state = to
	return nil
}
