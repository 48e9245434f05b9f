package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/destiny/schema"
)

// ErrMissingSelection is returned when evaluation is requested before both signs are chosen.
var ErrMissingSelection = errors.New("both signs must be selected")

// ErrNoResult is returned when an action needs a result that has not been produced yet.
var ErrNoResult = errors.New("no compatibility result yet")

// Slot identifies one of the two selectors.
type Slot int

// Selector slots.
const (
	SlotA Slot = iota
	SlotB
)

// String returns the slot name used on the command line.
func (s Slot) String() string {
	if s == SlotB {
		return "b"
	}
	return "a"
}

// ParseSlot parses "a" or "b" (case-insensitive).
func ParseSlot(s string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a":
		return SlotA, nil
	case "b":
		return SlotB, nil
	default:
		return SlotA, fmt.Errorf("invalid slot '%s'. must be a or b", s)
	}
}

// Session is the interactive state: two optional selections and the displayed result.
// It is owned by a single caller and is not safe for concurrent use.
type Session struct {
	id             string
	signA          *int
	signB          *int
	result         *schema.PredictionResult
	predictionUUID string
	updatedAt      time.Time
}

// NewSession returns an empty session with a fresh ID.
func NewSession() *Session {
	return &Session{id: uuid.NewString(), updatedAt: time.Now()}
}

// SessionFromSnapshot restores a session from its stored form.
func SessionFromSnapshot(snap schema.Session) *Session {
	s := &Session{
		id:             snap.SessionID,
		signA:          copyInt(snap.SignA),
		signB:          copyInt(snap.SignB),
		predictionUUID: snap.PredictionUUID,
		updatedAt:      snap.UpdatedAt,
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if snap.Result != nil {
		r := *snap.Result
		s.result = &r
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Select sets one selector. Any displayed result is cleared.
func (s *Session) Select(slot Slot, id int) {
	v := id
	if slot == SlotB {
		s.signB = &v
	} else {
		s.signA = &v
	}
	s.clearResult()
}

// Selection returns the sign id chosen for slot, if any.
func (s *Session) Selection(slot Slot) (int, bool) {
	p := s.signA
	if slot == SlotB {
		p = s.signB
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Ready reports whether both selectors are set.
func (s *Session) Ready() bool {
	return s.signA != nil && s.signB != nil
}

// Evaluate scores the current selection and stores the result.
// The evaluator is not invoked when a selection is missing.
func (s *Session) Evaluate(ev *Evaluator) (schema.PredictionResult, error) {
	if !s.Ready() {
		return schema.PredictionResult{}, ErrMissingSelection
	}
	r := ev.Evaluate(*s.signA, *s.signB)
	s.result = &r
	s.predictionUUID = ""
	s.touch()
	return r, nil
}

// Result returns the displayed result, if any.
func (s *Session) Result() (schema.PredictionResult, bool) {
	if s.result == nil {
		return schema.PredictionResult{}, false
	}
	return *s.result, true
}

// PredictionUUID links the displayed result to its history record.
func (s *Session) PredictionUUID() string {
	return s.predictionUUID
}

// SetPredictionUUID records the history link for the displayed result.
func (s *Session) SetPredictionUUID(id string) {
	s.predictionUUID = id
}

// Reset clears both selections and the result.
func (s *Session) Reset() {
	s.signA = nil
	s.signB = nil
	s.clearResult()
}

// IsHighScore reports whether the displayed result warrants celebration.
func (s *Session) IsHighScore() bool {
	return s.result != nil && s.result.IsHighScore()
}

// IsLowScore reports whether the displayed result warrants a warning.
func (s *Session) IsLowScore() bool {
	return s.result != nil && s.result.IsLowScore()
}

// Snapshot returns the storable form of the session.
func (s *Session) Snapshot() schema.Session {
	snap := schema.Session{
		SessionID:      s.id,
		SignA:          copyInt(s.signA),
		SignB:          copyInt(s.signB),
		PredictionUUID: s.predictionUUID,
		UpdatedAt:      s.updatedAt,
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap
}

func (s *Session) clearResult() {
	s.result = nil
	s.predictionUUID = ""
	s.touch()
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
