package bot

import (
	"sync"

	"orderdesk/internal/domain"
)

type Step string

const (
	StepIdle      Step = "idle"
	StepFirstName Step = "first_name"
	StepLastName  Step = "last_name"
	StepPhone     Step = "phone"
	StepCity      Step = "city"
	StepComment   Step = "comment"
	StepConfirm   Step = "confirm"
	StepPayment   Step = "payment"
	StepProof     Step = "proof"

	// StepTracking is the staff side: waiting for a waybill number.
	StepTracking Step = "tracking"
)

// PreSubmission reports whether the step belongs to a customer draft that
// has not been handed to staff yet.
func (s Step) PreSubmission() bool {
	switch s {
	case StepFirstName, StepLastName, StepPhone, StepCity, StepComment, StepConfirm, StepPayment, StepProof:
		return true
	}
	return false
}

type Session struct {
	UserID int64
	Step   Step
	Draft  *domain.Order

	// TrackingOrderID is the order a staff member is attaching a waybill to.
	TrackingOrderID string
}

type SessionStore interface {
	// Get returns the session for userID, or a fresh idle one that is not
	// stored until Save.
	Get(userID int64) *Session
	Save(session *Session)
	Delete(userID int64)
}

type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[int64]*Session)}
}

func (s *MemorySessionStore) Get(userID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[userID]; ok {
		return session
	}
	return &Session{UserID: userID, Step: StepIdle}
}

func (s *MemorySessionStore) Save(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.UserID] = session
}

func (s *MemorySessionStore) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
