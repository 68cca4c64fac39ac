package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"cloudpanel/internal/models"
)

// supportSnapshot is the persisted shape of the support store.
type supportSnapshot struct {
	Tickets           []models.Ticket           `json:"tickets"`
	PredefinedAnswers []models.PredefinedAnswer `json:"predefined_answers"`
}

// TicketInput carries the fields a submitter provides for a new ticket.
type TicketInput struct {
	ServerName          string
	Email               string
	ProblemType         string
	ProblemDate         string
	UrgencyLevel        models.UrgencyLevel
	Details             string
	IsAutomaticQuestion bool
}

// SupportStore holds support tickets and the predefined Q&A catalog.
// Tickets keep insertion order; queries return fresh slices.
type SupportStore struct {
	mu      sync.RWMutex
	tickets []models.Ticket
	answers []models.PredefinedAnswer
	snaps   Snapshotter
	now     func() time.Time
}

// NewSupportStore rehydrates from the support slot when a snapshotter is
// provided.
func NewSupportStore(snaps Snapshotter) (*SupportStore, error) {
	s := &SupportStore{snaps: snaps, now: time.Now}
	if snaps != nil {
		var snap supportSnapshot
		if err := snaps.Load(SlotSupport, &snap); err != nil {
			return nil, err
		}
		s.tickets = snap.Tickets
		s.answers = snap.PredefinedAnswers
	}
	return s, nil
}

func (s *SupportStore) persistLocked() {
	if s.snaps == nil {
		return
	}
	_ = s.snaps.Save(SlotSupport, supportSnapshot{Tickets: s.tickets, PredefinedAnswers: s.answers})
}

// AddTicket creates an open ticket with a fresh id and timestamps.
// Always succeeds; validation happens at the handler boundary.
func (s *SupportStore) AddTicket(in TicketInput) models.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	t := models.Ticket{
		ID:                  uuid.NewString(),
		ServerName:          in.ServerName,
		Email:               in.Email,
		ProblemType:         in.ProblemType,
		ProblemDate:         in.ProblemDate,
		UrgencyLevel:        in.UrgencyLevel,
		Details:             in.Details,
		Status:              models.TicketOpen,
		CreatedAt:           now,
		UpdatedAt:           now,
		IsAutomaticQuestion: in.IsAutomaticQuestion,
	}
	s.tickets = append(s.tickets, t)
	s.persistLocked()
	return t
}

// RespondToTicket records an admin response and closes the ticket.
// A missing id leaves the ticket list untouched and reports NotFound.
func (s *SupportStore) RespondToTicket(id, response, adminID, adminName, adminEmail string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tickets {
		if s.tickets[i].ID != id {
			continue
		}
		s.tickets[i].Response = response
		s.tickets[i].AdminID = adminID
		s.tickets[i].AdminName = adminName
		s.tickets[i].AdminEmail = adminEmail
		s.tickets[i].Status = models.TicketClosed
		s.tickets[i].UpdatedAt = s.now()
		s.persistLocked()
		return Updated
	}
	return NotFound
}

// SendAutomaticResponse closes a ticket with predefined answer text and no
// admin identity. If either the answer or the ticket is missing the entire
// operation is a no-op.
func (s *SupportStore) SendAutomaticResponse(ticketID, answerID string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	var answer *models.PredefinedAnswer
	for i := range s.answers {
		if s.answers[i].ID == answerID {
			answer = &s.answers[i]
			break
		}
	}
	if answer == nil {
		return NotFound
	}
	for i := range s.tickets {
		if s.tickets[i].ID != ticketID {
			continue
		}
		s.tickets[i].Response = answer.Answer
		s.tickets[i].Status = models.TicketClosed
		s.tickets[i].UpdatedAt = s.now()
		s.persistLocked()
		return Updated
	}
	return NotFound
}

// CloseTicket marks a ticket closed without recording a response.
func (s *SupportStore) CloseTicket(id string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tickets {
		if s.tickets[i].ID == id {
			s.tickets[i].Status = models.TicketClosed
			s.tickets[i].UpdatedAt = s.now()
			s.persistLocked()
			return Updated
		}
	}
	return NotFound
}

// DeleteTicket removes a ticket by id.
func (s *SupportStore) DeleteTicket(id string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tickets {
		if s.tickets[i].ID == id {
			s.tickets = append(s.tickets[:i], s.tickets[i+1:]...)
			s.persistLocked()
			return Updated
		}
	}
	return NotFound
}

// ClearClosedTickets drops every closed ticket and returns how many were
// removed. Idempotent.
func (s *SupportStore) ClearClosedTickets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.tickets[:0]
	removed := 0
	for _, t := range s.tickets {
		if t.Status == models.TicketClosed {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.tickets = kept
	if removed > 0 {
		s.persistLocked()
	}
	return removed
}

// AddPredefinedAnswer creates an FAQ entry with a fresh id.
func (s *SupportStore) AddPredefinedAnswer(question, answer string) models.PredefinedAnswer {
	s.mu.Lock()
	defer s.mu.Unlock()
	pa := models.PredefinedAnswer{ID: uuid.NewString(), Question: question, Answer: answer}
	s.answers = append(s.answers, pa)
	s.persistLocked()
	return pa
}

// DeletePredefinedAnswer removes an FAQ entry by id.
func (s *SupportStore) DeletePredefinedAnswer(id string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.answers {
		if s.answers[i].ID == id {
			s.answers = append(s.answers[:i], s.answers[i+1:]...)
			s.persistLocked()
			return Updated
		}
	}
	return NotFound
}

// PredefinedAnswers returns a snapshot copy of the FAQ catalog.
func (s *SupportStore) PredefinedAnswers() []models.PredefinedAnswer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PredefinedAnswer, len(s.answers))
	copy(out, s.answers)
	return out
}

// Tickets returns a snapshot copy of all tickets in insertion order.
func (s *SupportStore) Tickets() []models.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Ticket, len(s.tickets))
	copy(out, s.tickets)
	return out
}

// OpenTickets returns the open tickets as a new slice, insertion order.
func (s *SupportStore) OpenTickets() []models.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Ticket
	for _, t := range s.tickets {
		if t.Status == models.TicketOpen {
			out = append(out, t)
		}
	}
	return out
}

// TicketsByEmail returns the tickets submitted under an email, insertion
// order. Ownership scoping is by convention; callers re-sort for history
// views.
func (s *SupportStore) TicketsByEmail(email string) []models.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Ticket
	for _, t := range s.tickets {
		if t.Email == email {
			out = append(out, t)
		}
	}
	return out
}

// TicketByID returns a copy of a ticket.
func (s *SupportStore) TicketByID(id string) (models.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tickets {
		if t.ID == id {
			return t, true
		}
	}
	return models.Ticket{}, false
}
