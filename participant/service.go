package participant

import (
	"github.com/eben2468/srcwebsite-sub008/auth"
	"github.com/eben2468/srcwebsite-sub008/errs"
	"github.com/google/uuid"
)

type Repository interface {
	Attach(sessionID uuid.UUID, userID int64, role string) (*Participant, error)
	Detach(sessionID uuid.UUID, userID int64) error
	List(sessionID uuid.UUID) ([]Participant, error)
	SessionCustomer(sessionID uuid.UUID) (int64, error)
}

type ParticipantService struct {
	repo Repository
}

func NewParticipantService(repo Repository) *ParticipantService {
	return &ParticipantService{repo: repo}
}

func (s *ParticipantService) Attach(sessionID uuid.UUID, userID int64, role string) (*Participant, error) {
	if !ValidRole(role) {
		return nil, errs.Ef(errs.KindValidation, "unknown participant role %q", role)
	}
	return s.repo.Attach(sessionID, userID, role)
}

// Join attaches the acting user under their own role; supervisors join as
// silent observers, which never touches agent capacity.
func (s *ParticipantService) Join(actor auth.CurrentUser, sessionID uuid.UUID) (*Participant, error) {
	if !actor.IsStaff() {
		return nil, errs.E(errs.KindValidation, "only staff can join an existing session")
	}
	return s.repo.Attach(sessionID, actor.ID, actor.Role)
}

func (s *ParticipantService) Leave(actor auth.CurrentUser, sessionID uuid.UUID) error {
	return s.repo.Detach(sessionID, actor.ID)
}

func (s *ParticipantService) List(actor auth.CurrentUser, sessionID uuid.UUID) ([]Participant, error) {
	if !actor.IsStaff() {
		customerID, err := s.repo.SessionCustomer(sessionID)
		if err != nil {
			return nil, err
		}
		if customerID != actor.ID {
			return nil, errs.E(errs.KindNotFound, "session not found")
		}
	}
	return s.repo.List(sessionID)
}
