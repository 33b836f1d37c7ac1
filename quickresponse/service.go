package quickresponse

import (
	"strings"

	"github.com/eben2468/srcwebsite-sub008/auth"
	"github.com/eben2468/srcwebsite-sub008/errs"
)

type Repository interface {
	List(category string) ([]QuickResponse, error)
	GetByID(id int) (*QuickResponse, error)
	Create(qr *QuickResponse) error
	Update(qr *QuickResponse) error
	Delete(id int) error
}

type QuickResponseService struct {
	repo Repository
}

func NewQuickResponseService(repo Repository) *QuickResponseService {
	return &QuickResponseService{repo: repo}
}

func (s *QuickResponseService) List(actor auth.CurrentUser, category string) ([]QuickResponse, error) {
	if !actor.IsStaff() {
		return nil, errs.E(errs.KindValidation, "quick responses are staff-only")
	}
	return s.repo.List(strings.ToLower(strings.TrimSpace(category)))
}

func (s *QuickResponseService) Create(actor auth.CurrentUser, category, title, message string) (*QuickResponse, error) {
	if err := s.validate(actor, category, title, message); err != nil {
		return nil, err
	}

	qr := &QuickResponse{
		Category: strings.ToLower(strings.TrimSpace(category)),
		Title:    strings.TrimSpace(title),
		Message:  strings.TrimSpace(message),
	}
	if err := s.repo.Create(qr); err != nil {
		return nil, err
	}
	return qr, nil
}

func (s *QuickResponseService) Update(actor auth.CurrentUser, id int, category, title, message string) (*QuickResponse, error) {
	if err := s.validate(actor, category, title, message); err != nil {
		return nil, err
	}

	qr, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	qr.Category = strings.ToLower(strings.TrimSpace(category))
	qr.Title = strings.TrimSpace(title)
	qr.Message = strings.TrimSpace(message)
	if err := s.repo.Update(qr); err != nil {
		return nil, err
	}
	return qr, nil
}

func (s *QuickResponseService) Delete(actor auth.CurrentUser, id int) error {
	if actor.Role != auth.RoleSupervisor {
		return errs.E(errs.KindValidation, "catalog changes are supervisor-only")
	}
	return s.repo.Delete(id)
}

func (s *QuickResponseService) validate(actor auth.CurrentUser, category, title, message string) error {
	if actor.Role != auth.RoleSupervisor {
		return errs.E(errs.KindValidation, "catalog changes are supervisor-only")
	}
	if strings.TrimSpace(category) == "" {
		return errs.E(errs.KindValidation, "category is required")
	}
	if strings.TrimSpace(title) == "" {
		return errs.E(errs.KindValidation, "title is required")
	}
	if strings.TrimSpace(message) == "" {
		return errs.E(errs.KindValidation, "message is required")
	}
	return nil
}
