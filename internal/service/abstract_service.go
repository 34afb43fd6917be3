package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/port"
)

// AbstractInput is the DTO for submitting or editing an abstract.
type AbstractInput struct {
	Title           string `json:"title" binding:"required"`
	PresenterName   string `json:"presenter_name" binding:"required"`
	InstitutionName string `json:"institution_name"`
	Category        string `json:"category" binding:"required"`
	Content         string `json:"abstract_content" binding:"required"`
	CoAuthors       string `json:"co_authors"`
	RegistrationID  string `json:"registration_id"`
}

// AbstractService defines the delegate-facing abstract contract.
type AbstractService interface {
	Submit(ctx context.Context, userID int64, input AbstractInput) (*domain.Abstract, error)
	ListMine(ctx context.Context, userID int64) ([]domain.Abstract, error)
	Get(ctx context.Context, id, actorID int64, role domain.UserRole) (*domain.Abstract, error)
	Update(ctx context.Context, id, userID int64, input AbstractInput) (*domain.Abstract, error)
	Delete(ctx context.Context, id, userID int64) error
	ListAll(ctx context.Context, filter domain.AbstractFilter) ([]domain.AbstractWithOwner, error)
	History(ctx context.Context, id int64) ([]domain.StatusHistoryEntry, error)
}

type abstractService struct {
	abstractRepo port.AbstractRepository
	now          func() time.Time
}

// NewAbstractService creates a new AbstractService implementation.
func NewAbstractService(abstractRepo port.AbstractRepository) AbstractService {
	return &abstractService{
		abstractRepo: abstractRepo,
		now:          time.Now,
	}
}

// NewAbstractNumber returns a public submission id: ABST-<unix-ms>-<5 chars>.
func NewAbstractNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:5]
	return fmt.Sprintf("ABST-%d-%s", at.UnixMilli(), suffix)
}

func validateAbstractInput(input *AbstractInput) error {
	verr := &domain.ValidationError{}
	input.Title = strings.TrimSpace(input.Title)
	input.PresenterName = strings.TrimSpace(input.PresenterName)
	input.Content = strings.TrimSpace(input.Content)
	input.Category = strings.TrimSpace(input.Category)

	if input.Title == "" {
		verr.Add("title", "is required")
	}
	if input.PresenterName == "" {
		verr.Add("presenter_name", "is required")
	}
	if input.Content == "" {
		verr.Add("abstract_content", "is required")
	}
	if !domain.ValidCategories[domain.Category(input.Category)] {
		verr.Add("category", domain.ErrInvalidCategory.Error())
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

func (s *abstractService) Submit(ctx context.Context, userID int64, input AbstractInput) (*domain.Abstract, error) {
	if err := validateAbstractInput(&input); err != nil {
		return nil, err
	}
	a := &domain.Abstract{
		UserID:          userID,
		AbstractNumber:  NewAbstractNumber(s.now()),
		Title:           input.Title,
		PresenterName:   input.PresenterName,
		InstitutionName: strings.TrimSpace(input.InstitutionName),
		Category:        domain.Category(input.Category),
		Content:         input.Content,
		CoAuthors:       strings.TrimSpace(input.CoAuthors),
		Status:          domain.StatusPending,
		RegistrationID:  strings.TrimSpace(input.RegistrationID),
	}
	if err := s.abstractRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *abstractService) ListMine(ctx context.Context, userID int64) ([]domain.Abstract, error) {
	return s.abstractRepo.ListByUser(ctx, userID)
}

func (s *abstractService) Get(ctx context.Context, id, actorID int64, role domain.UserRole) (*domain.Abstract, error) {
	a, err := s.abstractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin && a.UserID != actorID {
		return nil, domain.ErrForbidden
	}
	return a, nil
}

func (s *abstractService) Update(ctx context.Context, id, userID int64, input AbstractInput) (*domain.Abstract, error) {
	if err := validateAbstractInput(&input); err != nil {
		return nil, err
	}
	a := &domain.Abstract{
		ID:              id,
		UserID:          userID,
		Title:           input.Title,
		PresenterName:   input.PresenterName,
		InstitutionName: strings.TrimSpace(input.InstitutionName),
		Category:        domain.Category(input.Category),
		Content:         input.Content,
		CoAuthors:       strings.TrimSpace(input.CoAuthors),
	}
	if err := s.abstractRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	return s.abstractRepo.GetByID(ctx, id)
}

func (s *abstractService) Delete(ctx context.Context, id, userID int64) error {
	return s.abstractRepo.Delete(ctx, id, userID)
}

func (s *abstractService) ListAll(ctx context.Context, filter domain.AbstractFilter) ([]domain.AbstractWithOwner, error) {
	if filter.Status != "" && !domain.ValidAbstractStatuses[filter.Status] {
		return nil, domain.ErrInvalidStatus
	}
	if filter.Category != "" && !domain.ValidCategories[filter.Category] {
		return nil, domain.ErrInvalidCategory
	}
	return s.abstractRepo.ListWithOwners(ctx, filter)
}

func (s *abstractService) History(ctx context.Context, id int64) ([]domain.StatusHistoryEntry, error) {
	if _, err := s.abstractRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.abstractRepo.ListHistory(ctx, id)
}
