package buyers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jyl33/cardscanner-backend/pkg/db/models"
	pkgerrors "github.com/jyl33/cardscanner-backend/pkg/errors"
)

// Service is the buyer directory surface the API layer consumes.
type Service interface {
	List(ctx context.Context) ([]models.Buyer, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Buyer, error)
	Create(ctx context.Context, input CreateInput) (*models.Buyer, error)
}

// CreateInput carries the fields accepted when registering a buyer.
type CreateInput struct {
	Name           string
	PrimaryContact string
	Email          string
	Phone          *string
	Address        *string
}

type service struct {
	repo BuyerRepository
}

// NewService wires the buyer directory service.
func NewService(repo BuyerRepository) (Service, error) {
	if repo == nil {
		return nil, errors.New("buyers: repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.Buyer, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list buyers")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Buyer, error) {
	buyer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "buyer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load buyer")
	}
	return buyer, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Buyer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer name is required")
	}

	buyer := &models.Buyer{
		Name:           name,
		PrimaryContact: strings.TrimSpace(input.PrimaryContact),
		Email:          strings.TrimSpace(input.Email),
		Phone:          input.Phone,
		Address:        input.Address,
	}
	created, err := s.repo.Create(ctx, buyer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create buyer")
	}
	return created, nil
}
