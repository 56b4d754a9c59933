package buyers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jyl33/cardscanner-backend/pkg/db/models"
)

// BuyerRepository exposes the buyer directory.
type BuyerRepository interface {
	ListAll(context.Context) ([]models.Buyer, error)
	FindByID(context.Context, uuid.UUID) (*models.Buyer, error)
	Create(context.Context, *models.Buyer) (*models.Buyer, error)
}

// Repository is the GORM-backed buyer directory.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAll returns every buyer ordered by name.
func (r *Repository) ListAll(ctx context.Context) ([]models.Buyer, error) {
	var buyers []models.Buyer
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&buyers).Error; err != nil {
		return nil, err
	}
	return buyers, nil
}

// FindByID loads one buyer.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Buyer, error) {
	var buyer models.Buyer
	if err := r.db.WithContext(ctx).First(&buyer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &buyer, nil
}

// Create inserts a new buyer row.
func (r *Repository) Create(ctx context.Context, buyer *models.Buyer) (*models.Buyer, error) {
	if err := r.db.WithContext(ctx).Create(buyer).Error; err != nil {
		return nil, err
	}
	return buyer, nil
}
