package cards

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jyl33/cardscanner-backend/pkg/db/models"
	"github.com/jyl33/cardscanner-backend/pkg/enums"
)

// CardRepository defines persistence operations for inventory cards.
type CardRepository interface {
	ListAll(context.Context) ([]models.Card, error)
	ListByStatus(context.Context, enums.CardStatus) ([]models.Card, error)
	GetByCertNumber(context.Context, string) (*models.Card, error)
	FindByID(context.Context, uuid.UUID) (*models.Card, error)
	Create(context.Context, *models.Card) (*models.Card, error)
	UpdateStatus(context.Context, uuid.UUID, enums.CardStatus) error
	DeleteByCertNumber(context.Context, string) error
}

// Repository is the GORM-backed card store.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListAll returns the full collection, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Card, error) {
	var cards []models.Card
	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// ListByStatus returns cards in the given status, newest first.
func (r *Repository) ListByStatus(ctx context.Context, status enums.CardStatus) ([]models.Card, error) {
	var cards []models.Card
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC, id DESC").
		Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// GetByCertNumber loads one card by its certification number. Returns
// (nil, nil) when no card matches.
func (r *Repository) GetByCertNumber(ctx context.Context, certNumber string) (*models.Card, error) {
	var card models.Card
	err := r.db.WithContext(ctx).First(&card, "cert_number = ?", certNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// FindByID loads one card by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	var card models.Card
	if err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// Create inserts a new card row.
func (r *Repository) Create(ctx context.Context, card *models.Card) (*models.Card, error) {
	if err := r.db.WithContext(ctx).Create(card).Error; err != nil {
		return nil, err
	}
	return card, nil
}

// UpdateStatus transitions the card's sales status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CardStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Card{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByCertNumber removes the card with the given certification number.
func (r *Repository) DeleteByCertNumber(ctx context.Context, certNumber string) error {
	result := r.db.WithContext(ctx).
		Where("cert_number = ?", certNumber).
		Delete(&models.Card{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
