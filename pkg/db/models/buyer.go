package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Buyer is a directory entry orders are written against.
type Buyer struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	PrimaryContact string    `gorm:"column:primary_contact" json:"primary_contact"`
	Email          string    `gorm:"column:email" json:"email"`
	Phone          *string   `gorm:"column:phone" json:"phone,omitempty"`
	Address        *string   `gorm:"column:address" json:"address,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Buyer) TableName() string { return "buyers" }

func (b *Buyer) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
