package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jyl33/cardscanner-backend/pkg/types"
)

// OrderItem snapshots one card at the moment it was sold.
type OrderItem struct {
	ID        uuid.UUID   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID   `gorm:"column:order_id;type:uuid;not null" json:"order_id"`
	CardID    uuid.UUID   `gorm:"column:card_id;type:uuid;not null" json:"card_id"`
	CardName  string      `gorm:"column:card_name;not null" json:"card_name"`
	CardGrade string      `gorm:"column:card_grade;not null" json:"card_grade"`
	Price     types.Money `gorm:"column:price;type:numeric(12,2)" json:"price"`
	Value     types.Money `gorm:"column:value;type:numeric(12,2)" json:"value"`
	Quantity  int         `gorm:"column:quantity;not null;default:1" json:"quantity"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }

func (i *OrderItem) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
