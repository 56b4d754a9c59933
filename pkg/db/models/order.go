package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jyl33/cardscanner-backend/pkg/enums"
	"github.com/jyl33/cardscanner-backend/pkg/types"
)

// Order is the header record for a submitted sale. Quantity reflects the
// selection size at submission time even when some line items failed; the
// status column flags that case instead of mutating the count.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	BuyerID     uuid.UUID         `gorm:"column:buyer_id;type:uuid;not null" json:"buyer_id"`
	BuyerName   string            `gorm:"column:buyer_name;not null" json:"buyer_name"`
	OrderNumber string            `gorm:"column:order_number;not null" json:"order_number"`
	TotalCost   types.Money       `gorm:"column:total_cost;type:numeric(12,2)" json:"total_cost"`
	Quantity    int               `gorm:"column:quantity;not null" json:"quantity"`
	Status      enums.OrderStatus `gorm:"column:status;not null;default:'complete'" json:"status"`
	OrderDate   time.Time         `gorm:"column:order_date;not null" json:"order_date"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now().UTC()
	}
	return nil
}
