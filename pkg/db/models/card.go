package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jyl33/cardscanner-backend/pkg/enums"
	"github.com/jyl33/cardscanner-backend/pkg/types"
)

// Card is one graded card in inventory, keyed externally by its PSA
// certification number. The cert number doubles as the de-dup key when
// scanning.
type Card struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CertNumber       string           `gorm:"column:cert_number;not null;uniqueIndex:uq_cards_cert_number" json:"cert_number"`
	Year             string           `gorm:"column:year" json:"year"`
	Brand            string           `gorm:"column:brand" json:"brand"`
	Subject          string           `gorm:"column:subject" json:"subject"`
	CardNumber       string           `gorm:"column:card_number" json:"card_number"`
	Category         string           `gorm:"column:category" json:"category"`
	Variety          *string          `gorm:"column:variety" json:"variety,omitempty"`
	Grade            string           `gorm:"column:card_grade" json:"card_grade"`
	GradeDescription *string          `gorm:"column:grade_description" json:"grade_description,omitempty"`
	LabelType        *string          `gorm:"column:label_type" json:"label_type,omitempty"`
	SpecNumber       *string          `gorm:"column:spec_number" json:"spec_number,omitempty"`
	TotalPopulation  int              `gorm:"column:total_population;not null;default:0" json:"total_population"`
	PopulationHigher int              `gorm:"column:population_higher;not null;default:0" json:"population_higher"`
	IsDualCert       bool             `gorm:"column:is_dual_cert;not null;default:false" json:"is_dual_cert"`
	IsPSADNA         bool             `gorm:"column:is_psa_dna;not null;default:false" json:"is_psa_dna"`
	ReverseBarCode   bool             `gorm:"column:reverse_bar_code;not null;default:false" json:"reverse_bar_code"`
	Cost             types.Money      `gorm:"column:cost;type:numeric(12,2)" json:"cost"`
	Value            types.Money      `gorm:"column:value;type:numeric(12,2)" json:"value"`
	Status           enums.CardStatus `gorm:"column:status;not null;default:'In Stock'" json:"status"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Card) TableName() string { return "cards" }

func (c *Card) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = enums.CardStatusInStock
	}
	return nil
}

// DisplayName builds the human-facing card title used in order snapshots.
func (c Card) DisplayName() string {
	if c.Year == "" || c.Brand == "" || c.Subject == "" {
		return "Unknown Card"
	}
	return c.Year + " " + c.Brand + " " + c.Subject
}
