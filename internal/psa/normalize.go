package psa

import (
	"github.com/jyl33/cardscanner-backend/pkg/db/models"
	"github.com/jyl33/cardscanner-backend/pkg/enums"
)

// Normalize maps a PSA certification payload onto an inventory card. Empty
// optional fields stay NULL rather than empty strings.
func Normalize(cert *Certification) *models.Card {
	if cert == nil {
		return nil
	}
	card := &models.Card{
		CertNumber:       cert.CertNumber,
		Year:             cert.Year,
		Brand:            cert.Brand,
		Subject:          cert.Subject,
		CardNumber:       cert.CardNumber,
		Category:         cert.Category,
		Grade:            cert.CardGrade,
		TotalPopulation:  cert.TotalPopulation,
		PopulationHigher: cert.PopulationHigher,
		IsDualCert:       cert.IsDualCert,
		IsPSADNA:         cert.IsPSADNA,
		ReverseBarCode:   cert.ReverseBarCode,
		Status:           enums.CardStatusInStock,
	}
	card.Variety = optional(cert.Variety)
	card.GradeDescription = optional(cert.GradeDescription)
	card.LabelType = optional(cert.LabelType)
	card.SpecNumber = optional(cert.SpecNumber)
	return card
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
