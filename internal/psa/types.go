package psa

// Certification mirrors the PascalCase payload returned by the PSA public
// cert API under the "PSACert" envelope.
type Certification struct {
	Brand                        string `json:"Brand"`
	CardGrade                    string `json:"CardGrade"`
	CardNumber                   string `json:"CardNumber"`
	Category                     string `json:"Category"`
	CertNumber                   string `json:"CertNumber"`
	GradeDescription             string `json:"GradeDescription"`
	IsDualCert                   bool   `json:"IsDualCert"`
	IsPSADNA                     bool   `json:"IsPSADNA"`
	LabelType                    string `json:"LabelType"`
	PopulationHigher             int    `json:"PopulationHigher"`
	ReverseBarCode               bool   `json:"ReverseBarCode"`
	SpecID                       int    `json:"SpecID"`
	SpecNumber                   string `json:"SpecNumber"`
	Subject                      string `json:"Subject"`
	TotalPopulation              int    `json:"TotalPopulation"`
	TotalPopulationWithQualifier int    `json:"TotalPopulationWithQualifier"`
	Variety                      string `json:"Variety"`
	Year                         string `json:"Year"`
}

type certEnvelope struct {
	PSACert *Certification `json:"PSACert"`
}
