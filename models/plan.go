// File: /models/plan.go
package models

// FinancingPlan is a financing offer the customer asked about.
type FinancingPlan struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Rate        string `json:"rate" validate:"required,min=1,max=20"`
	RateLabel   string `json:"rateLabel" validate:"required,min=1,max=50"`
	Months      int    `json:"months" validate:"gt=0,max=360"`
	DownPayment int    `json:"downPayment" validate:"min=0,max=100"`
}
