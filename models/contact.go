// File: /models/contact.go
package models

// CarContactData identifies the car a contact request is about.
type CarContactData struct {
	Code  string  `json:"code" validate:"required,min=1,max=100"`
	Brand string  `json:"brand" validate:"required,min=1,max=50"`
	Model string  `json:"model" validate:"required,min=1,max=50"`
	Year  int     `json:"year" validate:"required,min=1886,max=2100"`
	Km    int     `json:"km" validate:"min=0"`
	Price float64 `json:"price" validate:"gt=0"`
	Img   *string `json:"img"`
}

// ContactRequest is what the website contact form posts.
type ContactRequest struct {
	ContactName    string          `json:"contact_name" validate:"required,min=1,max=100"`
	ContactEmail   string          `json:"contact_email" validate:"required,email"`
	ContactMessage string          `json:"contact_message" validate:"required,min=1"`
	CarData        *CarContactData `json:"car_data"`
	PlanData       *FinancingPlan  `json:"plan_data"`
}
