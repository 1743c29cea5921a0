// File: /models/car.go
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Car is the persisted vehicle record.
type Car struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	CarCode        string    `json:"car_code" gorm:"column:car_code;not null;size:120;uniqueIndex:uq_car_code"`
	Brand          string    `json:"brand" gorm:"not null;size:50"`
	Model          string    `json:"model" gorm:"not null;size:50"`
	Description    string    `json:"description" gorm:"type:text;not null"`
	Price          float64   `json:"price" gorm:"not null"`
	PromotionPrice *float64  `json:"promotion_price"`
	Km             int       `json:"km" gorm:"not null"`
	Year           int       `json:"year" gorm:"not null;index"`
	Image          *string   `json:"image" gorm:"size:255"` // filename under <static>/images
	Features       JSONBlob  `json:"features"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Car) TableName() string {
	return "car"
}

// CarFeatures are the optional equipment details of a car.
type CarFeatures struct {
	FuelType        *string `json:"fuel_type,omitempty"`    // Nafta, Diésel, Eléctrico, Híbrido
	Transmission    *string `json:"transmission,omitempty"` // Manual, Automática, CVT
	BodyType        *string `json:"body_type,omitempty"`    // Sedán, Hatchback, SUV, Pickup
	Passengers      *int    `json:"passengers,omitempty" validate:"omitempty,min=1,max=9"`
	Doors           *int    `json:"doors,omitempty" validate:"omitempty,min=2,max=5"`
	AirConditioning *bool   `json:"air_conditioning,omitempty"`
	Airbags         *int    `json:"airbags,omitempty" validate:"omitempty,min=0"`
	ABS             *bool   `json:"abs,omitempty"`
}

// CarCode derives the business key of a car from its brand and model.
func CarCode(brand, model string) string {
	return strings.ToLower(strings.TrimSpace(brand)) + "-" + strings.ToLower(strings.TrimSpace(model))
}

// EncodeFeatures serializes features for storage. nil stays nil.
func EncodeFeatures(f *CarFeatures) (JSONBlob, error) {
	if f == nil {
		return nil, nil
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return JSONBlob(data), nil
}

// DecodeFeatures reads a stored blob. Empty or malformed blobs decode to nil.
func DecodeFeatures(blob JSONBlob) *CarFeatures {
	if blob.IsEmpty() {
		return nil
	}
	var f CarFeatures
	if err := json.Unmarshal(blob, &f); err != nil {
		return nil
	}
	return &f
}

// CarView is the display form of a car returned to API clients.
type CarView struct {
	ID             uint         `json:"id"`
	CarCode        string       `json:"car_code"`
	Brand          string       `json:"brand"`
	Model          string       `json:"model"`
	Description    string       `json:"description"`
	Price          float64      `json:"price"`
	PromotionPrice *float64     `json:"promotion_price"`
	Km             int          `json:"km"`
	Year           int          `json:"year"`
	Image          *string      `json:"image"`
	Features       *CarFeatures `json:"features"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// CreateCarRequest is the input of a car creation. Image is the URL the
// picture is downloaded from.
type CreateCarRequest struct {
	Brand          string       `json:"brand" validate:"required,min=1,max=50"`
	Model          string       `json:"model" validate:"required,min=1,max=50"`
	Description    string       `json:"description" validate:"required"`
	Price          float64      `json:"price" validate:"gt=0"`
	PromotionPrice *float64     `json:"promotion_price" validate:"omitempty,gt=0"`
	Km             *int         `json:"km" validate:"required,min=0"`
	Year           int          `json:"year" validate:"required,min=1886,max=2100"`
	Image          *string      `json:"image" validate:"omitempty,url"`
	Features       *CarFeatures `json:"features"`
}

// UpdateCarRequest carries a sparse update: nil fields are left untouched.
type UpdateCarRequest struct {
	Brand          *string      `json:"brand" validate:"omitempty,min=1,max=50"`
	Model          *string      `json:"model" validate:"omitempty,min=1,max=50"`
	Description    *string      `json:"description" validate:"omitempty,min=1"`
	Price          *float64     `json:"price" validate:"omitempty,gt=0"`
	PromotionPrice *float64     `json:"promotion_price" validate:"omitempty,gt=0"`
	Km             *int         `json:"km" validate:"omitempty,min=0"`
	Year           *int         `json:"year" validate:"omitempty,min=1886,max=2100"`
	Image          *string      `json:"image" validate:"omitempty,url"`
	Features       *CarFeatures `json:"features"`
}

// CarFilter selects cars in a list query. Zero values mean "no filter".
type CarFilter struct {
	Code   string
	Brand  string
	Model  string
	Year   *int
	Search string // matches brand or model
	Offset int
	Limit  int
}
