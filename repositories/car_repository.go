// File: /repositories/car_repository.go
package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"concesionaria-api/models"
)

var (
	// ErrRecordNotFound is returned when no car has the requested id.
	ErrRecordNotFound = errors.New("car not found")
	// ErrDuplicateCode is returned when a write would break the car_code unique index.
	ErrDuplicateCode = errors.New("car code already exists")
)

// CarRepository is the storage contract the car service depends on.
type CarRepository interface {
	Create(ctx context.Context, car *models.Car) error
	GetByID(ctx context.Context, id uint) (*models.Car, error)
	// CodeTaken reports whether another car (id != exceptID) uses code.
	CodeTaken(ctx context.Context, code string, exceptID uint) (bool, error)
	List(ctx context.Context, filter models.CarFilter) ([]models.Car, error)
	// Update writes only the given columns of car id. Callers check that the
	// car exists first.
	Update(ctx context.Context, id uint, updates map[string]interface{}) error
	// Delete removes car id. release runs inside the same transaction after
	// the row is gone; an error from it rolls the delete back.
	Delete(ctx context.Context, id uint, release func(car *models.Car) error) error
}

type carRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) Create(ctx context.Context, car *models.Car) error {
	if err := r.db.WithContext(ctx).Create(car).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *carRepository) GetByID(ctx context.Context, id uint) (*models.Car, error) {
	var car models.Car
	if err := r.db.WithContext(ctx).First(&car, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &car, nil
}

func (r *carRepository) CodeTaken(ctx context.Context, code string, exceptID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Car{}).Where("car_code = ?", code)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *carRepository) List(ctx context.Context, filter models.CarFilter) ([]models.Car, error) {
	query := r.db.WithContext(ctx).Model(&models.Car{})

	if filter.Code != "" {
		query = query.Where("car_code = ?", filter.Code)
	}
	if filter.Brand != "" {
		query = query.Where("LOWER(brand) LIKE ? ESCAPE '!'", containsPattern(filter.Brand))
	}
	if filter.Model != "" {
		query = query.Where("LOWER(model) LIKE ? ESCAPE '!'", containsPattern(filter.Model))
	}
	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		query = query.Where("(LOWER(brand) LIKE ? ESCAPE '!' OR LOWER(model) LIKE ? ESCAPE '!')", pattern, pattern)
	}

	cars := make([]models.Car, 0)
	err := query.Order("id ASC").Offset(filter.Offset).Limit(filter.Limit).Find(&cars).Error
	if err != nil {
		return nil, err
	}
	return cars, nil
}

func (r *carRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	// A missing id is not reported here. MySQL counts changed rows only.
	err := r.db.WithContext(ctx).Model(&models.Car{ID: id}).Updates(updates).Error
	return translateError(err)
}

func (r *carRepository) Delete(ctx context.Context, id uint, release func(car *models.Car) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var car models.Car
		if err := tx.First(&car, id).Error; err != nil {
			return translateError(err)
		}
		if err := tx.Delete(&car).Error; err != nil {
			return err
		}
		if release != nil {
			return release(&car)
		}
		return nil
	})
}

// containsPattern builds a lower-cased LIKE pattern; '!' escapes wildcards.
func containsPattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
	return "%" + s + "%"
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case isUniqueViolation(err):
		return ErrDuplicateCode
	}
	return err
}

// isUniqueViolation recognizes unique index failures. gorm translates them for
// mysql and postgres; the modernc sqlite driver is matched by message.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}
