package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"concesionaria-api/models"
)

// newTestDB opens a file-backed SQLite (modernc.org/sqlite) database per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: filepath.Join(t.TempDir(), "cars.db")}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	if err := db.AutoMigrate(&models.Car{}); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return db
}

func newCar(brand, model string, year int) *models.Car {
	return &models.Car{
		CarCode:     models.CarCode(brand, model),
		Brand:       brand,
		Model:       model,
		Description: brand + " " + model,
		Price:       20000,
		Km:          1000,
		Year:        year,
	}
}

func seedCars(t *testing.T, r CarRepository) {
	t.Helper()
	ctx := context.Background()
	for _, c := range []*models.Car{
		newCar("Toyota", "Corolla", 2022),
		newCar("Toyota", "Hilux", 2020),
		newCar("Ford", "Ranger", 2022),
		newCar("Volkswagen", "Golf", 2019),
	} {
		require.NoError(t, r.Create(ctx, c))
	}
}

func TestCarRepository_CreateDuplicateCode(t *testing.T) {
	r := NewCarRepository(newTestDB(t))
	ctx := context.Background()

	first := newCar("Toyota", "Corolla", 2022)
	require.NoError(t, r.Create(ctx, first))
	assert.NotZero(t, first.ID)

	err := r.Create(ctx, newCar("Toyota", "Corolla", 2023))
	assert.True(t, errors.Is(err, ErrDuplicateCode), "got %v", err)

	cars, err := r.List(ctx, models.CarFilter{Code: "toyota-corolla", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, cars, 1)
}

func TestCarRepository_GetByID_NotFound(t *testing.T) {
	r := NewCarRepository(newTestDB(t))

	_, err := r.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestCarRepository_ListFilters(t *testing.T) {
	r := NewCarRepository(newTestDB(t))
	seedCars(t, r)
	ctx := context.Background()
	year := 2022

	cars, err := r.List(ctx, models.CarFilter{Brand: "toyota", Year: &year, Limit: 100})
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "Corolla", cars[0].Model)

	cars, err = r.List(ctx, models.CarFilter{Search: "coro", Limit: 100})
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "toyota-corolla", cars[0].CarCode)

	cars, err = r.List(ctx, models.CarFilter{Search: "FORD", Limit: 100})
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "Ranger", cars[0].Model)

	cars, err = r.List(ctx, models.CarFilter{Model: "ol", Limit: 100})
	require.NoError(t, err)
	assert.Len(t, cars, 2) // Corolla, Golf

	cars, err = r.List(ctx, models.CarFilter{Brand: "%", Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, cars)
}

func TestCarRepository_ListPagination(t *testing.T) {
	r := NewCarRepository(newTestDB(t))
	seedCars(t, r)
	ctx := context.Background()

	page, err := r.List(ctx, models.CarFilter{Offset: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Hilux", page[0].Model)
	assert.Equal(t, "Ranger", page[1].Model)
}

func TestCarRepository_UpdatePartial(t *testing.T) {
	r := NewCarRepository(newTestDB(t))
	ctx := context.Background()
	car := newCar("Ford", "Ranger", 2021)
	require.NoError(t, r.Create(ctx, car))

	require.NoError(t, r.Update(ctx, car.ID, map[string]interface{}{"price": 31000.0}))

	got, err := r.GetByID(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, 31000.0, got.Price)
	assert.Equal(t, "Ranger", got.Model)
	assert.Equal(t, 2021, got.Year)
}

func TestCarRepository_UpdateWithUnchangedValues(t *testing.T) {
	r := NewCarRepository(newTestDB(t))
	ctx := context.Background()
	car := newCar("Ford", "Ranger", 2021)
	require.NoError(t, r.Create(ctx, car))

	same := map[string]interface{}{"price": car.Price, "year": car.Year}
	require.NoError(t, r.Update(ctx, car.ID, same))
	require.NoError(t, r.Update(ctx, car.ID, same))

	got, err := r.GetByID(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, car.Price, got.Price)
}

func TestCarRepository_UpdateToTakenCode(t *testing.T) {
	r := NewCarRepository(newTestDB(t))
	seedCars(t, r)
	ctx := context.Background()

	cars, err := r.List(ctx, models.CarFilter{Code: "toyota-hilux", Limit: 1})
	require.NoError(t, err)
	require.Len(t, cars, 1)

	err = r.Update(ctx, cars[0].ID, map[string]interface{}{"model": "Corolla", "car_code": "toyota-corolla"})
	assert.ErrorIs(t, err, ErrDuplicateCode)

	taken, err := r.CodeTaken(ctx, "toyota-corolla", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = r.CodeTaken(ctx, "toyota-hilux", cars[0].ID)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestCarRepository_DeleteRollsBackWhenReleaseFails(t *testing.T) {
	r := NewCarRepository(newTestDB(t))
	ctx := context.Background()
	car := newCar("Volkswagen", "Golf", 2019)
	require.NoError(t, r.Create(ctx, car))

	boom := errors.New("disk on fire")
	err := r.Delete(ctx, car.ID, func(*models.Car) error { return boom })
	assert.ErrorIs(t, err, boom)

	_, err = r.GetByID(ctx, car.ID)
	assert.NoError(t, err)

	var released *models.Car
	err = r.Delete(ctx, car.ID, func(c *models.Car) error {
		released = c
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, released)
	assert.Equal(t, car.ID, released.ID)

	_, err = r.GetByID(ctx, car.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	err = r.Delete(ctx, car.ID, nil)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
