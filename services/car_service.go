// File: /services/car_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"

	"go.uber.org/zap"

	"concesionaria-api/models"
	"concesionaria-api/repositories"
	"concesionaria-api/utils"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// ImageArtifacts is where normalized images live. *ImageStore implements it.
type ImageArtifacts interface {
	Save(data []byte, code string) (string, error)
	Delete(ref string) error
	Stash(ref string) (string, error)
	Restore(stashed, ref string) error
	URL(ref string) string
}

// CarService runs the car lifecycle: it keeps the records in the repository
// and the image files in the artifact store consistent with each other.
type CarService struct {
	repo    repositories.CarRepository
	images  ImageArtifacts
	fetcher ImageFetcher
	logger  *zap.Logger
}

func NewCarService(repo repositories.CarRepository, images ImageArtifacts, fetcher ImageFetcher, logger *zap.Logger) *CarService {
	return &CarService{
		repo:    repo,
		images:  images,
		fetcher: fetcher,
		logger:  logger,
	}
}

// List returns the cars matching filter in display form.
func (s *CarService) List(ctx context.Context, filter models.CarFilter) ([]models.CarView, error) {
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}

	cars, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}

	views := make([]models.CarView, 0, len(cars))
	for i := range cars {
		views = append(views, s.toView(&cars[i]))
	}
	return views, nil
}

func (s *CarService) Get(ctx context.Context, id uint) (*models.CarView, error) {
	car, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}
	view := s.toView(car)
	return &view, nil
}

// Create validates req, downloads and normalizes its image when one is given
// and stores the new car.
func (s *CarService) Create(ctx context.Context, req models.CreateCarRequest) (*models.CarView, error) {
	req.Brand = strings.TrimSpace(req.Brand)
	req.Model = strings.TrimSpace(req.Model)
	req.Image = nonEmpty(req.Image)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	code := models.CarCode(req.Brand, req.Model)
	taken, err := s.repo.CodeTaken(ctx, code, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check car code: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: %q", ErrCarConflict, code)
	}

	features, err := models.EncodeFeatures(req.Features)
	if err != nil {
		return nil, fmt.Errorf("%w: features: %v", ErrInvalidInput, err)
	}

	car := &models.Car{
		CarCode:        code,
		Brand:          req.Brand,
		Model:          req.Model,
		Description:    req.Description,
		Price:          req.Price,
		PromotionPrice: req.PromotionPrice,
		Km:             *req.Km,
		Year:           req.Year,
		Features:       features,
	}

	if req.Image != nil {
		name, err := s.storeImageFrom(ctx, *req.Image, code)
		if err != nil {
			return nil, err
		}
		car.Image = &name
	}

	if err := s.repo.Create(ctx, car); err != nil {
		s.discardImage(car.Image)
		if errors.Is(err, repositories.ErrDuplicateCode) {
			return nil, fmt.Errorf("%w: %q", ErrCarConflict, code)
		}
		return nil, fmt.Errorf("failed to create car: %w", err)
	}

	s.logger.Info("Car created", zap.Uint("id", car.ID), zap.String("car_code", code), zap.Bool("image", car.Image != nil))
	view := s.toView(car)
	return &view, nil
}

// Update applies the fields present in req. A new image replaces the old one,
// and the old file is removed only once the new reference is committed.
func (s *CarService) Update(ctx context.Context, id uint, req models.UpdateCarRequest) (*models.CarView, error) {
	if req.Brand != nil {
		trimmed := strings.TrimSpace(*req.Brand)
		req.Brand = &trimmed
	}
	if req.Model != nil {
		trimmed := strings.TrimSpace(*req.Model)
		req.Model = &trimmed
	}
	req.Image = nonEmpty(req.Image)
	if (req.Brand != nil && *req.Brand == "") || (req.Model != nil && *req.Model == "") {
		return nil, fmt.Errorf("%w: brand and model cannot be empty", ErrInvalidInput)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	car, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}
	previousImage := car.Image

	updates := map[string]interface{}{}
	brand, model := car.Brand, car.Model
	if req.Brand != nil {
		brand = *req.Brand
		updates["brand"] = brand
	}
	if req.Model != nil {
		model = *req.Model
		updates["model"] = model
	}

	code := models.CarCode(brand, model)
	if code != car.CarCode {
		taken, err := s.repo.CodeTaken(ctx, code, car.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check car code: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%w: %q", ErrCarConflict, code)
		}
		updates["car_code"] = code
	}

	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.PromotionPrice != nil {
		updates["promotion_price"] = *req.PromotionPrice
	}
	if req.Km != nil {
		updates["km"] = *req.Km
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.Features != nil {
		features, err := models.EncodeFeatures(req.Features)
		if err != nil {
			return nil, fmt.Errorf("%w: features: %v", ErrInvalidInput, err)
		}
		updates["features"] = features
	}

	var newImage *string
	if req.Image != nil {
		name, err := s.storeImageFrom(ctx, *req.Image, code)
		if err != nil {
			return nil, err
		}
		newImage = &name
		updates["image"] = name
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		s.discardImage(newImage)
		switch {
		case errors.Is(err, repositories.ErrDuplicateCode):
			return nil, fmt.Errorf("%w: %q", ErrCarConflict, code)
		case errors.Is(err, repositories.ErrRecordNotFound):
			return nil, fmt.Errorf("%w: id %d", ErrCarNotFound, id)
		}
		return nil, fmt.Errorf("failed to update car %d: %w", id, err)
	}

	if newImage != nil && previousImage != nil && *previousImage != *newImage {
		s.discardImage(previousImage)
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}
	s.logger.Info("Car updated", zap.Uint("id", id), zap.Int("fields", len(updates)))
	view := s.toView(updated)
	return &view, nil
}

// Delete removes the car and its image file. The file is only moved aside
// while the row delete is in flight: it comes back if the delete does not
// commit, and is purged once it has.
func (s *CarService) Delete(ctx context.Context, id uint) error {
	var image, stashed string
	err := s.repo.Delete(ctx, id, func(car *models.Car) error {
		if car.Image == nil {
			return nil
		}
		image = *car.Image
		var err error
		stashed, err = s.images.Stash(image)
		return err
	})
	if err != nil {
		if stashed != "" {
			if restoreErr := s.images.Restore(stashed, image); restoreErr != nil {
				s.logger.Error("Failed to restore image after aborted delete",
					zap.Uint("id", id), zap.String("image", image), zap.Error(restoreErr))
			}
		}
		return s.lookupError(id, err)
	}

	if stashed != "" {
		s.discardImage(&stashed)
	}
	s.logger.Info("Car deleted", zap.Uint("id", id))
	return nil
}

func (s *CarService) storeImageFrom(ctx context.Context, url, code string) (string, error) {
	fetched, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.Warn("Image download failed", zap.String("url", url), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrImageFetch, err)
	}
	if fetched.StatusCode < 200 || fetched.StatusCode > 299 {
		return "", fmt.Errorf("%w: status code %d", ErrImageFetch, fetched.StatusCode)
	}
	if !isImageContentType(fetched.ContentType) {
		return "", fmt.Errorf("%w: the URL does not contain a valid image (content type %q)", ErrImageFetch, fetched.ContentType)
	}

	normalized, err := NormalizeImage(fetched.Body)
	if err != nil {
		s.logger.Warn("Image could not be decoded", zap.String("url", url), zap.Error(err))
		return "", err
	}

	name, err := s.images.Save(normalized, code)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return name, nil
}

func (s *CarService) discardImage(ref *string) {
	if ref == nil {
		return
	}
	if err := s.images.Delete(*ref); err != nil {
		s.logger.Warn("Failed to remove image", zap.String("image", *ref), zap.Error(err))
	}
}

func (s *CarService) lookupError(id uint, err error) error {
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return fmt.Errorf("%w: id %d", ErrCarNotFound, id)
	}
	return fmt.Errorf("failed to access car %d: %w", id, err)
}

func (s *CarService) toView(car *models.Car) models.CarView {
	view := models.CarView{
		ID:             car.ID,
		CarCode:        car.CarCode,
		Brand:          car.Brand,
		Model:          car.Model,
		Description:    car.Description,
		Price:          car.Price,
		PromotionPrice: car.PromotionPrice,
		Km:             car.Km,
		Year:           car.Year,
		Features:       models.DecodeFeatures(car.Features),
		CreatedAt:      car.CreatedAt,
		UpdatedAt:      car.UpdatedAt,
	}
	if car.Image != nil && *car.Image != "" {
		url := s.images.URL(*car.Image)
		view.Image = &url
	}
	return view
}

// nonEmpty treats a blank image URL as absent.
func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func isImageContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}
