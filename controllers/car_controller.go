// File: /controllers/car_controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"concesionaria-api/models"
	"concesionaria-api/services"
	"concesionaria-api/utils"
)

// CarLifecycle is what the car endpoints need from the service layer.
type CarLifecycle interface {
	List(ctx context.Context, filter models.CarFilter) ([]models.CarView, error)
	Get(ctx context.Context, id uint) (*models.CarView, error)
	Create(ctx context.Context, req models.CreateCarRequest) (*models.CarView, error)
	Update(ctx context.Context, id uint, req models.UpdateCarRequest) (*models.CarView, error)
	Delete(ctx context.Context, id uint) error
}

type CarController struct {
	cars   CarLifecycle
	logger *zap.Logger
}

func NewCarController(cars CarLifecycle, logger *zap.Logger) *CarController {
	return &CarController{cars: cars, logger: logger}
}

func (cc *CarController) GetCars(c *gin.Context) {
	filter, err := parseCarFilter(c)
	if err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	cars, err := cc.cars.List(c.Request.Context(), filter)
	if err != nil {
		cc.sendServiceError(c, err)
		return
	}

	utils.SendList(c, http.StatusOK, cars, len(cars), filter.Offset, filter.Limit)
}

func (cc *CarController) GetCar(c *gin.Context) {
	id, ok := carID(c)
	if !ok {
		return
	}

	car, err := cc.cars.Get(c.Request.Context(), id)
	if err != nil {
		cc.sendServiceError(c, err)
		return
	}

	utils.SendList(c, http.StatusOK, []models.CarView{*car}, 1, 0, 1)
}

func (cc *CarController) CreateCar(c *gin.Context) {
	var req models.CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	car, err := cc.cars.Create(c.Request.Context(), req)
	if err != nil {
		cc.sendServiceError(c, err)
		return
	}

	utils.SendList(c, http.StatusCreated, []models.CarView{*car}, 1, 0, 1)
}

func (cc *CarController) UpdateCar(c *gin.Context) {
	id, ok := carID(c)
	if !ok {
		return
	}

	var req models.UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	car, err := cc.cars.Update(c.Request.Context(), id, req)
	if err != nil {
		cc.sendServiceError(c, err)
		return
	}

	utils.SendList(c, http.StatusOK, []models.CarView{*car}, 1, 0, 1)
}

func (cc *CarController) DeleteCar(c *gin.Context) {
	id, ok := carID(c)
	if !ok {
		return
	}

	if err := cc.cars.Delete(c.Request.Context(), id); err != nil {
		cc.sendServiceError(c, err)
		return
	}

	utils.SendNoContent(c)
}

func (cc *CarController) sendServiceError(c *gin.Context, err error) {
	status, title := statusFor(err)
	if status == http.StatusInternalServerError {
		cc.logger.Error("Car request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		utils.SendErrorMessage(c, status, title, "An unexpected error occurred")
		return
	}
	utils.SendErrorMessage(c, status, title, err.Error())
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrImageFetch):
		return http.StatusBadRequest, "Bad request"
	case errors.Is(err, services.ErrCarNotFound):
		return http.StatusNotFound, "Car not found"
	case errors.Is(err, services.ErrCarConflict):
		return http.StatusConflict, "Conflict"
	case errors.Is(err, services.ErrUnprocessableImage):
		return http.StatusUnprocessableEntity, "Unprocessable image"
	case errors.Is(err, services.ErrEmailDelivery):
		return http.StatusInternalServerError, "Email delivery failed"
	}
	return http.StatusInternalServerError, "Internal server error"
}

func carID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.SendValidationError(c, "id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

func parseCarFilter(c *gin.Context) (models.CarFilter, error) {
	filter := models.CarFilter{
		Code:   c.Query("code"),
		Brand:  c.Query("brand"),
		Model:  c.Query("model"),
		Search: c.Query("search"),
		Offset: 0,
		Limit:  services.DefaultListLimit,
	}
	if filter.Code == "" {
		filter.Code = c.Query("car_code")
	}

	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.New("year must be an integer")
		}
		filter.Year = &year
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, errors.New("offset must be >= 0")
		}
		filter.Offset = offset
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > services.MaxListLimit {
			return filter, errors.New("limit must be between 1 and 1000")
		}
		filter.Limit = limit
	}
	return filter, nil
}
