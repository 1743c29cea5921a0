package services

import "errors"

// Error kinds returned by the services. They are wrapped with context, so
// callers compare with errors.Is.
var (
	ErrCarNotFound        = errors.New("car not found")
	ErrCarConflict        = errors.New("car code already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrImageFetch         = errors.New("image could not be downloaded")
	ErrUnprocessableImage = errors.New("unprocessable image")
	ErrEmailDelivery      = errors.New("email could not be sent")
)
