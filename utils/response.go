// File: /utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// ListResponse is the envelope returned by the car endpoints.
type ListResponse struct {
	Total  int         `json:"total"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
	Items  interface{} `json:"items"`
}

func SendError(c *gin.Context, status int, err string) {
	c.JSON(status, ErrorResponse{
		Error: err,
		Code:  status,
	})
}

// SendErrorMessage writes an error with a human readable detail.
func SendErrorMessage(c *gin.Context, status int, err, message string) {
	c.JSON(status, ErrorResponse{
		Error:   err,
		Message: message,
		Code:    status,
	})
}

func SendValidationError(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Validation failed",
		Message: err,
		Code:    http.StatusBadRequest,
	})
}

// SendList writes items in the list envelope. total is the number of items
// in this page.
func SendList(c *gin.Context, status int, items interface{}, count, offset, limit int) {
	c.JSON(status, ListResponse{
		Total:  count,
		Offset: offset,
		Limit:  limit,
		Items:  items,
	})
}

func SendNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
