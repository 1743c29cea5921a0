package controllers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"concesionaria-api/models"
	"concesionaria-api/services"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendContactEmails(ctx context.Context, req models.ContactRequest) error {
	return m.Called(req).Error(0)
}

func newContactRouter(mailer ContactMailer) *gin.Engine {
	r := gin.New()
	r.POST("/contact", NewContactController(mailer, zap.NewNop()).SendContact)
	return r
}

const contactBody = `{"contact_name":"Ana","contact_email":"ana@example.com","contact_message":"Hola"}`

func TestSendContact(t *testing.T) {
	mailer := new(mockMailer)
	mailer.On("SendContactEmails", mock.MatchedBy(func(req models.ContactRequest) bool {
		return req.ContactName == "Ana" && req.CarData == nil
	})).Return(nil)

	w := doRequest(newContactRouter(mailer), http.MethodPost, "/contact", contactBody)
	assert.Equal(t, http.StatusNoContent, w.Code)
	mailer.AssertExpectations(t)
}

func TestSendContact_Errors(t *testing.T) {
	invalid := new(mockMailer)
	invalid.On("SendContactEmails", mock.Anything).Return(fmt.Errorf("%w: contact_email must be a valid email address", services.ErrInvalidInput))
	w := doRequest(newContactRouter(invalid), http.MethodPost, "/contact", contactBody)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	failing := new(mockMailer)
	failing.On("SendContactEmails", mock.Anything).Return(fmt.Errorf("%w: smtp down", services.ErrEmailDelivery))
	w = doRequest(newContactRouter(failing), http.MethodPost, "/contact", contactBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "smtp down")
}
