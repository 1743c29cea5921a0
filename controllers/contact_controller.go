package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"concesionaria-api/models"
	"concesionaria-api/utils"
)

// ContactMailer sends the contact form emails.
type ContactMailer interface {
	SendContactEmails(ctx context.Context, req models.ContactRequest) error
}

type ContactController struct {
	mailer ContactMailer
	logger *zap.Logger
}

func NewContactController(mailer ContactMailer, logger *zap.Logger) *ContactController {
	return &ContactController{mailer: mailer, logger: logger}
}

func (cc *ContactController) SendContact(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if err := cc.mailer.SendContactEmails(c.Request.Context(), req); err != nil {
		status, title := statusFor(err)
		if status == http.StatusInternalServerError {
			cc.logger.Error("Contact request failed", zap.Error(err))
			utils.SendErrorMessage(c, status, title, "Error al enviar el correo electrónico.")
			return
		}
		utils.SendErrorMessage(c, status, title, err.Error())
		return
	}

	utils.SendNoContent(c)
}
