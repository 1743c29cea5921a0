// File: /services/email_service.go
package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"concesionaria-api/config"
	"concesionaria-api/models"
	"concesionaria-api/utils"
)

//go:embed templates/*.html
var emailTemplates embed.FS

const (
	companySubjectPrefix = "Nuevo mensaje de contacto de "
	customerSubject      = "Hemos recibido tu mensaje de contacto"
)

// MailSender delivers composed messages. *gomail.Dialer implements it.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailService struct {
	config    *config.Config
	sender    MailSender
	templates *template.Template
	logger    *zap.Logger
}

// contactView is the data handed to the contact templates.
type contactView struct {
	ContactName    string
	ContactEmail   string
	ContactMessage string
	Car            *models.CarContactData
	Plan           *models.FinancingPlan
}

func NewEmailService(cfg *config.Config, logger *zap.Logger) *EmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	return NewEmailServiceWithSender(cfg, dialer, logger)
}

// NewEmailServiceWithSender builds the service on top of any MailSender.
func NewEmailServiceWithSender(cfg *config.Config, sender MailSender, logger *zap.Logger) *EmailService {
	return &EmailService{
		config:    cfg,
		sender:    sender,
		templates: template.Must(template.ParseFS(emailTemplates, "templates/*.html")),
		logger:    logger,
	}
}

// SendContactEmails notifies the dealership about a contact request and then
// sends the customer a confirmation.
func (es *EmailService) SendContactEmails(ctx context.Context, req models.ContactRequest) error {
	req.ContactName = strings.TrimSpace(req.ContactName)
	req.ContactEmail = strings.TrimSpace(req.ContactEmail)
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	view := contactView{
		ContactName:    req.ContactName,
		ContactEmail:   req.ContactEmail,
		ContactMessage: req.ContactMessage,
		Car:            req.CarData,
		Plan:           req.PlanData,
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := es.send(es.config.ToEmail, companySubjectPrefix+req.ContactName, "email_to_company.html", view); err != nil {
		es.logger.Error("Failed to send contact email to company", zap.String("contact_email", req.ContactEmail), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := es.send(req.ContactEmail, customerSubject, "email_to_customer.html", view); err != nil {
		es.logger.Error("Failed to send contact confirmation", zap.String("contact_email", req.ContactEmail), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	es.logger.Info("Contact emails sent", zap.String("contact_email", req.ContactEmail), zap.Bool("car", req.CarData != nil), zap.Bool("plan", req.PlanData != nil))
	return nil
}

func (es *EmailService) send(to, subject, templateName string, view contactView) error {
	var html bytes.Buffer
	if err := es.templates.ExecuteTemplate(&html, templateName, view); err != nil {
		return fmt.Errorf("failed to render %s: %w", templateName, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainText(view))
	m.AddAlternative("text/html", html.String())

	if err := es.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// plainText is the text/plain alternative shared by both messages.
func plainText(view contactView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nombre: %s\nEmail: %s\n\nMensaje:\n%s\n", view.ContactName, view.ContactEmail, view.ContactMessage)
	if car := view.Car; car != nil {
		fmt.Fprintf(&b, "\nVehículo: %s %s (%d)\nCódigo: %s\nKilometraje: %d km\nPrecio: $%.2f\n",
			car.Brand, car.Model, car.Year, car.Code, car.Km, car.Price)
	}
	if plan := view.Plan; plan != nil {
		fmt.Fprintf(&b, "\nPlan: %s\nTasa: %s (%s)\nCuotas: %d\nAnticipo: %d%%\n",
			plan.Name, plan.Rate, plan.RateLabel, plan.Months, plan.DownPayment)
	}
	return b.String()
}
