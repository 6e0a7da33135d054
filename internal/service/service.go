// Package service implements the business logic over the repository.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/invoicepro/server/internal/errs"
	"github.com/invoicepro/server/internal/invoice"
	"github.com/invoicepro/server/internal/logger"
	"github.com/invoicepro/server/internal/mail"
	"github.com/invoicepro/server/internal/models"
	"github.com/invoicepro/server/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Service defines all the business logic operations.
type Service interface {
	// Authentication
	Register(ctx context.Context, req models.RegisterRequest) (*models.MessageResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)

	// Invoices
	ListInvoices(ctx context.Context, userID, startDate, endDate string) ([]models.Invoice, error)
	CreateInvoice(ctx context.Context, userID string, req models.InvoiceRequest) (*models.Invoice, error)
	UpdateInvoice(ctx context.Context, userID, invoiceID string, req models.InvoiceRequest) (*models.Invoice, error)
	DeleteInvoice(ctx context.Context, userID, invoiceID string) error

	// Clients
	ListClients(ctx context.Context, userID string) ([]models.Client, error)
	CreateClient(ctx context.Context, userID string, req models.ClientRequest) (*models.Client, error)
	UpdateClient(ctx context.Context, userID, clientID string, req models.ClientRequest) (*models.Client, error)

	// Business settings
	GetSettings(ctx context.Context, userID string) (*models.BusinessSettings, error)
	UpdateSettings(ctx context.Context, userID string, req models.BusinessSettingsRequest) (*models.BusinessSettings, error)

	// Dashboard and reports
	GetDashboard(ctx context.Context, userID string) (*invoice.Metrics, error)
	RenderSummaryChart(ctx context.Context, userID string) ([]byte, error)
	GetReport(ctx context.Context, userID, period, status, clientID, targetCurrency string) (*models.ReportResponse, error)

	// Email
	SendInvoiceEmail(ctx context.Context, userID string, req models.SendInvoiceEmailRequest) error
}

// DefaultService implements the Service interface.
type DefaultService struct {
	repo          repository.Repository
	mailer        mail.Mailer
	jwtSecret     []byte
	tokenDuration time.Duration
	log           zerolog.Logger
}

// NewDefaultService creates a new DefaultService.
func NewDefaultService(repo repository.Repository, mailer mail.Mailer, jwtSecret string) Service {
	return &DefaultService{
		repo:          repo,
		mailer:        mailer,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 24 * time.Hour,
		log:           logger.WithComponent("service"),
	}
}

// Authentication methods
func (s *DefaultService) Register(ctx context.Context, req models.RegisterRequest) (*models.MessageResponse, error) {
	existingUser, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}

	if existingUser != nil {
		return nil, fmt.Errorf("%w: user with this email already exists", errs.ErrAlreadyExists)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Email:    req.Email,
		Password: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	// Seed default business settings so invoice numbering has a counter from
	// the first invoice on.
	settings := &models.BusinessSettings{
		UserID:            user.ID,
		Type:              models.TypeIndividual,
		Email:             user.Email,
		InvoicePrefix:     invoice.DefaultPrefix,
		NextInvoiceNumber: 1,
	}
	if err := s.repo.UpsertSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("error creating initial settings: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")

	return &models.MessageResponse{
		Status:  "success",
		Message: "User registered successfully",
	}, nil
}

func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, fmt.Errorf("%w: invalid email or password", errs.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", errs.ErrUnauthorized)
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Status:    "success",
		UserID:    user.ID,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

// SendInvoiceEmail delivers a rendered invoice to a recipient, using the
// caller's business settings email as the sender address.
func (s *DefaultService) SendInvoiceEmail(ctx context.Context, userID string, req models.SendInvoiceEmailRequest) error {
	settings, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		return fmt.Errorf("error getting settings: %w", err)
	}

	if settings == nil || settings.Email == "" {
		return fmt.Errorf("%w: business email not set in settings", errs.ErrInvalidInput)
	}

	msg := mail.Message{
		From:    settings.Email,
		To:      req.RecipientEmail,
		Subject: req.Subject,
		HTML:    req.HTMLContent,
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: sending invoice email: %s", errs.ErrDependency, err)
	}

	s.log.Info().Str("user_id", userID).Str("recipient", req.RecipientEmail).Msg("invoice email sent")
	return nil
}

// Helper methods
func (s *DefaultService) generateJWT(user *models.User) (string, error) {
	expirationTime := time.Now().Add(s.tokenDuration)

	claims := jwt.MapClaims{
		"sub": user.ID,
		"exp": expirationTime.Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// notFound converts the repository's nil/false results into the shared
// sentinel without leaking whether the resource exists for another user.
func notFound(what string) error {
	return fmt.Errorf("%w: %s", errs.ErrNotFound, what)
}
