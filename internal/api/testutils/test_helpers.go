// Package testutils provides shared helpers for the API test suite. Tests run
// against the in-memory repository and a recording mailer, so they need no
// database or SMTP relay.
package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/invoicepro/server/internal/api"
	"github.com/invoicepro/server/internal/mail"
	"github.com/invoicepro/server/internal/models"
	"github.com/invoicepro/server/internal/repository"
	"github.com/invoicepro/server/internal/service"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret-key"

// FakeMailer records outbound messages instead of delivering them.
type FakeMailer struct {
	mu   sync.Mutex
	Sent []mail.Message
	Err  error // returned by Send when set
}

func (m *FakeMailer) Send(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// TestContext holds all dependencies for tests
type TestContext struct {
	Router      *gin.Engine
	Repository  *repository.MemoryRepository
	Service     service.Service
	Mailer      *FakeMailer
	JWTSecret   []byte
	TestUserID  string
	TestUserJWT string
}

// SetupTestContext creates a new test context with initialized dependencies
func SetupTestContext(t *testing.T) *TestContext {
	repo := repository.NewMemoryRepository()
	mailer := &FakeMailer{}

	svc := service.NewDefaultService(repo, mailer, testJWTSecret)

	handler := api.NewHandler(svc)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(testJWTSecret))
		c.Next()
	})

	handler.SetupRoutes(router)

	testUserID, token := CreateTestUser(t, repo, "testuser@example.com")

	return &TestContext{
		Router:      router,
		Repository:  repo,
		Service:     svc,
		Mailer:      mailer,
		JWTSecret:   []byte(testJWTSecret),
		TestUserID:  testUserID,
		TestUserJWT: token,
	}
}

// CreateTestUser inserts a user with seeded business settings and returns the
// user ID and a valid token for it.
func CreateTestUser(t *testing.T, repo repository.Repository, email string) (string, string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("testpassword"), bcrypt.DefaultCost)

	user := &models.User{
		ID:       uuid.New().String(),
		Email:    email,
		Password: string(hashedPassword),
	}

	err := repo.CreateUser(context.Background(), user)
	assert.NoError(t, err, "Failed to create test user")

	settings := &models.BusinessSettings{
		UserID:            user.ID,
		Type:              models.TypeIndividual,
		Email:             email,
		InvoicePrefix:     "INV-",
		NextInvoiceNumber: 1,
	}
	err = repo.UpsertSettings(context.Background(), settings)
	assert.NoError(t, err, "Failed to seed test settings")

	return user.ID, SignTestToken(t, user.ID)
}

// SignTestToken issues a token the auth middleware accepts.
func SignTestToken(t *testing.T, userID string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})

	tokenString, err := token.SignedString([]byte(testJWTSecret))
	assert.NoError(t, err, "Failed to generate JWT token")
	return tokenString
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}

// DecodeBody unmarshals a recorded response body into out.
func DecodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	err := json.Unmarshal(w.Body.Bytes(), out)
	assert.NoError(t, err, "Failed to decode response body")
}
