package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/invoicepro/server/internal/api/testutils"
	"github.com/invoicepro/server/internal/models"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestGetSettingsAutoCreates(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// A user with no settings row yet (created directly, bypassing register)
	hashed, _ := bcrypt.GenerateFromPassword([]byte("testpassword"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       uuid.New().String(),
		Email:    "fresh@example.com",
		Password: string(hashed),
	}
	err := testCtx.Repository.CreateUser(context.Background(), user)
	assert.NoError(t, err)
	token := testutils.SignTestToken(t, user.ID)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/business-settings",
		nil,
		testutils.AuthHeaders(token),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var settings models.BusinessSettings
	testutils.DecodeBody(t, w, &settings)
	assert.Equal(t, models.TypeIndividual, settings.Type)
	assert.Equal(t, "INV-", settings.InvoicePrefix)
	assert.Equal(t, int64(1), settings.NextInvoiceNumber)
	assert.Equal(t, "fresh@example.com", settings.Email)
}

func TestUpdateSettings(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	req := models.BusinessSettingsRequest{
		Type:              models.TypeOrganization,
		OrganizationName:  "Asha Designs",
		CompanyName:       "Asha Designs Pvt Ltd",
		Email:             "billing@ashadesigns.example",
		Currency:          "INR",
		InvoicePrefix:     "AD-",
		NextInvoiceNumber: 42,
		PaymentTerms:      "net-30",
		TaxRate:           "18",
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		"/api/business-settings",
		req,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var settings models.BusinessSettings
	testutils.DecodeBody(t, w, &settings)
	assert.Equal(t, "AD-", settings.InvoicePrefix)
	assert.Equal(t, int64(42), settings.NextInvoiceNumber)
	assert.Equal(t, "Asha Designs", settings.OrganizationName)

	// The counter marshals as a JSON string
	assert.Contains(t, w.Body.String(), `"nextInvoiceNumber":"42"`)

	// A non-positive counter keeps the stored sequence
	req.NextInvoiceNumber = 0
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		"/api/business-settings",
		req,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	testutils.DecodeBody(t, w, &settings)
	assert.Equal(t, int64(42), settings.NextInvoiceNumber)
}

func TestSettingsAreScopedPerUser(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	req := models.BusinessSettingsRequest{
		InvoicePrefix:     "MINE-",
		NextInvoiceNumber: 9,
	}
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		"/api/business-settings",
		req,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	_, otherToken := testutils.CreateTestUser(t, testCtx.Repository, "other@example.com")

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/business-settings",
		nil,
		testutils.AuthHeaders(otherToken),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var settings models.BusinessSettings
	testutils.DecodeBody(t, w, &settings)
	assert.Equal(t, "INV-", settings.InvoicePrefix)
	assert.Equal(t, int64(1), settings.NextInvoiceNumber)
}

// Tokens signed with another secret must be rejected even when well-formed.
func TestForgedTokenRejected(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": testCtx.TestUserID,
	})
	tokenString, err := forged.SignedString([]byte("wrong-secret"))
	assert.NoError(t, err)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/business-settings",
		nil,
		testutils.AuthHeaders(tokenString),
	)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
