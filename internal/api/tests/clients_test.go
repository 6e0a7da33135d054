package api_test

import (
	"net/http"
	"testing"

	"github.com/invoicepro/server/internal/api/testutils"
	"github.com/invoicepro/server/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCreateClient(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Test case 1: Individual client
	individual := models.ClientRequest{
		Type:      models.TypeIndividual,
		FirstName: "Asha",
		LastName:  "Patel",
		Email:     "asha@example.com",
		Currency:  "INR",
		Address: models.Address{
			Street1:    "12 MG Road",
			City:       "Bengaluru",
			State:      "KA",
			PostalCode: "560001",
			Country:    "India",
		},
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/clients",
		individual,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusCreated, w.Code)

	var client models.Client
	testutils.DecodeBody(t, w, &client)
	assert.NotEmpty(t, client.ID)
	assert.Equal(t, "Asha Patel", client.DisplayName())
	assert.Equal(t, "Bengaluru", client.Address.City)

	// Test case 2: Organization client
	org := models.ClientRequest{
		Type:             models.TypeOrganization,
		OrganizationName: "Acme Corp",
		Email:            "billing@acme.example",
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/clients",
		org,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusCreated, w.Code)

	testutils.DecodeBody(t, w, &client)
	assert.Equal(t, "Acme Corp", client.DisplayName())

	// Test case 3: Individual missing a last name
	incomplete := models.ClientRequest{
		Type:      models.TypeIndividual,
		FirstName: "Asha",
		Email:     "asha2@example.com",
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/clients",
		incomplete,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp models.ErrorResponse
	testutils.DecodeBody(t, w, &errResp)
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)

	// Test case 4: Organization missing its name
	incompleteOrg := models.ClientRequest{
		Type:  models.TypeOrganization,
		Email: "billing2@acme.example",
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/clients",
		incompleteOrg,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Test case 5: Missing email fails binding
	noEmail := models.ClientRequest{
		Type:      models.TypeIndividual,
		FirstName: "Asha",
		LastName:  "Patel",
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/clients",
		noEmail,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAndUpdateClients(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	create := models.ClientRequest{
		Type:      models.TypeIndividual,
		FirstName: "Asha",
		LastName:  "Patel",
		Email:     "asha@example.com",
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/clients",
		create,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusCreated, w.Code)

	var created models.Client
	testutils.DecodeBody(t, w, &created)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/clients",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var clients []models.Client
	testutils.DecodeBody(t, w, &clients)
	assert.Len(t, clients, 1)

	// Update changes fields in place
	update := create
	update.LastName = "Sharma"
	update.Phone = "+91 98765 43210"

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		"/api/clients/"+created.ID,
		update,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Client
	testutils.DecodeBody(t, w, &updated)
	assert.Equal(t, "Sharma", updated.LastName)
	assert.Equal(t, "+91 98765 43210", updated.Phone)

	// Unknown client is 404
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		"/api/clients/00000000-0000-0000-0000-000000000000",
		update,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Other users cannot see the client
	_, otherToken := testutils.CreateTestUser(t, testCtx.Repository, "other@example.com")

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/clients",
		nil,
		testutils.AuthHeaders(otherToken),
	)
	assert.Equal(t, http.StatusOK, w.Code)
	testutils.DecodeBody(t, w, &clients)
	assert.Empty(t, clients)
}
