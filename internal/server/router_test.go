package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mini-crm/internal/config"
	"mini-crm/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Pagination *struct {
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
		Pages int   `json:"pages"`
	} `json:"pagination"`
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:    "test-secret",
		TokenTTL:     time.Hour,
		AdminEmails:  []string{"admin1@crm.com"},
		ClientOrigin: "http://localhost:5173",
	}
	router := NewRouter(cfg, store.NewMemory(), zerolog.Nop())
	return &testAPI{t: t, router: router}
}

func (a *testAPI) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp := httptest.NewRecorder()
	a.router.ServeHTTP(resp, req)

	var env envelope
	_ = json.Unmarshal(resp.Body.Bytes(), &env)
	return resp, env
}

func (a *testAPI) registerUser(email string) (token string, id uint) {
	a.t.Helper()

	resp, env := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":            "Test User",
		"email":           email,
		"password":        "secret1",
		"confirmPassword": "secret1",
	})
	require.Equal(a.t, http.StatusCreated, resp.Code, resp.Body.String())

	var data struct {
		ID    uint   `json:"id"`
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	return data.Token, data.ID
}

func (a *testAPI) createCustomer(token, name, email string) uint {
	a.t.Helper()

	resp, env := a.do(http.MethodPost, "/api/customers", token, map[string]string{
		"name":  name,
		"email": email,
	})
	require.Equal(a.t, http.StatusCreated, resp.Code, resp.Body.String())

	var data struct {
		ID uint `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	return data.ID
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	resp, _ := api.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Mini CRM Backend", body["service"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(t)

	resp, env := api.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Route not found", env.Message)
}

func TestMissingToken(t *testing.T) {
	api := newTestAPI(t)

	resp, env := api.do(http.MethodGet, "/api/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "No token, authorization denied", env.Message)

	resp, env = api.do(http.MethodGet, "/api/auth/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Token is not valid", env.Message)
}

func TestRegisterRoles(t *testing.T) {
	api := newTestAPI(t)

	// allow-listed email becomes an admin
	resp, env := api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":            "Admin",
		"email":           "admin1@crm.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	var data struct {
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "admin", data.Role)

	// anyone else is a plain user
	resp, env = api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":            "Alice",
		"email":           "alice@dev.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "user", data.Role)

	// duplicate registration conflicts regardless of case
	resp, env = api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":            "Alice Again",
		"email":           "ALICE@dev.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Email already registered", env.Message)
}

func TestLoginAutoProvision(t *testing.T) {
	api := newTestAPI(t)

	resp, env := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "fresh@dev.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var data struct {
		Name  string `json:"name"`
		Role  string `json:"role"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "fresh", data.Name)
	assert.Equal(t, "user", data.Role)

	// token works against /me
	resp, _ = api.do(http.MethodGet, "/api/auth/me", data.Token, nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	// wrong password on the now-existing account
	resp, _ = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "fresh@dev.com",
		"password": "different",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCustomerOwnershipScoping(t *testing.T) {
	api := newTestAPI(t)
	adminToken, _ := api.registerUser("admin1@crm.com")
	aliceToken, aliceID := api.registerUser("alice@dev.com")
	bobToken, _ := api.registerUser("bob@dev.com")

	aliceCustomer := api.createCustomer(aliceToken, "Acme Corp", "contact@acme.com")
	api.createCustomer(bobToken, "Beta Solutions", "hello@beta.com")

	// alice sees only her own records
	resp, env := api.do(http.MethodGet, "/api/customers", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var customers []struct {
		OwnerID uint `json:"ownerId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &customers))
	require.Len(t, customers, 1)
	assert.Equal(t, aliceID, customers[0].OwnerID)

	// admin sees everything
	resp, env = api.do(http.MethodGet, "/api/customers", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(env.Data, &customers))
	assert.Len(t, customers, 2)

	// bob cannot read alice's customer; absence and scope violation are
	// the same 404
	resp, env = api.do(http.MethodGet, fmt.Sprintf("/api/customers/%d", aliceCustomer), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Customer not found", env.Message)

	// admin can read it
	resp, _ = api.do(http.MethodGet, fmt.Sprintf("/api/customers/%d", aliceCustomer), adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestCustomerPagination(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.registerUser("alice@dev.com")

	for i := 1; i <= 3; i++ {
		api.createCustomer(token, fmt.Sprintf("Customer %d", i), fmt.Sprintf("c%d@x.com", i))
	}

	resp, env := api.do(http.MethodGet, "/api/customers?page=2&limit=1", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var customers []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &customers))
	assert.Len(t, customers, 1)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.Page)
	assert.Equal(t, 1, env.Pagination.Limit)
	assert.EqualValues(t, 3, env.Pagination.Total)
	assert.Equal(t, 3, env.Pagination.Pages)
}

func TestCustomerSearch(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.registerUser("alice@dev.com")

	api.createCustomer(token, "Acme Corp", "contact@acme.com")
	api.createCustomer(token, "Beta Solutions", "hello@beta.com")

	resp, env := api.do(http.MethodGet, "/api/customers?search=acme", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var customers []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &customers))
	require.Len(t, customers, 1)
	assert.Equal(t, "Acme Corp", customers[0].Name)
}

func TestCustomerValidationAndDuplicates(t *testing.T) {
	api := newTestAPI(t)
	aliceToken, _ := api.registerUser("alice@dev.com")
	bobToken, _ := api.registerUser("bob@dev.com")

	resp, env := api.do(http.MethodPost, "/api/customers", aliceToken, map[string]string{
		"name":  "A",
		"email": "contact@acme.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Name must be between 2 and 100 characters", env.Message)

	api.createCustomer(aliceToken, "Acme Corp", "contact@acme.com")

	// duplicate email for the same owner conflicts
	resp, env = api.do(http.MethodPost, "/api/customers", aliceToken, map[string]string{
		"name":  "Acme Again",
		"email": "contact@acme.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Customer with this email already exists", env.Message)

	// but the same email under another owner is allowed
	resp, _ = api.do(http.MethodPost, "/api/customers", bobToken, map[string]string{
		"name":  "Bob's Acme",
		"email": "contact@acme.com",
	})
	assert.Equal(t, http.StatusCreated, resp.Code)
}

func TestCustomerUpdatePartial(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.registerUser("alice@dev.com")
	id := api.createCustomer(token, "Acme Corp", "contact@acme.com")

	resp, env := api.do(http.MethodPut, fmt.Sprintf("/api/customers/%d", id), token, map[string]string{
		"phone": "5551234",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var data struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Acme Corp", data.Name)
	assert.Equal(t, "contact@acme.com", data.Email)
	assert.Equal(t, "5551234", data.Phone)
}

func TestLeadOwnerInheritedFromCustomer(t *testing.T) {
	api := newTestAPI(t)
	adminToken, adminID := api.registerUser("admin1@crm.com")
	aliceToken, aliceID := api.registerUser("alice@dev.com")

	customerID := api.createCustomer(aliceToken, "Acme Corp", "contact@acme.com")

	// an admin creating a lead on alice's customer produces a lead owned
	// by alice, not the admin
	resp, env := api.do(http.MethodPost, fmt.Sprintf("/api/customers/%d/leads", customerID), adminToken, map[string]interface{}{
		"title": "Big deal",
		"value": 1000,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var lead struct {
		OwnerID uint   `json:"ownerId"`
		Status  string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &lead))
	assert.Equal(t, aliceID, lead.OwnerID)
	assert.NotEqual(t, adminID, lead.OwnerID)
	assert.Equal(t, "New", lead.Status)
}

func TestLeadHiddenBehindForeignCustomer(t *testing.T) {
	api := newTestAPI(t)
	aliceToken, _ := api.registerUser("alice@dev.com")
	bobToken, _ := api.registerUser("bob@dev.com")

	customerID := api.createCustomer(aliceToken, "Acme Corp", "contact@acme.com")

	// bob cannot even list leads of a customer he does not own
	resp, env := api.do(http.MethodGet, fmt.Sprintf("/api/customers/%d/leads", customerID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Customer not found", env.Message)
}

func TestLeadValidation(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.registerUser("alice@dev.com")
	customerID := api.createCustomer(token, "Acme Corp", "contact@acme.com")

	resp, env := api.do(http.MethodPost, fmt.Sprintf("/api/customers/%d/leads", customerID), token, map[string]interface{}{
		"title":  "Deal",
		"status": "Qualified",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Invalid lead status", env.Message)

	resp, env = api.do(http.MethodPost, fmt.Sprintf("/api/customers/%d/leads", customerID), token, map[string]interface{}{
		"title": "Deal",
		"value": -5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Value cannot be negative", env.Message)
}

func TestCustomerDeleteCascades(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.registerUser("alice@dev.com")
	customerID := api.createCustomer(token, "Acme Corp", "contact@acme.com")

	for i := 0; i < 2; i++ {
		resp, _ := api.do(http.MethodPost, fmt.Sprintf("/api/customers/%d/leads", customerID), token, map[string]interface{}{
			"title": fmt.Sprintf("Deal %d", i),
		})
		require.Equal(t, http.StatusCreated, resp.Code)
	}

	resp, env := api.do(http.MethodDelete, fmt.Sprintf("/api/customers/%d", customerID), token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Customer and associated leads deleted successfully", env.Message)

	// customer and its leads are gone; stats confirm no leads survive
	resp, _ = api.do(http.MethodGet, fmt.Sprintf("/api/customers/%d", customerID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	_, env = api.do(http.MethodGet, "/api/analytics/stats", token, nil)
	var stats struct {
		TotalLeads int64 `json:"totalLeads"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Zero(t, stats.TotalLeads)
}

func TestAnalyticsLeadsByStatus(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.registerUser("alice@dev.com")
	customerID := api.createCustomer(token, "Acme Corp", "contact@acme.com")

	resp, _ := api.do(http.MethodPost, fmt.Sprintf("/api/customers/%d/leads", customerID), token, map[string]interface{}{
		"title":  "Won deal",
		"status": "Converted",
		"value":  250,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp, env := api.do(http.MethodGet, "/api/analytics/leads-by-status", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var rows []struct {
		Status     string  `json:"status"`
		Count      int64   `json:"count"`
		TotalValue float64 `json:"totalValue"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 4)

	statuses := make([]string, 0, len(rows))
	for _, r := range rows {
		statuses = append(statuses, r.Status)
	}
	assert.Equal(t, []string{"New", "Contacted", "Converted", "Lost"}, statuses)

	for _, r := range rows {
		if r.Status == "Converted" {
			assert.EqualValues(t, 1, r.Count)
			assert.EqualValues(t, 250, r.TotalValue)
		} else {
			assert.Zero(t, r.Count)
			assert.Zero(t, r.TotalValue)
		}
	}
}

func TestAnalyticsStatsScoped(t *testing.T) {
	api := newTestAPI(t)
	adminToken, _ := api.registerUser("admin1@crm.com")
	aliceToken, _ := api.registerUser("alice@dev.com")
	bobToken, _ := api.registerUser("bob@dev.com")

	aliceCustomer := api.createCustomer(aliceToken, "Acme Corp", "contact@acme.com")
	bobCustomer := api.createCustomer(bobToken, "Beta Solutions", "hello@beta.com")

	resp, _ := api.do(http.MethodPost, fmt.Sprintf("/api/customers/%d/leads", aliceCustomer), aliceToken, map[string]interface{}{
		"title": "Alice deal", "status": "Converted", "value": 100,
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	resp, _ = api.do(http.MethodPost, fmt.Sprintf("/api/customers/%d/leads", bobCustomer), bobToken, map[string]interface{}{
		"title": "Bob deal", "status": "New", "value": 10,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var stats struct {
		TotalCustomers      int64   `json:"totalCustomers"`
		TotalLeads          int64   `json:"totalLeads"`
		ConvertedLeads      int64   `json:"convertedLeads"`
		ConversionRate      float64 `json:"conversionRate"`
		TotalConvertedValue float64 `json:"totalConvertedValue"`
	}

	_, env := api.do(http.MethodGet, "/api/analytics/stats", aliceToken, nil)
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.EqualValues(t, 1, stats.TotalCustomers)
	assert.EqualValues(t, 1, stats.TotalLeads)
	assert.EqualValues(t, 1, stats.ConvertedLeads)
	assert.InDelta(t, 100.0, stats.ConversionRate, 0.001)
	assert.EqualValues(t, 100, stats.TotalConvertedValue)

	_, env = api.do(http.MethodGet, "/api/analytics/stats", adminToken, nil)
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.EqualValues(t, 2, stats.TotalCustomers)
	assert.EqualValues(t, 2, stats.TotalLeads)
	assert.InDelta(t, 50.0, stats.ConversionRate, 0.001)
}
