package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fintrackhq/fintrack-be/internal/database"
	"github.com/fintrackhq/fintrack-be/internal/services"
	"github.com/fintrackhq/fintrack-be/internal/websocket"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.New(dbPath)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	hub := websocket.NewHub()
	go hub.Run()

	userService := services.NewUserService(db)
	notificationService := services.NewNotificationService(db, hub)
	transactionService := services.NewTransactionService(db)
	budgetService := services.NewBudgetService(db, notificationService)
	goalService := services.NewGoalService(db, notificationService)
	insightService := services.NewInsightService(transactionService)

	router := NewRouter(Deps{
		DB:              db,
		Hub:             hub,
		UserService:     userService,
		TransactionSvc:  transactionService,
		BudgetService:   budgetService,
		GoalService:     goalService,
		CategoryService: services.NewCategoryService(db),
		NotificationSvc: notificationService,
		RecurringSvc:    services.NewRecurringService(db),
		InsightService:  insightService,
		AllowedOrigin:   "http://localhost:3000",
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body map[string]interface{}, token string) (*http.Response, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestRegisterEndpoint(t *testing.T) {
	srv := setupTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/auth/register", map[string]interface{}{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "s3cret7",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "User registered successfully", body["message"])
	require.NotEmpty(t, body["access_token"])

	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "alice", user["username"])
	require.Equal(t, "alice@example.com", user["email"])
	require.NotContains(t, user, "password_hash")

	// Duplicate email is rejected with the conflict shape the client displays.
	resp, body = postJSON(t, srv.URL+"/api/auth/register", map[string]interface{}{
		"username": "other",
		"email":    "alice@example.com",
		"password": "different",
	}, "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "User already exists", body["error"])
}

func TestRegisterEndpoint_Validation(t *testing.T) {
	srv := setupTestServer(t)

	cases := []map[string]interface{}{
		{"email": "alice@example.com", "password": "s3cret7"},                       // no username
		{"username": "alice", "password": "s3cret7"},                               // no email
		{"username": "alice", "email": "not-an-email", "password": "s3cret7"},      // bad email
		{"username": "alice", "email": "alice@example.com", "password": "12345"},   // short password
		{"username": "", "email": "alice@example.com", "password": "s3cret7"},      // empty username
	}
	for _, payload := range cases {
		resp, body := postJSON(t, srv.URL+"/api/auth/register", payload, "")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.NotEmpty(t, body["error"])
	}
}

func TestLoginAndAuthenticatedRequest(t *testing.T) {
	srv := setupTestServer(t)

	_, registered := postJSON(t, srv.URL+"/api/auth/register", map[string]interface{}{
		"username": "alice", "email": "alice@example.com", "password": "s3cret7",
	}, "")

	resp, body := postJSON(t, srv.URL+"/api/auth/login", map[string]interface{}{
		"email": "alice@example.com", "password": "s3cret7",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	require.Equal(t, registered["user"].(map[string]interface{})["id"], body["user"].(map[string]interface{})["id"])

	// Wrong password.
	resp, body = postJSON(t, srv.URL+"/api/auth/login", map[string]interface{}{
		"email": "alice@example.com", "password": "wrong",
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Invalid credentials", body["error"])

	// A protected route rejects anonymous callers with the JSON error shape.
	anon, err := http.Get(srv.URL + "/api/transactions")
	require.NoError(t, err)
	defer anon.Body.Close()
	require.Equal(t, http.StatusUnauthorized, anon.StatusCode)
	var anonBody map[string]string
	require.NoError(t, json.NewDecoder(anon.Body).Decode(&anonBody))
	require.NotEmpty(t, anonBody["error"])

	// And accepts the issued token.
	resp, body = postJSON(t, srv.URL+"/api/transactions", map[string]interface{}{
		"type": "expense", "category": "Shopping", "amount": 19.99,
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tx := body["transaction"].(map[string]interface{})
	require.Equal(t, 19.99, tx["amount"])

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/dashboard/summary", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	summaryResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer summaryResp.Body.Close()
	require.Equal(t, http.StatusOK, summaryResp.StatusCode)
	var summaryBody map[string]map[string]float64
	require.NoError(t, json.NewDecoder(summaryResp.Body).Decode(&summaryBody))
	require.Equal(t, 19.99, summaryBody["summary"]["total_expenses"])
}

func TestCategoriesEndpoint(t *testing.T) {
	srv := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/api/categories?type=income")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Categories []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"categories"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Categories)
	for _, c := range body.Categories {
		require.Contains(t, []string{"income", "both"}, c.Type)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "healthy", body["status"])
	require.Equal(t, "connected", body["database"])
}
