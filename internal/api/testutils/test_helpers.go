package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rongwang/fintrack/internal/api"
	"github.com/rongwang/fintrack/internal/auth"
	"github.com/rongwang/fintrack/internal/config"
	"github.com/rongwang/fintrack/internal/models"
	"github.com/rongwang/fintrack/internal/repository"
	"github.com/rongwang/fintrack/internal/service"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the password of every user created by CreateUser
const TestPassword = "testpassword"

// TestContext holds all dependencies for tests
type TestContext struct {
	Router      *gin.Engine
	Repository  repository.Repository
	Service     service.Service
	DB          *sqlx.DB
	TestUserID  string
	TestUserJWT string

	t *testing.T
}

// SetupTestContext wires the router over a fresh in-memory SQLite database
// with the default types seeded and one logged-in user.
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	cfg := &config.Config{}
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = fmt.Sprintf("file:api_%s?mode=memory&cache=shared", uuid.NewString())

	// Set up database
	db, err := config.SetupDatabase(context.Background(), cfg)
	require.NoError(t, err, "Failed to set up test database")

	repo := repository.NewSQLRepository(db)
	_, err = repository.SeedDefaults(context.Background(), repo)
	require.NoError(t, err, "Failed to seed default types")

	// Create service
	svc := service.NewDefaultService(repo, service.Dependencies{
		Hasher: auth.NewBcryptHasher(bcrypt.MinCost),
		Tokens: auth.NewTokenManager("test-secret-key", time.Hour),
	})

	// Set up Gin router
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api.NewHandler(svc, nil).SetupRoutes(router)

	tc := &TestContext{
		Router:     router,
		Repository: repo,
		Service:    svc,
		DB:         db,
		t:          t,
	}
	tc.TestUserID, tc.TestUserJWT = tc.CreateUser("testuser")
	return tc
}

// CleanupTestContext cleans up test resources
func CleanupTestContext(tc *TestContext) {
	if tc.DB != nil {
		tc.DB.Close()
	}
}

// CreateUser signs up and logs in a user named name, returning its id and token
func (tc *TestContext) CreateUser(name string) (string, string) {
	tc.t.Helper()
	ctx := context.Background()

	signUp, err := tc.Service.SignUp(ctx, models.SignUpRequest{
		Username: name,
		Email:    name + "@example.com",
		Password: TestPassword,
	})
	require.NoError(tc.t, err, "Failed to create test user")

	login, err := tc.Service.Login(ctx, models.LoginRequest{Username: name, Password: TestPassword})
	require.NoError(tc.t, err, "Failed to log in test user")

	return signUp.UserID, login.Token
}

// GlobalTypeID returns the id of a seeded global type
func (tc *TestContext) GlobalTypeID(kind models.RecordKind, name string) string {
	tc.t.Helper()

	types, err := tc.Service.ListTypes(context.Background(), tc.TestUserID, kind)
	require.NoError(tc.t, err)
	for _, typ := range types {
		if typ.Name == name && typ.Owner.IsGlobal() {
			return typ.ID
		}
	}
	tc.t.Fatalf("no global %s type %q", kind, name)
	return ""
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

// DecodeData unmarshals the data field of a success response into out
func DecodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "success", envelope.Status)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}
