package middlewares

import (
	"crm/database"
	"crm/schemas"
	"crm/utils"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var teapot = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
})

func TestAuthRejects(t *testing.T) {
	t.Setenv(utils.JWT_SECRET, "un-secret-de-test")

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"missing", "", "Jeton non fourni"},
		{"not bearer", "Basic YWJj", "Format d'autorisation invalide"},
		{"empty bearer", "Bearer ", "Format d'autorisation invalide"},
		{"garbage", "Bearer abc.def.ghi", "Jeton invalide ou expiré"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			Auth(teapot).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
		})
	}
}

func TestAuthAcceptsValidToken(t *testing.T) {
	t.Setenv(utils.JWT_SECRET, "un-secret-de-test")

	userID := bson.NewObjectID()
	clientID := bson.NewObjectID()
	raw, claims, err := utils.IssueToken(userID.Hex(), schemas.ROLE_CLIENT, "c@example.fr", clientID.Hex(), time.Now())
	require.NoError(t, err)

	var seen AuthUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, found := CurrentUser(r)
		require.True(t, found)
		seen = user
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	Auth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, userID, seen.ID)
	assert.Equal(t, clientID, seen.ClientID)
	assert.Equal(t, claims.ID, seen.TokenID)
	assert.False(t, seen.IsStaff())
}

func TestAuthRejectsSubjectThatIsNotAnID(t *testing.T) {
	t.Setenv(utils.JWT_SECRET, "un-secret-de-test")

	raw, _, err := utils.IssueToken("lea", schemas.ROLE_ADMIN, "a@example.fr", "", time.Now())
	require.NoError(t, err)

	_, status, problem := Authenticate(t.Context(), raw)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Jeton invalide ou expiré", problem)
}

func TestRequireRoles(t *testing.T) {
	handler := RequireRoles(schemas.ROLE_ADMIN, schemas.ROLE_MANAGER)(teapot)

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = req.WithContext(WithUser(req.Context(), AuthUser{ID: bson.NewObjectID(), Role: schemas.ROLE_COMMERCIAL}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = req.WithContext(WithUser(req.Context(), AuthUser{ID: bson.NewObjectID(), Role: schemas.ROLE_MANAGER}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestCors(t *testing.T) {
	t.Setenv(utils.ENV, utils.ENV_DEVELOPMENT)
	handler := Cors(teapot)

	req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Disposition", rec.Header().Get("Access-Control-Expose-Headers"))

	req = httptest.NewRequest(http.MethodOptions, "/v1/clients", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsInRelease(t *testing.T) {
	t.Setenv(utils.ENV, utils.ENV_RELEASE)
	handler := Cors(teapot)

	req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	t.Setenv(utils.ENV, utils.ENV_RELEASE)

	rec := httptest.NewRecorder()
	SecurityHeaders(teapot).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))

	t.Setenv(utils.ENV, utils.ENV_DEVELOPMENT)
	rec = httptest.NewRecorder()
	SecurityHeaders(teapot).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := RequestLogger(zap.New(core))(teapot)

	req := httptest.NewRequest(http.MethodPost, "/v1/tickets", nil)
	req.Header.Set(REQUEST_ID_HEADER, "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(REQUEST_ID_HEADER))
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "/v1/tickets", fields["path"])

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get(REQUEST_ID_HEADER))
}

func TestAuthRefusesRevokedToken(t *testing.T) {
	t.Setenv(utils.JWT_SECRET, "un-secret-de-test")
	server := miniredis.RunT(t)
	database.UseRedis(redis.NewClient(&redis.Options{Addr: server.Addr()}))
	t.Cleanup(func() {
		database.CloseRedis()
		database.UseRedis(nil)
	})

	raw, claims, err := utils.IssueToken(bson.NewObjectID().Hex(), schemas.ROLE_MANAGER, "m@example.fr", "", time.Now())
	require.NoError(t, err)

	_, status, _ := Authenticate(t.Context(), raw)
	require.Zero(t, status)

	require.NoError(t, database.RevokeToken(t.Context(), claims.ID, claims.ExpiresAt.Time))
	_, status, problem := Authenticate(t.Context(), raw)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Jeton révoqué", problem)
}

func TestAuthFailsClosedWhenRevocationCheckFails(t *testing.T) {
	t.Setenv(utils.JWT_SECRET, "un-secret-de-test")
	server := miniredis.RunT(t)
	database.UseRedis(redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1}))
	t.Cleanup(func() {
		database.CloseRedis()
		database.UseRedis(nil)
	})
	server.Close()

	raw, _, err := utils.IssueToken(bson.NewObjectID().Hex(), schemas.ROLE_ADMIN, "a@example.fr", "", time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	Auth(teapot).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
