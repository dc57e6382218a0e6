package auth

import (
	"crm/middlewares"
	"crm/schemas"
	"crm/utils"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name    string
		req     registerRequest
		problem string
	}{
		{"valid", registerRequest{Name: " Léa ", Email: " LEA@Example.fr ", Password: "motdepasse"}, ""},
		{"missing name", registerRequest{Email: "lea@example.fr", Password: "motdepasse"}, "Le nom est obligatoire"},
		{"bad email", registerRequest{Name: "Léa", Email: "lea", Password: "motdepasse"}, "Adresse e-mail invalide"},
		{"short password", registerRequest{Name: "Léa", Email: "lea@example.fr", Password: "court"}, "Le mot de passe doit contenir au moins 8 caractères"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			assert.Equal(t, tt.problem, validateRegistration(&req))
		})
	}
}

func TestValidateRegistrationNormalises(t *testing.T) {
	req := registerRequest{Name: " Léa ", Email: " LEA@Example.fr ", Password: "motdepasse"}

	require.Empty(t, validateRegistration(&req))
	assert.Equal(t, "Léa", req.Name)
	assert.Equal(t, "lea@example.fr", req.Email)
}

func TestIssueForRefusesInactiveUser(t *testing.T) {
	t.Setenv(utils.JWT_SECRET, "test-secret")

	_, err := issueFor(schemas.User{ID: bson.NewObjectID(), Active: false}, time.Now())

	assert.ErrorIs(t, err, errInactive)
}

func TestIssueForCarriesClientID(t *testing.T) {
	t.Setenv(utils.JWT_SECRET, "test-secret")

	user := schemas.User{ID: bson.NewObjectID(), Role: schemas.ROLE_CLIENT, Email: "c@example.fr", Active: true, ClientID: bson.NewObjectID()}

	response, err := issueFor(user, time.Now())
	require.NoError(t, err)

	claims, err := utils.ParseToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.Subject)
	assert.Equal(t, user.ClientID.Hex(), claims.ClientID)
	assert.Equal(t, schemas.ROLE_CLIENT, claims.Role)
}

func TestRegisterRejectsInvalidBody(t *testing.T) {
	rec := httptest.NewRecorder()
	Register(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	body := `{"name":"Léa","email":"lea@example.fr","password":"court"}`
	rec := httptest.NewRecorder()
	Register(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "8 caractères")
}

func TestLoginRequiresCredentials(t *testing.T) {
	rec := httptest.NewRecorder()
	Login(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(`{"email":""}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangePasswordRejectsShortPassword(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/v1/auth/password", strings.NewReader(`{"current_password":"ancienmdp","new_password":"court"}`))
	req = req.WithContext(middlewares.WithUser(req.Context(), middlewares.AuthUser{ID: bson.NewObjectID(), Role: schemas.ROLE_CLIENT}))
	rec := httptest.NewRecorder()

	ChangePassword(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutWithoutRedisSucceeds(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	req = req.WithContext(middlewares.WithUser(req.Context(), middlewares.AuthUser{ID: bson.NewObjectID(), TokenID: "jti", ExpiresAt: time.Now().Add(time.Hour)}))
	rec := httptest.NewRecorder()

	Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccountProblem(t *testing.T) {
	tests := []struct {
		name    string
		user    schemas.User
		found   bool
		status  int
		problem string
	}{
		{"deleted", schemas.User{}, false, http.StatusNotFound, "Utilisateur introuvable"},
		{"deactivated", schemas.User{Active: false}, true, http.StatusForbidden, "Compte désactivé"},
		{"active", schemas.User{Active: true}, true, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, problem := accountProblem(tt.user, tt.found)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.problem, problem)
		})
	}
}
