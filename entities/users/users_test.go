package users

import (
	"crm/middlewares"
	"crm/schemas"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func ptr[T any](v T) *T { return &v }

func TestBuildFilterFromQueryParams(t *testing.T) {
	filter := buildFilterFromQueryParams(url.Values{
		"role":   {schemas.ROLE_SUPPORT},
		"active": {"false"},
		"search": {"dupont"},
	})

	require.Len(t, filter, 3)
	assert.Equal(t, bson.E{Key: "role", Value: schemas.ROLE_SUPPORT}, filter[0])
	assert.Equal(t, bson.E{Key: "active", Value: false}, filter[1])
	assert.Equal(t, "$or", filter[2].Key)
}

func TestBuildFilterIgnoresUnknownRole(t *testing.T) {
	filter := buildFilterFromQueryParams(url.Values{"role": {"root"}})

	assert.Empty(t, filter)
}

func TestNewUserFromInput(t *testing.T) {
	now := time.Now()

	user, problem := newUserFromInput(schemas.UserInput{
		Name:     ptr(" Paul "),
		Email:    ptr("Paul@Example.fr"),
		Password: ptr("motdepasse"),
		Role:     ptr(schemas.ROLE_SUPPORT),
	}, now)

	require.Empty(t, problem)
	assert.Equal(t, "Paul", user.Name)
	assert.Equal(t, "paul@example.fr", user.Email)
	assert.Equal(t, schemas.ROLE_SUPPORT, user.Role)
	assert.True(t, user.Active)
	assert.False(t, user.ID.IsZero())
}

func TestNewUserFromInputProblems(t *testing.T) {
	base := func() schemas.UserInput {
		return schemas.UserInput{Name: ptr("Paul"), Email: ptr("paul@example.fr"), Password: ptr("motdepasse")}
	}

	badRole := base()
	badRole.Role = ptr("root")
	_, problem := newUserFromInput(badRole, time.Now())
	assert.Equal(t, "Rôle invalide", problem)

	orphanClient := base()
	orphanClient.Role = ptr(schemas.ROLE_CLIENT)
	_, problem = newUserFromInput(orphanClient, time.Now())
	assert.Equal(t, "Un compte client doit être rattaché à un client", problem)

	noPassword := base()
	noPassword.Password = nil
	_, problem = newUserFromInput(noPassword, time.Now())
	assert.NotEmpty(t, problem)
}

func TestBuildUpdate(t *testing.T) {
	now := time.Now()

	updateDoc, problem := buildUpdate(schemas.UserInput{Name: ptr("Jeanne"), Active: ptr(false)}, now)

	require.Empty(t, problem)
	assert.Equal(t, bson.D{
		{Key: "name", Value: "Jeanne"},
		{Key: "active", Value: false},
		{Key: "updated_at", Value: now},
	}, updateDoc)
}

func TestBuildUpdateEmpty(t *testing.T) {
	_, problem := buildUpdate(schemas.UserInput{}, time.Now())

	assert.Equal(t, "Aucun champ à mettre à jour", problem)
}

func TestGetOneRejectsBadID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/users/nope", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()

	GetOne(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateOneRefusesSelfDemotion(t *testing.T) {
	me := middlewares.AuthUser{ID: bson.NewObjectID(), Role: schemas.ROLE_ADMIN}
	req := httptest.NewRequest(http.MethodPatch, "/v1/users/"+me.ID.Hex(), strings.NewReader(`{"role":"support"}`))
	req.SetPathValue("id", me.ID.Hex())
	req = req.WithContext(middlewares.WithUser(req.Context(), me))
	rec := httptest.NewRecorder()

	UpdateOne(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteOneRefusesSelf(t *testing.T) {
	me := middlewares.AuthUser{ID: bson.NewObjectID(), Role: schemas.ROLE_ADMIN}
	req := httptest.NewRequest(http.MethodDelete, "/v1/users/"+me.ID.Hex(), nil)
	req.SetPathValue("id", me.ID.Hex())
	req = req.WithContext(middlewares.WithUser(req.Context(), me))
	rec := httptest.NewRecorder()

	DeleteOne(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
