package clients

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
	owner := bson.NewObjectID()

	filter := buildFilterFromQueryParams(url.Values{
		"account_owner": {owner.Hex()},
		"city":          {"Lyon"},
		"search":        {"acme"},
	})

	require.Len(t, filter, 3)
	assert.Equal(t, bson.E{Key: "account_owner", Value: owner}, filter[0])
	assert.Equal(t, bson.E{Key: "address.city", Value: "Lyon"}, filter[1])
	assert.Equal(t, "$or", filter[2].Key)
}

func TestCanRead(t *testing.T) {
	own := bson.NewObjectID()
	client := middlewares.AuthUser{ID: bson.NewObjectID(), Role: schemas.ROLE_CLIENT, ClientID: own}
	orphan := middlewares.AuthUser{ID: bson.NewObjectID(), Role: schemas.ROLE_CLIENT}
	support := middlewares.AuthUser{ID: bson.NewObjectID(), Role: schemas.ROLE_SUPPORT}

	assert.True(t, canRead(client, own))
	assert.False(t, canRead(client, bson.NewObjectID()))
	assert.False(t, canRead(orphan, bson.NilObjectID))
	assert.True(t, canRead(support, own))
}

func TestNewClientFromInput(t *testing.T) {
	commercial := middlewares.AuthUser{ID: bson.NewObjectID(), Role: schemas.ROLE_COMMERCIAL}

	client, problem := newClientFromInput(schemas.ClientInput{
		Company:   ptr("ACME"),
		Email:     ptr(" Compta@ACME.fr"),
		VATNumber: ptr("fr 12 345678901"),
		Address:   &schemas.Address{City: "Lyon"},
	}, commercial, time.Now())

	require.Empty(t, problem)
	assert.Equal(t, "compta@acme.fr", client.Email)
	assert.Equal(t, "FR12345678901", client.VATNumber)
	assert.Equal(t, "Lyon", client.Address.City)
	assert.Equal(t, commercial.ID, client.AccountOwner)
}

func TestNewClientFromInputRequiresCompany(t *testing.T) {
	_, problem := newClientFromInput(schemas.ClientInput{Company: ptr("  ")}, middlewares.AuthUser{}, time.Now())

	assert.Equal(t, "La société est obligatoire", problem)
}

func TestBuildUpdate(t *testing.T) {
	now := time.Now()

	updateDoc, problem := buildUpdate(schemas.ClientInput{Phone: ptr(" 0102030405 ")}, now)

	require.Empty(t, problem)
	assert.Equal(t, bson.D{{Key: "phone", Value: "0102030405"}, {Key: "updated_at", Value: now}}, updateDoc)

	_, problem = buildUpdate(schemas.ClientInput{}, now)
	assert.Equal(t, "Aucun champ à mettre à jour", problem)

	_, problem = buildUpdate(schemas.ClientInput{AccountOwner: ptr("nope")}, now)
	assert.Equal(t, "Identifiant de commercial invalide", problem)
}

func TestGetOneForbidsOtherCompany(t *testing.T) {
	other := bson.NewObjectID().Hex()
	me := middlewares.AuthUser{ID: bson.NewObjectID(), Role: schemas.ROLE_CLIENT, ClientID: bson.NewObjectID()}

	req := httptest.NewRequest(http.MethodGet, "/v1/clients/"+other, nil)
	req.SetPathValue("id", other)
	req = req.WithContext(middlewares.WithUser(req.Context(), me))
	rec := httptest.NewRecorder()

	GetOne(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetMineWithoutClient(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/clients/me", nil)
	req = req.WithContext(middlewares.WithUser(req.Context(), middlewares.AuthUser{ID: bson.NewObjectID(), Role: schemas.ROLE_CLIENT}))
	rec := httptest.NewRecorder()

	GetMine(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlersRejectBadID(t *testing.T) {
	for name, handler := range map[string]http.HandlerFunc{"get": GetOne, "update": UpdateOne, "delete": DeleteOne} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/v1/clients/x", strings.NewReader(`{}`))
			req.SetPathValue("id", "x")
			rec := httptest.NewRecorder()

			handler(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
