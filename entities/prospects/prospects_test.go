package prospects

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
		"status":      {schemas.PROSPECT_STATUS_QUALIFIED},
		"source":      {"salon"},
		"assigned_to": {owner.Hex()},
		"from":        {"2026-01-01"},
	})

	require.Len(t, filter, 4)
	assert.Equal(t, bson.E{Key: "status", Value: schemas.PROSPECT_STATUS_QUALIFIED}, filter[0])
	assert.Equal(t, bson.E{Key: "source", Value: "salon"}, filter[1])
	assert.Equal(t, bson.E{Key: "assigned_to", Value: owner}, filter[2])
	assert.Equal(t, "created_at", filter[3].Key)
}

func TestBuildFilterSkipsInvalidValues(t *testing.T) {
	filter := buildFilterFromQueryParams(url.Values{
		"status":      {"Inconnu"},
		"assigned_to": {"pas-un-id"},
		"until":       {"hier"},
	})

	assert.Empty(t, filter)
}

func TestScopeFilter(t *testing.T) {
	commercial := middlewares.AuthUser{ID: bson.NewObjectID(), Role: schemas.ROLE_COMMERCIAL}
	manager := middlewares.AuthUser{ID: bson.NewObjectID(), Role: schemas.ROLE_MANAGER}
	id := bson.NewObjectID()

	assert.Equal(t, bson.D{{Key: "_id", Value: id}, {Key: "assigned_to", Value: commercial.ID}}, byID(commercial, id))
	assert.Equal(t, bson.D{{Key: "_id", Value: id}}, byID(manager, id))
}

func TestNewProspectFromInputAssignsCommercial(t *testing.T) {
	commercial := middlewares.AuthUser{ID: bson.NewObjectID(), Role: schemas.ROLE_COMMERCIAL}
	other := bson.NewObjectID()
	now := time.Now()

	prospect, problem := newProspectFromInput(schemas.ProspectInput{
		Company:    ptr(" Boulangerie Martin "),
		Email:      ptr("Contact@Martin.FR"),
		AssignedTo: ptr(other.Hex()),
	}, commercial, now)

	require.Empty(t, problem)
	assert.Equal(t, "Boulangerie Martin", prospect.Company)
	assert.Equal(t, "contact@martin.fr", prospect.Email)
	assert.Equal(t, schemas.PROSPECT_STATUS_NEW, prospect.Status)
	assert.Equal(t, commercial.ID, prospect.AssignedTo)
	assert.Equal(t, now, prospect.CreatedAt)
}

func TestNewProspectFromInputKeepsManagerAssignment(t *testing.T) {
	manager := middlewares.AuthUser{ID: bson.NewObjectID(), Role: schemas.ROLE_MANAGER}
	other := bson.NewObjectID()

	prospect, problem := newProspectFromInput(schemas.ProspectInput{
		ContactName: ptr("Claire Martin"),
		AssignedTo:  ptr(other.Hex()),
	}, manager, time.Now())

	require.Empty(t, problem)
	assert.Equal(t, other, prospect.AssignedTo)
}

func TestNewProspectFromInputProblems(t *testing.T) {
	manager := middlewares.AuthUser{ID: bson.NewObjectID(), Role: schemas.ROLE_MANAGER}

	_, problem := newProspectFromInput(schemas.ProspectInput{Email: ptr("a@b.fr")}, manager, time.Now())
	assert.Equal(t, "La société ou le nom du contact est obligatoire", problem)

	_, problem = newProspectFromInput(schemas.ProspectInput{
		Company: ptr("ACME"),
		Status:  ptr(schemas.PROSPECT_STATUS_CONVERTED),
	}, manager, time.Now())
	assert.Equal(t, "Statut de prospect invalide", problem)

	_, problem = newProspectFromInput(schemas.ProspectInput{
		Company:    ptr("ACME"),
		AssignedTo: ptr("zzz"),
	}, manager, time.Now())
	assert.Equal(t, "Identifiant de commercial invalide", problem)
}

func TestBuildUpdate(t *testing.T) {
	manager := middlewares.AuthUser{ID: bson.NewObjectID(), Role: schemas.ROLE_MANAGER}
	now := time.Now()

	updateDoc, problem := buildUpdate(schemas.ProspectInput{
		Status: ptr(schemas.PROSPECT_STATUS_CONTACTED),
		Notes:  ptr("rappeler lundi"),
	}, manager, now)

	require.Empty(t, problem)
	assert.Equal(t, bson.D{
		{Key: "notes", Value: "rappeler lundi"},
		{Key: "status", Value: schemas.PROSPECT_STATUS_CONTACTED},
		{Key: "updated_at", Value: now},
	}, updateDoc)
}

func TestBuildUpdateProblems(t *testing.T) {
	commercial := middlewares.AuthUser{ID: bson.NewObjectID(), Role: schemas.ROLE_COMMERCIAL}

	_, problem := buildUpdate(schemas.ProspectInput{}, commercial, time.Now())
	assert.Equal(t, "Aucun champ à mettre à jour", problem)

	_, problem = buildUpdate(schemas.ProspectInput{AssignedTo: ptr(bson.NewObjectID().Hex())}, commercial, time.Now())
	assert.Equal(t, "Seul un responsable peut réattribuer un prospect", problem)

	_, problem = buildUpdate(schemas.ProspectInput{Status: ptr(schemas.PROSPECT_STATUS_CONVERTED)}, commercial, time.Now())
	assert.Equal(t, "Statut de prospect invalide", problem)
}

func TestPortalAccount(t *testing.T) {
	prospect := schemas.Prospect{ID: bson.NewObjectID(), Company: "ACME", Email: "achats@acme.fr"}
	client := schemas.Client{ID: bson.NewObjectID()}

	account := portalAccount(prospect, client, "hash", time.Now())

	require.NotNil(t, account)
	assert.Equal(t, "ACME", account.Name)
	assert.Equal(t, schemas.ROLE_CLIENT, account.Role)
	assert.Equal(t, client.ID, account.ClientID)
	assert.True(t, account.Active)

	prospect.Email = ""
	assert.Nil(t, portalAccount(prospect, client, "hash", time.Now()))
}

func TestHandlersRejectBadID(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"get":     GetOne,
		"update":  UpdateOne,
		"delete":  DeleteOne,
		"convert": ConvertOne,
	}

	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/prospects/nope", strings.NewReader(`{}`))
			req.SetPathValue("id", "nope")
			rec := httptest.NewRecorder()

			handler(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateOneValidatesBeforeStorage(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/prospects", strings.NewReader(`{"email":"x@y.fr"}`))
	req = req.WithContext(middlewares.WithUser(req.Context(), middlewares.AuthUser{ID: bson.NewObjectID(), Role: schemas.ROLE_COMMERCIAL}))
	rec := httptest.NewRecorder()

	CreateOne(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "obligatoire")
}
