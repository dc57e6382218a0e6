package utils

import (
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadEnvFile(t *testing.T) {
	for _, key := range allowedKeys {
		t.Setenv(key, "")
	}

	path := writeEnv(t, `# local
ENV=development
PORT=8080

MONGODB_URI="mongodb://localhost:27017/crm"
JWT_SECRET='s3cret'
`)

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "development", os.Getenv(ENV))
	assert.Equal(t, "mongodb://localhost:27017/crm", os.Getenv(MONGODB_URI))
	assert.Equal(t, "s3cret", os.Getenv(JWT_SECRET))
	assert.False(t, IsRelease())
}

func TestLoadEnvFileRejects(t *testing.T) {
	for _, key := range allowedKeys {
		t.Setenv(key, "")
	}

	tests := []struct {
		name    string
		content string
		message string
	}{
		{"empty", "", "est vide"},
		{"no equals", "ENV\n", "Format invalide à la ligne 1"},
		{"unknown key", "FOO=bar\n", "Clé 'FOO' non autorisée"},
		{"bad env", "ENV=staging\n", "Valeur invalide pour ENV"},
		{"missing required", "ENV=production\nPORT=80\n", "MONGODB_URI, JWT_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := LoadEnvFile(writeEnv(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env"))
	assert.Error(t, err)
}

func TestLoadEnvVariablesPanics(t *testing.T) {
	assert.Panics(t, func() { LoadEnvVariables(filepath.Join(t.TempDir(), "absent.env")) })
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query string
		page  int64
		limit int64
	}{
		{"", 1, DEFAULT_PAGE_LIMIT},
		{"page=3&limit=20", 3, 20},
		{"page=0&limit=-5", 1, DEFAULT_PAGE_LIMIT},
		{"page=abc&limit=1000", 1, MAX_PAGE_LIMIT},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			params, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			p := ParsePagination(params)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
		})
	}
}

func TestPaginationEnvelope(t *testing.T) {
	p := Pagination{Page: 3, Limit: 10}
	assert.Equal(t, int64(20), p.Skip())

	body := p.Envelope([]string{"a"}, 25)
	meta := body["pagination"].(map[string]any)
	assert.Equal(t, int64(3), meta["total_pages"])
	assert.Equal(t, int64(25), meta["total_items"])
	assert.Equal(t, []string{"a"}, body["items"])
}

func TestParseSort(t *testing.T) {
	fallback := bson.D{{Key: "created_at", Value: -1}}
	allowed := []string{"company", "created_at"}

	params := url.Values{"sort": {"-company, created_at,password"}}
	assert.Equal(t, bson.D{{Key: "company", Value: -1}, {Key: "created_at", Value: 1}}, ParseSort(params, allowed, fallback))

	assert.Equal(t, fallback, ParseSort(url.Values{"sort": {"password"}}, allowed, fallback))
	assert.Equal(t, fallback, ParseSort(url.Values{}, allowed, fallback))
}

func TestSearchFilter(t *testing.T) {
	filter := SearchFilter(" a.b ", "company", "email")

	assert.Equal(t, "$or", filter.Key)
	or := filter.Value.(bson.A)
	require.Len(t, or, 2)
	assert.Equal(t, bson.D{{Key: "company", Value: bson.D{{Key: "$regex", Value: `a\.b`}, {Key: "$options", Value: "i"}}}}, or[0])
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2024-03-01", "2024-03-01T10:00:00Z", "2024-03-01T10:00:00+02:00"} {
		assert.True(t, IsValidDate(s), s)
	}
	assert.False(t, IsValidDate(""))
	assert.False(t, IsValidDate("01/03/2024"))
}

func TestParsePeriod(t *testing.T) {
	period := ParsePeriod(url.Values{"from": {"2024-01-01"}, "until": {"2024-01-31"}})

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), period.From)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC), period.Until)
	assert.Equal(t, "2024-01-01T00:00:00Z_2024-01-31T23:59:59Z", period.Key())
	assert.Equal(t, bson.D{{Key: "created_at", Value: bson.D{
		{Key: "$gte", Value: period.From},
		{Key: "$lte", Value: period.Until},
	}}}, period.Filter("created_at"))

	open := ParsePeriod(url.Values{"from": {"nope"}})
	assert.True(t, open.IsZero())
	assert.Equal(t, "-_-", open.Key())
	assert.Empty(t, open.Filter("created_at"))

	assert.Equal(t, "2024-07", MonthKey(time.Date(2024, 7, 14, 0, 0, 0, 0, time.UTC)))
}

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv(JWT_SECRET, "un-secret-de-test")

	raw, issued, err := IssueToken("user-1", "commercial", "lea@example.fr", "", time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := ParseToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "commercial", claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestParseTokenRejects(t *testing.T) {
	t.Setenv(JWT_SECRET, "un-secret-de-test")

	expired, _, err := IssueToken("user-1", "admin", "a@example.fr", "", time.Now().Add(-2*TOKEN_TTL))
	require.NoError(t, err)
	_, err = ParseToken(expired)
	assert.Error(t, err)

	_, err = ParseToken("not-a-token")
	assert.Error(t, err)

	signed, _, err := IssueToken("user-1", "admin", "a@example.fr", "", time.Now())
	require.NoError(t, err)
	t.Setenv(JWT_SECRET, "autre-secret")
	_, err = ParseToken(signed)
	assert.Error(t, err)

	t.Setenv(JWT_SECRET, "")
	_, _, err = IssueToken("user-1", "admin", "a@example.fr", "", time.Now())
	assert.ErrorIs(t, err, ErrMissingSecret)
	_, err = ParseToken(signed)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestPasswords(t *testing.T) {
	_, err := HashPassword("court")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	hash, err := HashPassword("motdepasse")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "motdepasse"))
	assert.False(t, CheckPassword(hash, "mauvais-mot"))

	generated, err := GeneratePassword()
	require.NoError(t, err)
	assert.Len(t, generated, 16)
	other, err := GeneratePassword()
	require.NoError(t, err)
	assert.NotEqual(t, generated, other)
}

func TestObjectIDs(t *testing.T) {
	id := bson.NewObjectID()

	req := httptest.NewRequest("GET", "/v1/prospects/"+id.Hex(), nil)
	req.SetPathValue("id", id.Hex())
	parsed, ok := PathObjectID(req, "id")
	assert.True(t, ok)
	assert.Equal(t, id, parsed)

	req.SetPathValue("id", "123")
	_, ok = PathObjectID(req, "id")
	assert.False(t, ok)

	empty, ok := OptionalObjectID("")
	assert.True(t, ok)
	assert.True(t, empty.IsZero())

	_, ok = OptionalObjectID("zz")
	assert.False(t, ok)
}

func TestSendResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	SendResponse(rec, 204, "", nil, 0)
	assert.Equal(t, 204, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = httptest.NewRecorder()
	SendResponse(rec, 500, "ignored", nil, CANNOT_RENDER_REPORT)
	assert.Equal(t, 500, rec.Code)
	assert.Contains(t, rec.Body.String(), SendInternalError(CANNOT_RENDER_REPORT))
	assert.NotContains(t, rec.Body.String(), "ignored")
}
