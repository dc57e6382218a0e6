package database

import (
	"crm/utils"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDB(t *testing.T) {
	t.Setenv(utils.ENV, utils.ENV_RELEASE)
	assert.Equal(t, "production", GetDB())

	t.Setenv(utils.ENV, utils.ENV_HOMOLOG)
	assert.Equal(t, "homolog", GetDB())

	t.Setenv(utils.ENV, utils.ENV_DEVELOPMENT)
	assert.Equal(t, "development", GetDB())

	t.Setenv(utils.ENV, "")
	assert.Panics(t, func() { GetDB() })
}

func TestCollectionWithoutClient(t *testing.T) {
	assert.Panics(t, func() { Collection(COLLECTION_CLIENTS) })
	assert.NoError(t, DisconnectMongo(t.Context()))
}

func TestTimeout(t *testing.T) {
	ctx, cancel := Timeout(t.Context())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(MONGO_TIMEOUT), deadline, time.Second)
}

func TestOpenMySQL(t *testing.T) {
	assert.Error(t, OpenMySQL("pas un dsn"))
	assert.Nil(t, MySQL())

	require.NoError(t, OpenMySQL("crm:secret@tcp(127.0.0.1:3306)/legacy_crm"))
	assert.NotNil(t, MySQL())

	require.NoError(t, CloseMySQL())
	mysqlDB = nil
	assert.NoError(t, CloseMySQL())
}
