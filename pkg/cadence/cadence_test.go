package cadence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/cadence/pkg/types"
)

func config(dataDir string) types.Config {
	return types.Config{Backend: types.BackendSQLite, DataDir: dataDir}
}

func TestOpenFreshSeedsDefaults(t *testing.T) {
	dataDir := t.TempDir()

	s, err := Open(config(dataDir))
	require.NoError(t, err)
	assert.Len(t, s.Store.CommunicationMethods(), 5)
	assert.Equal(t, dataDir, s.DataDir())
	require.NoError(t, s.Close())

	reopened, err := Open(config(dataDir))
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, types.DefaultCommunicationMethods(), reopened.Store.CommunicationMethods())
}

func TestOpenPersistsMutations(t *testing.T) {
	dataDir := t.TempDir()
	today := time.Date(2024, time.June, 3, 9, 0, 0, 0, time.Local)

	s, err := Open(config(dataDir))
	require.NoError(t, err)
	s.Store.AddCompany(types.Company{
		ID:                       "c-1",
		Name:                     "Northwind",
		Location:                 "Seattle",
		LinkedInProfile:          "https://www.linkedin.com/company/northwind",
		Emails:                   []string{"sales@northwind.example.com"},
		PhoneNumbers:             []string{"+12065550100"},
		CommunicationPeriodicity: 14,
	})
	s.Store.AddCommunication(types.Communication{
		ID: "k-1", CompanyID: "c-1", MethodID: "3", Date: types.Day(today),
	})
	s.Store.DeleteCommunicationMethod("5")
	require.NoError(t, s.Err())
	require.NoError(t, s.Close())

	reopened, err := Open(config(dataDir), WithClock(func() time.Time { return today }))
	require.NoError(t, err)
	defer reopened.Close()

	assert.Len(t, reopened.Store.Companies(), 1)
	assert.Len(t, reopened.Store.CommunicationMethods(), 4, "a deleted default stays deleted")
	next, ok := reopened.Store.NextScheduledCommunication("c-1")
	require.True(t, ok)
	assert.Equal(t, "2024-06-17", next.Format(types.DateLayout))
}

func TestOpenOnCloseStrategy(t *testing.T) {
	dataDir := t.TempDir()
	cfg := config(dataDir)
	cfg.SyncStrategy = types.SyncOnClose

	s, err := Open(cfg)
	require.NoError(t, err)
	s.Store.AddCommunicationMethod(types.CommunicationMethod{ID: "6", Name: "Newsletter", Sequence: 6})
	require.NoError(t, s.Close())

	reopened, err := Open(config(dataDir))
	require.NoError(t, err)
	defer reopened.Close()
	assert.Len(t, reopened.Store.CommunicationMethods(), 6)
}

func TestOpenInvalidConfig(t *testing.T) {
	_, err := Open(types.Config{DataDir: t.TempDir()})
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}

func TestCloseStopsPersisting(t *testing.T) {
	s, err := Open(config(t.TempDir()))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s.Store.AddCommunicationMethod(types.CommunicationMethod{ID: "6", Name: "Fax", Sequence: 6})
	assert.NoError(t, s.Err(), "mutations after Close are not sent to the backend")
	assert.NoError(t, s.Close())
}
