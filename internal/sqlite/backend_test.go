// Tests for the SQLite backend lifecycle and snapshot persistence.
package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/cadence/pkg/types"
)

func attach(t *testing.T, dataDir string, strategy string) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend:      types.BackendSQLite,
		DataDir:      dataDir,
		SyncStrategy: strategy,
	}))
	t.Cleanup(func() { _ = b.Detach() })
	return b
}

func sampleSnapshot() types.Snapshot {
	return types.Snapshot{
		Companies: []types.Company{
			{
				ID:                       "c-2",
				Name:                     "Zeta",
				Location:                 "Oslo",
				LinkedInProfile:          "https://www.linkedin.com/company/zeta",
				Emails:                   []string{"hello@zeta.example.com", "ops@zeta.example.com"},
				PhoneNumbers:             []string{"+4721000000"},
				Comments:                 "prefers email",
				CommunicationPeriodicity: 7,
			},
			{
				ID:                       "c-1",
				Name:                     "Alpha",
				Location:                 "Lisbon",
				LinkedInProfile:          "https://www.linkedin.com/company/alpha",
				Emails:                   []string{"hi@alpha.example.com"},
				PhoneNumbers:             []string{"+351210000000"},
				CommunicationPeriodicity: 30,
			},
		},
		CommunicationMethods: append(types.DefaultCommunicationMethods(),
			types.CommunicationMethod{ID: "m-x", Name: "Conference", Description: "booth visit", Sequence: 6}),
		Communications: []types.Communication{
			{ID: "k-2", CompanyID: "c-1", MethodID: "3", Date: time.Date(2024, time.May, 2, 0, 0, 0, 0, time.Local), Notes: "follow-up"},
			{ID: "k-1", CompanyID: "c-2", MethodID: "m-x", Date: time.Date(2024, time.April, 30, 0, 0, 0, 0, time.Local)},
		},
	}
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()
	b := attach(t, tmpDir, "")

	_, err := os.Stat(filepath.Join(tmpDir, dbFileName))
	assert.NoError(t, err, "database file should be created")
	for _, name := range jsonlFiles {
		info, err := os.Stat(filepath.Join(tmpDir, name))
		require.NoError(t, err, "%s should be created", name)
		assert.Zero(t, info.Size())
	}

	err = b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: tmpDir})
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)
	assert.Equal(t, tmpDir, b.DataDir())
}

func TestBackend_AttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend()
	assert.ErrorIs(t, b.Attach(types.Config{DataDir: t.TempDir()}), types.ErrBackendEmpty)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: "postgres"}), types.ErrBackendUnknown)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: types.BackendSQLite, SyncStrategy: "batch"}), types.ErrSyncStrategyUnknown)
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "Detach is idempotent")

	_, _, err := b.Load()
	assert.ErrorIs(t, err, types.ErrDetached)
	assert.ErrorIs(t, b.Save(types.Snapshot{}), types.ErrDetached)
}

func TestBackend_FreshDataDirLoadsNothing(t *testing.T) {
	b := attach(t, t.TempDir(), "")

	assert.True(t, b.Fresh())
	snap, ok, err := b.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, snap.Companies)
}

func TestBackend_SaveLoadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	want := sampleSnapshot()

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}))
	require.NoError(t, b.Save(want))
	assert.False(t, b.Fresh())
	require.NoError(t, b.Detach())

	reopened := attach(t, tmpDir, "")
	assert.False(t, reopened.Fresh())

	got, ok, err := reopened.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Companies, got.Companies, "companies keep insertion order and fields")
	assert.Equal(t, want.CommunicationMethods, got.CommunicationMethods)
	require.Len(t, got.Communications, 2)
	assert.Equal(t, "k-2", got.Communications[0].ID)
	assert.Equal(t, "k-1", got.Communications[1].ID)
	assert.True(t, want.Communications[0].Date.Equal(got.Communications[0].Date))
	assert.Equal(t, "follow-up", got.Communications[0].Notes)
}

func TestBackend_SaveReplacesPreviousSnapshot(t *testing.T) {
	tmpDir := t.TempDir()
	b := attach(t, tmpDir, "")

	snap := sampleSnapshot()
	require.NoError(t, b.Save(snap))

	snap.Companies = snap.Companies[1:]
	snap.CommunicationMethods = nil
	require.NoError(t, b.Save(snap))

	got, ok, err := b.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got.Companies, 1)
	assert.Equal(t, "c-1", got.Companies[0].ID)
	assert.Empty(t, got.CommunicationMethods, "an emptied collection stays empty")

	records, _, err := readJSONL(filepath.Join(tmpDir, companiesJSONL))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestBackend_OnCloseDefersWrites(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: tmpDir, SyncStrategy: types.SyncOnClose}))
	require.NoError(t, b.Save(sampleSnapshot()))

	info, err := os.Stat(filepath.Join(tmpDir, companiesJSONL))
	require.NoError(t, err)
	assert.Zero(t, info.Size(), "nothing is written before Detach")

	require.NoError(t, b.Detach())

	records, _, err := readJSONL(filepath.Join(tmpDir, companiesJSONL))
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestBackend_ObserveRecordsErrors(t *testing.T) {
	b := NewBackend()
	b.Observe(sampleSnapshot())

	err := b.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDetached))
}

func TestBackend_ObserveSaves(t *testing.T) {
	tmpDir := t.TempDir()
	b := attach(t, tmpDir, "")

	b.Observe(sampleSnapshot())
	require.NoError(t, b.Err())

	got, ok, err := b.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got.Companies, 2)
}
