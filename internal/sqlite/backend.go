// Package sqlite implements the SQLite persistence backend for Cadence.
// SQLite is the query engine; the JSONL files in the data directory are the
// source of truth and are rebuilt into a fresh database on every Attach.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/cadence/pkg/types"
)

// dbFileName is the SQLite database created inside the data directory.
const dbFileName = "cadence.db"

// Backend persists Scheduling Store snapshots.
type Backend struct {
	mu       sync.Mutex
	attached bool
	config   types.Config
	db       *sql.DB
	fresh    bool // No JSONL files existed at Attach.
	logger   *zap.Logger

	syncStrategy string
	pending      *types.Snapshot // Latest unsaved snapshot under on_close.
	observeErr   error           // Errors from Observe since Attach.
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for debug and warning output.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, creates missing JSONL files, builds a
// fresh SQLite schema, and loads the JSONL files into it.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// The database is a cache of the JSONL files and is rebuilt every time.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return err
	}

	fresh, err := initJSONLFiles(dataDir)
	if err != nil {
		db.Close()
		return fmt.Errorf("init JSONL: %w", err)
	}
	if err := loadAllJSONL(db, dataDir, b.logger); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	config.DataDir = dataDir
	b.config = config
	b.db = db
	b.fresh = fresh
	b.syncStrategy = config.GetSyncStrategy()
	b.pending = nil
	b.observeErr = nil
	b.attached = true

	b.logger.Debug("backend attached",
		zap.String("data_dir", dataDir),
		zap.String("sync_strategy", b.syncStrategy),
		zap.Bool("fresh", fresh))
	return nil
}

func createSchema(db *sql.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}

// Detach flushes any pending snapshot and closes the database. After Detach,
// operations return ErrDetached. Detach is idempotent. The returned error
// includes any error recorded by Observe.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	var errs []error
	if b.pending != nil {
		b.logger.Debug("flushing pending snapshot")
		if err := b.writeSnapshotLocked(*b.pending); err != nil {
			errs = append(errs, fmt.Errorf("flush pending snapshot: %w", err))
		}
		b.pending = nil
	}
	if b.observeErr != nil {
		errs = append(errs, b.observeErr)
	}
	if err := b.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing database: %w", err))
	}

	b.db = nil
	b.attached = false
	return errors.Join(errs...)
}

// Fresh reports whether the data directory held no JSONL files at Attach.
func (b *Backend) Fresh() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fresh
}

// DataDir returns the attached data directory.
func (b *Backend) DataDir() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.config.DataDir
}

// Observe saves snap and records any error for Err and Detach. Its signature
// matches store.Observer so the backend can subscribe to a store directly.
func (b *Backend) Observe(snap types.Snapshot) {
	if err := b.Save(snap); err != nil {
		b.mu.Lock()
		b.observeErr = errors.Join(b.observeErr, err)
		b.mu.Unlock()
		b.logger.Warn("saving snapshot failed", zap.Error(err))
	}
}

// Err returns the errors recorded by Observe since Attach.
func (b *Backend) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.observeErr
}
