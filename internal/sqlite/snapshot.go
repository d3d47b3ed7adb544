// This file implements snapshot load and save.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/cadence/pkg/types"
)

// Load returns the persisted collections in insertion order. The boolean is
// false when the data directory was fresh, in which case the caller should
// start from a newly seeded store.
func (b *Backend) Load() (types.Snapshot, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.Snapshot{}, false, types.ErrDetached
	}
	if b.fresh {
		return types.Snapshot{}, false, nil
	}
	snap, err := b.querySnapshotLocked()
	if err != nil {
		return types.Snapshot{}, false, err
	}
	return snap, true, nil
}

// Save replaces the persisted collections with snap. Under the on_close sync
// strategy the snapshot is held until Detach.
func (b *Backend) Save(snap types.Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrDetached
	}
	b.fresh = false

	if b.syncStrategy == types.SyncOnClose {
		snap = snap.Clone()
		b.pending = &snap
		return nil
	}
	return b.writeSnapshotLocked(snap)
}

// writeSnapshotLocked replaces the table contents in one transaction and then
// rewrites the JSONL files from the database. The caller must hold b.mu.
func (b *Backend) writeSnapshotLocked(snap types.Snapshot) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"companies", "communication_methods", "communications"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	if err := insertCompanies(tx, snap.Companies); err != nil {
		return err
	}
	if err := insertMethods(tx, snap.CommunicationMethods); err != nil {
		return err
	}
	if err := insertCommunications(tx, snap.Communications); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}

	if err := b.persistJSONLLocked(); err != nil {
		return err
	}
	b.logger.Debug("snapshot saved",
		zap.Int("companies", len(snap.Companies)),
		zap.Int("communication_methods", len(snap.CommunicationMethods)),
		zap.Int("communications", len(snap.Communications)))
	return nil
}

// persistJSONLLocked rewrites all three JSONL files from the database.
func (b *Backend) persistJSONLLocked() error {
	snap, err := b.querySnapshotLocked()
	if err != nil {
		return err
	}

	files := []struct {
		name    string
		records func() ([]json.RawMessage, error)
	}{
		{companiesJSONL, func() ([]json.RawMessage, error) { return marshalJSONL(snap.Companies) }},
		{methodsJSONL, func() ([]json.RawMessage, error) { return marshalJSONL(snap.CommunicationMethods) }},
		{communicationsJSONL, func() ([]json.RawMessage, error) { return marshalJSONL(snap.Communications) }},
	}
	for _, f := range files {
		records, err := f.records()
		if err != nil {
			return fmt.Errorf("encoding %s: %w", f.name, err)
		}
		if err := writeJSONL(filepath.Join(b.config.DataDir, f.name), records); err != nil {
			return fmt.Errorf("persisting %s: %w", f.name, err)
		}
	}
	return nil
}

// The insert helpers keep the first ordinal when an id repeats, so the
// surviving record stays where its first copy was.
func insertCompanies(tx *sql.Tx, companies []types.Company) error {
	stmt, err := tx.Prepare(`INSERT INTO companies
		(company_id, ordinal, name, location, linkedin_profile, emails, phone_numbers, comments, communication_periodicity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(company_id) DO UPDATE SET
			name = excluded.name, location = excluded.location, linkedin_profile = excluded.linkedin_profile,
			emails = excluded.emails, phone_numbers = excluded.phone_numbers, comments = excluded.comments,
			communication_periodicity = excluded.communication_periodicity`)
	if err != nil {
		return fmt.Errorf("preparing company insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range companies {
		emails, err := json.Marshal(nonNil(c.Emails))
		if err != nil {
			return fmt.Errorf("encoding emails for company %s: %w", c.ID, err)
		}
		phones, err := json.Marshal(nonNil(c.PhoneNumbers))
		if err != nil {
			return fmt.Errorf("encoding phone numbers for company %s: %w", c.ID, err)
		}
		if _, err := stmt.Exec(c.ID, i, c.Name, c.Location, c.LinkedInProfile,
			string(emails), string(phones), c.Comments, c.CommunicationPeriodicity); err != nil {
			return fmt.Errorf("inserting company %s: %w", c.ID, err)
		}
	}
	return nil
}

func insertMethods(tx *sql.Tx, methods []types.CommunicationMethod) error {
	stmt, err := tx.Prepare(`INSERT INTO communication_methods
		(method_id, ordinal, name, description, sequence, mandatory)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(method_id) DO UPDATE SET
			name = excluded.name, description = excluded.description,
			sequence = excluded.sequence, mandatory = excluded.mandatory`)
	if err != nil {
		return fmt.Errorf("preparing method insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range methods {
		if _, err := stmt.Exec(m.ID, i, m.Name, m.Description, m.Sequence, m.Mandatory); err != nil {
			return fmt.Errorf("inserting method %s: %w", m.ID, err)
		}
	}
	return nil
}

func insertCommunications(tx *sql.Tx, communications []types.Communication) error {
	stmt, err := tx.Prepare(`INSERT INTO communications
		(communication_id, ordinal, company_id, method_id, date, notes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(communication_id) DO UPDATE SET
			company_id = excluded.company_id, method_id = excluded.method_id,
			date = excluded.date, notes = excluded.notes`)
	if err != nil {
		return fmt.Errorf("preparing communication insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range communications {
		if _, err := stmt.Exec(c.ID, i, c.CompanyID, c.MethodID, c.Date.Format(types.DateLayout), c.Notes); err != nil {
			return fmt.Errorf("inserting communication %s: %w", c.ID, err)
		}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// querySnapshotLocked reads all three tables ordered by insertion.
func (b *Backend) querySnapshotLocked() (types.Snapshot, error) {
	var snap types.Snapshot
	var err error

	if snap.Companies, err = queryCompanies(b.db); err != nil {
		return types.Snapshot{}, err
	}
	if snap.CommunicationMethods, err = queryMethods(b.db); err != nil {
		return types.Snapshot{}, err
	}
	if snap.Communications, err = queryCommunications(b.db); err != nil {
		return types.Snapshot{}, err
	}
	return snap, nil
}

func queryCompanies(db *sql.DB) ([]types.Company, error) {
	rows, err := db.Query(`SELECT company_id, name, location, linkedin_profile, emails, phone_numbers,
		comments, communication_periodicity FROM companies ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("querying companies: %w", err)
	}
	defer rows.Close()

	var companies []types.Company
	for rows.Next() {
		var c types.Company
		var emails, phones string
		if err := rows.Scan(&c.ID, &c.Name, &c.Location, &c.LinkedInProfile, &emails, &phones,
			&c.Comments, &c.CommunicationPeriodicity); err != nil {
			return nil, fmt.Errorf("scanning company: %w", err)
		}
		if err := json.Unmarshal([]byte(emails), &c.Emails); err != nil {
			return nil, fmt.Errorf("parsing emails for company %s: %w", c.ID, err)
		}
		if err := json.Unmarshal([]byte(phones), &c.PhoneNumbers); err != nil {
			return nil, fmt.Errorf("parsing phone numbers for company %s: %w", c.ID, err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func queryMethods(db *sql.DB) ([]types.CommunicationMethod, error) {
	rows, err := db.Query(`SELECT method_id, name, description, sequence, mandatory
		FROM communication_methods ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("querying communication methods: %w", err)
	}
	defer rows.Close()

	var methods []types.CommunicationMethod
	for rows.Next() {
		var m types.CommunicationMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Sequence, &m.Mandatory); err != nil {
			return nil, fmt.Errorf("scanning communication method: %w", err)
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

func queryCommunications(db *sql.DB) ([]types.Communication, error) {
	rows, err := db.Query(`SELECT communication_id, company_id, method_id, date, notes
		FROM communications ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("querying communications: %w", err)
	}
	defer rows.Close()

	var communications []types.Communication
	for rows.Next() {
		var c types.Communication
		var date string
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.MethodID, &date, &c.Notes); err != nil {
			return nil, fmt.Errorf("scanning communication: %w", err)
		}
		if c.Date, err = types.ParseDate(date); err != nil {
			return nil, fmt.Errorf("communication %s: %w", c.ID, err)
		}
		communications = append(communications, c)
	}
	return communications, rows.Err()
}
