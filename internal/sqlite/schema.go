// Package sqlite implements the SQLite persistence backend for Cadence.
// This file holds the schema DDL.
package sqlite

// Schema DDL. ordinal records insertion order within each collection. The
// CHECK constraints mirror the store's invariants so hand-edited JSONL records
// that break them are rejected at load time.
const (
	createCompanies = `CREATE TABLE companies (
    company_id TEXT PRIMARY KEY CHECK (company_id <> ''),
    ordinal INTEGER NOT NULL,
    name TEXT NOT NULL CHECK (name <> ''),
    location TEXT NOT NULL,
    linkedin_profile TEXT NOT NULL,
    emails TEXT NOT NULL CHECK (json_valid(emails) AND json_type(emails) = 'array' AND json_array_length(emails) > 0),
    phone_numbers TEXT NOT NULL CHECK (json_valid(phone_numbers) AND json_type(phone_numbers) = 'array' AND json_array_length(phone_numbers) > 0),
    comments TEXT NOT NULL DEFAULT '',
    communication_periodicity INTEGER NOT NULL CHECK (typeof(communication_periodicity) = 'integer' AND communication_periodicity > 0)
);`

	createCommunicationMethods = `CREATE TABLE communication_methods (
    method_id TEXT PRIMARY KEY CHECK (method_id <> ''),
    ordinal INTEGER NOT NULL,
    name TEXT NOT NULL CHECK (name <> ''),
    description TEXT NOT NULL DEFAULT '',
    sequence INTEGER NOT NULL CHECK (typeof(sequence) = 'integer' AND sequence > 0),
    mandatory INTEGER NOT NULL CHECK (mandatory IN (0, 1))
);`

	createCommunications = `CREATE TABLE communications (
    communication_id TEXT PRIMARY KEY CHECK (communication_id <> ''),
    ordinal INTEGER NOT NULL,
    company_id TEXT NOT NULL,
    method_id TEXT NOT NULL,
    date TEXT NOT NULL CHECK (date(date) IS date),
    notes TEXT NOT NULL DEFAULT ''
);`
)

// Index DDL for common queries.
const (
	idxCompaniesOrdinal      = `CREATE INDEX idx_companies_ordinal ON companies(ordinal);`
	idxMethodsOrdinal        = `CREATE INDEX idx_communication_methods_ordinal ON communication_methods(ordinal);`
	idxCommunicationsOrdinal = `CREATE INDEX idx_communications_ordinal ON communications(ordinal);`
	idxCommunicationsCompany = `CREATE INDEX idx_communications_company ON communications(company_id, date);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createCompanies,
	createCommunicationMethods,
	createCommunications,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxCompaniesOrdinal,
	idxMethodsOrdinal,
	idxCommunicationsOrdinal,
	idxCommunicationsCompany,
}
