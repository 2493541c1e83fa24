// Package store persists properties, stage records and ledgers in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/proplife/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a property does not exist.
var ErrNotFound = errors.New("store: not found")

// Store provides SQLite-backed persistence.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveProperty inserts or replaces a property. CreatedAt is preserved across
// updates; UpdatedAt is always refreshed.
func (s *Store) SaveProperty(ctx context.Context, p model.Property) (model.Property, error) {
	now := s.now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Source == "" {
		p.Source = model.SourceDirectAddition
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO properties
		(id, name, address, property_type, notes, property_source,
		 subdivision_status, handover_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		 name = excluded.name, address = excluded.address,
		 property_type = excluded.property_type, notes = excluded.notes,
		 property_source = excluded.property_source,
		 subdivision_status = excluded.subdivision_status,
		 handover_status = excluded.handover_status,
		 updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Address, p.Type, p.Notes, string(p.Source),
		string(p.SubdivisionStatus), string(p.HandoverStatus),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return p, fmt.Errorf("saving property %s: %w", p.ID, err)
	}
	return p, nil
}

const propertyColumns = `id, name, address, property_type, notes, property_source,
	subdivision_status, handover_status, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProperty(row scanner) (model.Property, error) {
	var p model.Property
	var source, subStatus, handStatus, created, updated string
	if err := row.Scan(&p.ID, &p.Name, &p.Address, &p.Type, &p.Notes, &source,
		&subStatus, &handStatus, &created, &updated); err != nil {
		return p, err
	}
	p.Source = model.PropertySource(source)
	p.SubdivisionStatus = model.SubdivisionStatus(subStatus)
	p.HandoverStatus = model.HandoverStatus(handStatus)
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return p, nil
}

// GetProperty loads one property. It returns ErrNotFound if the id is unknown.
func (s *Store) GetProperty(ctx context.Context, id string) (model.Property, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+propertyColumns+" FROM properties WHERE id = ?", id)
	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("property %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return p, fmt.Errorf("loading property %s: %w", id, err)
	}
	return p, nil
}

// ListProperties returns every property ordered by name.
func (s *Store) ListProperties(ctx context.Context) ([]model.Property, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+propertyColumns+" FROM properties ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var props []model.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

// DeleteProperty removes a property and everything recorded against it.
func (s *Store) DeleteProperty(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM properties WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting property %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("property %s: %w", id, ErrNotFound)
	}
	return nil
}

// PropertyCount returns the number of stored properties.
func (s *Store) PropertyCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM properties").Scan(&count)
	return count, err
}

// SaveStages upserts stage records. All records are written in one transaction.
func (s *Store) SaveStages(ctx context.Context, stages []model.PipelineStageData) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, st := range stages {
		docs := st.Documents
		if docs == nil {
			docs = []string{}
		}
		docJSON, err := json.Marshal(docs)
		if err != nil {
			return fmt.Errorf("encoding documents: %w", err)
		}
		_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO pipeline_stages
			(property_id, kind, stage_id, status, started_date, completed_date, notes, documents)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			st.PropertyID, string(st.Kind), st.StageID, st.Status,
			formatTimePtr(st.StartedDate), formatTimePtr(st.CompletedDate),
			st.Notes, string(docJSON),
		)
		if err != nil {
			return fmt.Errorf("saving %s stage %d of %s: %w", st.Kind, st.StageID, st.PropertyID, err)
		}
	}
	return tx.Commit()
}

const stageColumns = `property_id, kind, stage_id, status, started_date, completed_date, notes, documents`

func scanStage(row scanner) (model.PipelineStageData, error) {
	var st model.PipelineStageData
	var kind, docJSON string
	var started, completed sql.NullString
	if err := row.Scan(&st.PropertyID, &kind, &st.StageID, &st.Status,
		&started, &completed, &st.Notes, &docJSON); err != nil {
		return st, err
	}
	st.Kind = model.PipelineKind(kind)
	st.StartedDate = parseTimePtr(started)
	st.CompletedDate = parseTimePtr(completed)
	if docJSON != "" {
		_ = json.Unmarshal([]byte(docJSON), &st.Documents)
	}
	return st, nil
}

// ListStages returns the stage records of one pipeline ordered by stage id.
func (s *Store) ListStages(ctx context.Context, propertyID string, kind model.PipelineKind) ([]model.PipelineStageData, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+stageColumns+
		" FROM pipeline_stages WHERE property_id = ? AND kind = ? ORDER BY stage_id",
		propertyID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("listing stages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stages []model.PipelineStageData
	for rows.Next() {
		st, err := scanStage(rows)
		if err != nil {
			return nil, err
		}
		stages = append(stages, st)
	}
	return stages, rows.Err()
}

// ListAllStages batch-loads every stage record, indexed by property and kind.
func (s *Store) ListAllStages(ctx context.Context) (map[string]map[model.PipelineKind][]model.PipelineStageData, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+stageColumns+
		" FROM pipeline_stages ORDER BY property_id, kind, stage_id")
	if err != nil {
		return nil, fmt.Errorf("listing stages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]map[model.PipelineKind][]model.PipelineStageData)
	for rows.Next() {
		st, err := scanStage(rows)
		if err != nil {
			return nil, err
		}
		byKind, ok := result[st.PropertyID]
		if !ok {
			byKind = make(map[model.PipelineKind][]model.PipelineStageData)
			result[st.PropertyID] = byKind
		}
		byKind[st.Kind] = append(byKind[st.Kind], st)
	}
	return result, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func formatTimePtr(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTimePtr(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}
