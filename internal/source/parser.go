// Package source parses JSONL property exports into validated records.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/theirongolddev/proplife/internal/model"
)

// ErrInvalidRecord marks a line that is not a well-formed property record.
var ErrInvalidRecord = errors.New("source: invalid record")

// Record is one parsed property together with its stage records.
type Record struct {
	Property model.Property
	Stages   []model.PipelineStageData
}

// LineError describes one rejected line.
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error { return e.Err }

// ParseResult holds the output of parsing a single JSONL file.
type ParseResult struct {
	Records     []Record
	ParseErrors []LineError
	Err         error
}

type rawStage struct {
	Kind          string   `json:"kind"`
	StageID       int      `json:"stage_id"`
	Status        string   `json:"status"`
	StartedDate   string   `json:"started_date"`
	CompletedDate string   `json:"completed_date"`
	Notes         string   `json:"notes"`
	Documents     []string `json:"documents"`
}

type rawRecord struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Address           string     `json:"address"`
	Type              string     `json:"property_type"`
	Notes             string     `json:"notes"`
	Source            string     `json:"property_source"`
	SubdivisionStatus string     `json:"subdivision_status"`
	HandoverStatus    string     `json:"handover_status"`
	Stages            []rawStage `json:"stages"`
}

// Legacy flag values seen in older exports.
var statusAliases = map[string]string{
	"PENDING":            "NOT_STARTED",
	"HANDOVER_STARTED":   string(model.HandoverInProgress),
	"HANDOVER_COMPLETED": string(model.HandoverCompleted),
}

func normalizeFlag(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if alias, ok := statusAliases[s]; ok {
		return alias
	}
	return s
}

func (r rawRecord) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.By(func(value any) error {
			id, _ := value.(string)
			if id == "" {
				return nil
			}
			if strings.ContainsAny(id, " \t/") {
				return validation.NewError("source.id_format", "must not contain whitespace or slashes")
			}
			return nil
		})),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Source, validation.In(
			string(model.SourceDirectAddition),
			string(model.SourcePurchasePipeline),
			string(model.SourceSubdivisionProcess),
		)),
		validation.Field(&r.SubdivisionStatus, validation.In(
			string(model.SubdivisionNotStarted),
			string(model.SubdivisionStarted),
			string(model.SubdivisionCompleted),
		)),
		validation.Field(&r.HandoverStatus, validation.In(
			string(model.HandoverNotStarted),
			string(model.HandoverInProgress),
			string(model.HandoverCompleted),
		)),
		validation.Field(&r.Stages),
	)
}

func (s rawStage) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Kind, validation.Required, validation.In(
			string(model.KindPurchase),
			string(model.KindHandover),
			string(model.KindSubdivision),
		)),
		validation.Field(&s.StageID, validation.Required, validation.Min(1)),
		validation.Field(&s.Status, validation.Required),
		validation.Field(&s.StartedDate, validation.Date(time.RFC3339)),
		validation.Field(&s.CompletedDate, validation.Date(time.RFC3339)),
	)
}

// ParseRecord decodes and validates one JSONL line. Flag values are
// upper-cased and legacy aliases are mapped; a missing id gets a fresh UUID.
func ParseRecord(line []byte) (Record, error) {
	var raw rawRecord
	if err := json.Unmarshal(line, &raw); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	raw.Name = strings.TrimSpace(raw.Name)
	raw.Source = strings.ToUpper(strings.TrimSpace(raw.Source))
	if raw.Source == "" {
		raw.Source = string(model.SourceDirectAddition)
	}
	raw.SubdivisionStatus = normalizeFlag(raw.SubdivisionStatus)
	raw.HandoverStatus = normalizeFlag(raw.HandoverStatus)
	for i := range raw.Stages {
		raw.Stages[i].Kind = strings.ToLower(strings.TrimSpace(raw.Stages[i].Kind))
		raw.Stages[i].Status = strings.TrimSpace(raw.Stages[i].Status)
	}

	if err := raw.Validate(); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	id := raw.ID
	if id == "" {
		id = uuid.NewString()
	}

	rec := Record{
		Property: model.Property{
			ID:                id,
			Name:              raw.Name,
			Address:           strings.TrimSpace(raw.Address),
			Type:              strings.TrimSpace(raw.Type),
			Notes:             raw.Notes,
			Source:            model.PropertySource(raw.Source),
			SubdivisionStatus: model.SubdivisionStatus(raw.SubdivisionStatus),
			HandoverStatus:    model.HandoverStatus(raw.HandoverStatus),
		},
	}

	seen := make(map[string]struct{}, len(raw.Stages))
	for _, s := range raw.Stages {
		key := fmt.Sprintf("%s/%d", s.Kind, s.StageID)
		if _, dup := seen[key]; dup {
			return Record{}, fmt.Errorf("%w: duplicate %s stage %d", ErrInvalidRecord, s.Kind, s.StageID)
		}
		seen[key] = struct{}{}

		rec.Stages = append(rec.Stages, model.PipelineStageData{
			PropertyID:    id,
			Kind:          model.PipelineKind(s.Kind),
			StageID:       s.StageID,
			Status:        s.Status,
			StartedDate:   parseDate(s.StartedDate),
			CompletedDate: parseDate(s.CompletedDate),
			Notes:         s.Notes,
			Documents:     s.Documents,
		})
	}
	return rec, nil
}

// ParseFile reads a JSONL export. Blank lines are skipped; malformed lines
// are collected in ParseErrors and do not stop the parse.
func ParseFile(path string) ParseResult {
	f, err := os.Open(path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	var result ParseResult

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		rec, err := ParseRecord(line)
		if err != nil {
			result.ParseErrors = append(result.ParseErrors, LineError{Line: lineNo, Err: err})
			continue
		}
		result.Records = append(result.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		result.Err = err
	}
	return result
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
