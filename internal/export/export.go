// Package export writes a snapshot out as JSON or CSV and queries JSON
// exports with JSONPath.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/theirongolddev/fintrack/internal/finance"
	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/PaesslerAG/jsonpath"
)

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{"Date", "Description", "Category", "Amount"}

// Document is the JSON export: the snapshot fields at top level, plus the
// derived summary and the time of export.
type Document struct {
	model.Snapshot
	Summary    model.FinancialSummary `json:"summary"`
	ExportDate time.Time              `json:"exportDate"`
}

// NewDocument derives the summary from snap.
func NewDocument(snap model.Snapshot, now time.Time) Document {
	if snap.Expenses == nil {
		snap.Expenses = []model.Expense{}
	}
	if snap.Goals == nil {
		snap.Goals = []model.SavingsGoal{}
	}
	return Document{
		Snapshot:   snap,
		Summary:    finance.Summarize(snap.Income, snap.Expenses),
		ExportDate: now.UTC(),
	}
}

// WriteJSON writes the indented JSON export of snap.
func WriteJSON(w io.Writer, snap model.Snapshot, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(snap, now)); err != nil {
		return fmt.Errorf("writing json export: %w", err)
	}
	return nil
}

// WriteCSV writes one row per expense. Expenses without a date use today.
func WriteCSV(w io.Writer, expenses []model.Expense, today model.Date) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, e := range expenses {
		date := e.Date
		if date.IsZero() {
			date = today
		}
		row := []string{date.String(), e.Name, e.CategoryOrDefault(), e.Amount.String()}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileName returns the download name for an export in the given format.
func FileName(format string, now time.Time) string {
	day := now.Format(model.DateFormat)
	if format == "csv" {
		return "financial-report-" + day + ".csv"
	}
	return "financial-data-" + day + ".json"
}

// Query evaluates a JSONPath expression against a JSON document.
// A single-element result list is unwrapped.
func Query(doc []byte, path string) (any, error) {
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	out, err := jsonpath.Get(path, v)
	if err != nil {
		return nil, fmt.Errorf("evaluating %q: %w", path, err)
	}
	if list, ok := out.([]any); ok && len(list) == 1 {
		out = list[0]
	}
	return out, nil
}

// QuerySnapshot runs Query over the JSON export of snap.
func QuerySnapshot(snap model.Snapshot, now time.Time, path string) (any, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, snap, now); err != nil {
		return nil, err
	}
	return Query(buf.Bytes(), path)
}

// ReadJSON reads a JSON export, or a bare snapshot, back into a snapshot.
// The derived summary and export date are ignored.
func ReadJSON(r io.Reader) (model.Snapshot, error) {
	snap := model.EmptySnapshot()
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("reading json export: %w", err)
	}
	if snap.Expenses == nil {
		snap.Expenses = []model.Expense{}
	}
	if snap.Goals == nil {
		snap.Goals = []model.SavingsGoal{}
	}
	return snap, nil
}
