package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/shopspring/decimal"
)

var now = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func snapshot() model.Snapshot {
	snap := model.EmptySnapshot()
	snap.Income = decimal.RequireFromString("3000")
	snap.Expenses = []model.Expense{
		{ID: "1", Name: "Rent", Amount: decimal.RequireFromString("1200"), Category: "Housing", Date: model.NewDate(2025, time.June, 1)},
		{ID: "2", Name: "Coffee, beans", Amount: decimal.RequireFromString("12.5"), Date: model.Date{}},
	}
	return snap
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, snapshot().Expenses, model.DateOf(now)); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"Date,Description,Category,Amount",
		"2025-06-01,Rent,Housing,1200",
		`2025-06-15,"Coffee, beans",Other,12.5`,
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil, model.DateOf(now)); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "Date,Description,Category,Amount\n" {
		t.Fatalf("csv = %q, want header only", got)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, snapshot(), now); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("export is not valid json: %v", err)
	}
	for _, key := range []string{"income", "expenses", "goals", "lastUpdated", "summary", "exportDate"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("export missing %q: %s", key, buf.String())
		}
	}
	if doc["exportDate"] != "2025-06-15T12:00:00Z" {
		t.Fatalf("exportDate = %v", doc["exportDate"])
	}
	summary := doc["summary"].(map[string]any)
	if summary["balance"].(float64) != 1787.5 {
		t.Fatalf("summary.balance = %v, want 1787.5", summary["balance"])
	}
}

func TestQuerySnapshot(t *testing.T) {
	got, err := QuerySnapshot(snapshot(), now, "$.summary.totalExpenses")
	if err != nil {
		t.Fatalf("QuerySnapshot: %v", err)
	}
	if got.(float64) != 1212.5 {
		t.Fatalf("totalExpenses = %v, want 1212.5", got)
	}

	names, err := QuerySnapshot(snapshot(), now, "$.expenses[*].name")
	if err != nil {
		t.Fatalf("QuerySnapshot: %v", err)
	}
	list, ok := names.([]any)
	if !ok || len(list) != 2 || list[0] != "Rent" {
		t.Fatalf("names = %#v", names)
	}
}

func TestQueryErrors(t *testing.T) {
	if _, err := Query([]byte("{"), "$.x"); err == nil {
		t.Fatal("Query on invalid json should fail")
	}
	if _, err := Query([]byte(`{"a":1}`), "$.b"); err == nil {
		t.Fatal("Query on missing key should fail")
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("csv", now); got != "financial-report-2025-06-15.csv" {
		t.Fatalf("FileName(csv) = %q", got)
	}
	if got := FileName("json", now); got != "financial-data-2025-06-15.json" {
		t.Fatalf("FileName(json) = %q", got)
	}
}

func TestReadJSONAcceptsExport(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, snapshot(), now); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !got.Income.Equal(decimal.RequireFromString("3000")) {
		t.Fatalf("Income = %s, want 3000", got.Income)
	}
	if len(got.Expenses) != 2 || got.Expenses[0].Name != "Rent" {
		t.Fatalf("Expenses = %+v", got.Expenses)
	}
	if got.Goals == nil {
		t.Fatal("Goals = nil, want empty list")
	}
}

func TestReadJSONRejectsGarbage(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader("{not json")); err == nil {
		t.Fatal("ReadJSON succeeded on invalid input")
	}
}
