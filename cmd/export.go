package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/fintrack/internal/export"
	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagExportFormat string
	flagExportOutput string
	flagExportQuery  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export data as JSON or CSV",
	Example: `  fintrack export                       # JSON to stdout
  fintrack export --format csv -o .     # financial-report-YYYY-MM-DD.csv
  fintrack export --query '$.summary.balance'`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "json", "json or csv")
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Output file, or a directory for the default file name (default stdout)")
	exportCmd.Flags().StringVar(&flagExportQuery, "query", "", "JSONPath expression evaluated over the JSON export")
	rootCmd.AddCommand(exportCmd)
}

func runExport(c *cobra.Command, _ []string) error {
	if flagExportFormat != "json" && flagExportFormat != "csv" {
		return fmt.Errorf("--format must be json or csv, got %q", flagExportFormat)
	}
	if flagExportQuery != "" && flagExportFormat != "json" {
		return fmt.Errorf("--query works on the json export only")
	}

	st, err := loadState(c.Context())
	if err != nil {
		return err
	}
	snap := st.Snapshot
	now := time.Now()

	if flagExportQuery != "" {
		v, err := export.QuerySnapshot(snap, now, flagExportQuery)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	if flagExportOutput == "" {
		return writeExport(os.Stdout, snap, now)
	}

	path := flagExportOutput
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, export.FileName(flagExportFormat, now))
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := writeExport(f, snap, now); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "  Exported to %s\n", path)
	return nil
}

func writeExport(w io.Writer, snap model.Snapshot, now time.Time) error {
	if flagExportFormat == "csv" {
		return export.WriteCSV(w, snap.Expenses, today())
	}
	return export.WriteJSON(w, snap, now)
}
