// Package output serializes harvested records to flat files.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/leavex/mepscan/internal/types"
)

// WriteCSV writes one row per record, semicolon-separated, with a header
// row naming the fields in canonical order. An empty record set produces a
// warning and no file. Output is deterministic: identical input yields a
// byte-identical file.
func WriteCSV(path string, records []types.MemberRecord, log *zap.SugaredLogger) error {
	if len(records) == 0 {
		log.Warnw("no records to write", "path", path)
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	w.Comma = ';'

	if err := w.Write(types.FieldNames()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(r.Row()); err != nil {
			return fmt.Errorf("failed to write CSV row for member %s: %w", r.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output %s: %w", path, err)
	}

	log.Infow("wrote CSV output", "path", path, "rows", len(records))
	return nil
}

// WriteJSON writes the record set as an indented JSON array. This is the
// base-file format consumed by the override merge. An empty record set
// produces a warning and no file.
func WriteJSON(path string, records []types.MemberRecord, log *zap.SugaredLogger) error {
	if len(records) == 0 {
		log.Warnw("no records to write", "path", path)
		return nil
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records to JSON: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON output %s: %w", path, err)
	}

	log.Infow("wrote JSON output", "path", path, "records", len(records))
	return nil
}
