// Package overrides overlays a manual correction file onto a harvested
// record set.
//
// The base file is the harvester's JSON output (an array of records); the
// overrides file is an object keyed by member id, each value an object of
// field → replacement-value pairs. Records are handled as generic maps so
// that corrections can carry fields the harvester does not know about.
package overrides

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
)

// Record is one member object from the base file.
type Record = map[string]any

// Overrides maps member id → field replacements.
type Overrides = map[string]map[string]any

// Apply overlays the overrides onto the base records. Existing records are
// shallow-merged in place; an override for an unknown id synthesizes a
// minimal stub record which is appended. Override ids are processed in
// sorted order so the result is deterministic.
func Apply(base []Record, ovr Overrides, log *zap.SugaredLogger) []Record {
	index := make(map[string]Record, len(base))
	for _, rec := range base {
		id, _ := rec["id"].(string)
		if id == "" {
			continue
		}
		if _, dup := index[id]; dup {
			log.Warnw("duplicate id in base data", "id", id)
		}
		index[id] = rec
	}

	ids := make([]string, 0, len(ovr))
	for id := range ovr {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		fields := ovr[id]
		if rec, ok := index[id]; ok {
			log.Infow("applying override to existing member", "id", id)
			for key, value := range fields {
				rec[key] = value
			}
			continue
		}

		log.Warnw("override id not found in base data, creating stub entry", "id", id)
		stub := Record{"id": id}
		for key, value := range fields {
			stub[key] = value
		}
		base = append(base, stub)
		index[id] = stub
	}

	return base
}

// MergeFiles loads the base and overrides files, validates the overrides
// against the JSON schema at schemaPath (skipped when empty), applies the
// overlay and writes the merged set to outPath. A missing input file is
// fatal.
func MergeFiles(basePath, overridesPath, outPath, schemaPath string, log *zap.SugaredLogger) error {
	baseData, err := os.ReadFile(basePath)
	if err != nil {
		return fmt.Errorf("base file not found: %s: %w", basePath, err)
	}
	var base []Record
	if err := json.Unmarshal(baseData, &base); err != nil {
		return fmt.Errorf("base file %s must be a JSON array of objects: %w", basePath, err)
	}

	if schemaPath != "" {
		if err := ValidateOverrides(schemaPath, overridesPath); err != nil {
			return err
		}
	}

	ovrData, err := os.ReadFile(overridesPath)
	if err != nil {
		return fmt.Errorf("overrides file not found: %s: %w", overridesPath, err)
	}
	var ovr Overrides
	if err := json.Unmarshal(ovrData, &ovr); err != nil {
		return fmt.Errorf("overrides file %s must be a JSON object keyed by member id: %w", overridesPath, err)
	}

	merged := Apply(base, ovr, log)

	out, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal merged records: %w", err)
	}
	out = append(out, '\n')
	if err := os.WriteFile(outPath, out, 0644); err != nil {
		return fmt.Errorf("failed to write merged output %s: %w", outPath, err)
	}

	log.Infow("wrote merged data with overrides", "path", outPath, "records", len(merged))
	return nil
}
