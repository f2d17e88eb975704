package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/geojournal/internal/models"
)

var ErrUnsupportedFormat = errors.New("unsupported snapshot format")

type snapshotFormat int

const (
	formatJSON snapshotFormat = iota
	formatYAML
)

func formatOf(path string) (snapshotFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// readSnapshot loads a list of entries from a JSON or YAML file, chosen by
// extension. Every entry must carry an id and a known category.
func readSnapshot(path string) ([]models.JournalEntry, error) {
	format, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []models.JournalEntry
	switch format {
	case formatYAML:
		err = yaml.Unmarshal(data, &entries)
	default:
		err = json.Unmarshal(data, &entries)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("entry %d: missing id", i)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("entry %d: duplicate id %q", i, e.ID)
		}
		seen[e.ID] = struct{}{}
		if !e.Category.Valid() {
			return nil, fmt.Errorf("entry %d: %w %q", i, models.ErrUnknownCategory, e.Category)
		}
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	return entries, nil
}

func writeSnapshot(path string, entries []models.JournalEntry) error {
	format, err := formatOf(path)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}

	var data []byte
	switch format {
	case formatYAML:
		data, err = yaml.Marshal(entries)
	default:
		data, err = json.MarshalIndent(entries, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
