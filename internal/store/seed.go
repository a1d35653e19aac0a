package store

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout of a seed file:
//
//	contacts:
//	  - first: Ada
//	    last: Lovelace
//	    favorite: true
type seedFile struct {
	Contacts []Contact `yaml:"contacts"`
}

// ReadSeed parses a YAML seed file.
func ReadSeed(path string) ([]Contact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return f.Contacts, nil
}

// Seed inserts contacts into s when s holds no contacts yet. It returns the
// number of contacts inserted.
func Seed(ctx context.Context, s Store, contacts []Contact) (int, error) {
	existing, err := s.List(ctx, "")
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, c := range contacts {
		if _, err := s.Create(ctx, c); err != nil {
			return i, fmt.Errorf("seed contact %d: %w", i, err)
		}
	}
	return len(contacts), nil
}

// Open returns the store for the named driver.
func Open(driver, path string) (Store, error) {
	switch driver {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", driver)
	}
}
