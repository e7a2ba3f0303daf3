// Package store loads user-maintained vocabulary overrides (extra header
// synonyms, ledger title literals and account-family keywords) from YAML.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/gl-audit/internal/logging"

	"gopkg.in/yaml.v3"
)

// DefaultVocabularyFile is looked up when no explicit path is configured.
const DefaultVocabularyFile = "keywords.yaml"

// Vocabulary is the on-disk shape of a keyword override file:
//
//	keywords:
//	  debit: ["차변(원)"]
//	titles: ["보조원장"]
//	accounts:
//	  liability: ["미지급금"]
type Vocabulary struct {
	Keywords map[string][]string `yaml:"keywords"`
	Titles   []string            `yaml:"titles"`
	Accounts map[string][]string `yaml:"accounts"`
}

// IsEmpty reports whether the vocabulary adds nothing.
func (v Vocabulary) IsEmpty() bool {
	return len(v.Keywords) == 0 && len(v.Titles) == 0 && len(v.Accounts) == 0
}

// VocabularyLoader is implemented by VocabularyStore and MockVocabularyStore.
type VocabularyLoader interface {
	LoadVocabulary() (Vocabulary, error)
}

// VocabularyStore reads Vocabulary files.
type VocabularyStore struct {
	File   string
	logger logging.Logger
}

// NewVocabularyStore creates a store for the given file; an empty name means
// DefaultVocabularyFile in the standard locations.
func NewVocabularyStore(file string, logger logging.Logger) *VocabularyStore {
	return &VocabularyStore{File: file, logger: logging.OrDefault(logger)}
}

// FindConfigFile looks for a vocabulary file in standard locations
func (s *VocabularyStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join(".gl-audit", filename),
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".gl-audit", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadVocabulary reads the vocabulary file. A missing file yields an empty
// Vocabulary, not an error.
func (s *VocabularyStore) LoadVocabulary() (Vocabulary, error) {
	filename := s.File
	if filename == "" {
		filename = DefaultVocabularyFile
	}

	path, err := s.FindConfigFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("Vocabulary file not found, using built-in keywords",
				logging.F(logging.FieldFile, filename))
			return Vocabulary{}, nil
		}
		return Vocabulary{}, fmt.Errorf("error resolving vocabulary file: %w", err)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from configuration
	if err != nil {
		return Vocabulary{}, fmt.Errorf("error reading vocabulary file: %w", err)
	}

	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("error parsing vocabulary file %s: %w", path, err)
	}

	s.logger.Info("Loaded vocabulary overrides",
		logging.F(logging.FieldFile, path),
		logging.F("roles", len(v.Keywords)),
		logging.F("titles", len(v.Titles)),
		logging.F("account_families", len(v.Accounts)))
	return v, nil
}
