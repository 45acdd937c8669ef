package taxonomy

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"golang.org/x/crypto/sha3"

	"github.com/Led-adel-pilot/CogniGuide/internal/model"
)

// ErrLocked is returned when another process holds the taxonomy lock.
var ErrLocked = errors.New("taxonomy file is locked by another process")

// Load reads the taxonomy at path.
func Load(path string) (*model.Taxonomy, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided taxonomy path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy: %w", err)
	}
	t := model.NewTaxonomy()
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy %s: %w", path, err)
	}
	return t, nil
}

// Encode renders t the way it is stored: two-space indentation, non-ASCII
// and HTML characters unescaped, and a trailing newline.
func Encode(t *model.Taxonomy) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write stores t at path.
// The data is written to a temporary file in the same directory and
// renamed over path while an exclusive lock on path+".lock" is held.
func Write(path string, t *model.Taxonomy) error {
	data, err := Encode(t)
	if err != nil {
		return fmt.Errorf("failed to encode taxonomy: %w", err)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock taxonomy: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write taxonomy: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write taxonomy: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // taxonomy is a source file checked into the repository
		return fmt.Errorf("failed to set taxonomy permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace taxonomy: %w", err)
	}
	return nil
}

// Digest returns the hex SHA3-256 of the encoded taxonomy.
// Two taxonomies with the same digest serialise identically.
func Digest(t *model.Taxonomy) (string, error) {
	data, err := Encode(t)
	if err != nil {
		return "", err
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// CollectSlugs returns every slug placed in t.
func CollectSlugs(t *model.Taxonomy) map[string]struct{} {
	all := t.AllSlugs()
	slugs := make(map[string]struct{}, len(all))
	for _, slug := range all {
		slugs[slug] = struct{}{}
	}
	return slugs
}

// LoadBaselineSlugs returns the slugs of the baseline taxonomy at path.
// An empty path yields an empty set; a missing file is an error.
func LoadBaselineSlugs(path string) (map[string]struct{}, error) {
	if path == "" {
		return map[string]struct{}{}, nil
	}
	t, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline: %w", err)
	}
	return CollectSlugs(t), nil
}

// Restriction returns the slugs of t that are not in baseline.
func Restriction(t *model.Taxonomy, baseline map[string]struct{}) map[string]struct{} {
	restrict := make(map[string]struct{})
	for _, slug := range t.AllSlugs() {
		if _, ok := baseline[slug]; !ok {
			restrict[slug] = struct{}{}
		}
	}
	return restrict
}

// Apply places every assignment whose target exists in t and whose slug is
// not yet placed. It returns the number of slugs added.
func Apply(t *model.Taxonomy, results []model.AssignmentResult) int {
	updates := 0
	for _, r := range results {
		if t.Add(r.Target, r.Slug) {
			updates++
		}
	}
	return updates
}
