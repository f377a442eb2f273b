// Package output writes generated manifest sets to disk and reads them back
// for analysis.
package output

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/k1dory/telecom-deploy/pkg/manifest"
)

// WriteManifests writes every document in the set under dir, creating the
// directory if needed. Files are written in name order so repeated runs
// produce identical logs.
func WriteManifests(dir string, manifests map[string]string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	filenames := make([]string, 0, len(manifests))
	for filename := range manifests {
		filenames = append(filenames, filename)
	}
	sort.Strings(filenames)

	for _, filename := range filenames {
		path := filepath.Join(dir, filename)
		if err := os.WriteFile(path, []byte(manifests[filename]), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		slog.Debug("wrote manifest", "path", path)
	}

	return nil
}

// ReadManifests loads every YAML file directly under dir into a document
// set keyed by filename. Subdirectories are not descended into.
func ReadManifests(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest directory %s: %w", dir, err)
	}

	manifests := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !manifest.IsYAML(entry.Name()) {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		manifests[entry.Name()] = string(content)
	}

	if len(manifests) == 0 {
		return nil, fmt.Errorf("no YAML manifests found in %s", dir)
	}

	return manifests, nil
}
