package adapter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	m "testforge.dev/pkg/testforge/internal/model"
)

// ManifestFileName is the run manifest written next to generated artifacts.
const ManifestFileName = ".testforge-run.yaml"

// ManifestStore persists and restores run manifests.
type ManifestStore interface {
	Save(path m.Path, manifest m.RunManifest) error
	Load(path m.Path) (m.RunManifest, error)
}

// YAMLManifestStore stores manifests as YAML files on disk.
type YAMLManifestStore struct{}

// NewManifestStore constructs a YAMLManifestStore.
func NewManifestStore() *YAMLManifestStore {
	return &YAMLManifestStore{}
}

// Save writes the manifest to path, replacing any previous manifest.
func (s *YAMLManifestStore) Save(path m.Path, manifest m.RunManifest) error {
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := os.WriteFile(string(path), data, 0o600); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// Load reads a manifest back from path.
func (s *YAMLManifestStore) Load(path m.Path) (m.RunManifest, error) {
	var manifest m.RunManifest

	data, err := os.ReadFile(string(path))
	if err != nil {
		return manifest, fmt.Errorf("read manifest: %w", err)
	}

	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return manifest, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return manifest, nil
}
