// Package profileconfig loads and saves GameProfile path overrides from a
// YAML file, the way the teacher's storage/config package loads global
// application settings: sane defaults, YAML unmarshal on top, Save writes
// the merged result back.
package profileconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mod-tools/loadorder/internal/domain"

	"gopkg.in/yaml.v3"
)

// Overrides is the on-disk representation of a GameProfileOptions override
// for one game, keyed by GameID string in the YAML file.
type Overrides struct {
	PluginsFolder     string   `yaml:"plugins_folder,omitempty"`
	LoadOrderFile     string   `yaml:"load_order_file,omitempty"`
	ActivePluginsFile string   `yaml:"active_plugins_file,omitempty"`
	ImplicitPlugins   []string `yaml:"implicit_plugins,omitempty"`
}

// ToOptions converts an on-disk Overrides into the domain package's
// GameProfileOptions.
func (o Overrides) ToOptions() domain.GameProfileOptions {
	return domain.GameProfileOptions{
		PluginsFolder:     o.PluginsFolder,
		LoadOrderFile:     o.LoadOrderFile,
		ActivePluginsFile: o.ActivePluginsFile,
		ImplicitPlugins:   o.ImplicitPlugins,
	}
}

// Document is the top-level shape of profiles.yaml: one Overrides entry
// per configured game, plus the data/local paths NewGameProfile needs.
type Document struct {
	Games map[string]GameEntry `yaml:"games"`
}

// GameEntry pairs a game's install paths with its path overrides.
type GameEntry struct {
	DataPath  string    `yaml:"data_path"`
	LocalPath string    `yaml:"local_path,omitempty"`
	Overrides Overrides `yaml:"overrides,omitempty"`
}

// Load reads profiles.yaml from configDir. A missing file is not an
// error: it returns an empty Document, mirroring the teacher's
// return-defaults-on-ENOENT behavior.
func Load(configDir string) (*Document, error) {
	doc := &Document{Games: map[string]GameEntry{}}

	path := filepath.Join(configDir, "profiles.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("reading profile config: %w", err)
	}

	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parsing profile config: %w", err)
	}
	if doc.Games == nil {
		doc.Games = map[string]GameEntry{}
	}
	return doc, nil
}

// Save writes the document to configDir/profiles.yaml.
func (d *Document) Save(configDir string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling profile config: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	path := filepath.Join(configDir, "profiles.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing profile config: %w", err)
	}
	return nil
}

// Profile builds the domain.GameProfile for the named game entry, or false
// if no such entry exists.
func (d *Document) Profile(name string) (domain.GameProfile, bool) {
	entry, ok := d.Games[name]
	if !ok {
		return domain.GameProfile{}, false
	}
	id, ok := domain.ParseGameID(name)
	if !ok {
		return domain.GameProfile{}, false
	}
	return domain.NewGameProfile(id, entry.DataPath, entry.LocalPath, entry.Overrides.ToOptions()), true
}
