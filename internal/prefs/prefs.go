// Package prefs persists the user preferences that outlive a wizard run.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/mark3labs/rentdesk/internal/logger"
)

// FileName is the preferences file inside the data directory.
const FileName = "prefs.json"

// Languages lists the supported interface languages.
var Languages = []string{"en", "fr"}

// Prefs holds persisted UI preferences.
type Prefs struct {
	AppLanguage string `json:"appLanguage"`
	SidebarOpen bool   `json:"sidebarOpen"`
	Token       string `json:"token,omitempty"`
}

// Default returns the preferences used when nothing is stored.
func Default() *Prefs {
	return &Prefs{
		AppLanguage: "en",
		SidebarOpen: true,
	}
}

// Path returns the preferences file path for dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Load reads <dataDir>/prefs.json. Keys are decoded one by one: a key that
// is missing or holds the wrong type keeps its default without discarding
// the others. Values are not checked; an unknown language falls back to
// English when messages are looked up.
func Load(dataDir string) *Prefs {
	p := Default()

	data, err := os.ReadFile(Path(dataDir))
	if errors.Is(err, os.ErrNotExist) {
		return p
	}
	if err != nil {
		logger.Warn("Failed to read preferences: %v", err)
		return p
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("Failed to parse preferences JSON: %v", err)
		return p
	}

	decodeKey(raw, "appLanguage", &p.AppLanguage)
	decodeKey(raw, "sidebarOpen", &p.SidebarOpen)
	decodeKey(raw, "token", &p.Token)
	return p
}

func decodeKey[T any](raw map[string]json.RawMessage, key string, dst *T) {
	v, ok := raw[key]
	if !ok {
		return
	}
	var out T
	if err := json.Unmarshal(v, &out); err != nil {
		logger.Warn("Ignoring preference %s: %v", key, err)
		return
	}
	*dst = out
}

// Save writes p to <dataDir>/prefs.json, creating dataDir if needed. The
// file holds the API token, so it is only readable by the owner.
func Save(dataDir string, p *Prefs) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling preferences: %w", err)
	}

	path := Path(dataDir)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing preferences file: %w", err)
	}

	logger.Debug("Preferences saved to %s", path)
	return nil
}

// SetLanguage changes the interface language.
func (p *Prefs) SetLanguage(lang string) error {
	if !slices.Contains(Languages, lang) {
		return fmt.Errorf("unsupported language %q (supported: %v)", lang, Languages)
	}
	p.AppLanguage = lang
	return nil
}
