package persist

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/GregMSThompson/projecthub-dashboard/internal/models"
)

// Migration rewrites a decoded envelope of version N into version N+1.
type Migration func(envelope map[string]json.RawMessage) (map[string]json.RawMessage, error)

// Codec encodes layout state and decodes it forgivingly. Migrations is keyed by the
// version a migration upgrades from.
type Codec struct {
	Migrations map[int]Migration
}

func NewCodec() *Codec {
	return &Codec{Migrations: map[int]Migration{}}
}

// Encode marshals every key on its own. A key whose state cannot be marshalled is left
// out and logged, so it never blocks the others from being written.
func (c *Codec) Encode(p models.PersistedLayouts, log *slog.Logger) ([]byte, error) {
	entries := make(map[string]json.RawMessage, len(p.LayoutsByKey))
	for key, state := range p.LayoutsByKey {
		raw, err := json.Marshal(state)
		if err != nil {
			log.Error("dropping unencodable layout", "key", key, "error", err)
			continue
		}
		entries[key] = raw
	}
	return json.Marshal(struct {
		Version      int                        `json:"version"`
		LayoutsByKey map[string]json.RawMessage `json:"layoutsByKey"`
	}{Version: models.LayoutSchemaVersion, LayoutsByKey: entries})
}

// Decode never fails. A corrupted blob or an unsupported version yields an empty
// collection, and a malformed per-key entry is dropped; the layout store then regenerates
// defaults for those keys on next access.
func (c *Codec) Decode(data []byte, log *slog.Logger) models.PersistedLayouts {
	out := models.NewPersistedLayouts()

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		log.Warn("discarding unreadable layout blob", "error", err)
		return out
	}

	version := 0
	if raw, ok := envelope["version"]; ok {
		if err := json.Unmarshal(raw, &version); err != nil {
			log.Warn("discarding layout blob with bad version", "error", err)
			return out
		}
	}

	for version < models.LayoutSchemaVersion {
		migrate, ok := c.Migrations[version]
		if !ok {
			log.Warn("discarding layout blob with unsupported version", "version", version)
			return out
		}
		next, err := migrate(envelope)
		if err != nil {
			log.Warn("layout blob migration failed", "from_version", version, "error", err)
			return out
		}
		envelope = next
		version++
	}
	if version != models.LayoutSchemaVersion {
		log.Warn("discarding layout blob from a newer schema", "version", version)
		return out
	}

	var entries map[string]json.RawMessage
	if raw, ok := envelope["layoutsByKey"]; ok {
		if err := json.Unmarshal(raw, &entries); err != nil {
			log.Warn("discarding unreadable layoutsByKey", "error", err)
			return out
		}
	}

	for key, raw := range entries {
		state, err := decodeState(raw)
		if err != nil {
			log.Warn("dropping malformed layout", "key", key, "error", err)
			continue
		}
		out.LayoutsByKey[key] = state
	}
	return out
}

func decodeState(raw json.RawMessage) (models.DashboardLayoutState, error) {
	var s models.DashboardLayoutState
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, err
	}
	if s.Version != models.LayoutSchemaVersion {
		return s, fmt.Errorf("unsupported layout version %d", s.Version)
	}
	if !s.Role.Valid() {
		return s, fmt.Errorf("unknown role %q", s.Role)
	}
	if s.EnabledWidgetIDs == nil {
		s.EnabledWidgetIDs = []string{}
	}
	if s.Layouts == nil {
		s.Layouts = models.GridLayouts{}
	}
	if s.WidgetSettings == nil {
		s.WidgetSettings = map[string]json.RawMessage{}
	}
	return s, nil
}
