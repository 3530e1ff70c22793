package services

import (
	"context"
	"encoding/json"
	"strings"

	"shuttlego/internal/domain"
	"shuttlego/internal/localstore"
)

// Settings are per-device UI preferences kept in the local store.
type Settings struct {
	Theme       string `json:"theme"`        // light / dark / system
	MapProvider string `json:"map_provider"` // google / osm / mapbox
	MapboxToken string `json:"mapbox_token,omitempty"`
	Language    string `json:"language"`
}

func defaultSettings() Settings {
	return Settings{Theme: "system", MapProvider: "osm", Language: "en"}
}

type SettingsService struct {
	Store     localstore.Store
	RequestID string
}

func settingsKey(userID string) string {
	return localstore.KeySettingsPrefix + userID
}

func (s SettingsService) Get(ctx context.Context, userID string) (Settings, error) {
	if userID == "" {
		return Settings{}, domain.AuthRequiredError{}
	}
	raw, found, err := s.Store.Get(ctx, settingsKey(userID))
	if err != nil {
		return Settings{}, domain.BackendUnavailableError{Op: "read settings", Err: err}
	}
	out := defaultSettings()
	if !found {
		return out, nil
	}
	// a corrupt document reads as defaults
	if err := json.Unmarshal(raw, &out); err != nil {
		return defaultSettings(), nil
	}
	return out, nil
}

func (s SettingsService) Put(ctx context.Context, userID string, in Settings) (Settings, error) {
	if userID == "" {
		return Settings{}, domain.AuthRequiredError{}
	}
	in.Theme = strings.ToLower(strings.TrimSpace(in.Theme))
	in.MapProvider = strings.ToLower(strings.TrimSpace(in.MapProvider))
	in.MapboxToken = strings.TrimSpace(in.MapboxToken)
	in.Language = strings.ToLower(strings.TrimSpace(in.Language))

	def := defaultSettings()
	switch in.Theme {
	case "":
		in.Theme = def.Theme
	case "light", "dark", "system":
	default:
		return Settings{}, domain.ValidationError{Field: "theme", Msg: "must be light, dark or system"}
	}
	switch in.MapProvider {
	case "":
		in.MapProvider = def.MapProvider
	case "google", "osm":
	case "mapbox":
		if in.MapboxToken == "" {
			return Settings{}, domain.ValidationError{Field: "mapbox_token", Msg: "is required for mapbox"}
		}
	default:
		return Settings{}, domain.ValidationError{Field: "map_provider", Msg: "unknown map provider"}
	}
	if in.Language == "" {
		in.Language = def.Language
	}

	raw, err := json.Marshal(in)
	if err != nil {
		return Settings{}, domain.InternalError{Msg: "encode settings", Err: err}
	}
	if err := s.Store.Put(ctx, settingsKey(userID), raw); err != nil {
		return Settings{}, domain.BackendUnavailableError{Op: "save settings", Err: err}
	}
	return in, nil
}
