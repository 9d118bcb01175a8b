package config

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Duration wraps time.Duration so it round-trips through TOML and JSON as a
// human-readable string such as "24h" or "90m".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	d.Duration = parsed

	return nil
}

// Schema tells huma to document Duration fields as plain strings.
func (d Duration) Schema(_ huma.Registry) *huma.Schema {
	return &huma.Schema{
		Type:     huma.TypeString,
		Examples: []any{"24h"},
	}
}
