package domain

// Config mirrors ~/.paceline/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Segments            []SegmentConfig   `yaml:"segments"`
	Theme               ThemeSettings     `yaml:"theme"`
	Usage               UsageSettings     `yaml:"usage"`
	Pace                PaceSettings      `yaml:"pace"`
	Retention           RetentionSettings `yaml:"retention"`
	Thoughts            ThoughtsSettings  `yaml:"thoughts"`
}

// SegmentConfig declares one block of the status line. The list order in the
// config file is the render order. Loaded once at process start and never
// mutated afterwards.
type SegmentConfig struct {
	Type       string            `yaml:"type"`
	Foreground string            `yaml:"fg"`
	Background string            `yaml:"bg"`
	Options    map[string]string `yaml:"options,omitempty"`
}

// ThemeSettings controls how fragments are composed into the final line.
type ThemeSettings struct {
	// Separator is "powerline" for glyph separators or "plain" for spacers.
	Separator string `yaml:"separator"`
	// ColorMode is "auto", "always" or "never".
	ColorMode string `yaml:"color_mode"`
	Dark      bool   `yaml:"dark"`
}

// UsageSettings configures the cost-accounting providers.
type UsageSettings struct {
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig declares one external cost-accounting source invoked as a
// subprocess.
type ProviderConfig struct {
	ID             string   `yaml:"id"`
	Command        []string `yaml:"command"`
	TTLSeconds     int      `yaml:"ttl_seconds"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

// PaceSettings tunes the spend-rate estimator.
type PaceSettings struct {
	HalfLifeMinutes int `yaml:"half_life_minutes"`
	WindowDays      int `yaml:"window_days"`
}

// RetentionSettings bounds snapshot-store growth.
type RetentionSettings struct {
	Days             int     `yaml:"days"`
	PruneProbability float64 `yaml:"prune_probability"`
}

// ThoughtsSettings feeds the thoughts segment.
type ThoughtsSettings struct {
	Messages []string `yaml:"messages,omitempty"`
}
