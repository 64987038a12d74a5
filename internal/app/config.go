package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"clozedojo/internal/content"
	"clozedojo/internal/engine"
	"clozedojo/internal/focus"

	"github.com/caarlos0/env/v11"
	gap "github.com/muesli/go-app-paths"
	"gopkg.in/yaml.v3"
)

const envPrefix = "CLOZEDOJO_"

// Config controls runtime behavior for the TUI app. Values are layered:
// defaults, the YAML file, CLOZEDOJO_* environment variables, then flags.
type Config struct {
	DataDir      string        `yaml:"data_dir" env:"DATA_DIR"`
	LogPath      string        `yaml:"log_path" env:"LOG_PATH"`
	PackDir      string        `yaml:"pack_dir" env:"PACK_DIR"`
	Mode         string        `yaml:"mode" env:"MODE"`
	TimeLimitSec int           `yaml:"time_limit_sec" env:"TIME_LIMIT_SEC"`
	Answers      AnswersConfig `yaml:"answers" envPrefix:"ANSWERS_"`
	Focus        FocusConfig   `yaml:"focus" envPrefix:"FOCUS_"`
	Content      ContentConfig `yaml:"content" envPrefix:"CONTENT_"`
	UI           UIConfig      `yaml:"ui" envPrefix:"UI_"`
	Dev          bool          `yaml:"dev" env:"DEV"`
	DevHTTP      string        `yaml:"dev_http" env:"DEV_HTTP"`
	WatchPacks   bool          `yaml:"watch_packs" env:"WATCH_PACKS"`
	Debug        bool          `yaml:"debug" env:"DEBUG"`
}

type AnswersConfig struct {
	Layout string `yaml:"layout" env:"LAYOUT"`
}

type FocusConfig struct {
	WatchdogMS     int `yaml:"watchdog_ms" env:"WATCHDOG_MS"`
	GraceMS        int `yaml:"grace_ms" env:"GRACE_MS"`
	InitialDelayMS int `yaml:"initial_delay_ms" env:"INITIAL_DELAY_MS"`
	LayoutMS       int `yaml:"layout_ms" env:"LAYOUT_MS"`
}

type ContentConfig struct {
	Retries     int `yaml:"retries" env:"RETRIES"`
	RetryBaseMS int `yaml:"retry_base_ms" env:"RETRY_BASE_MS"`
}

type UIConfig struct {
	StyleVariant string `yaml:"style_variant" env:"STYLE_VARIANT"`
	MotionLevel  string `yaml:"motion_level" env:"MOTION_LEVEL"`
	ASCII        bool   `yaml:"ascii" env:"ASCII"`
	NoMouse      bool   `yaml:"no_mouse" env:"NO_MOUSE"`
}

func DefaultConfig() Config {
	return Config{
		Mode:         string(ModePractice),
		TimeLimitSec: 180,
		DevHTTP:      "127.0.0.1:17321",
		Answers:      AnswersConfig{Layout: string(engine.LayoutCompact)},
		Focus: FocusConfig{
			WatchdogMS:     150,
			GraceMS:        120,
			InitialDelayMS: 50,
			LayoutMS:       16,
		},
		Content: ContentConfig{
			Retries:     3,
			RetryBaseMS: 100,
		},
		UI: UIConfig{
			StyleVariant: "modern_arcade",
			MotionLevel:  "full",
		},
	}
}

// LoadConfigFile overlays the YAML file at path onto cfg. Keys missing from
// the file keep their current values.
func LoadConfigFile(path string, cfg *Config) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(body, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays CLOZEDOJO_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("environment config: %w", err)
	}
	return nil
}

// DefaultConfigPath is where the config file lives when --config is not given.
func DefaultConfigPath() (string, error) {
	return gap.NewScope(gap.User, "clozedojo").ConfigPath("config.yaml")
}

func (c *Config) Validate() error {
	switch normalizeMode(c.Mode) {
	case ModePractice, ModeTimed:
		c.Mode = string(normalizeMode(c.Mode))
	default:
		return fmt.Errorf("invalid mode %q", c.Mode)
	}
	if c.TimeLimitSec < 0 {
		return fmt.Errorf("time_limit_sec must be >=0")
	}
	if c.TimeLimitSec == 0 {
		c.TimeLimitSec = 180
	}

	layout, err := engine.ParseLayout(c.Answers.Layout)
	if err != nil {
		return err
	}
	c.Answers.Layout = string(layout)

	if c.Focus.WatchdogMS == 0 {
		c.Focus.WatchdogMS = 150
	}
	if c.Focus.WatchdogMS < 100 || c.Focus.WatchdogMS > 200 {
		return fmt.Errorf("focus.watchdog_ms must be between 100 and 200, got %d", c.Focus.WatchdogMS)
	}
	if c.Focus.GraceMS < 0 || c.Focus.InitialDelayMS < 0 || c.Focus.LayoutMS < 0 {
		return errors.New("focus delays must be >=0")
	}
	if c.Focus.GraceMS == 0 {
		c.Focus.GraceMS = 120
	}
	if c.Focus.InitialDelayMS == 0 {
		c.Focus.InitialDelayMS = 50
	}
	if c.Focus.LayoutMS == 0 {
		c.Focus.LayoutMS = 16
	}

	if c.Content.Retries < 0 {
		return fmt.Errorf("content.retries must be >=0")
	}
	if c.Content.Retries == 0 {
		c.Content.Retries = 3
	}
	if c.Content.RetryBaseMS <= 0 {
		c.Content.RetryBaseMS = 100
	}

	switch c.UI.StyleVariant {
	case "", "modern_arcade", "cozy_clean", "retro_terminal":
	default:
		return fmt.Errorf("invalid ui style variant %q", c.UI.StyleVariant)
	}
	if c.UI.StyleVariant == "" {
		c.UI.StyleVariant = "modern_arcade"
	}
	switch c.UI.MotionLevel {
	case "", "off", "reduced", "full":
	default:
		return fmt.Errorf("invalid ui motion level %q", c.UI.MotionLevel)
	}
	if c.UI.MotionLevel == "" {
		c.UI.MotionLevel = "full"
	}

	if c.DataDir == "" {
		dir, err := gap.NewScope(gap.User, "clozedojo").DataPath("")
		if err != nil {
			return errors.New("cannot resolve user data directory")
		}
		c.DataDir = dir
	}
	if c.PackDir == "" {
		c.PackDir = filepath.Join(c.DataDir, "packs")
	}
	if c.WatchPacks && !c.Dev {
		return errors.New("watch_packs requires dev mode")
	}
	return nil
}

func (c Config) FocusSettings() focus.Config {
	return focus.Config{
		WatchdogInterval: time.Duration(c.Focus.WatchdogMS) * time.Millisecond,
		Grace:            time.Duration(c.Focus.GraceMS) * time.Millisecond,
		InitialDelay:     time.Duration(c.Focus.InitialDelayMS) * time.Millisecond,
		LayoutDelay:      time.Duration(c.Focus.LayoutMS) * time.Millisecond,
	}
}

// RetryPolicy counts the first fetch plus content.retries more.
func (c Config) RetryPolicy() content.Retry {
	return content.Retry{
		Attempts: c.Content.Retries + 1,
		Base:     time.Duration(c.Content.RetryBaseMS) * time.Millisecond,
	}
}

func (c Config) AnswerLayout() engine.Layout {
	layout, err := engine.ParseLayout(c.Answers.Layout)
	if err != nil {
		return engine.LayoutCompact
	}
	return layout
}
