// Package config loads the settings shared by the snakeworld commands.
//
// Settings come from three places, later ones winning: DefaultSettings, an
// optional YAML file checked against schema.json, and SNAKE_* environment
// variables. Commands then let flags override the result.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/brensch/snakeworld/rules"
	"github.com/brensch/snakeworld/session"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "settings.schema.json"

type World struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Log struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

type Server struct {
	Listen string `yaml:"listen"`
	Path   string `yaml:"path"`
	// MaxPlayers caps a session; 0 means as many as the world height allows.
	MaxPlayers int `yaml:"max_players"`
}

type Record struct {
	// Dir enables recording when non-empty.
	Dir    string `yaml:"dir"`
	Events bool   `yaml:"events"`
}

type Settings struct {
	World     World         `yaml:"world"`
	Food      int           `yaml:"food"`
	CutTails  bool          `yaml:"cut_tails"`
	TailSize  int           `yaml:"tail_size"`
	TickDelay time.Duration `yaml:"tick_delay"`
	Log       Log           `yaml:"log"`
	Server    Server        `yaml:"server"`
	Record    Record        `yaml:"record"`
}

// DefaultSettings match the lobby server: a 50x50 world with 3 food, fatal
// overlaps and three tail segments.
func DefaultSettings() Settings {
	return Settings{
		World:     World{Width: 50, Height: 50},
		Food:      3,
		CutTails:  false,
		TailSize:  3,
		TickDelay: session.DefaultTickDelay,
		Log:       Log{Format: "text", Level: "info"},
		Server:    Server{Listen: ":8080", Path: "/snake"},
		Record:    Record{Events: true},
	}
}

// Load reads a YAML settings file on top of DefaultSettings.
func Load(path string) (Settings, error) {
	s := DefaultSettings()
	b, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := Parse(b, &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse validates a YAML document against the settings schema and decodes it
// into s. Keys missing from the document keep their value in s.
func Parse(b []byte, s *Settings) error {
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if doc == nil {
		return nil
	}
	if err := validate(doc); err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, s); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}
	return nil
}

var schema = jsonschema.MustCompileString(schemaURL, schemaJSON)

// validate round-trips the YAML document through JSON so the validator sees
// the value types it expects.
func validate(doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("settings are not json-compatible: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("settings are not json-compatible: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// ApplyEnv overrides s from SNAKE_* environment variables. Unparseable values
// are ignored.
func (s *Settings) ApplyEnv() {
	s.World.Width = getEnvIntOrDefault("SNAKE_WIDTH", s.World.Width)
	s.World.Height = getEnvIntOrDefault("SNAKE_HEIGHT", s.World.Height)
	s.Food = getEnvIntOrDefault("SNAKE_FOOD", s.Food)
	s.CutTails = getEnvBoolOrDefault("SNAKE_CUT_TAILS", s.CutTails)
	s.TailSize = getEnvIntOrDefault("SNAKE_TAIL_SIZE", s.TailSize)
	s.TickDelay = getEnvDurationOrDefault("SNAKE_TICK_DELAY", s.TickDelay)
	s.Log.Format = getEnvOrDefault("SNAKE_LOG_FORMAT", s.Log.Format)
	s.Log.Level = getEnvOrDefault("SNAKE_LOG_LEVEL", s.Log.Level)
	s.Server.Listen = getEnvOrDefault("SNAKE_LISTEN", s.Server.Listen)
	s.Server.MaxPlayers = getEnvIntOrDefault("SNAKE_MAX_PLAYERS", s.Server.MaxPlayers)
	s.Record.Dir = getEnvOrDefault("SNAKE_RECORD_DIR", s.Record.Dir)
}

// WorldConfig builds the creation config for one session.
func (s Settings) WorldConfig(controllers []rules.Controller) rules.Config {
	return rules.Config{
		Width:       s.World.Width,
		Height:      s.World.Height,
		Food:        s.Food,
		CutTails:    s.CutTails,
		TailSize:    s.TailSize,
		Controllers: controllers,
	}
}

// Check reports whether a world built from s would be accepted, sized for a
// single agent. ApplyEnv and flag overrides bypass the schema, so commands
// call this before starting.
func (s Settings) Check() error {
	cfg := s.WorldConfig(make([]rules.Controller, 1))
	return cfg.Validate()
}

// PlayerCap is how many agents fit in a world of the configured height, capped
// further by Server.MaxPlayers when set.
func (s Settings) PlayerCap() int {
	n := (s.World.Height-1)/3 - 1
	if s.Server.MaxPlayers > 0 && s.Server.MaxPlayers < n {
		n = s.Server.MaxPlayers
	}
	if n < 0 {
		n = 0
	}
	return n
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
