package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/wippyai/ctf-runtime/errors"
)

const (
	BackendBytes = "bytes"
	BackendWasm  = "wasm"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Config struct {
	Log    LogConfig
	Stream StreamConfig
	Print  PrintConfig
}

type LogConfig struct {
	Level       string
	Development bool
}

// StreamConfig selects the buffer a trace is decoded from.
type StreamConfig struct {
	Backend string
	// WasmPages is the initial size of a wasm backed buffer.
	WasmPages uint32
}

type PrintConfig struct {
	Color      string
	FieldNames bool
}

func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info"},
		Stream: StreamConfig{Backend: BackendBytes, WasmPages: 1},
		Print:  PrintConfig{Color: ColorAuto, FieldNames: true},
	}
}

type fileConfig struct {
	Log struct {
		Level       string `toml:"level"`
		Development bool   `toml:"development"`
	} `toml:"log"`
	Stream struct {
		Backend   string `toml:"backend"`
		WasmPages int64  `toml:"wasm_pages"`
	} `toml:"stream"`
	Print struct {
		Color      string `toml:"color"`
		FieldNames bool   `toml:"field_names"`
	} `toml:"print"`
}

// Load reads and parses the TOML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "read "+path)
	}
	return Parse(data)
}

// Parse decodes TOML data over Default and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "decode toml")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(undecoded[0].String()).
			Detail("unknown key %q", undecoded[0].String()).
			Build()
	}

	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(raw.Log.Level))
	}
	if meta.IsDefined("log", "development") {
		cfg.Log.Development = raw.Log.Development
	}
	if meta.IsDefined("stream", "backend") {
		cfg.Stream.Backend = strings.ToLower(strings.TrimSpace(raw.Stream.Backend))
	}
	if meta.IsDefined("stream", "wasm_pages") {
		if raw.Stream.WasmPages < 1 || raw.Stream.WasmPages > 65536 {
			return Config{}, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Value(raw.Stream.WasmPages).
				Detail("stream.wasm_pages must be between 1 and 65536").
				Build()
		}
		cfg.Stream.WasmPages = uint32(raw.Stream.WasmPages)
	}
	if meta.IsDefined("print", "color") {
		cfg.Print.Color = strings.ToLower(strings.TrimSpace(raw.Print.Color))
	}
	if meta.IsDefined("print", "field_names") {
		cfg.Print.FieldNames = raw.Print.FieldNames
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log.level")
	}
	switch c.Stream.Backend {
	case BackendBytes, BackendWasm:
	default:
		return invalidChoice("stream.backend", c.Stream.Backend)
	}
	if c.Stream.WasmPages == 0 {
		return errors.InvalidInput(errors.PhaseConfig, "stream.wasm_pages must be at least 1")
	}
	switch c.Print.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return invalidChoice("print.color", c.Print.Color)
	}
	return nil
}

func invalidChoice(key, value string) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Value(value).
		Detail("unsupported %s %q", key, value).
		Build()
}

// Build constructs a zap logger for the configured level and mode.
func (c LogConfig) Build() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log.level")
	}
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
