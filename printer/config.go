package printer

import "github.com/wippyai/ctf-runtime/config"

// FromConfig translates the [print] section into options.
func FromConfig(cfg config.PrintConfig) ([]Option, error) {
	mode, err := ParseColorMode(cfg.Color)
	if err != nil {
		return nil, err
	}
	return []Option{WithColor(mode), WithFieldNames(cfg.FieldNames)}, nil
}
