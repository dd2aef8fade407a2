// Package config loads runtime settings from TOML.
//
// A file overrides only the keys it defines; everything else keeps the
// value from Default:
//
//	[log]
//	level = "debug"
//	development = true
//
//	[stream]
//	backend = "wasm"   # "bytes" or "wasm"
//	wasm_pages = 4
//
//	[print]
//	color = "never"    # "auto", "always" or "never"
//	field_names = true
package config
