// Package config loads commoncode defaults from an optional config file and
// COMMONCODE_* environment variables.
package config

// DefaultConfigDir is searched for config.yaml when no file is given.
const DefaultConfigDir = "~/.config/commoncode"

// EnvPrefix prefixes environment overrides, e.g. COMMONCODE_EXTRACT_JOBS.
const EnvPrefix = "COMMONCODE"

// DefaultExtract holds the extraction defaults.
var DefaultExtract = Extract{
	Output:       ".",
	Jobs:         1,
	MaxDictBytes: 1 << 30,
}
