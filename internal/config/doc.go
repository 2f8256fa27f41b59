// Package config handles configuration loading, parsing, and validation
// from defaults, an optional config file and REPEAT_ environment variables.
// It also converts the loaded values into the scheduling settings used by
// the review engines.
package config
