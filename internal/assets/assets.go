// Package assets embeds files shipped inside the binary.
package assets

import _ "embed"

// DefaultConfig is the annotated default configuration written by `config init`.
//
//go:embed flux_runner.yaml
var DefaultConfig []byte
