package timing

import (
	"bytes"
	_ "embed"
)

//go:embed bitrate.cfg.yaml
var defaultPresets []byte

// Default parses the preset table shipped with the module.
func Default() (*Resolver, error) {
	return Load(bytes.NewReader(defaultPresets))
}
