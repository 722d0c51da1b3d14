package adapter

import (
	"embed"
	"fmt"
)

const (
	// ToxConfigAsset is the default tox configuration.
	ToxConfigAsset = "tox.ini"
	// DiscoveryAsset is the unittest discovery script tox runs.
	DiscoveryAsset = "discovery.py"
)

//go:embed assets/tox.ini assets/discovery.py
var assetsFS embed.FS

// Asset returns the content of an embedded support file.
func Asset(name string) ([]byte, error) {
	data, err := assetsFS.ReadFile("assets/" + name)
	if err != nil {
		return nil, fmt.Errorf("unknown asset %q: %w", name, err)
	}

	return data, nil
}
