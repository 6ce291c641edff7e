package registry

import (
	"fmt"

	"github.com/railwayapp/appstack/internal/apps"
)

const (
	configsDir   = "configs"
	chainsDir    = "chains"
	appsDir      = "apps"
	generatedDir = "generated"
)

// Format is the serialization format of preference and descriptor artifacts.
// Compose documents are always yaml and runtime configs are always scripts.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatTOML, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// PreferencesPath is configs/apps.<fmt>.
func (s *Store) PreferencesPath() string {
	return s.fs.Join(s.root, configsDir, "apps."+string(s.format))
}

// ChainDescriptorPath is chains/<chain>/configs/apps/<kind>.<fmt>.
func (s *Store) ChainDescriptorPath(chain string, kind apps.Kind) string {
	return s.fs.Join(s.chainAppsDir(chain), string(kind)+"."+string(s.format))
}

// BackendComposePath is chains/<chain>/configs/apps/<kind>-backend-compose.yaml.
func (s *Store) BackendComposePath(chain string, kind apps.Kind) string {
	return s.fs.Join(s.chainAppsDir(chain), string(kind)+"-backend-compose.yaml")
}

// RuntimeConfigPath is configs/generated/<kind>-runtime.js.
func (s *Store) RuntimeConfigPath(kind apps.Kind) string {
	return s.fs.Join(s.root, configsDir, generatedDir, string(kind)+"-runtime.js")
}

// ComposePath is configs/generated/<kind>-compose.yaml.
func (s *Store) ComposePath(kind apps.Kind) string {
	return s.fs.Join(s.root, configsDir, generatedDir, string(kind)+"-compose.yaml")
}

func (s *Store) chainAppsDir(chain string) string {
	return s.fs.Join(s.root, chainsDir, chain, configsDir, appsDir)
}
