package apps

import (
	"errors"
	"fmt"
)

// Kind selects which frontend application a run is for.
type Kind string

const (
	Explorer Kind = "explorer"
	Portal   Kind = "portal"
)

const (
	DefaultExplorerPort uint16 = 3010
	DefaultPortalPort   uint16 = 3030
)

// ErrEmptyAggregate is returned when no chain produced a descriptor, so there
// is nothing a frontend could be pointed at.
var ErrEmptyAggregate = errors.New("failed to create any valid chain config")

// EcosystemPreferences is configs/apps.<fmt>.
type EcosystemPreferences struct {
	Portal   AppPreferences `yaml:"portal" toml:"portal" json:"portal"`
	Explorer AppPreferences `yaml:"explorer" toml:"explorer" json:"explorer"`
}

// AppPreferences holds the externally visible endpoint of one frontend app.
type AppPreferences struct {
	HTTPPort uint16 `yaml:"http_port" toml:"http_port" json:"http_port"`
	HTTPURL  string `yaml:"http_url" toml:"http_url" json:"http_url"`
	// ChainsEnabled restricts the app to the listed chains. Empty means every
	// chain of the ecosystem.
	ChainsEnabled []string `yaml:"chains_enabled,omitempty" toml:"chains_enabled,omitempty" json:"chains_enabled,omitempty"`
}

func DefaultPreferences() EcosystemPreferences {
	return EcosystemPreferences{
		Portal:   defaultApp(DefaultPortalPort),
		Explorer: defaultApp(DefaultExplorerPort),
	}
}

func defaultApp(port uint16) AppPreferences {
	return AppPreferences{
		HTTPPort: port,
		HTTPURL:  fmt.Sprintf("http://127.0.0.1:%d", port),
	}
}

// App returns the preferences of the given app kind.
func (p EcosystemPreferences) App(kind Kind) AppPreferences {
	if kind == Portal {
		return p.Portal
	}
	return p.Explorer
}

// EnabledChains resolves the allow-list against the chains known to the ecosystem.
func (a AppPreferences) EnabledChains(known []string) []string {
	if len(a.ChainsEnabled) == 0 {
		return known
	}
	return a.ChainsEnabled
}
