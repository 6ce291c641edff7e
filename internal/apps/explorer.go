package apps

// ExplorerChainConfig describes one chain to the block explorer frontend.
type ExplorerChainConfig struct {
	Name               string   `yaml:"name" toml:"name" json:"name"`
	L2NetworkName      string   `yaml:"l2NetworkName" toml:"l2NetworkName" json:"l2NetworkName"`
	L2ChainID          uint64   `yaml:"l2ChainId" toml:"l2ChainId" json:"l2ChainId"`
	RPCURL             string   `yaml:"rpcUrl" toml:"rpcUrl" json:"rpcUrl"`
	APIURL             string   `yaml:"apiUrl" toml:"apiUrl" json:"apiUrl"`
	BaseTokenAddress   string   `yaml:"baseTokenAddress" toml:"baseTokenAddress" json:"baseTokenAddress"`
	Hostnames          []string `yaml:"hostnames" toml:"hostnames" json:"hostnames"`
	Icon               string   `yaml:"icon" toml:"icon" json:"icon"`
	Maintenance        bool     `yaml:"maintenance" toml:"maintenance" json:"maintenance"`
	Published          bool     `yaml:"published" toml:"published" json:"published"`
	BridgeURL          string   `yaml:"bridgeUrl,omitempty" toml:"bridgeUrl,omitempty" json:"bridgeUrl,omitempty"`
	L1ExplorerURL      string   `yaml:"l1ExplorerUrl,omitempty" toml:"l1ExplorerUrl,omitempty" json:"l1ExplorerUrl,omitempty"`
	VerificationAPIURL string   `yaml:"verificationApiUrl,omitempty" toml:"verificationApiUrl,omitempty" json:"verificationApiUrl,omitempty"`
}

// ExplorerRuntimeConfig is the document the explorer app evaluates at load time.
type ExplorerRuntimeConfig struct {
	AppEnvironment    string                `json:"appEnvironment"`
	EnvironmentConfig []ExplorerChainConfig `json:"environmentConfig"`
}

func NewExplorerRuntimeConfig(chains []ExplorerChainConfig) (*ExplorerRuntimeConfig, error) {
	if len(chains) == 0 {
		return nil, ErrEmptyAggregate
	}
	out := make([]ExplorerChainConfig, len(chains))
	for i, c := range chains {
		if c.Hostnames == nil {
			c.Hostnames = []string{}
		}
		out[i] = c
	}
	return &ExplorerRuntimeConfig{
		AppEnvironment:    "default",
		EnvironmentConfig: out,
	}, nil
}
