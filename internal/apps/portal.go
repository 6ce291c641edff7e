package apps

// PortalChainConfig describes one chain to the portal frontend.
type PortalChainConfig struct {
	Network PortalNetwork `yaml:"network" toml:"network" json:"network"`
	Tokens  []TokenConfig `yaml:"tokens" toml:"tokens" json:"tokens"`
}

type PortalNetwork struct {
	ID                uint64           `yaml:"id" toml:"id" json:"id"`
	Key               string           `yaml:"key" toml:"key" json:"key"`
	Name              string           `yaml:"name" toml:"name" json:"name"`
	RPCURL            string           `yaml:"rpcUrl" toml:"rpcUrl" json:"rpcUrl"`
	L1Network         *L1NetworkConfig `yaml:"l1Network,omitempty" toml:"l1Network,omitempty" json:"l1Network,omitempty"`
	PublicL1NetworkID *uint64          `yaml:"publicL1NetworkId,omitempty" toml:"publicL1NetworkId,omitempty" json:"publicL1NetworkId,omitempty"`
	BlockExplorerURL  string           `yaml:"blockExplorerUrl,omitempty" toml:"blockExplorerUrl,omitempty" json:"blockExplorerUrl,omitempty"`
	BlockExplorerAPI  string           `yaml:"blockExplorerApi,omitempty" toml:"blockExplorerApi,omitempty" json:"blockExplorerApi,omitempty"`
	Hidden            *bool            `yaml:"hidden,omitempty" toml:"hidden,omitempty" json:"hidden,omitempty"`
}

type L1NetworkConfig struct {
	ID             uint64    `yaml:"id" toml:"id" json:"id"`
	Name           string    `yaml:"name" toml:"name" json:"name"`
	Network        string    `yaml:"network" toml:"network" json:"network"`
	NativeCurrency TokenInfo `yaml:"nativeCurrency" toml:"nativeCurrency" json:"nativeCurrency"`
	RPCURLs        RPCURLs   `yaml:"rpcUrls" toml:"rpcUrls" json:"rpcUrls"`
}

type RPCURLs struct {
	Default RPCURLConfig `yaml:"default" toml:"default" json:"default"`
	Public  RPCURLConfig `yaml:"public" toml:"public" json:"public"`
}

type RPCURLConfig struct {
	HTTP []string `yaml:"http" toml:"http" json:"http"`
}

// TokenInfo is the ERC-20 metadata of a token.
type TokenInfo struct {
	Name     string `yaml:"name" toml:"name" json:"name"`
	Symbol   string `yaml:"symbol" toml:"symbol" json:"symbol"`
	Decimals uint8  `yaml:"decimals" toml:"decimals" json:"decimals"`
}

func ETH() TokenInfo {
	return TokenInfo{Name: "Ether", Symbol: "ETH", Decimals: 18}
}

type TokenConfig struct {
	Address   string `yaml:"address" toml:"address" json:"address"`
	L1Address string `yaml:"l1Address,omitempty" toml:"l1Address,omitempty" json:"l1Address,omitempty"`
	Symbol    string `yaml:"symbol" toml:"symbol" json:"symbol"`
	Decimals  uint8  `yaml:"decimals" toml:"decimals" json:"decimals"`
	Name      string `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
}

// PortalRuntimeConfig is the document the portal app evaluates at load time.
type PortalRuntimeConfig struct {
	NodeType          string              `json:"nodeType"`
	HyperchainsConfig []PortalChainConfig `json:"hyperchainsConfig"`
}

func NewPortalRuntimeConfig(chains []PortalChainConfig) (*PortalRuntimeConfig, error) {
	if len(chains) == 0 {
		return nil, ErrEmptyAggregate
	}
	return &PortalRuntimeConfig{
		NodeType:          "hyperchain",
		HyperchainsConfig: chains,
	}, nil
}
