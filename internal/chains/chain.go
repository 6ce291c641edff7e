package chains

import (
	"net/url"
	"strconv"
)

// DefaultRPCPort is used when a chain's general config does not say otherwise.
const DefaultRPCPort uint16 = 3050

// Chain is the metadata of one chain as persisted by the ecosystem tooling.
type Chain struct {
	Name      string
	ChainID   uint64
	L1Network L1Network
	BaseToken BaseToken

	// General and Secrets are nil when the chain has no such file.
	General *GeneralConfig
	Secrets *SecretsConfig
}

type GeneralConfig struct {
	API *APIConfig `yaml:"api"`
}

type APIConfig struct {
	Web3JSONRPC Web3JSONRPC `yaml:"web3_json_rpc"`
}

type Web3JSONRPC struct {
	HTTPPort uint16 `yaml:"http_port"`
	HTTPURL  string `yaml:"http_url"`
}

type SecretsConfig struct {
	L1 *L1Secrets `yaml:"l1"`
}

type L1Secrets struct {
	L1RPCURL string `yaml:"l1_rpc_url"`
}

// RPCURL returns the chain's public JSON-RPC URL, or "" if not configured.
func (c *Chain) RPCURL() string {
	if c.General == nil || c.General.API == nil {
		return ""
	}
	return c.General.API.Web3JSONRPC.HTTPURL
}

// L1RPCURL returns the settlement layer RPC URL, or "" if not configured.
func (c *Chain) L1RPCURL() string {
	if c.Secrets == nil || c.Secrets.L1 == nil {
		return ""
	}
	return c.Secrets.L1.L1RPCURL
}

// RPCPort is the host port backend services reach the chain's JSON-RPC on:
// the configured http_port, else the port of the RPC URL, else DefaultRPCPort.
func (c *Chain) RPCPort() uint16 {
	if c.General != nil && c.General.API != nil {
		if p := c.General.API.Web3JSONRPC.HTTPPort; p != 0 {
			return p
		}
	}
	if u, err := url.Parse(c.RPCURL()); err == nil {
		if p, err := strconv.ParseUint(u.Port(), 10, 16); err == nil && p != 0 {
			return uint16(p)
		}
	}
	return DefaultRPCPort
}
