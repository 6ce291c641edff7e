// Package synthesis builds the per-chain descriptors the frontends consume
// from a chain's persisted metadata.
package synthesis

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/railwayapp/appstack/internal/apps"
	"github.com/railwayapp/appstack/internal/chains"
	"github.com/railwayapp/appstack/internal/compose"
	"github.com/railwayapp/appstack/internal/tokens"
)

const (
	explorerIcon       = "/images/icons/zksync-arrows.svg"
	verificationAPIURL = "http://localhost:3070"
)

// MissingFieldError is returned when chain metadata lacks a required value.
type MissingFieldError struct {
	Chain string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("chain %s: missing %s", e.Chain, e.Field)
}

// LookupError is returned when an external lookup for a chain failed.
type LookupError struct {
	Chain string
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("chain %s: token lookup failed: %v", e.Chain, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

type Synthesizer struct {
	tokens tokens.Fetcher
}

func New(fetcher tokens.Fetcher) *Synthesizer {
	return &Synthesizer{tokens: fetcher}
}

func endpoints(chain *chains.Chain) (rpcURL, l1RPCURL string, err error) {
	if rpcURL = chain.RPCURL(); rpcURL == "" {
		return "", "", &MissingFieldError{Chain: chain.Name, Field: "api.web3_json_rpc.http_url"}
	}
	if l1RPCURL = chain.L1RPCURL(); l1RPCURL == "" {
		return "", "", &MissingFieldError{Chain: chain.Name, Field: "l1.l1_rpc_url"}
	}
	return rpcURL, l1RPCURL, nil
}

// Explorer builds the explorer descriptor of chain. The api URL points at the
// api service provisioned for the chain.
func (s *Synthesizer) Explorer(chain *chains.Chain, backend compose.BackendState) (apps.ExplorerChainConfig, error) {
	rpcURL, _, err := endpoints(chain)
	if err != nil {
		return apps.ExplorerChainConfig{}, err
	}
	if backend.Ports.API == 0 {
		return apps.ExplorerChainConfig{}, &MissingFieldError{Chain: chain.Name, Field: "backend api port"}
	}
	return apps.ExplorerChainConfig{
		Name:               chain.Name,
		L2NetworkName:      chain.Name,
		L2ChainID:          chain.ChainID,
		RPCURL:             rpcURL,
		APIURL:             fmt.Sprintf("http://127.0.0.1:%d", backend.Ports.API),
		BaseTokenAddress:   chains.L2BaseTokenAddress,
		Hostnames:          []string{},
		Icon:               explorerIcon,
		Maintenance:        false,
		Published:          true,
		VerificationAPIURL: verificationAPIURL,
	}, nil
}

// Portal builds the portal descriptor of chain. A base token other than
// ether is resolved on the settlement layer; a failed lookup yields a
// *LookupError.
func (s *Synthesizer) Portal(ctx context.Context, chain *chains.Chain) (apps.PortalChainConfig, error) {
	rpcURL, l1RPCURL, err := endpoints(chain)
	if err != nil {
		return apps.PortalChainConfig{}, err
	}

	l1Address := common.Address{}
	info := apps.ETH()
	if !chain.BaseToken.IsETH() {
		l1Address = chain.BaseToken.Address
		if info, err = s.tokens.TokenInfo(ctx, l1RPCURL, l1Address); err != nil {
			return apps.PortalChainConfig{}, &LookupError{Chain: chain.Name, Err: err}
		}
	}

	return apps.PortalChainConfig{
		Network: apps.PortalNetwork{
			ID:     chain.ChainID,
			Key:    chain.Name,
			Name:   chain.Name,
			RPCURL: rpcURL,
			L1Network: &apps.L1NetworkConfig{
				ID:             chain.L1Network.ChainID(),
				Name:           chain.L1Network.String(),
				Network:        strings.ToLower(chain.L1Network.String()),
				NativeCurrency: apps.ETH(),
				RPCURLs: apps.RPCURLs{
					Default: apps.RPCURLConfig{HTTP: []string{l1RPCURL}},
					Public:  apps.RPCURLConfig{HTTP: []string{l1RPCURL}},
				},
			},
		},
		Tokens: []apps.TokenConfig{{
			Address:   chains.L2BaseTokenAddress,
			L1Address: l1Address.Hex(),
			Symbol:    info.Symbol,
			Decimals:  info.Decimals,
			Name:      info.Name,
		}},
	}, nil
}
