// Package tokens looks up ERC-20 metadata of base tokens on the settlement layer.
package tokens

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/railwayapp/appstack/internal/apps"
)

const erc20ABI = `[
	{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"}
]`

var parsedERC20 abi.ABI

func init() {
	var err error
	if parsedERC20, err = abi.JSON(strings.NewReader(erc20ABI)); err != nil {
		panic(fmt.Sprintf("parsing erc20 abi: %v", err))
	}
}

// Fetcher resolves token metadata of the token at address through rpcURL.
type Fetcher interface {
	TokenInfo(ctx context.Context, rpcURL string, address common.Address) (apps.TokenInfo, error)
}

// Client is the subset of an Ethereum client needed for read-only calls.
type Client interface {
	bind.ContractCaller
	Close()
}

type Dialer func(ctx context.Context, rawURL string) (Client, error)

// DialEthereum dials a JSON-RPC endpoint.
func DialEthereum(ctx context.Context, rawURL string) (Client, error) {
	c, err := ethclient.DialContext(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ERC20Fetcher calls name(), symbol() and decimals() on the token contract.
type ERC20Fetcher struct {
	dial Dialer
}

func NewERC20Fetcher(dial Dialer) *ERC20Fetcher {
	if dial == nil {
		dial = DialEthereum
	}
	return &ERC20Fetcher{dial: dial}
}

func (f *ERC20Fetcher) TokenInfo(ctx context.Context, rpcURL string, address common.Address) (apps.TokenInfo, error) {
	client, err := f.dial(ctx, rpcURL)
	if err != nil {
		return apps.TokenInfo{}, fmt.Errorf("dialing %s: %w", rpcURL, err)
	}
	defer client.Close()

	contract := bind.NewBoundContract(address, parsedERC20, client, nil, nil)
	opts := &bind.CallOpts{Context: ctx}

	var info apps.TokenInfo
	if info.Name, err = callString(contract, opts, "name"); err != nil {
		return apps.TokenInfo{}, err
	}
	if info.Symbol, err = callString(contract, opts, "symbol"); err != nil {
		return apps.TokenInfo{}, err
	}

	var out []interface{}
	if err := contract.Call(opts, &out, "decimals"); err != nil {
		return apps.TokenInfo{}, fmt.Errorf("calling decimals: %w", err)
	}
	info.Decimals = *abi.ConvertType(out[0], new(uint8)).(*uint8)
	return info, nil
}

func callString(contract *bind.BoundContract, opts *bind.CallOpts, method string) (string, error) {
	var out []interface{}
	if err := contract.Call(opts, &out, method); err != nil {
		return "", fmt.Errorf("calling %s: %w", method, err)
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}
