package chains

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// L1Network is the settlement network a chain posts to.
type L1Network string

const (
	Localhost L1Network = "Localhost"
	Sepolia   L1Network = "Sepolia"
	Holesky   L1Network = "Holesky"
	Mainnet   L1Network = "Mainnet"
)

var l1ChainIDs = map[string]uint64{
	"localhost": 9,
	"sepolia":   11155111,
	"holesky":   17000,
	"mainnet":   1,
}

func ParseL1Network(s string) (L1Network, error) {
	for _, n := range []L1Network{Localhost, Sepolia, Holesky, Mainnet} {
		if strings.EqualFold(string(n), s) {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown L1 network %q", s)
}

func (n L1Network) ChainID() uint64 {
	return l1ChainIDs[strings.ToLower(string(n))]
}

func (n L1Network) String() string {
	return string(n)
}

// ETHAddress is the L1 address the ecosystem uses to denote ether as base token.
var ETHAddress = common.HexToAddress("0x0000000000000000000000000000000000000001")

// L2BaseTokenAddress is the L2 system contract holding the base token.
const L2BaseTokenAddress = "0x000000000000000000000000000000000000800A"

type BaseToken struct {
	Address common.Address
}

func (b BaseToken) IsETH() bool {
	return b.Address == ETHAddress
}
