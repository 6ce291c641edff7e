// Package chains reads the ecosystem and chain metadata written by the
// ecosystem tooling. appstack never writes these files.
package chains

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/railwayapp/appstack/internal/filesystems"
	"gopkg.in/yaml.v3"
)

const metadataFile = "ZkStack.yaml"

var ErrNotEcosystem = errors.New("not an ecosystem directory")

type ecosystemFile struct {
	Name      string `yaml:"name"`
	L1Network string `yaml:"l1_network"`
	Chains    string `yaml:"chains"`
}

type chainFile struct {
	Name      string `yaml:"name"`
	ChainID   uint64 `yaml:"chain_id"`
	L1Network string `yaml:"l1_network"`
	Configs   string `yaml:"configs"`
	BaseToken struct {
		Address string `yaml:"address"`
	} `yaml:"base_token"`
}

// Ecosystem gives access to the chains under an ecosystem root.
type Ecosystem struct {
	Name      string
	L1Network L1Network

	fs        filesystems.FileSystem
	root      string
	chainsDir string
}

func LoadEcosystem(fsys filesystems.FileSystem, root string) (*Ecosystem, error) {
	path, err := filesystems.FindFile(fsys, root, metadataFile)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("%w: no %s in %s", ErrNotEcosystem, metadataFile, root)
	}

	var file ecosystemFile
	if err := readYAML(fsys, path, &file); err != nil {
		return nil, err
	}

	eco := &Ecosystem{
		Name:      file.Name,
		fs:        fsys,
		root:      root,
		chainsDir: fsys.Join(root, "chains"),
	}
	if file.L1Network != "" {
		if eco.L1Network, err = ParseL1Network(file.L1Network); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if file.Chains != "" {
		eco.chainsDir = fsys.Join(root, file.Chains)
	}
	return eco, nil
}

// ListChains returns the names of every chain directory carrying chain
// metadata, sorted.
func (e *Ecosystem) ListChains() ([]string, error) {
	var names []string
	for entry, err := range e.fs.ReadDir(e.chainsDir) {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, nil
			}
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		path, err := filesystems.FindFile(e.fs, e.fs.Join(e.chainsDir, entry.Name()), metadataFile)
		if err != nil {
			return nil, err
		}
		if path != "" {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// LoadChain reads a chain's metadata together with its general and secrets
// configs. Missing general or secrets files are not an error.
func (e *Ecosystem) LoadChain(name string) (*Chain, error) {
	dir := e.fs.Join(e.chainsDir, name)
	path, err := filesystems.FindFile(e.fs, dir, metadataFile)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("chain %q: no %s in %s", name, metadataFile, dir)
	}

	var file chainFile
	if err := readYAML(e.fs, path, &file); err != nil {
		return nil, err
	}

	chain := &Chain{
		Name:      file.Name,
		ChainID:   file.ChainID,
		BaseToken: BaseToken{Address: ETHAddress},
		L1Network: e.L1Network,
	}
	if chain.Name == "" {
		chain.Name = name
	}
	if file.L1Network != "" {
		if chain.L1Network, err = ParseL1Network(file.L1Network); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if file.BaseToken.Address != "" {
		if !common.IsHexAddress(file.BaseToken.Address) {
			return nil, fmt.Errorf("%s: invalid base token address %q", path, file.BaseToken.Address)
		}
		chain.BaseToken.Address = common.HexToAddress(file.BaseToken.Address)
	}

	configs := e.fs.Join(dir, "configs")
	if file.Configs != "" {
		configs = e.fs.Join(dir, file.Configs)
	}

	var general GeneralConfig
	if ok, err := readOptionalYAML(e.fs, e.fs.Join(configs, "general.yaml"), &general); err != nil {
		return nil, err
	} else if ok {
		chain.General = &general
	}

	var secrets SecretsConfig
	if ok, err := readOptionalYAML(e.fs, e.fs.Join(configs, "secrets.yaml"), &secrets); err != nil {
		return nil, err
	} else if ok {
		chain.Secrets = &secrets
	}

	return chain, nil
}

func readYAML(fsys filesystems.FileSystem, path string, v any) error {
	content, err := fsys.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(content, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func readOptionalYAML(fsys filesystems.FileSystem, path string, v any) (bool, error) {
	err := readYAML(fsys, path, v)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
