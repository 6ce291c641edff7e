package ports

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/compose-spec/compose-go/v2/loader"
	composeTypes "github.com/compose-spec/compose-go/v2/types"
	"github.com/railwayapp/appstack/internal/filesystems"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Files above this size are generated data, not configuration.
const maxScanSize = 4 << 20

// Scanner collects every port referenced by the ecosystem's persisted
// configuration: chain configs, app descriptors and compose documents.
type Scanner struct {
	fs   filesystems.FileSystem
	root string
}

func NewScanner(fsys filesystems.FileSystem, root string) *Scanner {
	return &Scanner{fs: fsys, root: root}
}

// Scan walks configs/ and chains/ under the ecosystem root.
func (s *Scanner) Scan(ctx context.Context) (Set, error) {
	found := NewSet()
	for _, dir := range []string{"configs", "chains"} {
		root := s.fs.Join(s.root, dir)
		err := s.fs.Walk(root, func(path string, info filesystems.FileInfo, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}
			if info == nil || info.IsDir() || strings.HasPrefix(info.Name(), ".") {
				return nil
			}
			if info.Size() > maxScanSize {
				log.Debug().Str("path", path).Int64("size", info.Size()).Msg("skipping large file during port scan")
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			s.scanFile(ctx, path, found)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return found, nil
}

func (s *Scanner) scanFile(ctx context.Context, path string, found Set) {
	name := strings.ToLower(s.fs.Base(path))
	isYAML := strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
	isTOML := strings.HasSuffix(name, ".toml")
	isJSON := strings.HasSuffix(name, ".json")
	if !isYAML && !isTOML && !isJSON {
		return
	}

	content, err := s.fs.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("skipping unreadable file during port scan")
		return
	}

	if isYAML && strings.Contains(name, "compose") {
		err := scanCompose(ctx, path, content, found)
		if err == nil {
			return
		}
		log.Debug().Err(err).Str("path", path).Msg("compose loader rejected file, scanning as plain yaml")
	}

	var doc any
	if isTOML {
		var m map[string]any
		err = toml.Unmarshal(content, &m)
		doc = m
	} else {
		// yaml.v3 also accepts json
		err = yaml.Unmarshal(content, &doc)
	}
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("skipping undecodable file during port scan")
		return
	}
	collect("", doc, found)
}

func scanCompose(ctx context.Context, path string, content []byte, found Set) error {
	configDetails := composeTypes.ConfigDetails{
		WorkingDir: ".",
		ConfigFiles: []composeTypes.ConfigFile{
			{Filename: path, Content: content},
		},
		Environment: composeTypes.Mapping{},
	}

	project, err := loader.LoadWithContext(ctx, configDetails, func(options *loader.Options) {
		options.SetProjectName("appstack-scan", true)
		options.SkipInterpolation = true
		options.SkipConsistencyCheck = true
		options.ResolvePaths = false
	})
	if err != nil {
		return err
	}

	for _, service := range project.Services {
		for _, port := range service.Ports {
			found.Add(uint16(port.Target))
			for _, part := range strings.Split(port.Published, "-") {
				addNumeric(part, found)
			}
		}
		for key, value := range service.Environment {
			if value != nil {
				collect(key, *value, found)
			}
		}
	}
	for key, ext := range project.Extensions {
		collect(key, ext, found)
	}
	return nil
}

// collect walks a decoded document and reserves integers under *port keys,
// every number inside a ports collection, and explicit ports of URLs.
func collect(key string, value any, found Set) {
	lower := strings.ToLower(key)
	portKey := strings.HasSuffix(lower, "port")
	portsKey := strings.HasSuffix(lower, "ports")

	switch v := value.(type) {
	case map[string]any:
		for k, child := range v {
			if portsKey {
				collect(k+"_port", child, found)
				continue
			}
			collect(k, child, found)
		}
	case []any:
		for _, child := range v {
			if portsKey {
				collect("port", child, found)
				continue
			}
			collect(key, child, found)
		}
	case []map[string]any:
		for _, child := range v {
			collect(key, child, found)
		}
	case int:
		if portKey {
			addInt(int64(v), found)
		}
	case int64:
		if portKey {
			addInt(v, found)
		}
	case uint64:
		if portKey && v <= 65535 {
			addInt(int64(v), found)
		}
	case float64:
		if portKey {
			addInt(int64(v), found)
		}
	case string:
		if portKey {
			// "3002" or "3002:3002"
			for _, part := range strings.Split(v, ":") {
				addNumeric(part, found)
			}
			return
		}
		if strings.Contains(v, "://") {
			if u, err := url.Parse(v); err == nil {
				addNumeric(u.Port(), found)
			}
		}
	}
}

func addNumeric(s string, found Set) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err == nil {
		addInt(n, found)
	}
}

func addInt(n int64, found Set) {
	if n > 0 && n <= 65535 {
		found.Add(uint16(n))
	}
}
