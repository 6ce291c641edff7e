package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/railwayapp/appstack/internal/export"
	"gopkg.in/yaml.v3"
)

var errEmptyDocument = errors.New("empty document")

type codec interface {
	encode(v any) ([]byte, error)
	decode(data []byte, v any) error
}

func codecFor(path string) (codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlCodec{}, nil
	case ".toml":
		return tomlCodec{}, nil
	case ".json":
		return jsonCodec{}, nil
	case ".js":
		return scriptCodec{}, nil
	default:
		return nil, fmt.Errorf("no codec for %s", path)
	}
}

type yamlCodec struct{}

func (yamlCodec) encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (yamlCodec) decode(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errEmptyDocument
	}
	return yaml.Unmarshal(data, v)
}

type tomlCodec struct{}

func (tomlCodec) encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (tomlCodec) decode(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errEmptyDocument
	}
	return toml.Unmarshal(data, v)
}

type jsonCodec struct{}

func (jsonCodec) encode(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func (jsonCodec) decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

type scriptCodec struct{}

func (scriptCodec) encode(v any) ([]byte, error) {
	return export.NewRuntimeScriptExporter().Export(v)
}

func (scriptCodec) decode(data []byte, v any) error {
	return export.DecodeRuntimeScript(data, v)
}
