package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// The frontends ship as pre-built static bundles that evaluate a config.js at
// load time, so runtime configs are written as a script assigning the JSON
// document to window['##runtimeConfig'].
const runtimeConfigPrefix = "window['##runtimeConfig'] = "

var ErrInvalidRuntimeScript = errors.New("invalid runtime config script")

type RuntimeScriptExporter struct{}

func (e *RuntimeScriptExporter) Name() string {
	return "runtime-script"
}

func (e *RuntimeScriptExporter) Export(document any) ([]byte, error) {
	body, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(runtimeConfigPrefix)
	buf.Write(body)
	buf.WriteString(";")
	return buf.Bytes(), nil
}

func NewRuntimeScriptExporter() Exporter {
	return &RuntimeScriptExporter{}
}

// DecodeRuntimeScript decodes the JSON object embedded in a runtime config
// script: everything from the first '{' to the last '}'.
func DecodeRuntimeScript(data []byte, document any) error {
	start := bytes.IndexByte(data, '{')
	end := bytes.LastIndexByte(data, '}')
	if start < 0 || end < start {
		return ErrInvalidRuntimeScript
	}
	if err := json.Unmarshal(data[start:end+1], document); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRuntimeScript, err)
	}
	return nil
}
