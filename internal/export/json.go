package export

import (
	"encoding/json"
)

type JSONExporter struct{}

func (e *JSONExporter) Name() string {
	return "json"
}

func (e *JSONExporter) Export(document any) ([]byte, error) {
	return json.MarshalIndent(document, "", "  ")
}

func NewJSONExporter() Exporter {
	return &JSONExporter{}
}
