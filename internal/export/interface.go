package export

// Exporter defines the interface for exporting generated documents to various formats
type Exporter interface {
	// Export converts a document to the target format
	Export(document any) ([]byte, error)

	// Name returns the exporter name (e.g., "json", "runtime-script")
	Name() string
}
