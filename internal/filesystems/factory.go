package filesystems

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// NewFileSystem creates a filesystem for the ecosystem at uri and returns the
// root path to use with it.
// Supports:
// - /path/to/ecosystem or a relative path
// - file:///path/to/ecosystem
//
// Remote schemes are rejected because every run writes artifacts back.
func NewFileSystem(uri string) (FileSystem, string, error) {
	if !strings.Contains(uri, "://") {
		root, err := filepath.Abs(uri)
		if err != nil {
			return nil, "", fmt.Errorf("failed to get absolute path for %s: %w", uri, err)
		}
		return NewLocalFS(), root, nil
	}

	parsedURL, err := url.Parse(uri)
	if err != nil {
		return nil, "", fmt.Errorf("invalid URI %s: %w", uri, err)
	}

	switch parsedURL.Scheme {
	case "file":
		root, err := filepath.Abs(parsedURL.Path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to get absolute path for %s: %w", parsedURL.Path, err)
		}
		return NewLocalFS(), root, nil

	default:
		return nil, "", fmt.Errorf("unsupported scheme: %s", parsedURL.Scheme)
	}
}
