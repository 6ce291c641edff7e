package compose

import (
	"context"
	"fmt"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
)

// Load parses data with the compose loader, which checks the document
// against the compose schema and verifies that every depends_on target is
// defined.
func Load(ctx context.Context, name, path string, data []byte) (*types.Project, error) {
	details := types.ConfigDetails{
		WorkingDir: ".",
		ConfigFiles: []types.ConfigFile{
			{Filename: path, Content: data},
		},
		Environment: types.Mapping{},
	}
	project, err := loader.LoadWithContext(ctx, details, func(o *loader.Options) {
		o.SetProjectName(name, true)
		o.SkipInterpolation = true
		o.ResolvePaths = false
	})
	if err != nil {
		return nil, fmt.Errorf("invalid compose document %s: %w", path, err)
	}
	return project, nil
}

// Validate is Load without the result.
func Validate(ctx context.Context, name, path string, data []byte) error {
	_, err := Load(ctx, name, path, data)
	return err
}
