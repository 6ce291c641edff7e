package compose

import (
	"fmt"
	"strings"

	"github.com/railwayapp/appstack/internal/schema"
)

// DuplicateServiceError is returned when two graphs define the same service.
type DuplicateServiceError struct {
	Name string
}

func (e *DuplicateServiceError) Error() string {
	return fmt.Sprintf("duplicate service name %q found in multiple graphs", e.Name)
}

// DanglingDependencyError is returned when a merged graph has depends_on
// edges to services it does not contain.
type DanglingDependencyError struct {
	Edges []string
}

func (e *DanglingDependencyError) Error() string {
	return "dangling service dependencies: " + strings.Join(e.Edges, ", ")
}

// Merge unions the given graphs. Service names must be unique across graphs
// and every dependency must resolve inside the result.
func Merge(graphs ...schema.ServiceGraph) (schema.ServiceGraph, error) {
	merged := make(schema.ServiceGraph)
	for _, g := range graphs {
		for _, name := range g.Names() {
			if _, ok := merged[name]; ok {
				return nil, &DuplicateServiceError{Name: name}
			}
			merged[name] = g[name]
		}
	}
	if edges := merged.DanglingEdges(); len(edges) > 0 {
		return nil, &DanglingDependencyError{Edges: edges}
	}
	return merged, nil
}
