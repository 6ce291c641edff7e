package compose

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/railwayapp/appstack/internal/ports"
	"github.com/railwayapp/appstack/internal/schema"
	"gopkg.in/yaml.v3"
)

// BackendState is what a chain's backend was provisioned with. It is stored
// as the x-backend extension of the chain's backend compose document.
type BackendState struct {
	Ports       ports.Triple `yaml:"ports"`
	DatabaseURL string       `yaml:"database_url"`
	RPCPort     uint16       `yaml:"rpc_port"`
}

// Validate checks that s can describe a running backend.
func (s BackendState) Validate() error {
	if !s.Ports.Valid() {
		return fmt.Errorf("invalid backend ports %s", s.Ports)
	}
	if _, err := ParseDatabaseURL(s.DatabaseURL); err != nil {
		return err
	}
	if s.RPCPort == 0 {
		return errors.New("no rpc port in backend state")
	}
	return nil
}

// Document is the on-disk compose document.
type Document struct {
	Services map[string]Service `yaml:"services"`
	Backend  *BackendState      `yaml:"x-backend,omitempty"`
}

type Service struct {
	Image       string            `yaml:"image"`
	Platform    string            `yaml:"platform,omitempty"`
	Ports       []string          `yaml:"ports,omitempty"`
	Volumes     []string          `yaml:"volumes,omitempty"`
	DependsOn   []string          `yaml:"depends_on,omitempty"`
	Restart     string            `yaml:"restart,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
	ExtraHosts  []string          `yaml:"extra_hosts,omitempty"`
}

var (
	ErrMissingBackendState = errors.New("compose document has no x-backend state")
	ErrNoServices          = errors.New("compose document has no services")
)

// ToDocument converts g into its on-disk form. state may be nil.
func ToDocument(g schema.ServiceGraph, state *BackendState) *Document {
	doc := &Document{Services: make(map[string]Service, len(g)), Backend: state}
	for name, svc := range g {
		out := Service{
			Image:      svc.Image,
			Platform:   svc.Platform,
			DependsOn:  svc.DependsOn,
			Restart:    svc.Restart,
			ExtraHosts: svc.ExtraHosts,
		}
		for _, p := range svc.Ports {
			out.Ports = append(out.Ports, p.String())
		}
		for _, v := range svc.Volumes {
			out.Volumes = append(out.Volumes, v.String())
		}
		if len(svc.Environment) > 0 {
			out.Environment = svc.Environment
		}
		doc.Services[name] = out
	}
	return doc
}

// FromDocument converts a decoded document back into a graph. Every service
// must map to a known role.
func FromDocument(doc *Document) (schema.ServiceGraph, error) {
	if len(doc.Services) == 0 {
		return nil, ErrNoServices
	}
	g := make(schema.ServiceGraph, len(doc.Services))
	for name, svc := range doc.Services {
		role := roleOf(name)
		if role == schema.RoleUnknown {
			return nil, fmt.Errorf("service %q: unknown role", name)
		}
		out := schema.ServiceDescriptor{
			Role:        role,
			Image:       svc.Image,
			Platform:    svc.Platform,
			DependsOn:   svc.DependsOn,
			Restart:     svc.Restart,
			Environment: svc.Environment,
			ExtraHosts:  svc.ExtraHosts,
		}
		for _, p := range svc.Ports {
			mapping, err := parsePortMapping(p)
			if err != nil {
				return nil, fmt.Errorf("service %q: %w", name, err)
			}
			out.Ports = append(out.Ports, mapping)
		}
		for _, v := range svc.Volumes {
			i := strings.LastIndex(v, ":")
			if i <= 0 || i == len(v)-1 {
				return nil, fmt.Errorf("service %q: invalid volume %q", name, v)
			}
			out.Volumes = append(out.Volumes, schema.VolumeMount{Host: v[:i], Container: v[i+1:]})
		}
		g[name] = out
	}
	return g, nil
}

func roleOf(name string) schema.Role {
	if role, _, ok := schema.BackendRoleOf(name); ok {
		return role
	}
	switch name {
	case ExplorerFrontend.ServiceName():
		return schema.RoleExplorerApp
	case PortalFrontend.ServiceName():
		return schema.RolePortalApp
	}
	return schema.RoleUnknown
}

func parsePortMapping(s string) (schema.PortMapping, error) {
	host, container, ok := strings.Cut(s, ":")
	if !ok {
		container = host
	}
	h, err := strconv.ParseUint(host, 10, 16)
	if err != nil {
		return schema.PortMapping{}, fmt.Errorf("invalid port mapping %q", s)
	}
	c, err := strconv.ParseUint(container, 10, 16)
	if err != nil {
		return schema.PortMapping{}, fmt.Errorf("invalid port mapping %q", s)
	}
	return schema.PortMapping{Host: uint16(h), Container: uint16(c)}, nil
}

// Marshal encodes doc as yaml. Map keys are sorted, so equal graphs always
// produce identical bytes.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DecodeBackend parses a chain's backend compose document. A document that
// is not a complete backend graph with its state is an error.
func DecodeBackend(data []byte) (schema.ServiceGraph, *BackendState, error) {
	doc, err := Unmarshal(data)
	if err != nil {
		return nil, nil, err
	}
	if doc.Backend == nil {
		return nil, nil, ErrMissingBackendState
	}
	if err := doc.Backend.Validate(); err != nil {
		return nil, nil, fmt.Errorf("x-backend: %w", err)
	}
	g, err := FromDocument(doc)
	if err != nil {
		return nil, nil, err
	}
	for name, svc := range g {
		if !svc.Role.Backend() {
			return nil, nil, fmt.Errorf("service %q is not a backend service", name)
		}
	}
	if edges := g.DanglingEdges(); len(edges) > 0 {
		return nil, nil, &DanglingDependencyError{Edges: edges}
	}
	return g, doc.Backend, nil
}
