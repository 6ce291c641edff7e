package schema

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Role identifies which kind of deployable unit a service descriptor is.
// The set is closed: every descriptor in a graph has one of these roles.
type Role int

const (
	RoleUnknown Role = iota
	RoleAPI
	RoleDataFetcher
	RoleWorker
	RoleExplorerApp
	RolePortalApp
)

var roleNames = map[Role]string{
	RoleAPI:         "api",
	RoleDataFetcher: "data-fetcher",
	RoleWorker:      "worker",
	RoleExplorerApp: "block-explorer-app",
	RolePortalApp:   "dapp-portal",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// Backend reports whether r is one of the per-chain backend roles.
func (r Role) Backend() bool {
	return r == RoleAPI || r == RoleDataFetcher || r == RoleWorker
}

// ServiceName returns the per-chain service name for a backend role.
func (r Role) ServiceName(chain string) string {
	return r.String() + "-" + chain
}

// BackendRoleOf infers the backend role and chain from a per-chain service name.
func BackendRoleOf(name string) (Role, string, bool) {
	for _, role := range []Role{RoleAPI, RoleDataFetcher, RoleWorker} {
		prefix := role.String() + "-"
		if chain, ok := strings.CutPrefix(name, prefix); ok && chain != "" {
			return role, chain, true
		}
	}
	return RoleUnknown, "", false
}

// PortMapping publishes a container port on the host.
type PortMapping struct {
	Host      uint16
	Container uint16
}

func (p PortMapping) String() string {
	return fmt.Sprintf("%d:%d", p.Host, p.Container)
}

// VolumeMount binds a host path into the container.
type VolumeMount struct {
	Host      string
	Container string
}

func (v VolumeMount) String() string {
	return v.Host + ":" + v.Container
}

// ServiceDescriptor is one deployable unit of the orchestration definition.
type ServiceDescriptor struct {
	Role        Role
	Image       string
	Platform    string
	Ports       []PortMapping
	Volumes     []VolumeMount
	DependsOn   []string
	Restart     string
	Environment map[string]string
	ExtraHosts  []string
}

// ServiceGraph maps unique service names to their descriptors.
type ServiceGraph map[string]ServiceDescriptor

// Names returns the service names in sorted order.
func (g ServiceGraph) Names() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NamesWithRole returns the sorted names of the services with the given role.
func (g ServiceGraph) NamesWithRole(role Role) []string {
	var names []string
	for _, name := range g.Names() {
		if g[name].Role == role {
			names = append(names, name)
		}
	}
	return names
}

// DanglingEdges returns every "service -> dependency" edge whose dependency is
// not part of g, sorted.
func (g ServiceGraph) DanglingEdges() []string {
	var edges []string
	for _, name := range g.Names() {
		for _, dep := range g[name].DependsOn {
			if _, ok := g[dep]; !ok {
				edges = append(edges, name+" -> "+dep)
			}
		}
	}
	return edges
}

// PublishedPorts returns the sorted, de-duplicated host ports of g.
func (g ServiceGraph) PublishedPorts() []uint16 {
	var ports []uint16
	for _, svc := range g {
		for _, p := range svc.Ports {
			ports = append(ports, p.Host)
		}
	}
	slices.Sort(ports)
	return slices.Compact(ports)
}
