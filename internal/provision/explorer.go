package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/railwayapp/appstack/internal/apps"
	"github.com/railwayapp/appstack/internal/chains"
	"github.com/railwayapp/appstack/internal/compose"
	"github.com/railwayapp/appstack/internal/database"
	"github.com/railwayapp/appstack/internal/ports"
	"github.com/railwayapp/appstack/internal/registry"
	"github.com/railwayapp/appstack/internal/schema"
	"github.com/rs/zerolog/log"
)

// RunExplorer provisions the explorer backend of every enabled chain that has
// none, then writes the explorer runtime config and compose document.
func (p *Provisioner) RunExplorer(ctx context.Context, opts RunOptions) (*Report, error) {
	port, enabled, err := p.prepare(apps.Explorer, opts)
	if err != nil {
		return nil, err
	}

	report := &Report{Kind: apps.Explorer}
	reservations := ports.NewReservations(p.scan)

	var (
		backends    []schema.ServiceGraph
		descriptors []apps.ExplorerChainConfig
	)
	for _, name := range enabled {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res, graph, desc := p.explorerChain(ctx, name, reservations)
		report.add(res)
		if res.Outcome == Skipped {
			continue
		}
		backends = append(backends, graph)
		descriptors = append(descriptors, desc)
	}

	if reserved := reservations.Snapshot(); reserved != nil {
		log.Debug().Uints16("reserved", reserved).Msg("ports reserved during run")
	}

	runtime, err := apps.NewExplorerRuntimeConfig(descriptors)
	if err != nil {
		return report, err
	}
	if err := p.finish(ctx, report, runtime, compose.ExplorerFrontend, port, backends); err != nil {
		return report, err
	}
	report.Log()
	return report, nil
}

func (p *Provisioner) explorerChain(ctx context.Context, name string, reservations *ports.Reservations) (ChainResult, schema.ServiceGraph, apps.ExplorerChainConfig) {
	skip := func(step Step, err error) (ChainResult, schema.ServiceGraph, apps.ExplorerChainConfig) {
		return ChainResult{Chain: name, Outcome: Skipped, Step: step, Err: err}, nil, apps.ExplorerChainConfig{}
	}

	chain, err := p.chains.LoadChain(name)
	if err != nil {
		return skip(StepLoadChain, err)
	}

	outcome := Reused
	graph, state, err := p.readBackend(name)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			log.Info().Str("chain", name).Msg("no explorer backend found, provisioning")
		} else {
			log.Warn().Err(err).Str("chain", name).Msg("explorer backend state unreadable, provisioning again")
		}
		var step Step
		if graph, state, step, err = p.provisionBackend(ctx, name, chain, reservations); err != nil {
			return skip(step, err)
		}
		outcome = Provisioned
	}

	path := p.store.ChainDescriptorPath(name, apps.Explorer)
	var desc apps.ExplorerChainConfig
	if outcome == Reused {
		err := p.store.Read(path, &desc)
		if err == nil {
			return ChainResult{Chain: name, Outcome: outcome}, graph, desc
		}
		if registry.IsCorrupt(err) {
			log.Warn().Err(err).Str("chain", name).Msg("explorer descriptor is corrupt, regenerating")
		}
	}

	// A freshly provisioned backend has new ports, so the descriptor is rebuilt.
	if desc, err = p.synth.Explorer(chain, *state); err != nil {
		return skip(StepSynthesize, err)
	}
	if err := p.store.Write(path, desc); err != nil {
		return skip(StepPersist, err)
	}
	return ChainResult{Chain: name, Outcome: outcome}, graph, desc
}

// readBackend reads a chain's persisted backend. Anything that is not a
// complete backend of this chain is reported as corrupt.
func (p *Provisioner) readBackend(name string) (schema.ServiceGraph, *compose.BackendState, error) {
	path := p.store.BackendComposePath(name, apps.Explorer)
	data, err := p.store.ReadBytes(path)
	if err != nil {
		return nil, nil, err
	}
	graph, state, err := compose.DecodeBackend(data)
	if err != nil {
		return nil, nil, &registry.CorruptError{Path: path, Err: err}
	}
	for _, role := range []schema.Role{schema.RoleAPI, schema.RoleDataFetcher, schema.RoleWorker} {
		names := graph.NamesWithRole(role)
		if len(names) != 1 || names[0] != role.ServiceName(name) {
			return nil, nil, &registry.CorruptError{Path: path, Err: fmt.Errorf("missing service %s", role.ServiceName(name))}
		}
	}
	if len(graph) != 3 {
		return nil, nil, &registry.CorruptError{Path: path, Err: fmt.Errorf("expected 3 services, found %d", len(graph))}
	}
	return graph, state, nil
}

// provisionBackend resets the chain's database, allocates its ports and
// persists its backend services.
func (p *Provisioner) provisionBackend(ctx context.Context, name string, chain *chains.Chain, reservations *ports.Reservations) (schema.ServiceGraph, *compose.BackendState, Step, error) {
	db := database.Config{
		ServerURL: p.dbURL,
		Name:      database.ExplorerName(chain.L1Network.String(), chain.Name),
	}
	dbURL, err := db.FullURL()
	if err != nil {
		return nil, nil, StepDatabase, err
	}
	// The worker needs every connection field, so reject the URL before dropping anything.
	if _, err := compose.ParseDatabaseURL(dbURL); err != nil {
		return nil, nil, StepDatabase, err
	}
	if err := p.db.Reset(ctx, db); err != nil {
		return nil, nil, StepDatabase, err
	}

	triple, err := reservations.Allocate(ctx, ports.DefaultExplorerTriple)
	if err != nil {
		return nil, nil, StepPorts, err
	}
	log.Info().Str("chain", name).Stringer("ports", triple).Msg("allocated backend ports")

	state := &compose.BackendState{Ports: triple, DatabaseURL: dbURL, RPCPort: chain.RPCPort()}
	graph, err := compose.BuildBackend(name, triple, dbURL, state.RPCPort)
	if err != nil {
		return nil, nil, StepBuild, err
	}

	path := p.store.BackendComposePath(name, apps.Explorer)
	data, err := compose.Marshal(compose.ToDocument(graph, state))
	if err != nil {
		return nil, nil, StepPersist, &registry.WriteError{Path: path, Err: err}
	}
	if err := p.store.WriteBytes(path, data); err != nil {
		return nil, nil, StepPersist, err
	}
	return graph, state, "", nil
}
