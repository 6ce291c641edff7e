// Package provision reconciles an ecosystem's explorer and portal artifacts.
//
// A run walks the enabled chains one at a time. Each chain either has
// persisted artifacts, which are reused, or gets them created. Failures local
// to a chain skip that chain and the run continues; the chain is retried on
// the next run because state is keyed off artifact presence. Once every chain
// has been handled the aggregate runtime config and the merged compose
// document are written and handed to the deployer.
package provision

import (
	"context"
	"fmt"

	"github.com/railwayapp/appstack/internal/apps"
	"github.com/railwayapp/appstack/internal/chains"
	"github.com/railwayapp/appstack/internal/compose"
	"github.com/railwayapp/appstack/internal/database"
	"github.com/railwayapp/appstack/internal/deploy"
	"github.com/railwayapp/appstack/internal/ports"
	"github.com/railwayapp/appstack/internal/registry"
	"github.com/railwayapp/appstack/internal/schema"
	"github.com/railwayapp/appstack/internal/synthesis"
	"github.com/rs/zerolog/log"
)

// ErrEmptyAggregate is returned when no chain could be included in a run.
var ErrEmptyAggregate = apps.ErrEmptyAggregate

// ChainSource provides chain metadata.
type ChainSource interface {
	ListChains() ([]string, error)
	LoadChain(name string) (*chains.Chain, error)
}

type Options struct {
	Store       *registry.Store
	Chains      ChainSource
	Synthesizer *synthesis.Synthesizer
	Database    database.Provisioner
	// DatabaseServerURL is the server new explorer databases are created on.
	DatabaseServerURL string
	// Deployer is invoked with the merged compose document. Nil disables deployment.
	Deployer deploy.Deployer
	// ScanPorts loads the ports already in use. Defaults to scanning the store's root.
	ScanPorts func(ctx context.Context) (ports.Set, error)
}

type Provisioner struct {
	store    *registry.Store
	chains   ChainSource
	synth    *synthesis.Synthesizer
	db       database.Provisioner
	dbURL    string
	deployer deploy.Deployer
	scan     func(ctx context.Context) (ports.Set, error)
}

func New(opts Options) *Provisioner {
	scan := opts.ScanPorts
	if scan == nil {
		scan = ports.NewScanner(opts.Store.FileSystem(), opts.Store.Root()).Scan
	}
	return &Provisioner{
		store:    opts.Store,
		chains:   opts.Chains,
		synth:    opts.Synthesizer,
		db:       opts.Database,
		dbURL:    opts.DatabaseServerURL,
		deployer: opts.Deployer,
		scan:     scan,
	}
}

// RunOptions tune a single run.
type RunOptions struct {
	// Port overrides the frontend port from the ecosystem preferences when non-zero.
	Port uint16
}

// prepare resolves the preferences, frontend port and enabled chains of a run.
func (p *Provisioner) prepare(kind apps.Kind, opts RunOptions) (uint16, []string, error) {
	prefs, err := p.store.ReadPreferences()
	if err != nil {
		return 0, nil, fmt.Errorf("reading app preferences: %w", err)
	}
	app := prefs.App(kind)

	port := app.HTTPPort
	if opts.Port != 0 {
		port = opts.Port
	}
	if port == 0 {
		port = apps.DefaultPreferences().App(kind).HTTPPort
	}

	known, err := p.chains.ListChains()
	if err != nil {
		return 0, nil, fmt.Errorf("listing chains: %w", err)
	}
	enabled := app.EnabledChains(known)
	log.Info().Str("app", string(kind)).Strs("chains", enabled).Uint16("port", port).Msg("starting run")
	return port, enabled, nil
}

// finish assembles and validates the merged compose document, writes it with
// the aggregate runtime config and hands it to the deployer. Nothing is
// written unless the document validates. Any failure here is fatal.
func (p *Provisioner) finish(ctx context.Context, report *Report, runtime any, frontend compose.Frontend, port uint16, backends []schema.ServiceGraph) error {
	report.RuntimePath = p.store.RuntimeConfigPath(report.Kind)
	merged, err := compose.Merge(backends...)
	if err != nil {
		return fmt.Errorf("merging backend services: %w", err)
	}
	var deps []string
	if frontend.Role == schema.RoleExplorerApp {
		deps = compose.APIServices(merged)
	}
	app := compose.BuildFrontend(frontend, port, report.RuntimePath, deps)
	merged, err = compose.Merge(merged, schema.ServiceGraph{frontend.ServiceName(): app})
	if err != nil {
		return fmt.Errorf("adding frontend service: %w", err)
	}

	log.Debug().
		Strs("services", merged.Names()).
		Uints16("published", merged.PublishedPorts()).
		Msg("service graph assembled")

	report.ComposePath = p.store.ComposePath(report.Kind)
	data, err := compose.Marshal(compose.ToDocument(merged, nil))
	if err != nil {
		return &registry.WriteError{Path: report.ComposePath, Err: err}
	}
	if err := compose.Validate(ctx, string(report.Kind), report.ComposePath, data); err != nil {
		return err
	}

	if err := p.store.Write(report.RuntimePath, runtime); err != nil {
		return fmt.Errorf("writing runtime config: %w", err)
	}
	if err := p.store.WriteBytes(report.ComposePath, data); err != nil {
		return fmt.Errorf("writing compose document: %w", err)
	}

	if p.deployer == nil {
		log.Info().Str("compose", report.ComposePath).Msg("deployment disabled, artifacts written")
		return nil
	}
	if err := p.deployer.Up(ctx, report.ComposePath); err != nil {
		return fmt.Errorf("deploying %s: %w", report.Kind, err)
	}
	report.Deployed = true
	return nil
}
