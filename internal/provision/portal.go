package provision

import (
	"context"

	"github.com/railwayapp/appstack/internal/apps"
	"github.com/railwayapp/appstack/internal/compose"
	"github.com/railwayapp/appstack/internal/registry"
	"github.com/rs/zerolog/log"
)

// RunPortal writes the portal runtime config and compose document for every
// enabled chain. The portal has no backend services.
func (p *Provisioner) RunPortal(ctx context.Context, opts RunOptions) (*Report, error) {
	port, enabled, err := p.prepare(apps.Portal, opts)
	if err != nil {
		return nil, err
	}

	report := &Report{Kind: apps.Portal}
	var descriptors []apps.PortalChainConfig
	for _, name := range enabled {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res, desc := p.portalChain(ctx, name)
		report.add(res)
		if res.Outcome != Skipped {
			descriptors = append(descriptors, desc)
		}
	}

	runtime, err := apps.NewPortalRuntimeConfig(descriptors)
	if err != nil {
		return report, err
	}
	if err := p.finish(ctx, report, runtime, compose.PortalFrontend, port, nil); err != nil {
		return report, err
	}
	report.Log()
	return report, nil
}

func (p *Provisioner) portalChain(ctx context.Context, name string) (ChainResult, apps.PortalChainConfig) {
	path := p.store.ChainDescriptorPath(name, apps.Portal)

	var desc apps.PortalChainConfig
	err := p.store.Read(path, &desc)
	if err == nil {
		return ChainResult{Chain: name, Outcome: Reused}, desc
	}
	if registry.IsCorrupt(err) {
		log.Warn().Err(err).Str("chain", name).Msg("portal descriptor is corrupt, regenerating")
	}

	skip := func(step Step, err error) (ChainResult, apps.PortalChainConfig) {
		return ChainResult{Chain: name, Outcome: Skipped, Step: step, Err: err}, apps.PortalChainConfig{}
	}
	chain, err := p.chains.LoadChain(name)
	if err != nil {
		return skip(StepLoadChain, err)
	}
	if desc, err = p.synth.Portal(ctx, chain); err != nil {
		return skip(StepSynthesize, err)
	}
	if err := p.store.Write(path, desc); err != nil {
		return skip(StepPersist, err)
	}
	return ChainResult{Chain: name, Outcome: Provisioned}, desc
}
