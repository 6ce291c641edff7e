package provision

import (
	"github.com/railwayapp/appstack/internal/apps"
	"github.com/rs/zerolog/log"
)

// Outcome is what a run did with one chain.
type Outcome string

const (
	// Provisioned chains had their artifacts created in this run.
	Provisioned Outcome = "provisioned"
	// Reused chains were served from persisted artifacts.
	Reused  Outcome = "reused"
	Skipped Outcome = "skipped"
)

// Step names the per-chain step a skipped chain failed at.
type Step string

const (
	StepLoadChain  Step = "load-chain"
	StepDatabase   Step = "database"
	StepPorts      Step = "ports"
	StepBuild      Step = "build-services"
	StepPersist    Step = "persist"
	StepSynthesize Step = "synthesize"
)

type ChainResult struct {
	Chain   string
	Outcome Outcome
	Step    Step
	Err     error
}

// Report summarizes one run.
type Report struct {
	Kind        apps.Kind
	Chains      []ChainResult
	RuntimePath string
	ComposePath string
	Deployed    bool
}

// Included returns the chains that made it into the generated artifacts.
func (r *Report) Included() []string {
	var names []string
	for _, c := range r.Chains {
		if c.Outcome != Skipped {
			names = append(names, c.Chain)
		}
	}
	return names
}

func (r *Report) Skipped() []ChainResult {
	var out []ChainResult
	for _, c := range r.Chains {
		if c.Outcome == Skipped {
			out = append(out, c)
		}
	}
	return out
}

func (r *Report) Result(chain string) (ChainResult, bool) {
	for _, c := range r.Chains {
		if c.Chain == chain {
			return c, true
		}
	}
	return ChainResult{}, false
}

func (r *Report) add(res ChainResult) {
	r.Chains = append(r.Chains, res)
	if res.Outcome == Skipped {
		log.Error().Err(res.Err).Str("chain", res.Chain).Str("step", string(res.Step)).Msg("chain skipped")
		return
	}
	log.Info().Str("chain", res.Chain).Str("outcome", string(res.Outcome)).Msg("chain ready")
}

// Log writes the run summary.
func (r *Report) Log() {
	log.Info().
		Str("app", string(r.Kind)).
		Strs("included", r.Included()).
		Int("skipped", len(r.Skipped())).
		Str("runtime", r.RuntimePath).
		Str("compose", r.ComposePath).
		Bool("deployed", r.Deployed).
		Msg("run complete")
}
