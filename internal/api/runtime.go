package api

import (
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/wraith/internal/config"
	"github.com/JaimeStill/wraith/internal/infrastructure"
	"github.com/JaimeStill/wraith/internal/pipeline"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Agent    gaconfig.AgentConfig
	Pipeline config.PipelineConfig
	Options  pipeline.Options
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Storage:   infra.Storage,
		},
		Agent:    cfg.Agent,
		Pipeline: cfg.Pipeline,
		Options:  cfg.Pipeline.Options(),
	}
}
