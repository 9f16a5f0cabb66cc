package api

import (
	"github.com/JaimeStill/wraith/internal/collaborators"
	"github.com/JaimeStill/wraith/internal/pipeline"
)

// Domain holds the assembled pipeline runtime that backs the API.
type Domain struct {
	Pipeline *pipeline.Runtime
}

// NewDomain creates all pipeline collaborators from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Pipeline: &pipeline.Runtime{
			Remover: collaborators.NewRemover(
				runtime.Pipeline.RemovalEndpoint,
				runtime.Pipeline.RemovalToken,
				runtime.Logger,
			),
			Analyzer: collaborators.NewAnalyzer(runtime.Agent, runtime.Logger),
			Enricher: collaborators.NewEnricher(runtime.Agent, runtime.Logger),
			Refiner:  collaborators.NewRefiner(runtime.Agent, runtime.Logger),
			Renderer: collaborators.NewRenderer(
				runtime.Pipeline.RenderEndpoint,
				runtime.Pipeline.RenderToken,
				runtime.Logger,
			),
			Storage: runtime.Storage,
			Options: runtime.Options,
			Logger:  runtime.Logger,
		},
	}
}
