package pipeline

import (
	"log/slog"

	"github.com/JaimeStill/wraith/internal/collaborators"
	"github.com/JaimeStill/wraith/pkg/storage"
)

// Runtime bundles the collaborators and infrastructure that pipeline
// nodes require. It is constructed by higher-level composition code.
type Runtime struct {
	Remover  collaborators.Remover
	Analyzer collaborators.Analyzer
	Enricher collaborators.Enricher
	Refiner  collaborators.Refiner
	Renderer collaborators.Renderer
	Storage  storage.System
	Options  Options
	Logger   *slog.Logger
}
