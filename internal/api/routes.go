package api

import (
	"net/http"

	"github.com/JaimeStill/wraith/internal/config"
	"github.com/JaimeStill/wraith/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	pipelineHandler := newPipelineHandler(
		domain.Pipeline,
		runtime.Logger,
		cfg.API.MaxUploadSizeBytes(),
	)
	storageHandler := newStorageHandler(runtime.Storage, runtime.Logger)

	routes.Register(
		mux,
		pipelineHandler.routes(),
		storageHandler.routes(),
	)
}
