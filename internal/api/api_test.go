package api_test

import (
	"testing"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/wraith/internal/api"
	"github.com/JaimeStill/wraith/internal/config"
	"github.com/JaimeStill/wraith/internal/infrastructure"
	"github.com/JaimeStill/wraith/pkg/middleware"
	"github.com/JaimeStill/wraith/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=wraithstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/wraithstore;"

func validConfig() *config.Config {
	qaMaxRetries := 2
	return &config.Config{
		Agent: gaconfig.AgentConfig{
			Name: "test-agent",
			Provider: &gaconfig.ProviderConfig{
				Name:    "ollama",
				BaseURL: "http://localhost:11434",
				Options: make(map[string]any),
			},
			Model: &gaconfig.ModelConfig{
				Name: "llama3.2-vision:11b",
			},
		},
		Server: config.ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     "1m",
			WriteTimeout:    "15m",
			ShutdownTimeout: "30s",
		},
		Storage: storage.Config{
			ContainerName:    "artifacts",
			ConnectionString: azuriteConnString,
		},
		Pipeline: config.PipelineConfig{
			RemovalTimeout:    "30s",
			AnalysisTimeout:   "2m",
			EnrichmentTimeout: "2m",
			RefinementTimeout: "1m",
			RenderTimeout:     "5m",
			QAMaxRetries:      &qaMaxRetries,
			RemovalEndpoint:   "http://localhost:7000/remove",
			RenderEndpoint:    "http://localhost:7001/render",
		},
		API: config.APIConfig{
			BasePath:      "/api",
			MaxUploadSize: "50MB",
			CORS: middleware.CORSConfig{
				Enabled: false,
			},
		},
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
}

func setupInfra(t *testing.T) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	return infra
}

func TestNewModule(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}
}

func TestNewRuntime(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	runtime := api.NewRuntime(cfg, infra)

	if runtime.Logger == nil {
		t.Error("runtime logger is nil")
	}
	if runtime.Storage == nil {
		t.Error("runtime storage is nil")
	}
	if runtime.Lifecycle == nil {
		t.Error("runtime lifecycle is nil")
	}
	if runtime.Options.QAMaxRetries != 2 {
		t.Errorf("qa max retries: got %d, want 2", runtime.Options.QAMaxRetries)
	}
}

func TestNewDomain(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)
	runtime := api.NewRuntime(cfg, infra)

	domain := api.NewDomain(runtime)
	if domain == nil || domain.Pipeline == nil {
		t.Fatal("NewDomain() returned incomplete domain")
	}
	if domain.Pipeline.Renderer == nil || domain.Pipeline.Analyzer == nil {
		t.Error("pipeline collaborators missing")
	}
}
