package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/wraith/internal/pipeline"
	"github.com/JaimeStill/wraith/pkg/stage"
)

const (
	EnvPipelineRemovalTimeout    = "WRAITH_PIPELINE_REMOVAL_TIMEOUT"
	EnvPipelineAnalysisTimeout   = "WRAITH_PIPELINE_ANALYSIS_TIMEOUT"
	EnvPipelineEnrichmentTimeout = "WRAITH_PIPELINE_ENRICHMENT_TIMEOUT"
	EnvPipelineRefinementTimeout = "WRAITH_PIPELINE_REFINEMENT_TIMEOUT"
	EnvPipelineRenderTimeout     = "WRAITH_PIPELINE_RENDER_TIMEOUT"
	EnvPipelineMaxRetries        = "WRAITH_PIPELINE_MAX_RETRIES"
	EnvPipelineQAMaxRetries      = "WRAITH_PIPELINE_QA_MAX_RETRIES"
	EnvPipelineRemovalEndpoint   = "WRAITH_PIPELINE_REMOVAL_ENDPOINT"
	EnvPipelineRemovalToken      = "WRAITH_PIPELINE_REMOVAL_TOKEN"
	EnvPipelineRenderEndpoint    = "WRAITH_PIPELINE_RENDER_ENDPOINT"
	EnvPipelineRenderToken       = "WRAITH_PIPELINE_RENDER_TOKEN"
)

// PipelineConfig holds per-stage time budgets, retry policy, QA gate
// settings, and the endpoints for the background removal and rendering
// services.
type PipelineConfig struct {
	RemovalTimeout      string `toml:"removal_timeout"`
	AnalysisTimeout     string `toml:"analysis_timeout"`
	EnrichmentTimeout   string `toml:"enrichment_timeout"`
	RefinementTimeout   string `toml:"refinement_timeout"`
	RenderTimeout       string `toml:"render_timeout"`
	MaxRetries          int    `toml:"max_retries"`
	AllowExpensiveRetry bool   `toml:"allow_expensive_retry"`

	// QAMaxRetries is a pointer so an explicit 0 (no re-renders) survives
	// defaulting; nil means unset.
	QAMaxRetries *int `toml:"qa_max_retries"`

	QAMandatory         bool   `toml:"qa_mandatory"`
	RemovalEndpoint     string `toml:"removal_endpoint"`
	RemovalToken        string `toml:"removal_token"`
	RenderEndpoint      string `toml:"render_endpoint"`
	RenderToken         string `toml:"render_token"`
}

// Options builds pipeline execution options from the finalized config.
func (c *PipelineConfig) Options() pipeline.Options {
	return pipeline.Options{
		Budgets: pipeline.StageBudgets{
			Removal:    c.duration(c.RemovalTimeout),
			Analysis:   c.duration(c.AnalysisTimeout),
			Enrichment: c.duration(c.EnrichmentTimeout),
			Refinement: c.duration(c.RefinementTimeout),
			Render:     c.duration(c.RenderTimeout),
		},
		Policy: stage.Policy{
			MaxRetries:          c.MaxRetries,
			AllowExpensiveRetry: c.AllowExpensiveRetry,
		},
		QAMaxRetries: *c.QAMaxRetries,
		QAMandatory:  c.QAMandatory,
	}
}

func (c *PipelineConfig) duration(value string) time.Duration {
	d, _ := time.ParseDuration(value)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.RemovalTimeout != "" {
		c.RemovalTimeout = overlay.RemovalTimeout
	}
	if overlay.AnalysisTimeout != "" {
		c.AnalysisTimeout = overlay.AnalysisTimeout
	}
	if overlay.EnrichmentTimeout != "" {
		c.EnrichmentTimeout = overlay.EnrichmentTimeout
	}
	if overlay.RefinementTimeout != "" {
		c.RefinementTimeout = overlay.RefinementTimeout
	}
	if overlay.RenderTimeout != "" {
		c.RenderTimeout = overlay.RenderTimeout
	}
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
	if overlay.AllowExpensiveRetry {
		c.AllowExpensiveRetry = true
	}
	if overlay.QAMaxRetries != nil {
		c.QAMaxRetries = overlay.QAMaxRetries
	}
	if overlay.QAMandatory {
		c.QAMandatory = true
	}
	if overlay.RemovalEndpoint != "" {
		c.RemovalEndpoint = overlay.RemovalEndpoint
	}
	if overlay.RemovalToken != "" {
		c.RemovalToken = overlay.RemovalToken
	}
	if overlay.RenderEndpoint != "" {
		c.RenderEndpoint = overlay.RenderEndpoint
	}
	if overlay.RenderToken != "" {
		c.RenderToken = overlay.RenderToken
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.RemovalTimeout == "" {
		c.RemovalTimeout = "30s"
	}
	if c.AnalysisTimeout == "" {
		c.AnalysisTimeout = "2m"
	}
	if c.EnrichmentTimeout == "" {
		c.EnrichmentTimeout = "2m"
	}
	if c.RefinementTimeout == "" {
		c.RefinementTimeout = "1m"
	}
	if c.RenderTimeout == "" {
		c.RenderTimeout = "5m"
	}
	if c.QAMaxRetries == nil {
		retries := 2
		c.QAMaxRetries = &retries
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineRemovalTimeout); v != "" {
		c.RemovalTimeout = v
	}
	if v := os.Getenv(EnvPipelineAnalysisTimeout); v != "" {
		c.AnalysisTimeout = v
	}
	if v := os.Getenv(EnvPipelineEnrichmentTimeout); v != "" {
		c.EnrichmentTimeout = v
	}
	if v := os.Getenv(EnvPipelineRefinementTimeout); v != "" {
		c.RefinementTimeout = v
	}
	if v := os.Getenv(EnvPipelineRenderTimeout); v != "" {
		c.RenderTimeout = v
	}
	if v := os.Getenv(EnvPipelineMaxRetries); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv(EnvPipelineQAMaxRetries); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.QAMaxRetries = &n
		}
	}
	if v := os.Getenv(EnvPipelineRemovalEndpoint); v != "" {
		c.RemovalEndpoint = v
	}
	if v := os.Getenv(EnvPipelineRemovalToken); v != "" {
		c.RemovalToken = v
	}
	if v := os.Getenv(EnvPipelineRenderEndpoint); v != "" {
		c.RenderEndpoint = v
	}
	if v := os.Getenv(EnvPipelineRenderToken); v != "" {
		c.RenderToken = v
	}
}

func (c *PipelineConfig) validate() error {
	for name, value := range map[string]string{
		"removal_timeout":    c.RemovalTimeout,
		"analysis_timeout":   c.AnalysisTimeout,
		"enrichment_timeout": c.EnrichmentTimeout,
		"refinement_timeout": c.RefinementTimeout,
		"render_timeout":     c.RenderTimeout,
	} {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid %s: must be positive", name)
		}
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("invalid max_retries: %d", c.MaxRetries)
	}
	if *c.QAMaxRetries < 0 {
		return fmt.Errorf("invalid qa_max_retries: %d", *c.QAMaxRetries)
	}
	if c.RemovalEndpoint == "" {
		return fmt.Errorf("removal_endpoint required")
	}
	if c.RenderEndpoint == "" {
		return fmt.Errorf("render_endpoint required")
	}
	return nil
}
