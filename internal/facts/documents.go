package facts

// AnalysisDocument is the structural analysis produced by the vision
// analysis collaborator. It is ground truth for all textual and structural
// facts: labels, preserve details, hollow regions, and construction.
type AnalysisDocument struct {
	SchemaVersion       string            `json:"schema_version"`
	SessionID           string            `json:"session_id"`
	LabelsFound         []Label           `json:"labels_found"`
	PreserveDetails     []PreserveDetail  `json:"preserve_details"`
	HollowRegions       []HollowRegion    `json:"hollow_regions"`
	InteriorAnalysis    *InteriorAnalysis `json:"interior_analysis,omitempty"`
	ConstructionDetails []string          `json:"construction_details"`
}

// ColorPrecision holds the enrichment pass's specialized color estimates.
// Hex fields, when present, must be valid 6-digit hex strings; absence is
// valid and is not an error.
type ColorPrecision struct {
	PrimaryHex       string   `json:"primary_hex,omitempty"`
	SecondaryHex     string   `json:"secondary_hex,omitempty"`
	PatternHexes     []string `json:"pattern_hexes,omitempty"`
	PatternDirection string   `json:"pattern_direction,omitempty"`
	Saturation       string   `json:"saturation,omitempty"`
}

// FabricBehavior describes how the fabric moves and reacts to light.
type FabricBehavior struct {
	DrapeQuality string `json:"drape_quality,omitempty"`
	SurfaceSheen string `json:"surface_sheen,omitempty"`
	Transparency string `json:"transparency,omitempty"`
	Stretch      string `json:"stretch,omitempty"`
}

// ConstructionPrecision refines seam and stitching facts beyond the
// structural analysis.
type ConstructionPrecision struct {
	SeamVisibility  string `json:"seam_visibility,omitempty"`
	EdgeFinishing   string `json:"edge_finishing,omitempty"`
	StitchingDetail string `json:"stitching_detail,omitempty"`
}

// RenderingGuidance carries the enrichment pass's rendering hints.
type RenderingGuidance struct {
	CriticalPriorities []string `json:"critical_priorities,omitempty"`
	LightingPreference string   `json:"lighting_preference,omitempty"`
}

// EnrichmentDocument is the second, independently-produced analysis. It
// refines color, fabric, and construction precision but never produces
// label text; analysis always wins textual facts.
type EnrichmentDocument struct {
	SchemaVersion         string                 `json:"schema_version"`
	SessionID             string                 `json:"session_id"`
	ColorPrecision        *ColorPrecision        `json:"color_precision,omitempty"`
	FabricBehavior        *FabricBehavior        `json:"fabric_behavior,omitempty"`
	ConstructionPrecision *ConstructionPrecision `json:"construction_precision,omitempty"`
	RenderingGuidance     *RenderingGuidance     `json:"rendering_guidance,omitempty"`
	ConfidenceBreakdown   map[string]float64     `json:"confidence_breakdown,omitempty"`
}

// PartialFacts is the output contract of the optional consolidation
// refinement collaborator: reconciled color and fabric fields only. It can
// never carry label text or structural facts.
type PartialFacts struct {
	Palette               *Palette               `json:"palette,omitempty"`
	Transparency          string                 `json:"transparency,omitempty"`
	FabricBehavior        *FabricBehavior        `json:"fabric_behavior,omitempty"`
	ConstructionPrecision *ConstructionPrecision `json:"construction_precision,omitempty"`
}
