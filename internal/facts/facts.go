// Package facts implements the canonical garment fact model and the
// consolidation engine that merges two independently-produced analysis
// documents into a schema-valid FactsRecord and its derived ControlBlock.
package facts

import "regexp"

// FactsSchemaVersion identifies the FactsRecord schema produced by this engine.
const FactsSchemaVersion = "1.0"

// GraySentinel is the neutral fallback color applied when no source
// provided a valid dominant or accent hex.
const GraySentinel = "#808080"

// Priority ranks how important a garment element is to rendering fidelity.
type Priority string

// Preservation priorities.
const (
	PriorityCritical   Priority = "critical"
	PriorityImportant  Priority = "important"
	PriorityNiceToHave Priority = "nice_to_have"
)

// BoundingBox locates an element within the source image using
// normalized coordinates in [0, 1].
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Label records the text and placement of a brand, size, or care label.
// Text is authoritative ground truth: entries with Preserve set must carry
// their exact text through consolidation, never paraphrased or re-derived.
type Label struct {
	Text          string       `json:"text"`
	Location      string       `json:"location,omitempty"`
	BoundingBox   *BoundingBox `json:"bounding_box,omitempty"`
	Preserve      bool         `json:"preserve"`
	Readable      bool         `json:"readable"`
	Priority      Priority     `json:"priority,omitempty"`
	OCRConfidence float64      `json:"ocr_confidence,omitempty"`
}

// PreserveDetail flags a garment element that must survive rendering.
type PreserveDetail struct {
	Element    string   `json:"element"`
	Priority   Priority `json:"priority"`
	RegionHint string   `json:"region_hint,omitempty"`
}

// HollowRegion identifies an interior garment area (neckline, cuff, hem,
// vent) that must show interior-surface depth in the rendered output.
type HollowRegion struct {
	Region          string `json:"region"`
	InteriorVisible bool   `json:"interior_visible"`
	Notes           string `json:"notes,omitempty"`
}

// InteriorAnalysis describes visible interior surfaces relevant to the
// ghost-mannequin effect.
type InteriorAnalysis struct {
	VisibleSurfaces   []string `json:"visible_surfaces,omitempty"`
	ConstructionNotes string   `json:"construction_notes,omitempty"`
}

// Palette holds the consolidated garment colors. DominantHex is always a
// valid hex string; it falls back to GraySentinel when no source provided one.
type Palette struct {
	DominantHex  string   `json:"dominant_hex"`
	AccentHex    string   `json:"accent_hex,omitempty"`
	PatternHexes []string `json:"pattern_hexes,omitempty"`
}

// FactsRecord is the canonical, normalized description of a garment's
// visual and structural properties used to drive rendering. Every field is
// either present-and-valid or explicitly defaulted; DefaultedFields lists
// the paths that received documented defaults so downstream consumers can
// distinguish observed facts from guessed ones.
type FactsRecord struct {
	SchemaVersion         string                 `json:"schema_version"`
	SessionID             string                 `json:"session_id"`
	Palette               Palette                `json:"palette"`
	LabelsFound           []Label                `json:"labels_found"`
	PreserveDetails       []PreserveDetail       `json:"preserve_details"`
	HollowRegions         []HollowRegion         `json:"hollow_regions"`
	InteriorAnalysis      *InteriorAnalysis      `json:"interior_analysis,omitempty"`
	ConstructionDetails   []string               `json:"construction_details"`
	FabricBehavior        *FabricBehavior        `json:"fabric_behavior,omitempty"`
	ConstructionPrecision *ConstructionPrecision `json:"construction_precision,omitempty"`
	RenderingGuidance     *RenderingGuidance     `json:"rendering_guidance,omitempty"`
	Transparency          string                 `json:"transparency"`
	DefaultedFields       []string               `json:"defaulted_fields,omitempty"`
}

// ControlBlock is the rendering constraint set co-produced with a
// FactsRecord: mandatory properties, forbidden elements, and the exact
// label strings that must appear legibly in the output.
type ControlBlock struct {
	Must               []string `json:"must"`
	Ban                []string `json:"ban"`
	LabelKeepList      []string `json:"label_keep_list"`
	LabelLegibilityMin float64  `json:"label_legibility_min"`
}

var hexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidHex reports whether s is a 6-digit hex color string with a leading #.
func ValidHex(s string) bool {
	return hexPattern.MatchString(s)
}
