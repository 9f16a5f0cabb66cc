package facts

import (
	"fmt"
	"slices"
)

// Field paths recorded in FactsRecord.DefaultedFields when the merge falls
// back to a documented default instead of an observed value.
const (
	FieldDominantHex  = "palette.dominant_hex"
	FieldAccentHex    = "palette.accent_hex"
	FieldTransparency = "transparency"
)

// DefaultTransparency is applied when neither enrichment nor refinement
// reported fabric transparency.
const DefaultTransparency = "opaque"

// Consolidate merges an analysis document, an optional enrichment document,
// and an optional refinement result into a schema-valid FactsRecord and its
// derived ControlBlock.
//
// The merge is deterministic and makes no remote calls: structural and
// textual facts are copied verbatim from analysis, color and fabric fields
// come from enrichment (the specialized color pass wins color ties), and a
// refinement result, when the refinement collaborator was available,
// overrides both where it supplies valid values. Any schema-required field
// still missing afterwards is set to a documented default and recorded in
// DefaultedFields, which is what keeps validation failures unreachable in
// normal operation.
//
// Returns ErrAnalysisMissing when no analysis document was supplied, and
// ErrSchemaInvalid if the merged record fails schema validation.
func Consolidate(
	analysis *AnalysisDocument,
	enrichment *EnrichmentDocument,
	refined *PartialFacts,
) (*FactsRecord, *ControlBlock, error) {
	if analysis == nil {
		return nil, nil, ErrAnalysisMissing
	}

	record := fromAnalysis(analysis)
	mergeEnrichment(record, enrichment)
	mergeRefined(record, refined)
	applyDefaults(record)

	if err := Validate(record); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrSchemaInvalid, err)
	}

	return record, DeriveControl(record), nil
}

// fromAnalysis copies the structural and textual facts that analysis is
// ground truth for. Slices are cloned so consolidation never aliases its
// inputs.
func fromAnalysis(analysis *AnalysisDocument) *FactsRecord {
	record := &FactsRecord{
		SchemaVersion:       FactsSchemaVersion,
		SessionID:           analysis.SessionID,
		LabelsFound:         slices.Clone(analysis.LabelsFound),
		PreserveDetails:     slices.Clone(analysis.PreserveDetails),
		HollowRegions:       slices.Clone(analysis.HollowRegions),
		ConstructionDetails: slices.Clone(analysis.ConstructionDetails),
	}

	if record.LabelsFound == nil {
		record.LabelsFound = []Label{}
	}
	if record.PreserveDetails == nil {
		record.PreserveDetails = []PreserveDetail{}
	}
	if record.HollowRegions == nil {
		record.HollowRegions = []HollowRegion{}
	}
	if record.ConstructionDetails == nil {
		record.ConstructionDetails = []string{}
	}

	if analysis.InteriorAnalysis != nil {
		interior := *analysis.InteriorAnalysis
		interior.VisibleSurfaces = slices.Clone(interior.VisibleSurfaces)
		record.InteriorAnalysis = &interior
	}

	return record
}

// mergeEnrichment applies the enrichment pass's color, fabric, and
// construction refinements. Invalid hex values are treated as absent rather
// than errors, and nothing is ever fabricated from a missing section.
func mergeEnrichment(record *FactsRecord, enrichment *EnrichmentDocument) {
	if enrichment == nil {
		return
	}

	if cp := enrichment.ColorPrecision; cp != nil {
		if ValidHex(cp.PrimaryHex) {
			record.Palette.DominantHex = cp.PrimaryHex
		}
		if ValidHex(cp.SecondaryHex) {
			record.Palette.AccentHex = cp.SecondaryHex
		}
		for _, hex := range cp.PatternHexes {
			if ValidHex(hex) {
				record.Palette.PatternHexes = append(record.Palette.PatternHexes, hex)
			}
		}
	}

	if enrichment.FabricBehavior != nil {
		behavior := *enrichment.FabricBehavior
		record.FabricBehavior = &behavior
		record.Transparency = behavior.Transparency
	}

	if enrichment.ConstructionPrecision != nil {
		precision := *enrichment.ConstructionPrecision
		record.ConstructionPrecision = &precision
	}

	if enrichment.RenderingGuidance != nil {
		guidance := *enrichment.RenderingGuidance
		guidance.CriticalPriorities = slices.Clone(guidance.CriticalPriorities)
		record.RenderingGuidance = &guidance
	}
}

// mergeRefined overlays the refinement collaborator's reconciled fields.
// Refinement reconciles conflicting color and fabric estimates, so its
// valid values win over enrichment; it has no authority over label text or
// structural facts and those fields are never touched here.
func mergeRefined(record *FactsRecord, refined *PartialFacts) {
	if refined == nil {
		return
	}

	if p := refined.Palette; p != nil {
		if ValidHex(p.DominantHex) {
			record.Palette.DominantHex = p.DominantHex
		}
		if ValidHex(p.AccentHex) {
			record.Palette.AccentHex = p.AccentHex
		}
		if len(p.PatternHexes) > 0 {
			record.Palette.PatternHexes = nil
			for _, hex := range p.PatternHexes {
				if ValidHex(hex) {
					record.Palette.PatternHexes = append(record.Palette.PatternHexes, hex)
				}
			}
		}
	}

	if refined.Transparency != "" {
		record.Transparency = refined.Transparency
	}

	if refined.FabricBehavior != nil {
		behavior := *refined.FabricBehavior
		record.FabricBehavior = &behavior
	}

	if refined.ConstructionPrecision != nil {
		precision := *refined.ConstructionPrecision
		record.ConstructionPrecision = &precision
	}
}

// applyDefaults fills every schema-required field still missing after the
// merge with its documented default and records the field path, in a fixed
// order, so consumers can tell observed facts from guessed ones.
func applyDefaults(record *FactsRecord) {
	if record.Palette.DominantHex == "" {
		record.Palette.DominantHex = GraySentinel
		record.DefaultedFields = append(record.DefaultedFields, FieldDominantHex)
	}
	if record.Palette.AccentHex == "" {
		record.Palette.AccentHex = GraySentinel
		record.DefaultedFields = append(record.DefaultedFields, FieldAccentHex)
	}
	if record.Transparency == "" {
		record.Transparency = DefaultTransparency
		record.DefaultedFields = append(record.DefaultedFields, FieldTransparency)
	}
}
