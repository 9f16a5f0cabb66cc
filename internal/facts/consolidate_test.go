package facts_test

import (
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/JaimeStill/wraith/internal/facts"
)

func baseAnalysis() *facts.AnalysisDocument {
	return &facts.AnalysisDocument{
		SchemaVersion: "1.0",
		SessionID:     "11111111-1111-1111-1111-111111111111",
		LabelsFound: []facts.Label{
			{
				Text:          "EAT",
				Location:      "chest",
				Preserve:      true,
				Readable:      true,
				Priority:      facts.PriorityCritical,
				OCRConfidence: 0.95,
			},
		},
		PreserveDetails: []facts.PreserveDetail{
			{Element: "chest_print", Priority: facts.PriorityCritical},
		},
		HollowRegions: []facts.HollowRegion{
			{Region: "neckline", InteriorVisible: true},
		},
		ConstructionDetails: []string{"crew neck", "set-in sleeves"},
	}
}

func TestConsolidateNilAnalysis(t *testing.T) {
	_, _, err := facts.Consolidate(nil, nil, nil)
	if !errors.Is(err, facts.ErrAnalysisMissing) {
		t.Fatalf("err = %v, want ErrAnalysisMissing", err)
	}
}

func TestConsolidateAnalysisOnly(t *testing.T) {
	record, control, err := facts.Consolidate(baseAnalysis(), nil, nil)
	if err != nil {
		t.Fatalf("consolidate failed: %v", err)
	}

	if record.Palette.DominantHex != facts.GraySentinel {
		t.Errorf("dominant_hex = %s, want gray sentinel", record.Palette.DominantHex)
	}
	if record.Palette.AccentHex != facts.GraySentinel {
		t.Errorf("accent_hex = %s, want gray sentinel", record.Palette.AccentHex)
	}
	if record.Transparency != facts.DefaultTransparency {
		t.Errorf("transparency = %s, want %s", record.Transparency, facts.DefaultTransparency)
	}

	wantDefaulted := []string{
		facts.FieldDominantHex,
		facts.FieldAccentHex,
		facts.FieldTransparency,
	}
	if !slices.Equal(record.DefaultedFields, wantDefaulted) {
		t.Errorf("defaulted_fields = %v, want %v", record.DefaultedFields, wantDefaulted)
	}

	if len(record.LabelsFound) != 1 || record.LabelsFound[0].Text != "EAT" {
		t.Errorf("labels not carried verbatim: %+v", record.LabelsFound)
	}
	if control == nil {
		t.Fatal("control block missing")
	}
}

func TestConsolidateEnrichmentColorsWin(t *testing.T) {
	enrichment := &facts.EnrichmentDocument{
		ColorPrecision: &facts.ColorPrecision{
			PrimaryHex:   "#2E5BBA",
			SecondaryHex: "#FFFFFF",
		},
	}

	record, _, err := facts.Consolidate(baseAnalysis(), enrichment, nil)
	if err != nil {
		t.Fatalf("consolidate failed: %v", err)
	}

	if record.Palette.DominantHex != "#2E5BBA" {
		t.Errorf("dominant_hex = %s, want #2E5BBA", record.Palette.DominantHex)
	}
	if record.Palette.AccentHex != "#FFFFFF" {
		t.Errorf("accent_hex = %s, want #FFFFFF", record.Palette.AccentHex)
	}
	if slices.Contains(record.DefaultedFields, facts.FieldDominantHex) {
		t.Error("dominant_hex recorded as defaulted despite enrichment value")
	}
	if record.LabelsFound[0].Text != "EAT" {
		t.Errorf("label text = %q, want verbatim analysis text", record.LabelsFound[0].Text)
	}
}

func TestConsolidateMalformedHexFallsBack(t *testing.T) {
	cases := []struct {
		name string
		hex  string
	}{
		{"color name", "blue"},
		{"short hex", "#2E5"},
		{"missing hash", "2E5BBA"},
		{"invalid chars", "#GGGGGG"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enrichment := &facts.EnrichmentDocument{
				ColorPrecision: &facts.ColorPrecision{PrimaryHex: tc.hex},
			}

			record, _, err := facts.Consolidate(baseAnalysis(), enrichment, nil)
			if err != nil {
				t.Fatalf("consolidate failed: %v", err)
			}

			if record.Palette.DominantHex != facts.GraySentinel {
				t.Errorf("dominant_hex = %s, want gray sentinel", record.Palette.DominantHex)
			}
			if !slices.Contains(record.DefaultedFields, facts.FieldDominantHex) {
				t.Error("defaulted dominant_hex not recorded")
			}
		})
	}
}

func TestConsolidateRefinedOverridesEnrichment(t *testing.T) {
	enrichment := &facts.EnrichmentDocument{
		ColorPrecision: &facts.ColorPrecision{PrimaryHex: "#2E5BBA"},
		FabricBehavior: &facts.FabricBehavior{Transparency: "opaque"},
	}
	refined := &facts.PartialFacts{
		Palette:      &facts.Palette{DominantHex: "#1A3C8F"},
		Transparency: "semi_sheer",
	}

	record, _, err := facts.Consolidate(baseAnalysis(), enrichment, refined)
	if err != nil {
		t.Fatalf("consolidate failed: %v", err)
	}

	if record.Palette.DominantHex != "#1A3C8F" {
		t.Errorf("dominant_hex = %s, want refined value", record.Palette.DominantHex)
	}
	if record.Transparency != "semi_sheer" {
		t.Errorf("transparency = %s, want refined value", record.Transparency)
	}
	if len(record.DefaultedFields) != 1 || record.DefaultedFields[0] != facts.FieldAccentHex {
		t.Errorf("defaulted_fields = %v, want accent only", record.DefaultedFields)
	}
}

func TestConsolidateRefinedInvalidHexIgnored(t *testing.T) {
	enrichment := &facts.EnrichmentDocument{
		ColorPrecision: &facts.ColorPrecision{PrimaryHex: "#2E5BBA"},
	}
	refined := &facts.PartialFacts{
		Palette: &facts.Palette{DominantHex: "navy"},
	}

	record, _, err := facts.Consolidate(baseAnalysis(), enrichment, refined)
	if err != nil {
		t.Fatalf("consolidate failed: %v", err)
	}

	if record.Palette.DominantHex != "#2E5BBA" {
		t.Errorf("dominant_hex = %s, want enrichment value kept", record.Palette.DominantHex)
	}
}

func TestConsolidateTransparencyFromFabricBehavior(t *testing.T) {
	enrichment := &facts.EnrichmentDocument{
		FabricBehavior: &facts.FabricBehavior{
			DrapeQuality: "fluid",
			Transparency: "sheer",
		},
	}

	record, _, err := facts.Consolidate(baseAnalysis(), enrichment, nil)
	if err != nil {
		t.Fatalf("consolidate failed: %v", err)
	}

	if record.Transparency != "sheer" {
		t.Errorf("transparency = %s, want sheer", record.Transparency)
	}
	if slices.Contains(record.DefaultedFields, facts.FieldTransparency) {
		t.Error("transparency recorded as defaulted despite enrichment value")
	}
	if record.FabricBehavior == nil || record.FabricBehavior.DrapeQuality != "fluid" {
		t.Errorf("fabric_behavior not carried: %+v", record.FabricBehavior)
	}
}

func TestConsolidateDeterministic(t *testing.T) {
	enrichment := &facts.EnrichmentDocument{
		ColorPrecision: &facts.ColorPrecision{
			PrimaryHex:   "#2E5BBA",
			PatternHexes: []string{"#FFFFFF", "#000000"},
		},
	}

	first, firstControl, err := facts.Consolidate(baseAnalysis(), enrichment, nil)
	if err != nil {
		t.Fatalf("consolidate failed: %v", err)
	}
	second, secondControl, err := facts.Consolidate(baseAnalysis(), enrichment, nil)
	if err != nil {
		t.Fatalf("consolidate failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different records")
	}
	if !reflect.DeepEqual(firstControl, secondControl) {
		t.Error("identical inputs produced different control blocks")
	}
}

func TestConsolidateDoesNotAliasInputs(t *testing.T) {
	analysis := baseAnalysis()

	record, _, err := facts.Consolidate(analysis, nil, nil)
	if err != nil {
		t.Fatalf("consolidate failed: %v", err)
	}

	analysis.LabelsFound[0].Text = "mutated"
	analysis.ConstructionDetails[0] = "mutated"

	if record.LabelsFound[0].Text != "EAT" {
		t.Error("record labels alias analysis labels")
	}
	if record.ConstructionDetails[0] != "crew neck" {
		t.Error("record construction details alias analysis slice")
	}
}

func TestConsolidateEmptyAnalysisSections(t *testing.T) {
	analysis := &facts.AnalysisDocument{
		SchemaVersion: "1.0",
		SessionID:     "22222222-2222-2222-2222-222222222222",
	}

	record, control, err := facts.Consolidate(analysis, nil, nil)
	if err != nil {
		t.Fatalf("consolidate failed: %v", err)
	}

	if record.LabelsFound == nil || record.PreserveDetails == nil ||
		record.HollowRegions == nil || record.ConstructionDetails == nil {
		t.Error("required collections must be empty, not nil")
	}
	if len(control.LabelKeepList) != 0 {
		t.Errorf("keep list = %v, want empty", control.LabelKeepList)
	}
}
