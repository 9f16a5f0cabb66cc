package facts

// Mandatory render properties.
const (
	MustGhostMannequin     = "ghost_mannequin_effect"
	MustWhiteBackground    = "pure_white_background"
	MustInteriorHollows    = "interior_hollows_visible"
	MustPreserveBrandLabel = "preserve_brand_label"
)

// Forbidden render elements.
const (
	BanMannequin   = "mannequin"
	BanHumanModel  = "human_model"
	BanProps       = "props"
	BanReflections = "reflections"
	BanLongShadows = "long_shadows"
)

// DefaultLabelLegibilityMin is the legibility confidence threshold below
// which a keep-list label is flagged rather than enforced.
const DefaultLabelLegibilityMin = 0.8

// DeriveControl builds the rendering constraint set for a consolidated
// FactsRecord. The must and ban baselines are fixed; preserve_brand_label
// is added only when the record carries at least one critical preserve
// label, and the keep list is exactly the texts of those entries in order.
//
// The legibility threshold starts at DefaultLabelLegibilityMin and is
// lowered to the best critical-label OCR confidence only when every
// critical label scored below the default. It is never raised.
func DeriveControl(record *FactsRecord) *ControlBlock {
	control := &ControlBlock{
		Must: []string{
			MustGhostMannequin,
			MustWhiteBackground,
			MustInteriorHollows,
		},
		Ban: []string{
			BanMannequin,
			BanHumanModel,
			BanProps,
			BanReflections,
			BanLongShadows,
		},
		LabelKeepList:      []string{},
		LabelLegibilityMin: DefaultLabelLegibilityMin,
	}

	critical := criticalLabels(record)
	if len(critical) == 0 {
		return control
	}

	control.Must = append(control.Must, MustPreserveBrandLabel)
	for _, label := range critical {
		control.LabelKeepList = append(control.LabelKeepList, label.Text)
	}

	if threshold, lowered := loweredThreshold(critical); lowered {
		control.LabelLegibilityMin = threshold
	}

	return control
}

func criticalLabels(record *FactsRecord) []Label {
	var labels []Label
	for _, label := range record.LabelsFound {
		if label.Preserve && label.Priority == PriorityCritical {
			labels = append(labels, label)
		}
	}
	return labels
}

func loweredThreshold(critical []Label) (float64, bool) {
	best := 0.0
	for _, label := range critical {
		if label.OCRConfidence >= DefaultLabelLegibilityMin {
			return 0, false
		}
		if label.OCRConfidence > best {
			best = label.OCRConfidence
		}
	}
	if best <= 0 {
		return 0, false
	}
	return best, true
}
