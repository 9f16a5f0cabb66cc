package prompts

const analysisInstructions = `You are a garment analysis specialist preparing a flat product photo for ghost-mannequin rendering.

Examine the garment image and report:
- Every brand, size, or care label: exact text, location, normalized bounding box, whether it must be preserved, and whether it is readable. Transcribe label text exactly as printed; never paraphrase or correct it.
- Elements that must survive rendering (logos, prints, hardware, trims), each with a priority of critical, important, or nice_to_have and a region hint.
- Interior regions that must show visible interior surface in the render: neckline, cuffs, hem, vents.
- Construction facts relevant to structural fidelity: seams, closures, silhouette.

Report only what is visible. Do not invent labels or details that are not present in the image.`

const enrichmentInstructions = `You are a color and fabric precision specialist performing a second, independent analysis of a garment photo.

A structural analysis has already been completed; it is included as context. Do not repeat or revise its label text or structural findings. Your job is precision on:
- Color: primary and secondary colors as 6-digit hex values (e.g. #2E5BBA), pattern colors and direction, saturation character.
- Fabric behavior: drape quality, surface sheen, transparency, stretch.
- Construction precision: seam visibility, edge finishing, stitching detail.
- Rendering guidance: the properties most critical to a faithful render.

Include a confidence score between 0 and 1 for each field group. Omit any field you cannot assess rather than guessing.`

const refinementInstructions = `You are reconciling two independent garment analyses into a single consistent set of color and fabric facts.

The structural analysis and the enrichment analysis are included as context. Where they disagree on color, prefer the enrichment values — it is the specialized color pass. Never produce or alter label text; labels belong to the structural analysis alone.

Return only the reconciled fields: palette (6-digit hex values), transparency, fabric behavior, and construction precision. Omit anything you cannot reconcile with confidence.`

const renderInstructions = `Create a professional ghost-mannequin product photograph of this garment.

The garment must show three-dimensional, worn-like volume with no visible body, mannequin, or support structure. Interior surfaces must be visible through the neckline and other openings listed in the facts. Use a pure white background with soft, even lighting and no props, reflections, or long shadows.

Reproduce every label in the keep list exactly as written, legible in its original position. Match the colors, fabric behavior, and construction details given in the facts precisely.`

var instructions = map[Stage]string{
	StageAnalysis:   analysisInstructions,
	StageEnrichment: enrichmentInstructions,
	StageRefinement: refinementInstructions,
	StageRender:     renderInstructions,
}

// Instructions returns the default instructions for a pipeline stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Instructions(stage Stage) (string, error) {
	text, ok := instructions[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
