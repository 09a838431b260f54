package extract

import "fmt"

// buildPrompt produces the instruction half of the multimodal call. The
// strict-JSON demand is aspirational; Normalize covers the drift.
func buildPrompt(targetLangName string) string {
	return fmt.Sprintf(
		"Perform OCR on the image (Korean expected) and translate to %s. "+
			`Return STRICT JSON ONLY with keys: {"korean":"...", "translation":"...", "confidence": 0-100}. `+
			"Do not add markdown/code fences. Preserve line breaks in 'korean'.",
		targetLangName,
	)
}
