package extract

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// The model is asked for strict JSON but replies drift: fenced blocks, prose
// around the object, unquoted keys, or labeled paragraphs instead of JSON.
// Normalization is an ordered list of strategies, each a pure function that
// reports whether it matched, tried in sequence until one succeeds.

type strategy func(cleaned string) (Result, bool)

var strategies = []strategy{
	parseStrictJSON,
	parseKeyValue,
	parseLabeledBlocks,
}

// Normalize converts a raw model reply into a Result. It never fails: when no
// strategy matches, the whole cleaned text becomes the original-language field
// and the translation stays empty.
func Normalize(raw string) Result {
	cleaned := cleanCodeFence(raw)
	for _, try := range strategies {
		if res, ok := try(cleaned); ok {
			return res
		}
	}
	return Result{OriginalText: cleaned}
}

var (
	fenceOpen  = regexp.MustCompile("^```[a-zA-Z0-9_-]*\\s*")
	fenceClose = regexp.MustCompile("\\s*```$")
)

func cleanCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = fenceOpen.ReplaceAllString(text, "")
	text = fenceClose.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// jsonCandidate extracts the widest {...} span: first '{' to last '}'. With
// several independent objects in one reply this swallows everything between
// them; that is the accepted boundary behavior, kept for compatibility.
func jsonCandidate(cleaned string) (string, bool) {
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return cleaned[start : end+1], true
}

func parseStrictJSON(cleaned string) (Result, bool) {
	candidate, ok := jsonCandidate(cleaned)
	if !ok {
		return Result{}, false
	}
	var payload struct {
		Korean      string `json:"korean"`
		Translation string `json:"translation"`
		Confidence  any    `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return Result{}, false
	}
	return Result{
		OriginalText:   strings.TrimSpace(payload.Korean),
		TranslatedText: strings.TrimSpace(payload.Translation),
		Confidence:     toConfidence(payload.Confidence),
	}, true
}

// toConfidence coerces the model's confidence value to the nearest integer.
// Numeric strings count as numbers; anything else is reported as absent.
func toConfidence(v any) *int {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(math.Round(f))
	return &n
}

var (
	keyValueKorean = regexp.MustCompile(`(?is)"?korean"?\s*:\s*"?(.*?)"?\s*(,|\n|$)`)
	keyValueTarget = regexp.MustCompile(`(?is)"?(?:translation|filipino|english)"?\s*:\s*"?(.*?)"?\s*(,|\n|$)`)
)

// parseKeyValue recovers korean/translation pairs from almost-JSON: unquoted
// keys, trailing commas, stray newlines.
func parseKeyValue(cleaned string) (Result, bool) {
	mk := keyValueKorean.FindStringSubmatch(cleaned)
	mt := keyValueTarget.FindStringSubmatch(cleaned)
	if mk == nil || mt == nil {
		return Result{}, false
	}
	return Result{
		OriginalText:   strings.TrimSpace(mk[1]),
		TranslatedText: strings.TrimSpace(mt[1]),
	}, true
}

var labeledBlocks = regexp.MustCompile(`(?s)원본\(한국어\)\s*:?\s*(.+?)\n+\s*번역\(.+?\)\s*:\s*(.+)$`)

// parseLabeledBlocks matches a Korean-original paragraph followed by a
// translation paragraph under a labeled heading.
func parseLabeledBlocks(cleaned string) (Result, bool) {
	m := labeledBlocks.FindStringSubmatch(cleaned)
	if m == nil {
		return Result{}, false
	}
	return Result{
		OriginalText:   strings.TrimSpace(m[1]),
		TranslatedText: strings.TrimSpace(m[2]),
	}, true
}
