package parser

import (
	"regexp"
	"strings"
)

// Charge (heat) numbers are alphanumeric lot identifiers. A labelled
// match is authoritative; the two shape heuristics below it exist for
// sheets where OCR mangled the label. The shapes can also hit grade- or
// dimension-like substrings, so every candidate is re-checked for
// length and character class before acceptance.

var chargeLabeledPattern = regexp.MustCompile(`(?:溶[鋼銅]番号|CHARGE\s*N[oO]\.?|鋼番)\s*[:\s]*([A-Z0-9]{4,12})`)

var chargeShapePatterns = []*regexp.Regexp{
	// E12345, AB123456
	regexp.MustCompile(`\b([A-Z]{1,2}\d{4,8})\b`),
	// 1A2345, 12B3456
	regexp.MustCompile(`\b(\d{1,2}[A-Z]\d{4,6})\b`),
}

// ExtractChargeNo finds the charge/heat lot number in text, uppercased,
// or "" when no candidate qualifies.
func ExtractChargeNo(text string) string {
	if m := chargeLabeledPattern.FindStringSubmatch(text); m != nil {
		if no := acceptChargeNo(m[1]); no != "" {
			return no
		}
	}

	for _, re := range chargeShapePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if no := acceptChargeNo(m[1]); no != "" {
				return no
			}
		}
	}
	return ""
}

func acceptChargeNo(candidate string) string {
	no := strings.ToUpper(candidate)
	if len(no) < 4 || len(no) > 12 {
		return ""
	}
	for _, r := range no {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return no
}
