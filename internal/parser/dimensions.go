package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Dimension triples (thickness x width x length) are the noisiest field
// on a mill sheet: OCR splits decimals ("22. 00"), groups widths with
// commas ("1,535"), and misreads "1540" as "1.540". A bare regex match
// is therefore never trusted: every candidate has to pass the
// plausibility predicate before it is accepted.

type dimensionRule struct {
	pattern *regexp.Regexp
	groups  int // how many value groups the rule captures
}

// Rule order matters: OCR-damaged and comma-grouped layouts first, the
// generic triple and two-value forms last.
var dimensionRules = []dimensionRule{
	// 22. 00X1, 540XCOIL: decimal and width both split by OCR
	{regexp.MustCompile(`(?i)(\d{1,2})\.\s*(\d{2})\s*[xX×]\s*(\d)[,.]?\s*(\d{3})\s*[xX×]\s*(COIL\b|コイル|C\b)`), 5},
	// 2.3X1.540XCOIL: width misread as a decimal
	{regexp.MustCompile(`(?i)(\d{1,2}\.?\d{0,2})[xX×](\d\.\d{3})[xX×](COIL\b|コイル|C\b)`), 3},
	// 1.60X1,535XCOIL: comma-grouped width
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*[xX×]\s*(\d{1,2},\d{3})\s*[xX×]\s*(COIL\b|コイル|C\b)`), 3},
	// 1.6x1535xCOIL
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*[xX×]\s*(\d{3,4})\s*[xX×]\s*(COIL\b|コイル|C\b)`), 3},
	// 1.6X1,219X2438: comma-grouped width, numeric length
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*[xX×]\s*(\d{1,2},\d{3})\s*[xX×]\s*(\d{3,5})`), 3},
	// 1.6X1219X2438
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*[xX×]\s*(\d{3,4})\s*[xX×]\s*(\d{3,4})`), 3},
	// t1.6 x 1219 x COIL
	{regexp.MustCompile(`(?i)t\s*(\d+\.?\d*)\s*[xX×]\s*(\d+\.?\d*)\s*[xX×]\s*(COIL|コイル|C|\d+\.?\d*)`), 3},
	// 板厚1.6 ... 幅1219
	{regexp.MustCompile(`(?i)板厚\s*(\d+\.?\d*)\s*.*?幅\s*(\d+\.?\d*)`), 2},
	// 1.6t x 1219W
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*[tT]\s*[xX×]\s*(\d+\.?\d*)\s*[wW]?`), 2},
}

var reDimensionSection = regexp.MustCompile(`(?i)(?:DIMENSIONS?|寸法)[^\n]*\n?([^\n]+)`)

// width misread as decimal: "1.540" is really 1540
var reDecimalWidth = regexp.MustCompile(`^\d{1,2}\.\d{3}$`)

// ExtractDimensions finds a plausible thickness/width(/length) triple in
// text and returns it as "TxW" or "TxWxL" where L may be the coil marker
// "C". The search prefers the lines around a DIMENSIONS/寸法 label, then
// falls back to the whole text. "" means nothing plausible matched.
func ExtractDimensions(text string) string {
	searchTexts := []string{text}
	if section := findDimensionSection(text); section != "" {
		searchTexts = []string{section, text}
	}

	for _, search := range searchTexts {
		if dims := tryExtractDimensions(search); dims != "" {
			return dims
		}
	}
	return ""
}

func findDimensionSection(text string) string {
	m := reDimensionSection.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[0] + m[1]
}

func tryExtractDimensions(text string) string {
	for _, rule := range dimensionRules {
		for _, m := range rule.pattern.FindAllStringSubmatch(text, -1) {
			if dims := parseDimensionGroups(m, rule.groups); dims != "" {
				return dims
			}
		}
	}
	return ""
}

func parseDimensionGroups(m []string, groups int) string {
	switch groups {
	case 5:
		// rejoin the OCR-split decimal and width
		thickness := m[1] + "." + m[2]
		width := m[3] + m[4]
		length := m[5]
		if validDimension(thickness, width, length) {
			return formatThickness(thickness) + "x" + width + "x" + normalizeLength(length)
		}
	case 3:
		thickness := m[1]
		width := processWidth(m[2])
		length := m[3]
		if validDimension(thickness, width, length) {
			return formatThickness(thickness) + "x" + width + "x" + normalizeLength(length)
		}
	case 2:
		thickness := m[1]
		width := processWidth(m[2])
		if validDimension(thickness, width, "") {
			return formatThickness(thickness) + "x" + width
		}
	}
	return ""
}

// processWidth strips digit-group commas and repairs a decimal point the
// OCR imagined inside a four-digit width.
func processWidth(raw string) string {
	width := strings.ReplaceAll(raw, ",", "")
	if reDecimalWidth.MatchString(width) {
		width = strings.ReplaceAll(width, ".", "")
	}
	return width
}

// validDimension is the plausibility predicate: thickness 0.1-100mm,
// width 100-5000mm and wider than thick, and a numeric length of at
// least 100mm. A length that is neither numeric nor a coil marker is
// tolerated. length may be empty for two-value forms.
func validDimension(thickness, width, length string) bool {
	t, err := strconv.ParseFloat(strings.ReplaceAll(thickness, ",", ""), 64)
	if err != nil {
		return false
	}
	w, err := strconv.ParseFloat(strings.ReplaceAll(width, ",", ""), 64)
	if err != nil {
		return false
	}

	if t < 0.1 || t > 100 {
		return false
	}
	if w < 100 || w > 5000 {
		return false
	}
	if w <= t {
		return false
	}

	if length != "" && !isCoil(length) {
		if l, err := strconv.ParseFloat(strings.ReplaceAll(length, ",", ""), 64); err == nil && l < 100 {
			return false
		}
	}
	return true
}

func isCoil(length string) bool {
	switch strings.ToUpper(length) {
	case "COIL", "コイル", "C":
		return true
	}
	return false
}

// formatThickness drops redundant precision: "22.00" -> "22", "1.60" -> "1.6".
func formatThickness(thickness string) string {
	t, err := strconv.ParseFloat(thickness, 64)
	if err != nil {
		return thickness
	}
	if t == float64(int64(t)) {
		return strconv.FormatInt(int64(t), 10)
	}
	s := strconv.FormatFloat(t, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

func normalizeLength(length string) string {
	if isCoil(length) {
		return "C"
	}
	return length
}
