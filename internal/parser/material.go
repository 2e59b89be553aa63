package parser

import (
	"regexp"
	"strings"
)

// JIS steel grade designators, most specific families first so the
// generic S-prefix catch-all cannot shadow them. OCR sometimes splits a
// grade across a space ("SUS 304"), so a few patterns tolerate one.
var materialPatterns = []*regexp.Regexp{
	// general structural (SS400, SS490)
	regexp.MustCompile(`(?i)\b(SS\s*[234]\d{2})\b`),
	// hot/cold rolled sheet (SPHC, SPCC, ...)
	regexp.MustCompile(`(?i)\b(SPH[CDE]|SPC[CDE])\b`),
	// electrogalvanized (SECC, SECD)
	regexp.MustCompile(`(?i)\b(SEC[CD])\b`),
	// hot-dip galvanized (SGCC, SGHC)
	regexp.MustCompile(`(?i)\b(SG[CH]C)\b`),
	// carbon steel for machine structural use (S45C)
	regexp.MustCompile(`(?i)\b(S\d{2}C)\b`),
	// chrome-molybdenum (SCM435)
	regexp.MustCompile(`(?i)\b(SCM\d{3})\b`),
	// stainless (SUS304, SUS316L)
	regexp.MustCompile(`(?i)\b(SUS\s*\d{3}[A-Z]?)\b`),
	// carbon tool steel (SK3, SK85)
	regexp.MustCompile(`(?i)\b(SK\d{1,2})\b`),
	// welded structural (SM490A)
	regexp.MustCompile(`(?i)\b(SM\d{3}[A-C]?)\b`),
	// carbon steel tube (STK400)
	regexp.MustCompile(`(?i)\b(STK\d{3})\b`),
	// square steel tube (STKR400)
	regexp.MustCompile(`(?i)\b(STKR\d{3})\b`),
	// generic S-prefix fallback
	regexp.MustCompile(`(?i)\b(S[A-Z]{1,3}\d{2,3}[A-Z]?)\b`),
}

// ExtractMaterial finds a steel grade designator in text. The result is
// uppercased with internal spaces removed; "" means no grade matched.
func ExtractMaterial(text string) string {
	for _, re := range materialPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		return strings.ReplaceAll(strings.ToUpper(m[1]), " ", "")
	}
	return ""
}
