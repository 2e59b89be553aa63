package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Issue dates appear in several layouts; rules run in priority order and
// the first accepted match wins. Labelled dates outrank bare ones so a
// certificate that mentions both its issue date and, say, a test date in
// the body resolves to the labelled one. English month-name layouts come
// before the numeric ones because "AUG.04.2025" contains substrings a
// generic numeric rule could misfire on.

var monthNumbers = map[string]int{
	"JAN": 1, "JANUARY": 1,
	"FEB": 2, "FEBRUARY": 2,
	"MAR": 3, "MARCH": 3,
	"APR": 4, "APRIL": 4,
	"MAY": 5,
	"JUN": 6, "JUNE": 6,
	"JUL": 7, "JULY": 7,
	"AUG": 8, "AUGUST": 8,
	"SEP": 9, "SEPTEMBER": 9,
	"OCT": 10, "OCTOBER": 10,
	"NOV": 11, "NOVEMBER": 11,
	"DEC": 12, "DECEMBER": 12,
}

var labeledDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)発行日[\s\S]{0,50}?(\d{4}[./]\d{1,2}[./]\d{1,2})`),
	regexp.MustCompile(`(?i)Date\s*of\s*Issue[\s\S]{0,30}?(\d{4}[./]\d{1,2}[./]\d{1,2})`),
	regexp.MustCompile(`(?i)発行年月日[\s\S]{0,30}?(\d{4}[./]\d{1,2}[./]\d{1,2})`),
}

// englishDateRule captures an English month-name layout; order tells the
// rule which capture group holds which component.
type englishDateRule struct {
	pattern *regexp.Regexp
	order   string // "mdy", "dmy" or "ymd"
}

var englishDateRules = []englishDateRule{
	{regexp.MustCompile(`(?i)([A-Z]{3,9})\s*[.\-/,]\s*(\d{1,2})\s*[.\-/,]\s*(\d{4})`), "mdy"},
	{regexp.MustCompile(`(?i)(\d{1,2})\s*[.\-/,]\s*([A-Z]{3,9})\s*[.\-/,]\s*(\d{4})`), "dmy"},
	{regexp.MustCompile(`(?i)(\d{4})\s*[.\-/,]\s*([A-Z]{3,9})\s*[.\-/,]\s*(\d{1,2})`), "ymd"},
}

// numericDateRule captures a numeric or era layout. yearBase is added to
// the first group for era dates (Reiwa 1 = 2019, Heisei 1 = 1989);
// zero means the group already carries the western year.
type numericDateRule struct {
	pattern  *regexp.Regexp
	yearBase int
}

var numericDateRules = []numericDateRule{
	{regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日`), 0},
	{regexp.MustCompile(`(\d{4})/(\d{1,2})/(\d{1,2})`), 0},
	{regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`), 0},
	{regexp.MustCompile(`(\d{4})\.(\d{1,2})\.(\d{1,2})`), 0},
	{regexp.MustCompile(`令和(\d{1,2})年(\d{1,2})月(\d{1,2})日`), 2018},
	{regexp.MustCompile(`R(\d{1,2})\.(\d{1,2})\.(\d{1,2})`), 2018},
	{regexp.MustCompile(`平成(\d{1,2})年(\d{1,2})月(\d{1,2})日`), 1988},
}

var reNumericDate = regexp.MustCompile(`(\d{4})[./\-](\d{1,2})[./\-](\d{1,2})`)

// ExtractDate finds the issue date in text and returns it as YY-MM-DD,
// or "" when no layout matches. The two-digit year is year % 100
// regardless of era.
func ExtractDate(text string) string {
	for _, re := range labeledDatePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if d := parseNumericDate(m[1]); d != "" {
			return d
		}
	}

	for _, rule := range englishDateRules {
		m := rule.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		var yearStr, monthName, dayStr string
		switch rule.order {
		case "mdy":
			monthName, dayStr, yearStr = m[1], m[2], m[3]
		case "dmy":
			dayStr, monthName, yearStr = m[1], m[2], m[3]
		case "ymd":
			yearStr, monthName, dayStr = m[1], m[2], m[3]
		}
		month, ok := monthNumbers[strings.ToUpper(monthName)]
		if !ok {
			continue
		}
		year, _ := strconv.Atoi(yearStr)
		day, _ := strconv.Atoi(dayStr)
		if d := formatDate(year, month, day); d != "" {
			return d
		}
	}

	for _, rule := range numericDateRules {
		m := rule.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		first, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		year := first + rule.yearBase
		if d := formatDate(year, month, day); d != "" {
			return d
		}
	}

	return ""
}

func parseNumericDate(s string) string {
	m := reNumericDate.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return formatDate(year, month, day)
}

// formatDate renders YY-MM-DD, rejecting impossible month/day values.
// Day 31 passes for every month; OCR noise makes tighter cross-checks
// drop real dates.
func formatDate(year, month, day int) string {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return ""
	}
	return fmt.Sprintf("%02d-%02d-%02d", year%100, month, day)
}
