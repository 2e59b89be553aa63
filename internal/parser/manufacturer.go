package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ManufacturerEntry maps one canonical maker name to the surface forms
// OCR may produce for it: script variants (製鉄/製鐵), transliterations,
// and common misreadings. Entries are checked in slice order, so earlier
// entries win; the table is a priority list, not a set.
type ManufacturerEntry struct {
	Name     string   `json:"name"`
	Variants []string `json:"variants"`
}

// DefaultManufacturers is the built-in priority table. A site-specific
// table can be loaded with LoadManufacturerTable instead.
var DefaultManufacturers = []ManufacturerEntry{
	{
		Name:     "東京製鉄",
		Variants: []string{"東京製鉄", "東京製鐵", "東京製鉄所", "東京製鐵所", "TOKYO STEEL", "TOKYOSTEEL"},
	},
	{
		Name:     "中山製鋼",
		Variants: []string{"中山製鋼", "中山製鉄", "中山製鋼所", "中山製鉄所", "NAKAYAMA STEEL", "NAKAYAMA"},
	},
	{
		Name:     "神戸製鋼",
		Variants: []string{"神戸製鋼", "神戸製鉄", "神戸製鋼所", "神戸製鉄所", "KOBE STEEL", "KOBELCO"},
	},
}

// Generic company-name fallbacks, tried only when no priority entry hits.
var manufacturerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([^\s\n]{2,15}(?:製鉄|製鋼|製鐵))`),
	regexp.MustCompile(`([^\s\n]{2,15}(?:株式会社|㈱))`),
	regexp.MustCompile(`(?:製造者|メーカー)[：:]\s*([^\n]+)`),
}

// ExtractManufacturer resolves the maker name using the built-in table.
func ExtractManufacturer(text string) string {
	return extractManufacturerFrom(DefaultManufacturers, text)
}

// extractManufacturerFrom checks every variant of every table entry as a
// case-insensitive substring of text, in table order, and returns the
// first canonical name that hits. Known makers normalize to one spelling
// no matter which variant OCR produced. Only when the table misses do
// the generic patterns run, accepting names of 2-20 runes.
func extractManufacturerFrom(table []ManufacturerEntry, text string) string {
	upper := strings.ToUpper(text)
	for _, entry := range table {
		for _, variant := range entry.Variants {
			if strings.Contains(upper, strings.ToUpper(variant)) {
				return entry.Name
			}
		}
	}

	for _, re := range manufacturerPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if n := utf8.RuneCountInString(name); n >= 2 && n <= 20 {
			return name
		}
	}
	return ""
}

const manufacturerTableSchema = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "additionalProperties": false,
    "required": ["name", "variants"],
    "properties": {
      "name": {"type": "string", "minLength": 1},
      "variants": {
        "type": "array",
        "minItems": 1,
        "items": {"type": "string", "minLength": 1}
      }
    }
  }
}`

// LoadManufacturerTable reads a priority table from a JSON file,
// validating it against the embedded schema first. The file is an
// ordered array; array order becomes priority order.
func LoadManufacturerTable(path string) ([]ManufacturerEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manufacturer table: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("manufacturers.json", strings.NewReader(manufacturerTableSchema)); err != nil {
		return nil, fmt.Errorf("compile manufacturer schema: %w", err)
	}
	schema, err := compiler.Compile("manufacturers.json")
	if err != nil {
		return nil, fmt.Errorf("compile manufacturer schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse manufacturer table: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid manufacturer table %s: %w", path, err)
	}

	var table []ManufacturerEntry
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse manufacturer table: %w", err)
	}
	return table, nil
}
