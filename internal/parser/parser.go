// Package parser extracts structured mill-sheet metadata from OCR text.
//
// Mill certificates come out of OCR noisy: missing separators, mixed
// Japanese/English scripts, comma-grouped numbers, stray whitespace.
// Every extractor here is an ordered rule cascade: specific patterns
// first, generic catch-alls last, with semantic plausibility checks
// where syntax alone is ambiguous.
package parser

import (
	"log/slog"
	"strings"
)

// Info holds the fields extracted from one mill-sheet document.
// Every field except RawText is optional; an empty string means the
// extractor found nothing, which is a normal outcome, not an error.
type Info struct {
	Date         string // issue date, YY-MM-DD
	Material     string // steel grade, e.g. SS400, SUS304
	Dimensions   string // TxW or TxWxL, L may be the coil marker "C"
	Manufacturer string // canonical or extracted maker name
	ChargeNo     string // heat/charge lot number, 4-12 alphanumerics
	RawText      string // original input, kept for diagnostics
}

// Parser runs the five field extractors over document text. The zero
// value is not usable; construct with NewParser.
type Parser struct {
	manufacturers []ManufacturerEntry
	logger        *slog.Logger
}

// NewParser returns a Parser using the given manufacturer priority
// table. An empty table falls back to DefaultManufacturers.
func NewParser(manufacturers []ManufacturerEntry, logger *slog.Logger) *Parser {
	if len(manufacturers) == 0 {
		manufacturers = DefaultManufacturers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{manufacturers: manufacturers, logger: logger}
}

// Parse runs all extractors independently over text and assembles the
// record. It never fails: a document in which nothing matches yields a
// record with only RawText set.
func (p *Parser) Parse(text string) Info {
	info := Info{
		Date:         ExtractDate(text),
		Material:     ExtractMaterial(text),
		Dimensions:   ExtractDimensions(text),
		Manufacturer: extractManufacturerFrom(p.manufacturers, text),
		ChargeNo:     ExtractChargeNo(text),
		RawText:      text,
	}
	p.logger.Debug("parser.fields",
		"date", info.Date,
		"material", info.Material,
		"dimensions", info.Dimensions,
		"manufacturer", info.Manufacturer,
		"charge_no", info.ChargeNo,
	)
	return info
}

// Parse extracts mill-sheet fields using the built-in manufacturer table.
func Parse(text string) Info {
	return Info{
		Date:         ExtractDate(text),
		Material:     ExtractMaterial(text),
		Dimensions:   ExtractDimensions(text),
		Manufacturer: ExtractManufacturer(text),
		ChargeNo:     ExtractChargeNo(text),
		RawText:      text,
	}
}

// Empty reports whether no field was extracted.
func (i Info) Empty() bool {
	return i.Date == "" && i.Material == "" && i.Dimensions == "" &&
		i.Manufacturer == "" && i.ChargeNo == ""
}

// Fields returns the populated fields in filename order.
func (i Info) Fields() []string {
	var out []string
	for _, f := range []string{i.Date, i.Material, i.Dimensions, i.Manufacturer, i.ChargeNo} {
		if strings.TrimSpace(f) != "" {
			out = append(out, f)
		}
	}
	return out
}
