package stylist

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/diogo/teestudio/internal/palette"
	"github.com/diogo/teestudio/internal/state"
)

// MatchKind says how a color was found in the text.
type MatchKind int

const (
	// KindMention is a table color name anywhere in the text
	KindMention MatchKind = iota
	// KindCommand is a table color inside an instruction such as "make it red"
	KindCommand
	// KindHex is a #rgb or #rrggbb literal
	KindHex
)

func (k MatchKind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindHex:
		return "hex"
	default:
		return "mention"
	}
}

// Match is a color recovered from text.
type Match struct {
	Name  string // table name, or the literal for hex matches
	Hex   string
	Value palette.RGB
	Kind  MatchKind
}

// ColorSetter is the write side of the shared color state.
type ColorSetter interface {
	Set(c palette.RGB, src state.Source) state.Change
}

type entryPattern struct {
	entry   palette.Entry
	word    *regexp.Regexp
	command *regexp.Regexp
}

var (
	entryPatterns = compileEntryPatterns(palette.Table)
	hexLiteral    = regexp.MustCompile(`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)
)

func compileEntryPatterns(table []palette.Entry) []entryPattern {
	out := make([]entryPattern, len(table))
	for i, e := range table {
		name := strings.ReplaceAll(regexp.QuoteMeta(e.Name), " ", `[\s-]+`)
		out[i] = entryPattern{
			entry: e,
			word:  regexp.MustCompile(`\b` + name + `\b`),
			command: regexp.MustCompile(
				`\b(?:make it|change (?:it )?to|try|go with)\s+` + name + `\b|\b` + name + `\s+colou?r\b`,
			),
		}
	}
	return out
}

// Detect scans text for a color without touching any state. Table names win
// over hex literals and the first table entry (in table order) found as a
// whole word wins.
func Detect(text string) (Match, bool) {
	lower := strings.ToLower(text)

	for _, p := range entryPatterns {
		if !p.word.MatchString(lower) {
			continue
		}
		kind := KindMention
		if p.command.MatchString(lower) {
			kind = KindCommand
		}
		return Match{
			Name:  p.entry.Name,
			Hex:   p.entry.Value.Hex(),
			Value: p.entry.Value,
			Kind:  kind,
		}, true
	}

	if lit := hexLiteral.FindString(text); lit != "" {
		c, err := palette.ParseHex(lit)
		if err == nil {
			return Match{Name: strings.ToLower(lit), Hex: c.Hex(), Value: c, Kind: KindHex}, true
		}
	}

	return Match{}, false
}

// Extractor applies detected colors to the shared color state.
type Extractor struct {
	store  ColorSetter
	logger *slog.Logger
}

// NewExtractor returns an extractor writing to store. A nil logger uses slog.Default.
func NewExtractor(store ColorSetter, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{store: store, logger: logger}
}

// Extract detects a color in text and, on a match, writes it to the store.
// Without a match the store is left alone.
func (e *Extractor) Extract(text string) (Match, bool) {
	m, ok := Detect(text)
	if !ok {
		return Match{}, false
	}
	e.store.Set(m.Value, state.SourceExtractor)
	e.logger.Debug("color_extracted",
		"name", m.Name,
		"hex", m.Hex,
		"kind", m.Kind.String(),
	)
	return m, true
}
