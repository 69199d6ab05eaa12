package anki

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"

	"github.com/mrlokans/kotoba/internal/logger"
	"github.com/mrlokans/kotoba/internal/pos"
)

var (
	bracketAnnotation = regexp.MustCompile(`\[.+?\]`)
	parenthetical     = regexp.MustCompile(`\([^)]*\)`)
	posDelimiters     = strings.NewReplacer("・", ",", "/", ",")
)

// CleanTerm strips furigana annotations from a term and, when the note has
// a separate reading, writes it back as base[reading].
func CleanTerm(term, reading string) string {
	base := strings.TrimSpace(bracketAnnotation.ReplaceAllString(term, ""))
	reading = strings.TrimSpace(reading)
	if reading == "" || reading == base || isGloss(reading) {
		return base
	}
	return base + "[" + reading + "]"
}

func isGloss(s string) bool {
	return strings.HasPrefix(s, "(") || strings.HasPrefix(s, "（")
}

// CleanExample strips furigana annotations from an example sentence.
func CleanExample(example string) string {
	return strings.TrimSpace(bracketAnnotation.ReplaceAllString(example, ""))
}

// PosNormalizer turns the free-form POS field of a note into canonical
// master list abbreviations.
type PosNormalizer struct {
	catalog *pos.Catalog
	log     *logger.Logger
}

func NewPosNormalizer(catalog *pos.Catalog, log *logger.Logger) *PosNormalizer {
	if log == nil {
		log = logger.Nop()
	}
	return &PosNormalizer{catalog: catalog, log: log}
}

// Tokens splits a raw field into candidate tokens. Full width forms are
// folded first so that （…） and ／ behave like their ASCII counterparts.
func Tokens(raw string) []string {
	s := width.Fold.String(raw)
	s = parenthetical.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), "")
	s = posDelimiters.Replace(s)

	var tokens []string
	for _, t := range strings.Split(s, ",") {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Normalize maps every token through the catalog and expands implied tags.
// Unknown tokens become the catalog fallback. An empty field yields nil.
func (n *PosNormalizer) Normalize(raw string) []string {
	tokens := Tokens(raw)
	if len(tokens) == 0 {
		return nil
	}

	names := make([]string, 0, len(tokens))
	for _, t := range tokens {
		name, ok := n.catalog.Canonical(t)
		if !ok {
			n.log.Warn("unknown part of speech", "token", t, "raw", raw, "mapped_to", n.catalog.Fallback)
			name = n.catalog.Fallback
		}
		names = append(names, name)
	}
	return n.catalog.Expand(names)
}
