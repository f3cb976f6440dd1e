package estimate

import (
	"context"
	"strings"
	"unicode"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/shopspring/decimal"
)

// Need is one thing a project description asks for, before pricing.
type Need struct {
	Category domain.Category
	Name     string // catalog item name
	Title    string
	Unit     string

	// Quantity is the item count (materials, tools, logistics) or crew size
	// (labor). Zero means the description did not say.
	Quantity decimal.Decimal

	// Labor.
	Role  string
	Hours decimal.Decimal

	// Tools.
	RentalDays int

	// Logistics.
	DistanceKm decimal.Decimal
	WeightKg   decimal.Decimal
	Urgency    domain.Urgency
}

// Explicit reports whether the description gave any quantity for the need.
func (n Need) Explicit() bool {
	return n.Quantity.IsPositive() || n.Hours.IsPositive() || n.RentalDays > 0
}

// Extractor turns free text into a list of needs.
type Extractor interface {
	Extract(ctx context.Context, description string) ([]Need, error)
}

// KeywordExtractor matches a fixed vocabulary against the description.
type KeywordExtractor struct {
	vocab []Term
}

// NewKeywordExtractor builds an extractor over vocab, or DefaultVocabulary
// when vocab is empty.
func NewKeywordExtractor(vocab []Term) *KeywordExtractor {
	if len(vocab) == 0 {
		vocab = DefaultVocabulary
	}
	return &KeywordExtractor{vocab: vocab}
}

type tokenKind int

const (
	tokWord tokenKind = iota
	tokNumber
	tokBreak
)

type token struct {
	kind  tokenKind
	text  string
	value decimal.Decimal
}

func (t token) isNumber() bool { return t.kind == tokNumber }

// tokenize lowercases s and splits it into words, numbers and clause breaks.
// "16h" becomes [16, h]; "2.5" stays a single number.
func tokenize(s string) []token {
	var out []token
	rs := []rune(strings.ToLower(s))
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsDigit(r):
			j := i
			for j < len(rs) && (unicode.IsDigit(rs[j]) || (rs[j] == '.' && j+1 < len(rs) && unicode.IsDigit(rs[j+1]))) {
				j++
			}
			text := string(rs[i:j])
			v, err := decimal.NewFromString(text)
			if err == nil {
				out = append(out, token{kind: tokNumber, text: text, value: v})
			}
			i = j
		case unicode.IsLetter(r):
			j := i
			for j < len(rs) && (unicode.IsLetter(rs[j]) || rs[j] == '\'') {
				j++
			}
			word := string(rs[i:j])
			if n, ok := numberWords[word]; ok {
				out = append(out, token{kind: tokNumber, text: word, value: decimal.NewFromInt(n)})
			} else {
				out = append(out, token{kind: tokWord, text: word})
			}
			i = j
		case r == ',' || r == '.' || r == ';' || r == '!' || r == '?' || r == '\n':
			out = append(out, token{kind: tokBreak, text: string(r)})
			i++
		default:
			i++
		}
	}
	return out
}

// matchesAlias accepts the alias itself and its common plural forms.
func matchesAlias(word, alias string) bool {
	if word == alias || word == alias+"s" || word == alias+"es" {
		return true
	}
	if strings.HasSuffix(alias, "y") && word == strings.TrimSuffix(alias, "y")+"ies" {
		return true
	}
	return false
}

type match struct {
	term  *Term
	start int
}

func (e *KeywordExtractor) findTerm(word string) *Term {
	for i := range e.vocab {
		for _, a := range e.vocab[i].Aliases {
			if matchesAlias(word, a) {
				return &e.vocab[i]
			}
		}
	}
	return nil
}

// Lookup finds the item term for a single word or an item name. Project
// nouns such as "cabinet" are not items and never match.
func (e *KeywordExtractor) Lookup(name string) (Term, bool) {
	key := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	for _, t := range e.vocab {
		if t.Name == key && !t.IsBundle() {
			return t, true
		}
	}
	if term := e.findTerm(key); term != nil && !term.IsBundle() {
		return *term, true
	}
	return Term{}, false
}

// Extract fails only when the description states a quantity that cannot be
// honored, such as "0 plywood" or a rental too long to count.
func (e *KeywordExtractor) Extract(_ context.Context, description string) ([]Need, error) {
	toks := tokenize(description)

	var matches, bundles []match
	isTerm := make([]bool, len(toks))
	for i, t := range toks {
		if t.kind != tokWord {
			continue
		}
		term := e.findTerm(t.text)
		switch {
		case term == nil:
		case term.IsBundle():
			bundles = append(bundles, match{term: term, start: i})
		default:
			matches = append(matches, match{term: term, start: i})
			isTerm[i] = true
		}
	}
	if len(matches) == 0 {
		return e.expandBundles(bundles), nil
	}

	urgent := false
	for _, t := range toks {
		if t.kind == tokWord && urgencyWords[t.text] {
			urgent = true
			break
		}
	}

	var needs []Need
	index := make(map[string]int)
	for _, m := range matches {
		n, err := e.needFor(toks, isTerm, m, urgent)
		if err != nil {
			return nil, err
		}
		if at, ok := index[n.Name]; ok {
			if !needs[at].Explicit() && n.Explicit() {
				needs[at] = n
			}
			continue
		}
		index[n.Name] = len(needs)
		needs = append(needs, n)
	}
	return needs, nil
}

// expandBundles turns project nouns such as "cabinet" into their default
// items, in order of first mention. Only used when no item is named directly.
func (e *KeywordExtractor) expandBundles(bundles []match) []Need {
	var needs []Need
	seen := make(map[string]bool)
	for _, b := range bundles {
		for _, name := range b.term.Bundle {
			if seen[name] {
				continue
			}
			term, ok := e.Lookup(name)
			if !ok {
				continue
			}
			seen[name] = true
			n := Need{Category: term.Category, Name: term.Name, Title: term.Title, Unit: term.Unit, Role: term.Role}
			if term.Category == domain.CategoryLogistics {
				n.Urgency = domain.UrgencyNormal
			}
			needs = append(needs, n)
		}
	}
	return needs
}

func (e *KeywordExtractor) needFor(toks []token, isTerm []bool, m match, urgent bool) (Need, error) {
	t := m.term
	n := Need{
		Category: t.Category,
		Name:     t.Name,
		Title:    t.Title,
		Unit:     t.Unit,
		Role:     t.Role,
	}
	lo, hi := clauseBounds(toks, m.start)

	count, stated := leadingCount(toks, isTerm, m.start)
	if !stated && t.Category != domain.CategoryLabor {
		count, stated = trailingCount(toks, isTerm, m.start, hi, t.Unit)
	}
	if stated && !count.IsPositive() {
		return n, &domain.ValidationError{Index: -1, Item: t.Title, Field: "quantity", Reason: "stated quantity must be positive"}
	}
	n.Quantity = count

	switch t.Category {
	case domain.CategoryLabor:
		if v, unit, ok := measureNear(toks, isTerm, m.start, lo, hi, hourOrDay); ok {
			if dayUnits[unit] {
				v = v.Mul(decimal.NewFromInt(hoursPerDay))
			}
			n.Hours = v
		}
	case domain.CategoryTools:
		if v, _, ok := measureNear(toks, isTerm, m.start, lo, hi, func(w string) bool { return dayUnits[w] }); ok {
			days, err := domain.CountFromDecimal("rental_days", v)
			if err != nil {
				return n, err
			}
			n.RentalDays = days
		}
	case domain.CategoryLogistics:
		if v, _, ok := measureNear(toks, isTerm, m.start, lo, hi, func(w string) bool { return distanceUnits[w] }); ok {
			n.DistanceKm = v
		}
		if v, unit, ok := measureNear(toks, isTerm, m.start, lo, hi, func(w string) bool { _, ok := weightUnits[w]; return ok }); ok {
			n.WeightKg = v.Mul(decimal.NewFromInt(weightUnits[unit]))
		}
		if urgent {
			n.Urgency = domain.UrgencyHigh
		} else {
			n.Urgency = domain.UrgencyNormal
		}
	}
	return n, nil
}

func hourOrDay(w string) bool { return hourUnits[w] || dayUnits[w] }

func isMeasureUnit(w string) bool {
	if hourOrDay(w) || distanceUnits[w] {
		return true
	}
	_, ok := weightUnits[w]
	return ok
}

// clauseBounds returns the half-open token range of the clause containing i.
func clauseBounds(toks []token, i int) (int, int) {
	lo := i
	for lo > 0 && toks[lo-1].kind != tokBreak {
		lo--
	}
	hi := i
	for hi < len(toks) && toks[hi].kind != tokBreak {
		hi++
	}
	return lo, hi
}

const lookback = 3

// leadingCount finds a count such as "3 sheets of plywood" or "two painters":
// the nearest number at most lookback tokens before the term, in the same
// clause, with no other term in between and not itself a measurement.
// stated is true even for a zero count so the caller can reject it.
func leadingCount(toks []token, isTerm []bool, start int) (count decimal.Decimal, stated bool) {
	for j := start - 1; j >= 0 && j >= start-lookback; j-- {
		t := toks[j]
		if t.kind == tokBreak || isTerm[j] {
			break
		}
		if !t.isNumber() {
			continue
		}
		if j+1 < len(toks) && toks[j+1].kind == tokWord && isMeasureUnit(toks[j+1].text) {
			break
		}
		return t.value, true
	}
	return decimal.Zero, false
}

// trailingCount finds a count written after the term, as in "paint 2.5
// liters" or "plywood: 4 sheets". The number must be followed by the term's
// own unit or a generic count word.
func trailingCount(toks []token, isTerm []bool, start, hi int, unit string) (decimal.Decimal, bool) {
	for j := start + 1; j < hi-1 && j <= start+measureWindow; j++ {
		if isTerm[j] {
			break
		}
		if toks[j].isNumber() && toks[j+1].kind == tokWord && isCountUnit(toks[j+1].text, unit) {
			return toks[j].value, true
		}
	}
	return decimal.Zero, false
}

func isCountUnit(word, unit string) bool {
	if countWords[word] {
		return true
	}
	if unit == "" || hourOrDay(unit) {
		return false
	}
	if matchesAlias(word, unit) {
		return true
	}
	for _, alt := range unitSpellings[unit] {
		if matchesAlias(word, alt) {
			return true
		}
	}
	return false
}

const measureWindow = 5

// measureNear finds "<number> <unit>" within the clause, preferring the
// closest occurrence after the term and then before it. A measurement that
// sits past another term belongs to that term.
func measureNear(toks []token, isTerm []bool, start, lo, hi int, unitOK func(string) bool) (decimal.Decimal, string, bool) {
	for j := start + 1; j < hi-1 && j <= start+measureWindow; j++ {
		if isTerm[j] {
			break
		}
		if toks[j].isNumber() && toks[j+1].kind == tokWord && unitOK(toks[j+1].text) && toks[j].value.IsPositive() {
			return toks[j].value, toks[j+1].text, true
		}
	}
	for j := start - 2; j >= lo && j >= start-measureWindow; j-- {
		if isTerm[j] || isTerm[j+1] {
			break
		}
		if toks[j].isNumber() && toks[j+1].kind == tokWord && unitOK(toks[j+1].text) && toks[j].value.IsPositive() {
			return toks[j].value, toks[j+1].text, true
		}
	}
	return decimal.Zero, "", false
}
