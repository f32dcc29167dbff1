// Package reconcile pairs imported bank transactions with invoices,
// expenses, and income records by amount and counterpart-name similarity.
package reconcile

import (
	"strings"
)

// legalSuffixes are stripped before comparison; "Acme GmbH" and "ACME"
// name the same counterpart.
var legalSuffixes = map[string]bool{
	"gmbh": true,
	"ag":   true,
	"ug":   true,
	"kg":   true,
	"ohg":  true,
	"gbr":  true,
	"ek":   true,
	"co":   true,
	"inc":  true,
	"ltd":  true,
	"llc":  true,
}

// NameSimilarity scores how alike two counterpart names are, in [0,1].
// Comparison is case-insensitive on normalized tokens: exact match scores
// 1, one name containing the other scores 0.9, otherwise the token
// overlap (Jaccard) decides.
func NameSimilarity(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	joinedA := strings.Join(tokensA, " ")
	joinedB := strings.Join(tokensB, " ")
	if joinedA == joinedB {
		return 1
	}
	if strings.Contains(joinedA, joinedB) || strings.Contains(joinedB, joinedA) {
		return 0.9
	}

	setA := make(map[string]bool, len(tokensA))
	for _, t := range tokensA {
		setA[t] = true
	}
	setB := make(map[string]bool, len(tokensB))
	for _, t := range tokensB {
		setB[t] = true
	}

	intersection := 0
	for t := range setA {
		if setB[t] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// tokenize lowercases a name, drops punctuation and legal-form suffixes,
// and returns the remaining words.
func tokenize(name string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			return r
		case r == 'ä', r == 'ö', r == 'ü', r == 'ß':
			return r
		default:
			return ' '
		}
	}, strings.ToLower(name))

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if legalSuffixes[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
