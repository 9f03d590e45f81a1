package ingest

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Dictionary is an ordered set of literal phrases known for one column.
// Tokens are kept longest first so a phrase that contains another is matched whole.
type Dictionary struct {
	Name   string
	tokens []string
}

// NewDictionary builds a dictionary, sorting tokens longest first. Equal lengths keep
// their given order. Empty tokens are dropped.
func NewDictionary(name string, tokens ...string) Dictionary {
	sorted := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if strings.TrimSpace(tok) == "" {
			continue
		}
		sorted = append(sorted, tok)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i]) > utf8.RuneCountInString(sorted[j])
	})
	return Dictionary{Name: name, tokens: sorted}
}

// Tokens returns the dictionary tokens in match order.
func (d Dictionary) Tokens() []string {
	out := make([]string, len(d.tokens))
	copy(out, d.tokens)
	return out
}

// Contains reports whether tag is a dictionary token.
func (d Dictionary) Contains(tag string) bool {
	for _, tok := range d.tokens {
		if tok == tag {
			return true
		}
	}
	return false
}

// StripTokens removes the first occurrence of every dictionary token found in text,
// longest first, and returns the tokens in match order along with the remaining text.
func StripTokens(text string, dict Dictionary) ([]string, string) {
	found := []string{}
	remaining := text
	for _, tok := range dict.tokens {
		if strings.Contains(remaining, tok) {
			found = append(found, tok)
			remaining = strings.TrimSpace(strings.Replace(remaining, tok, "", 1))
		}
	}
	return found, remaining
}

// StripRepeated is StripTokens for feature lists: each token is removed for as long as it
// still occurs, and every removal is reported.
func StripRepeated(text string, dict Dictionary) ([]string, string) {
	found := []string{}
	remaining := text
	for _, tok := range dict.tokens {
		for strings.Contains(remaining, tok) {
			found = append(found, tok)
			remaining = strings.TrimSpace(strings.Replace(remaining, tok, " ", 1))
		}
	}
	return found, remaining
}

// ExtractTokens splits a multi-value cell using dict. Dictionary hits come first in
// match order, followed by any leftover words not already present.
func ExtractTokens(text string, dict Dictionary) []string {
	if text == "" {
		return []string{}
	}
	found, leftover := StripTokens(text, dict)
	return appendLeftover(found, leftover, 1)
}

// SplitFeatures splits the feature column. Repeated phrases are reported once per
// occurrence and single-character leftovers are discarded.
func SplitFeatures(text string, dict Dictionary) []string {
	if text == "" {
		return []string{}
	}
	found, leftover := StripRepeated(text, dict)
	return appendLeftover(found, leftover, 2)
}

func appendLeftover(found []string, leftover string, minLen int) []string {
	for _, word := range strings.Fields(leftover) {
		if utf8.RuneCountInString(word) < minLen {
			continue
		}
		if containsString(found, word) {
			continue
		}
		found = append(found, word)
	}
	return found
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// PairSet lists adjacent word pairs that form a single integration name.
type PairSet map[[2]string]struct{}

// NewPairSet builds a PairSet from (first, second) word pairs.
func NewPairSet(pairs ...[2]string) PairSet {
	set := make(PairSet, len(pairs))
	for _, p := range pairs {
		set[p] = struct{}{}
	}
	return set
}

// Joins reports whether first and second fold into one tag.
func (s PairSet) Joins(first, second string) bool {
	_, ok := s[[2]string{first, second}]
	return ok
}

// SplitIntegrations whitespace-splits the integrations cell and folds listed pairs left to
// right. A folded tag never takes part in a second fold.
func SplitIntegrations(text string, pairs PairSet) []string {
	out := []string{}
	folded := false
	for _, word := range strings.Fields(text) {
		if n := len(out); n > 0 && !folded && pairs.Joins(out[n-1], word) {
			out[n-1] = out[n-1] + " " + word
			folded = true
			continue
		}
		out = append(out, word)
		folded = false
	}
	return out
}
