package questions

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator returns a case-insensitive collator that orders digit runs
// by numeric value, so "Grade 2" sorts before "Grade 10". Collators are
// not safe for concurrent use, so each caller gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics, collate.Numeric)
}

// Compare orders two labels with the facet collation. Labels the collator
// considers equal fall back to byte order so the result is total.
func Compare(a, b string) int {
	if c := newCollator().CompareString(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// UniqueValues collects the distinct non-empty values of field across list,
// optionally restricted to questions accepted by pred, sorted with the
// facet collation.
func UniqueValues(list []Question, field Field, pred func(Question) bool) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, q := range list {
		if pred != nil && !pred(q) {
			continue
		}
		v := strings.TrimSpace(q.Value(field))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	col := newCollator()
	slices.SortStableFunc(values, func(a, b string) int {
		return col.CompareString(a, b)
	})
	return values
}

// SkillLabel returns the trimmed topic, or FallbackSkill when it is empty.
func SkillLabel(topic string) string {
	if label := strings.TrimSpace(topic); label != "" {
		return label
	}
	return FallbackSkill
}
