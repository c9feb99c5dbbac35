package score

import (
	"strings"

	"github.com/kailas-cloud/esdex/internal/domain/document"
)

func match(doc any, field, text string) float64 {
	if text == "" {
		return Exact
	}
	q := strings.ToLower(text)
	if document.IsAllFields(field) {
		return matchAllLeaves(doc, q)
	}
	v, ok := document.Lookup(doc, field)
	if !ok {
		return 0
	}
	s, ok := scalarText(v)
	if !ok {
		return 0
	}
	return textScore(s, q)
}

// textScore grades an already lowercased value against a lowercased query.
func textScore(value, q string) float64 {
	switch {
	case value == q:
		return Exact
	case strings.Contains(value, q):
		return Contains
	}
	words := strings.Fields(q)
	if len(words) == 0 {
		return 0
	}
	valueWords := strings.Fields(value)
	matched := 0
	for _, w := range words {
		for _, vw := range valueWords {
			if strings.Contains(vw, w) {
				matched++
				break
			}
		}
	}
	if matched == 0 {
		return 0
	}
	return WordFraction * float64(matched) / float64(len(words))
}

func matchAllLeaves(doc any, q string) float64 {
	var best float64
	document.Walk(doc, func(leaf any) {
		var s float64
		switch t := leaf.(type) {
		case string:
			s = textScore(strings.ToLower(t), q)
		case float64:
			if strings.Contains(document.FormatNumber(t), q) {
				s = NumericLeaf
			}
		}
		if s > best {
			best = s
		}
	})
	return best
}

func matchPhrase(doc any, field, phrase string) float64 {
	if phrase == "" {
		return Exact
	}
	p := strings.ToLower(phrase)
	if document.IsAllFields(field) {
		var best float64
		document.Walk(doc, func(leaf any) {
			if s, ok := leaf.(string); ok {
				if sc := phraseScore(strings.ToLower(s), p); sc > best {
					best = sc
				}
			}
		})
		return best
	}
	v, ok := document.Lookup(doc, field)
	if !ok {
		return 0
	}
	s, ok := scalarText(v)
	if !ok {
		return 0
	}
	return phraseScore(s, p)
}

func phraseScore(value, phrase string) float64 {
	if !strings.Contains(value, phrase) {
		return 0
	}
	words := strings.Fields(phrase)
	if len(words) <= 1 || wordsInOrder(strings.Fields(value), words) {
		return Exact
	}
	return OutOfOrder
}

// wordsInOrder reports whether every phrase word is found, as a substring of
// successive value words, in order. Gaps are allowed.
func wordsInOrder(valueWords, phraseWords []string) bool {
	i := 0
	for _, vw := range valueWords {
		if i < len(phraseWords) && strings.Contains(vw, phraseWords[i]) {
			i++
			if i == len(phraseWords) {
				return true
			}
		}
	}
	return len(phraseWords) == 0
}

func multiMatch(doc any, fields []string, text string) float64 {
	if text == "" {
		return Exact
	}
	var best float64
	for _, f := range fields {
		if s := match(doc, f, text); s > best {
			best = s
		}
	}
	return best
}
