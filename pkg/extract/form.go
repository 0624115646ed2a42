package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// FormType identifies the Forest Rights Act claim form a document carries.
type FormType string

const (
	FormA       FormType = "FORM_A"
	FormB       FormType = "FORM_B"
	FormC       FormType = "FORM_C"
	FormUnknown FormType = "UNKNOWN"
)

// classified lists the form types classification can select, in tie-break
// priority order.
var classified = []FormType{FormA, FormB, FormC}

// FormTypes returns every known form type.
func FormTypes() []FormType {
	return []FormType{FormA, FormB, FormC, FormUnknown}
}

// ParseFormType accepts a form type name in any letter case.
func ParseFormType(s string) (FormType, error) {
	ft := FormType(strings.ToUpper(strings.TrimSpace(s)))
	switch ft {
	case FormA, FormB, FormC, FormUnknown:
		return ft, nil
	default:
		return "", &UnsupportedFormTypeError{FormType: s}
	}
}

// keyword matches a single classification indicator.
type keyword struct {
	text string
	re   *regexp.Regexp
}

func newKeyword(text string) keyword {
	text = strings.ToLower(strings.TrimSpace(text))
	k := keyword{text: text}
	if isASCII(text) {
		k.re = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(text) + `\b`)
	}
	return k
}

func (k keyword) in(text, lower string) bool {
	if k.re != nil {
		return k.re.MatchString(text)
	}
	return strings.Contains(lower, k.text)
}

// bonus adds weight to a form when every keyword in all and at least one
// keyword in any (when given) are present.
type bonus struct {
	form   FormType
	all    []keyword
	any    []keyword
	weight int
}

func (b bonus) applies(text, lower string) bool {
	for _, k := range b.all {
		if !k.in(text, lower) {
			return false
		}
	}
	if len(b.any) == 0 {
		return true
	}
	for _, k := range b.any {
		if k.in(text, lower) {
			return true
		}
	}
	return false
}

// Scores returns the keyword score of every classified form type.
func (r *Registry) Scores(text string) map[FormType]int {
	lower := strings.ToLower(text)
	scores := make(map[FormType]int, len(classified))

	for _, ft := range classified {
		for _, k := range r.indicators[ft] {
			if k.in(text, lower) {
				scores[ft]++
			}
		}
	}

	for _, b := range r.bonuses {
		if b.applies(text, lower) {
			scores[b.form] += b.weight
		}
	}

	return scores
}

// Classify picks the form type with the highest keyword score. Ties go to
// FORM_A, then FORM_B, then FORM_C. Text without indicators is UNKNOWN
// with zero confidence.
func (r *Registry) Classify(text string) (FormType, float64) {
	scores := r.Scores(text)

	best, top, total := FormUnknown, 0, 0
	for _, ft := range classified {
		s := scores[ft]
		total += s
		if s > top {
			best, top = ft, s
		}
	}

	if top == 0 {
		return FormUnknown, 0
	}
	return best, float64(top) / float64(total)
}

// ClassifyForm classifies text against the default registry.
func ClassifyForm(text string) (FormType, float64) {
	return Default().Classify(text)
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
