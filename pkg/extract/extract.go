package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Entities maps field names to extracted values. Values are strings,
// except number fields which hold float64.
type Entities map[string]any

// String returns a text field, or "" when absent.
func (e Entities) String(field string) string {
	s, _ := e[field].(string)
	return s
}

// Number returns a number field and whether it was extracted.
func (e Entities) Number(field string) (float64, bool) {
	f, ok := e[field].(float64)
	return f, ok
}

// Present reports whether field holds a non-empty value. A zero number
// counts as empty.
func (e Entities) Present(field string) bool {
	switch v := e[field].(type) {
	case string:
		return strings.TrimSpace(v) != ""
	case float64:
		return v != 0
	case nil:
		return false
	default:
		return true
	}
}

var leadingNumber = regexp.MustCompile(`[0-9]*\.?[0-9]+`)

const minValueLength = 2

// Extract applies the schema for form to text, trying every rule.
func (r *Registry) Extract(text string, form FormType) (Entities, error) {
	schema, err := r.Schema(form)
	if err != nil {
		return nil, err
	}
	return extract(text, schema, LanguageMixed), nil
}

// Extract applies the default registry.
func Extract(text string, form FormType) (Entities, error) {
	return Default().Extract(text, form)
}

func extract(text string, schema Schema, lang Language) Entities {
	entities := make(Entities, len(schema.fields))
	for _, field := range schema.fields {
		if v, ok := field.extract(text, lang); ok {
			entities[field.Name] = v
		}
	}
	return entities
}

// extract returns the first usable capture across the field's rules.
// A capture too short after cleaning falls through to the next rule.
func (f FieldSpec) extract(text string, lang Language) (any, bool) {
	for _, rule := range f.rules {
		if !lang.allows(rule.script) {
			continue
		}

		m := rule.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		value := cleanValue(m[rule.group])
		if utf8.RuneCountInString(value) < minValueLength {
			continue
		}

		if f.Type == ValueNumber {
			n, err := strconv.ParseFloat(leadingNumber.FindString(value), 64)
			if err != nil {
				return nil, false
			}
			return n, true
		}
		return value, true
	}
	return nil, false
}

// cleanValue drops everything except letters, digits, combining marks,
// whitespace, '.', '-' and '_', then trims.
func cleanValue(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), unicode.IsMark(r), unicode.IsSpace(r):
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return -1
		}
	}, s)
	return strings.TrimSpace(s)
}
