package query

import (
	"reflect"
	"strings"
)

// WhereEquals matches field = value. Nil values, including typed nil
// pointers from optional filters, add nothing.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col := b.projection.Column(field)
	return b.add(func(bind func(any) string) string {
		return col + " = " + bind(value)
	})
}

// WhereEqualsFold matches field case-insensitively. Nil or empty values add
// nothing.
func (b *Builder) WhereEqualsFold(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	col := b.projection.Column(field)
	return b.add(func(bind func(any) string) string {
		return "LOWER(" + col + ") = LOWER(" + bind(*value) + ")"
	})
}

// WhereContains matches field ILIKE %value%. Nil or empty values add nothing.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	col := b.projection.Column(field)
	return b.add(func(bind func(any) string) string {
		return col + " ILIKE " + bind("%"+*value+"%")
	})
}

// WhereSearch matches search as a substring of any of fields.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}
	pattern := "%" + *search + "%"
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = b.projection.Column(f)
	}

	return b.add(func(bind func(any) string) string {
		parts := make([]string, len(cols))
		for i, col := range cols {
			parts[i] = col + " ILIKE " + bind(pattern)
		}
		return "(" + strings.Join(parts, " OR ") + ")"
	})
}

func (b *Builder) add(c condition) *Builder {
	b.conditions = append(b.conditions, c)
	return b
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
