package extract

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed forms.yaml
var formsYAML []byte

// Script limits a rule to documents containing that writing system.
type Script string

const (
	ScriptAny        Script = ""
	ScriptLatin      Script = "latin"
	ScriptDevanagari Script = "devanagari"
)

// ValueType selects post-processing for an extracted value.
type ValueType string

const (
	ValueText   ValueType = "text"
	ValueNumber ValueType = "number"
)

// Rule is a single pattern whose capture group holds a field value.
type Rule struct {
	pattern *regexp.Regexp
	group   int
	script  Script
}

// FieldSpec is a named field and its rules in priority order.
type FieldSpec struct {
	Name  string
	Type  ValueType
	rules []Rule
}

// Schema is the ordered field set extracted for one form type.
type Schema struct {
	Form   FormType
	fields []FieldSpec
}

// Fields returns the field names in extraction order.
func (s Schema) Fields() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

func (s Schema) Len() int {
	return len(s.fields)
}

// Registry holds the extraction schemas and classification keywords.
// A Registry is immutable after loading and safe for concurrent use.
type Registry struct {
	schemas    map[FormType]Schema
	indicators map[FormType][]keyword
	bonuses    []bonus
}

var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	return Load(bytes.NewReader(formsYAML))
})

// Default returns the registry built from the embedded form table.
func Default() *Registry {
	r, err := defaultRegistry()
	if err != nil {
		panic(fmt.Sprintf("extract: embedded form table: %v", err))
	}
	return r
}

// LoadFile reads a registry from a YAML file on disk.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open form table: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Schema returns the schema registered for ft.
func (r *Registry) Schema(ft FormType) (Schema, error) {
	s, ok := r.schemas[ft]
	if !ok {
		return Schema{}, &UnsupportedFormTypeError{FormType: string(ft)}
	}
	return s, nil
}

// Schemas returns every registered schema in FormTypes order.
func (r *Registry) Schemas() []Schema {
	out := make([]Schema, 0, len(r.schemas))
	for _, ft := range FormTypes() {
		if s, ok := r.schemas[ft]; ok {
			out = append(out, s)
		}
	}
	return out
}

type ruleDoc struct {
	Pattern string `yaml:"pattern"`
	Group   int    `yaml:"group"`
	Script  string `yaml:"script"`
}

type fieldDoc struct {
	Name  string    `yaml:"name"`
	Type  string    `yaml:"type"`
	Rules []ruleDoc `yaml:"rules"`
}

type bonusDoc struct {
	Form   string   `yaml:"form"`
	All    []string `yaml:"all"`
	Any    []string `yaml:"any"`
	Weight int      `yaml:"weight"`
}

type registryDoc struct {
	Base           []fieldDoc            `yaml:"base"`
	Shared         map[string]fieldDoc   `yaml:"shared"`
	Forms          map[string][]fieldDoc `yaml:"forms"`
	Classification struct {
		Indicators map[string][]string `yaml:"indicators"`
		Bonuses    []bonusDoc          `yaml:"bonuses"`
	} `yaml:"classification"`
}

// Load builds a registry from a YAML form table. Every form type gets the
// base fields followed by the fields listed under its own key.
func Load(r io.Reader) (*Registry, error) {
	var doc registryDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistry, err)
	}

	if len(doc.Base) == 0 {
		return nil, fmt.Errorf("%w: no base fields", ErrInvalidRegistry)
	}

	base, err := compileFields(doc.Base)
	if err != nil {
		return nil, err
	}

	reg := &Registry{
		schemas:    make(map[FormType]Schema, 4),
		indicators: make(map[FormType][]keyword, len(classified)),
	}

	for key := range doc.Forms {
		if _, err := ParseFormType(key); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRegistry, err)
		}
	}

	for _, ft := range FormTypes() {
		extra, err := compileFields(doc.Forms[string(ft)])
		if err != nil {
			return nil, err
		}

		fields := slices.Concat(base, extra)
		if err := uniqueNames(ft, fields); err != nil {
			return nil, err
		}
		reg.schemas[ft] = Schema{Form: ft, fields: fields}
	}

	for key, words := range doc.Classification.Indicators {
		ft, err := ParseFormType(key)
		if err != nil || ft == FormUnknown {
			return nil, fmt.Errorf("%w: indicators for %q", ErrInvalidRegistry, key)
		}
		for _, w := range words {
			reg.indicators[ft] = append(reg.indicators[ft], newKeyword(w))
		}
	}

	for _, b := range doc.Classification.Bonuses {
		ft, err := ParseFormType(b.Form)
		if err != nil || ft == FormUnknown {
			return nil, fmt.Errorf("%w: bonus for %q", ErrInvalidRegistry, b.Form)
		}
		if len(b.All) == 0 || b.Weight <= 0 {
			return nil, fmt.Errorf("%w: bonus for %s needs keywords and a positive weight", ErrInvalidRegistry, ft)
		}
		reg.bonuses = append(reg.bonuses, bonus{
			form:   ft,
			all:    keywords(b.All),
			any:    keywords(b.Any),
			weight: b.Weight,
		})
	}

	return reg, nil
}

func keywords(words []string) []keyword {
	out := make([]keyword, len(words))
	for i, w := range words {
		out[i] = newKeyword(w)
	}
	return out
}

func compileFields(docs []fieldDoc) ([]FieldSpec, error) {
	fields := make([]FieldSpec, 0, len(docs))
	for _, d := range docs {
		if d.Name == "" {
			return nil, fmt.Errorf("%w: field without name", ErrInvalidRegistry)
		}
		if len(d.Rules) == 0 {
			return nil, fmt.Errorf("%w: field %s has no rules", ErrInvalidRegistry, d.Name)
		}

		spec := FieldSpec{Name: d.Name, Type: ValueType(d.Type)}
		switch spec.Type {
		case "":
			spec.Type = ValueText
		case ValueText, ValueNumber:
		default:
			return nil, fmt.Errorf("%w: field %s has unknown type %q", ErrInvalidRegistry, d.Name, d.Type)
		}

		for i, rd := range d.Rules {
			rule, err := compileRule(rd)
			if err != nil {
				return nil, fmt.Errorf("%w: field %s rule %d: %v", ErrInvalidRegistry, d.Name, i, err)
			}
			spec.rules = append(spec.rules, rule)
		}
		fields = append(fields, spec)
	}
	return fields, nil
}

func compileRule(d ruleDoc) (Rule, error) {
	re, err := regexp.Compile(`(?im)` + d.Pattern)
	if err != nil {
		return Rule{}, err
	}

	group := d.Group
	if group == 0 {
		group = 1
	}
	if group > re.NumSubexp() {
		return Rule{}, fmt.Errorf("group %d out of range (%d groups)", group, re.NumSubexp())
	}

	script := Script(d.Script)
	switch script {
	case ScriptAny, ScriptLatin, ScriptDevanagari:
	default:
		return Rule{}, fmt.Errorf("unknown script %q", d.Script)
	}

	return Rule{pattern: re, group: group, script: script}, nil
}

func uniqueNames(ft FormType, fields []FieldSpec) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: %s declares field %s twice", ErrInvalidRegistry, ft, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}
