package schema_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/fra-atlas/atlas/pkg/schema"
)

const villageSchema = `{
	"type": "object",
	"required": ["name", "state"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"state": {"type": "string"},
		"population": {"type": "integer", "minimum": 0}
	},
	"additionalProperties": false
}`

type village struct {
	Name       string `json:"name"`
	State      string `json:"state"`
	Population int    `json:"population"`
}

func TestDecode(t *testing.T) {
	s := schema.MustCompile("village.json", []byte(villageSchema))

	v, err := schema.Decode[village](s, []byte(`{"name":"Banswara","state":"Rajasthan","population":1200}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if v.Name != "Banswara" || v.Population != 1200 {
		t.Errorf("got %+v", v)
	}
}

func TestValidateFailures(t *testing.T) {
	s := schema.MustCompile("village.json", []byte(villageSchema))

	tests := []struct {
		name    string
		body    string
		contain string
	}{
		{"malformed", `{"name":`, "malformed json"},
		{"missing required", `{"name":"Banswara"}`, "state"},
		{"wrong type", `{"name":"Banswara","state":"RJ","population":-1}`, "/population"},
		{"extra field", `{"name":"Banswara","state":"RJ","mayor":"x"}`, "mayor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate([]byte(tt.body))
			if !errors.Is(err, schema.ErrInvalidPayload) {
				t.Fatalf("got %v, want ErrInvalidPayload", err)
			}

			var ve *schema.ValidationError
			if !errors.As(err, &ve) || len(ve.Problems) == 0 {
				t.Fatalf("expected ValidationError with problems, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.contain) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.contain)
			}
		})
	}
}

func TestCompileInvalid(t *testing.T) {
	if _, err := schema.Compile("bad.json", []byte(`{"type": 12}`)); err == nil {
		t.Error("expected compile error")
	}
}
