package extract_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fra-atlas/atlas/pkg/extract"
)

func TestDefaultRegistry(t *testing.T) {
	reg := extract.Default()

	base := []string{"holder_name", "village", "district", "area", "survey_number"}

	tests := []struct {
		form  extract.FormType
		extra []string
	}{
		{extract.FormUnknown, []string{"father_name"}},
		{extract.FormA, []string{"father_name", "claimant_category", "forest_village"}},
		{extract.FormB, []string{"gram_sabha", "community_name", "family_count"}},
		{extract.FormC, []string{"resource_type", "seasonal_access", "traditional_use"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.form), func(t *testing.T) {
			schema, err := reg.Schema(tt.form)
			require.NoError(t, err)
			assert.Equal(t, append(append([]string{}, base...), tt.extra...), schema.Fields())
		})
	}

	assert.Len(t, reg.Schemas(), 4)
}

func TestClassifyForm(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantForm extract.FormType
		wantConf float64
	}{
		{"no indicators", "hello world", extract.FormUnknown, 0},
		{"empty", "", extract.FormUnknown, 0},
		{"community rights only", "Community rights claim covering nistar and grazing", extract.FormB, 1},
		{"individual with bonus", "Individual forest right claim on forest land", extract.FormA, 1},
		{"tie resolves to form a", "form a and form b", extract.FormA, 0.5},
		{"tie between b and c resolves to b", "grazing and regenerate", extract.FormB, 0.5},
		{
			"resource bonus outweighs gram sabha bonus",
			"Community forest resource conservation plan. Gram Sabha resolves to protect the resource.",
			extract.FormC,
			5.0 / 7.0,
		},
		{"devanagari indicators", "सामुदायिक वन संसाधन का संरक्षण", extract.FormC, 1},
		{"whole words only", "the protectorate platform", extract.FormUnknown, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form, conf := extract.ClassifyForm(tt.text)
			assert.Equal(t, tt.wantForm, form)
			assert.InDelta(t, tt.wantConf, conf, 1e-9)
		})
	}
}

func TestExtract(t *testing.T) {
	t.Run("english claim", func(t *testing.T) {
		entities, err := extract.Extract("Name: Rajesh Kumar, Village: Banswara, Area: 2.5 hectare", extract.FormA)
		require.NoError(t, err)

		area, ok := entities.Number("area")
		require.True(t, ok)
		assert.Equal(t, 2.5, area)
		assert.Equal(t, "Banswara", entities.String("village"))
		assert.Equal(t, "Rajesh Kumar", entities.String("holder_name"))
		assert.NotContains(t, entities, "district")
	})

	t.Run("values stay on their line", func(t *testing.T) {
		entities, err := extract.Extract("Name: Sita Devi\nDistrict: Dantewada\nSurvey No: 112/4", extract.FormUnknown)
		require.NoError(t, err)

		assert.Equal(t, "Sita Devi", entities.String("holder_name"))
		assert.Equal(t, "Dantewada", entities.String("district"))
		assert.Equal(t, "1124", entities.String("survey_number"))
	})

	t.Run("short capture falls through to next rule", func(t *testing.T) {
		entities, err := extract.Extract("Name: A\nनाम: सीता देवी", extract.FormUnknown)
		require.NoError(t, err)
		assert.Equal(t, "सीता देवी", entities.String("holder_name"))
	})

	t.Run("devanagari village", func(t *testing.T) {
		entities, err := extract.Extract("ग्राम: रामपुर", extract.FormA)
		require.NoError(t, err)
		assert.Equal(t, "रामपुर", entities.String("village"))
	})

	t.Run("area from hectare suffix", func(t *testing.T) {
		entities, err := extract.Extract("Land of 3.75 hectare under cultivation", extract.FormA)
		require.NoError(t, err)

		area, ok := entities.Number("area")
		require.True(t, ok)
		assert.Equal(t, 3.75, area)
	})

	t.Run("area with leading decimal point", func(t *testing.T) {
		for text, want := range map[string]float64{
			"Area: .5 hectare":    0.5,
			"Area: 1.2.3 hectare": 1.2,
		} {
			entities, err := extract.Extract(text, extract.FormA)
			require.NoError(t, err)

			area, ok := entities.Number("area")
			require.True(t, ok, text)
			assert.Equal(t, want, area, text)
		}
	})

	t.Run("area without a number is dropped", func(t *testing.T) {
		entities, err := extract.Extract("Area: ...", extract.FormA)
		require.NoError(t, err)
		assert.NotContains(t, entities, "area")
	})

	t.Run("punctuation is stripped", func(t *testing.T) {
		entities, err := extract.Extract("गांव: रामपुर!!", extract.FormUnknown)
		require.NoError(t, err)
		assert.Equal(t, "रामपुर", entities.String("village"))
	})

	t.Run("form b fields", func(t *testing.T) {
		text := "Gram Sabha: Kondagaon\nCommunity Name: Gond\nFamilies: 48"
		entities, err := extract.Extract(text, extract.FormB)
		require.NoError(t, err)

		assert.Equal(t, "Kondagaon", entities.String("gram_sabha"))
		assert.Equal(t, "Gond", entities.String("community_name"))
		assert.Equal(t, "48", entities.String("family_count"))
	})

	t.Run("unsupported form type", func(t *testing.T) {
		_, err := extract.Extract("Name: Rajesh", extract.FormType("FORM_Z"))

		var ufe *extract.UnsupportedFormTypeError
		require.True(t, errors.As(err, &ufe))
		assert.Equal(t, "FORM_Z", ufe.FormType)
	})
}

func TestScoreExtraction(t *testing.T) {
	schema, err := extract.Default().Schema(extract.FormB)
	require.NoError(t, err)

	entities := extract.Entities{}
	prev := extract.ScoreExtraction(entities, schema)
	assert.Equal(t, 0.0, prev.Confidence)
	assert.Equal(t, extract.QualityLow, prev.Quality)

	for _, field := range schema.Fields() {
		entities[field] = "value"
		next := extract.ScoreExtraction(entities, schema)
		assert.GreaterOrEqual(t, next.Confidence, prev.Confidence)
		prev = next
	}

	assert.Equal(t, 100.0, prev.Confidence)
	assert.Equal(t, schema.Len(), prev.ExtractedFields)
	assert.Equal(t, extract.QualityHigh, prev.Quality)
}

func TestScoreExtractionEmptyValues(t *testing.T) {
	schema, err := extract.Default().Schema(extract.FormUnknown)
	require.NoError(t, err)

	v := extract.ScoreExtraction(extract.Entities{
		"holder_name": "  ",
		"area":        0.0,
		"village":     "Banswara",
		"unrelated":   "ignored",
	}, schema)

	assert.Equal(t, 1, v.ExtractedFields)
	assert.Equal(t, 6, v.TotalFields)
}

func fiveFieldRegistry(t *testing.T) *extract.Registry {
	t.Helper()

	var b strings.Builder
	b.WriteString("base:\n")
	for i := range 5 {
		fmt.Fprintf(&b, "  - name: f%d\n    rules:\n      - pattern: 'f%d:\\s*(\\w+)'\n", i, i)
	}

	reg, err := extract.Load(strings.NewReader(b.String()))
	require.NoError(t, err)
	return reg
}

func TestScoreExtractionQualityBoundaries(t *testing.T) {
	reg := fiveFieldRegistry(t)
	schema, err := reg.Schema(extract.FormA)
	require.NoError(t, err)

	tests := []struct {
		present int
		want    extract.Quality
	}{
		{0, extract.QualityLow},
		{2, extract.QualityLow},
		{3, extract.QualityMedium},
		{4, extract.QualityHigh},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d of 5", tt.present), func(t *testing.T) {
			entities := extract.Entities{}
			for i := range tt.present {
				entities[fmt.Sprintf("f%d", i)] = "x1"
			}
			assert.Equal(t, tt.want, extract.ScoreExtraction(entities, schema).Quality)
		})
	}
}

func TestLoadRejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no base", "forms: {}\n"},
		{"bad pattern", "base:\n  - name: a\n    rules:\n      - pattern: '([a-z'\n"},
		{"group out of range", "base:\n  - name: a\n    rules:\n      - pattern: 'a'\n"},
		{"unknown form", "base:\n  - name: a\n    rules:\n      - pattern: '(a)'\nforms:\n  FORM_Z: []\n"},
		{"duplicate field", "base:\n  - name: a\n    rules:\n      - pattern: '(a)'\nforms:\n  FORM_A:\n    - name: a\n      rules:\n        - pattern: '(b)'\n"},
		{"unknown script", "base:\n  - name: a\n    rules:\n      - pattern: '(a)'\n        script: cyrillic\n"},
		{"unknown key", "base:\n  - name: a\n    rules:\n      - pattern: '(a)'\nextra: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extract.Load(strings.NewReader(tt.yaml))
			assert.ErrorIs(t, err, extract.ErrInvalidRegistry)
		})
	}
}
