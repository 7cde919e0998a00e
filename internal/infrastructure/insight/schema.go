package insight

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"eventledger/internal/domain/entities"
)

// schema is the subset of JSON Schema shared by Gemini's responseSchema and
// the local validator. One value renders to both dialects.
type schema struct {
	Type       string
	Properties map[string]*schema
	Items      *schema
	Required   []string
	Minimum    *float64
	Maximum    *float64
}

func bound(v float64) *float64 { return &v }

var (
	str     = &schema{Type: "string"}
	num     = &schema{Type: "number"}
	strList = &schema{Type: "array", Items: str}
)

var kindSchemas = map[entities.InsightKind]*schema{
	entities.InsightForecast: {
		Type: "object",
		Properties: map[string]*schema{
			"predictedCount": {Type: "number", Minimum: bound(0)},
			"reasoning":      str,
		},
		Required: []string{"predictedCount", "reasoning"},
	},
	entities.InsightTrends: {
		Type: "object",
		Properties: map[string]*schema{
			"activeDepartments": strList,
			"trends":            str,
			"recommendations":   strList,
		},
		Required: []string{"activeDepartments", "trends", "recommendations"},
	},
	entities.InsightPrediction: {
		Type: "object",
		Properties: map[string]*schema{
			"predicted_attendance_count": {Type: "number", Minimum: bound(0)},
			"confidence_score":           {Type: "number", Minimum: bound(0), Maximum: bound(1)},
			"reasoning":                  str,
			"suggestions":                strList,
		},
		Required: []string{"predicted_attendance_count", "confidence_score", "reasoning", "suggestions"},
	},
}

// geminiDialect renders the schema with Gemini's upper-case type names.
func (s *schema) geminiDialect() map[string]any {
	return s.render(strings.ToUpper, false)
}

// jsonSchema renders a draft-07 document for gojsonschema.
func (s *schema) jsonSchema() map[string]any {
	return s.render(func(t string) string { return t }, true)
}

func (s *schema) render(typeName func(string) string, bounds bool) map[string]any {
	out := map[string]any{"type": typeName(s.Type)}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = p.render(typeName, bounds)
		}
		out["properties"] = props
	}
	if s.Items != nil {
		out["items"] = s.Items.render(typeName, bounds)
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	if bounds && s.Minimum != nil {
		out["minimum"] = *s.Minimum
	}
	if bounds && s.Maximum != nil {
		out["maximum"] = *s.Maximum
	}
	return out
}

// validators holds one compiled gojsonschema schema per insight kind.
type validators map[entities.InsightKind]*gojsonschema.Schema

func compileValidators() (validators, error) {
	v := make(validators, len(kindSchemas))
	for kind, s := range kindSchemas {
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(s.jsonSchema()))
		if err != nil {
			return nil, fmt.Errorf("cannot compile schema %s: %w", kind, err)
		}
		v[kind] = compiled
	}
	return v, nil
}

func (v validators) validate(kind entities.InsightKind, doc []byte) error {
	compiled, ok := v[kind]
	if !ok {
		return fmt.Errorf("there is no schema %s", kind)
	}
	result, err := compiled.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("cannot validate with schema %s: %w", kind, err)
	}
	if !result.Valid() {
		msg := "the document is not valid:"
		for _, e := range result.Errors() {
			msg += fmt.Sprintf("\n- %s", e)
		}
		return errors.New(msg)
	}
	return nil
}
