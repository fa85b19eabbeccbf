package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/csg33k/paycalc/internal/domain"
)

type envelope struct {
	SchemaVersion string                 `json:"schemaVersion"`
	Generator     string                 `json:"generator"`
	GeneratedAt   time.Time              `json:"generatedAt"`
	Type          domain.CalculationType `json:"type"`
	Title         string                 `json:"title"`
	Subtitle      string                 `json:"subtitle,omitempty"`
	Sections      []jsonSection          `json:"sections"`
	Formulas      map[string]string      `json:"formulas"`
	Notes         []string               `json:"notes,omitempty"`
	Input         any                    `json:"input,omitempty"`
	Result        any                    `json:"result"`
}

type jsonSection struct {
	Name   string      `json:"name"`
	Title  string      `json:"title"`
	Fields []jsonField `json:"fields"`
}

type jsonField struct {
	Key      string           `json:"key"`
	Label    string           `json:"label"`
	Value    *decimal.Decimal `json:"value,omitempty"`
	Text     string           `json:"text,omitempty"`
	Display  string           `json:"display"`
	Unit     string           `json:"unit"`
	Emphasis bool             `json:"emphasis,omitempty"`
}

func writeJSON(d *document, now time.Time, w io.Writer) error {
	env := envelope{
		SchemaVersion: SchemaVersion,
		Generator:     "paycalc",
		GeneratedAt:   now,
		Type:          d.kind,
		Title:         d.title,
		Subtitle:      d.subtitle,
		Formulas:      d.formulas,
		Notes:         d.notes,
		Input:         d.input,
		Result:        d.result,
	}
	for _, s := range d.sections {
		js := jsonSection{Name: s.key, Title: s.title}
		for _, l := range s.lines {
			f := jsonField{Key: l.key, Label: l.label, Display: l.display(), Unit: string(l.unit), Emphasis: l.emphasis}
			if l.unit == unitText {
				f.Text = l.text
			} else {
				v := l.raw
				f.Value = &v
			}
			js.Fields = append(js.Fields, f)
		}
		env.Sections = append(env.Sections, js)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}
