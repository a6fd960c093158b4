package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// Keep pdfcpu from creating a user config directory on first use.
	model.ConfigPath = "disable"
}

// FormFiller writes values into the AcroForm of a template and returns the
// resulting document with every field read-only.
type FormFiller interface {
	Fill(ctx context.Context, template []byte, values FieldValues) ([]byte, error)
}

// PDFCPUFiller fills forms with pdfcpu. Fields named in values but absent
// from the template are ignored. Template fields that are not mapped keep
// whatever default they carry.
//
// Output fields are set read-only rather than merged into page content, so
// an editor that ignores or clears the read-only flag can still change them.
type PDFCPUFiller struct{}

func NewPDFCPUFiller() *PDFCPUFiller { return &PDFCPUFiller{} }

func (f *PDFCPUFiller) config() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	// Classic xref tables keep the output readable by simpler PDF parsers.
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false
	return conf
}

func (f *PDFCPUFiller) Fill(ctx context.Context, template []byte, values FieldValues) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conf := f.config()

	var exported bytes.Buffer
	if err := api.ExportFormJSON(bytes.NewReader(template), &exported, "template.pdf", conf); err != nil {
		return nil, fmt.Errorf("export form: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(exported.Bytes(), &doc); err != nil {
		return nil, fmt.Errorf("decode form: %w", err)
	}
	filled := template
	if applyValues(doc, values) > 0 {
		formJSON, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode form: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := api.FillForm(bytes.NewReader(template), bytes.NewReader(formJSON), &buf, conf); err != nil {
			return nil, fmt.Errorf("fill form: %w", err)
		}
		filled = buf.Bytes()
	}

	// Lock even when no mapped field exists; unmapped fields must not stay
	// editable either.
	var locked bytes.Buffer
	if err := api.LockFormFields(bytes.NewReader(filled), &locked, nil, conf); err != nil {
		return nil, fmt.Errorf("lock form: %w", err)
	}
	return locked.Bytes(), nil
}

// applyValues sets values on the exported form document in place and
// returns how many template fields were touched.
func applyValues(doc map[string]any, values FieldValues) int {
	forms, _ := doc["forms"].([]any)
	touched := 0
	for _, rawForm := range forms {
		form, ok := rawForm.(map[string]any)
		if !ok {
			continue
		}
		for _, f := range fieldList(form, "textfield") {
			name, _ := f["name"].(string)
			v, ok := values.Text[name]
			if !ok {
				continue
			}
			f["value"] = v
			f["locked"] = true
			touched++
		}
		for _, f := range fieldList(form, "datefield") {
			name, _ := f["name"].(string)
			v, ok := values.Text[name]
			if !ok {
				continue
			}
			if t, ok := values.Times[name]; ok {
				format, _ := f["format"].(string)
				v = t.Format(dateLayout(format))
			}
			f["value"] = v
			f["locked"] = true
			touched++
		}
	}
	return touched
}

func fieldList(form map[string]any, kind string) []map[string]any {
	raw, _ := form[kind].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

var dateTokens = strings.NewReplacer("yyyy", "2006", "yy", "06", "mm", "01", "dd", "02")

// dateLayout turns a form date format such as "dd.mm.yyyy" into a Go layout.
func dateLayout(format string) string {
	if format == "" {
		return "2006-01-02"
	}
	return dateTokens.Replace(strings.ToLower(format))
}
