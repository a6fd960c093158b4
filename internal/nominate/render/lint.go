package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ledongthuc/pdf"
)

// LintReport describes how a template lines up with FieldMap.
type LintReport struct {
	TemplateFields []string            // terminal field names found in the template
	Missing        []string            // mapped fields the template lacks
	Unmapped       []string            // template fields FieldMap never fills
	SharedSources  map[string][]string // attributes feeding more than one field
}

// FormFields lists the fully qualified names of terminal AcroForm fields.
func FormFields(doc []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	fields := r.Trailer().Key("Root").Key("AcroForm").Key("Fields")
	var names []string
	for i := 0; i < fields.Len(); i++ {
		collectFields(fields.Index(i), "", &names)
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

func collectFields(v pdf.Value, parent string, out *[]string) {
	name := v.Key("T").Text()
	full := name
	if parent != "" && name != "" {
		full = parent + "." + name
	} else if name == "" {
		full = parent
	}

	kids := v.Key("Kids")
	named := 0
	for i := 0; i < kids.Len(); i++ {
		kid := kids.Index(i)
		if kid.Key("T").Text() != "" {
			named++
			collectFields(kid, full, out)
		}
	}
	// Kids without a name are widgets of this field.
	if named == 0 && full != "" {
		*out = append(*out, full)
	}
}

// LintTemplate compares the template's form fields with FieldMap.
func LintTemplate(doc []byte) (LintReport, error) {
	fields, err := FormFields(doc)
	if err != nil {
		return LintReport{}, err
	}

	report := LintReport{TemplateFields: fields, SharedSources: SharedSources()}
	mapped := make(map[string]struct{}, len(FieldMap))
	for _, m := range FieldMap {
		mapped[m.Field] = struct{}{}
		if !slices.Contains(fields, m.Field) {
			report.Missing = append(report.Missing, m.Field)
		}
	}
	for _, f := range fields {
		if _, ok := mapped[f]; !ok {
			report.Unmapped = append(report.Unmapped, f)
		}
	}
	return report, nil
}

// LogLint loads the template and logs any mismatches. It never fails
// startup; a bad template only affects rendering.
func LogLint(ctx context.Context, log *slog.Logger, source *TemplateSource) {
	doc, err := source.Load()
	if err != nil {
		log.WarnContext(ctx, "template not readable", slog.String("path", source.Path()), slog.Any("err", err))
		return
	}
	report, err := LintTemplate(doc)
	if err != nil {
		log.WarnContext(ctx, "template not parseable", slog.String("path", source.Path()), slog.Any("err", err))
		return
	}

	log.InfoContext(ctx, "template loaded",
		slog.String("path", source.Path()),
		slog.Int("fields", len(report.TemplateFields)),
	)
	if len(report.Missing) > 0 {
		log.WarnContext(ctx, "template is missing mapped fields", slog.Any("fields", report.Missing))
	}
	if len(report.Unmapped) > 0 {
		log.InfoContext(ctx, "template has unmapped fields", slog.Any("fields", report.Unmapped))
	}
	for attr, fields := range report.SharedSources {
		log.WarnContext(ctx, "attribute fills more than one template field",
			slog.String("attribute", attr),
			slog.Any("fields", fields),
		)
	}
}
