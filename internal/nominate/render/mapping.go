package render

import (
	"time"

	"github.com/aussiebroadwan/nominate/internal/nominate/domain"
)

// AttrRenderTime is the pseudo attribute for the wall-clock time at render.
const AttrRenderTime = "render_time"

// TimestampLayout renders AttrRenderTime into text fields ("10/16/2026, 3:04:05 PM").
const TimestampLayout = "1/2/2006, 3:04:05 PM"

// FieldMapping binds one template form field to one nomination attribute.
type FieldMapping struct {
	Field string // form field name in the template
	Attr  string // nomination attribute, or AttrRenderTime
}

// FieldMap is the fixed template contract. Field names must match the
// template asset exactly, including the "achivement" spelling, and
// "achivement" deliberately shares its source with
// "other_qualification_details".
var FieldMap = []FieldMapping{
	{Field: "name_nominator", Attr: "nominator_name"},
	{Field: "nominator_designation", Attr: "nominator_affiliation"},
	{Field: "nominator_address", Attr: "nominator_address"},
	{Field: "nominator_email", Attr: "nominator_email"},
	{Field: "nominator_mobile", Attr: "nominator_mobile"},
	{Field: "nomination_category", Attr: "category"},
	{Field: "nominee_name", Attr: "nominee_name"},
	{Field: "nominee_father_name", Attr: "nominee_father"},
	{Field: "degree_obtained", Attr: "nominee_degree"},
	{Field: "branch", Attr: "nominee_branch"},
	{Field: "passing_year", Attr: "nominee_year"},
	{Field: "other_qualification_details", Attr: "nominee_qualifications"},
	{Field: "present_position", Attr: "nominee_present_position"},
	{Field: "past_position", Attr: "nominee_past_positions"},
	{Field: "communication_address", Attr: "nominee_address"},
	{Field: "nominee_email", Attr: "nominee_email"},
	{Field: "nominee_mobile", Attr: "nominee_mobile"},
	{Field: "achivement", Attr: "nominee_qualifications"},
	{Field: "webpage_url", Attr: "nominee_linkedin"},
	{Field: "other_information", Attr: "nominee_other_info"},
	{Field: "assessment", Attr: "assessment_note"},
	{Field: "date_of_submission", Attr: AttrRenderTime},
}

// attributes reads nomination attributes as template text.
var attributes = map[string]func(domain.Nomination) string{
	"nominator_name":           func(n domain.Nomination) string { return n.NominatorName },
	"nominator_affiliation":    func(n domain.Nomination) string { return n.NominatorAffiliation },
	"nominator_address":        func(n domain.Nomination) string { return n.NominatorAddress },
	"nominator_email":          func(n domain.Nomination) string { return n.NominatorEmail },
	"nominator_mobile":         func(n domain.Nomination) string { return n.NominatorMobile },
	"category":                 func(n domain.Nomination) string { return n.Category },
	"nominee_name":             func(n domain.Nomination) string { return n.NomineeName },
	"nominee_father":           func(n domain.Nomination) string { return n.NomineeFather },
	"nominee_degree":           func(n domain.Nomination) string { return n.NomineeDegree },
	"nominee_branch":           func(n domain.Nomination) string { return n.NomineeBranch },
	"nominee_year":             func(n domain.Nomination) string { return n.NomineeYear.String() },
	"nominee_qualifications":   func(n domain.Nomination) string { return n.NomineeQualifications },
	"nominee_present_position": func(n domain.Nomination) string { return n.NomineePresentPosition },
	"nominee_past_positions":   func(n domain.Nomination) string { return n.NomineePastPositions },
	"nominee_address":          func(n domain.Nomination) string { return n.NomineeAddress },
	"nominee_email":            func(n domain.Nomination) string { return n.NomineeEmail },
	"nominee_mobile":           func(n domain.Nomination) string { return n.NomineeMobile },
	"nominee_linkedin":         func(n domain.Nomination) string { return n.NomineeLinkedIn },
	"nominee_other_info":       func(n domain.Nomination) string { return n.NomineeOtherInfo },
	"assessment_note":          func(n domain.Nomination) string { return n.AssessmentNote },
}

// FieldValues is what a FormFiller writes into a template.
type FieldValues struct {
	// Text holds the value of every mapped field. Unset attributes are "".
	Text map[string]string

	// Times holds fields sourced from a point in time, so date-typed form
	// fields can be written in their own format. Each key is also in Text.
	Times map[string]time.Time
}

// Values applies FieldMap to n, stamping AttrRenderTime fields with now.
func Values(n domain.Nomination, now time.Time) FieldValues {
	v := FieldValues{
		Text:  make(map[string]string, len(FieldMap)),
		Times: make(map[string]time.Time, 1),
	}
	for _, m := range FieldMap {
		if m.Attr == AttrRenderTime {
			v.Text[m.Field] = now.Format(TimestampLayout)
			v.Times[m.Field] = now
			continue
		}
		get, ok := attributes[m.Attr]
		if !ok {
			v.Text[m.Field] = ""
			continue
		}
		v.Text[m.Field] = get(n)
	}
	return v
}

// SharedSources returns attributes that feed more than one template field.
func SharedSources() map[string][]string {
	byAttr := make(map[string][]string)
	for _, m := range FieldMap {
		byAttr[m.Attr] = append(byAttr[m.Attr], m.Field)
	}
	for attr, fields := range byAttr {
		if len(fields) < 2 {
			delete(byAttr, attr)
		}
	}
	return byAttr
}
