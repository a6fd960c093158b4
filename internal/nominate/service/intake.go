package service

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/leebenson/conform"

	"github.com/aussiebroadwan/nominate/internal/nominate/domain"
	"github.com/aussiebroadwan/nominate/pkg/idx"
)

// ErrRejected marks a submission the intake refused. The wrapped message is
// safe to show to the submitter.
var ErrRejected = errors.New("submission rejected")

// MaxFieldLength bounds every text field, in characters.
const MaxFieldLength = 10000

const defaultFileField = "cv"

// RawSubmission is the untyped form body.
type RawSubmission struct {
	Fields map[string]string
	File   *FilePayload
}

// FilePayload is one uploaded file part.
type FilePayload struct {
	FieldName   string
	Filename    string
	ContentType string
	Data        []byte
}

// StagedFile is a validated upload with its derived storage name.
type StagedFile struct {
	Name        string // blob name, <field>-<ulid><ext>
	Filename    string // original base name
	ContentType string
	Data        []byte
}

// Candidate is a validated nomination waiting to be stored.
type Candidate struct {
	Nomination domain.Nomination
	File       *StagedFile
}

// submissionForm mirrors the public form. assessment_note is absent on
// purpose: it is never accepted from submitters.
type submissionForm struct {
	NominatorName          string `conform:"trim" validate:"max=10000"`
	NominatorAffiliation   string `conform:"trim" validate:"max=10000"`
	NominatorAddress       string `conform:"trim" validate:"max=10000"`
	NominatorEmail         string `conform:"trim" validate:"max=10000"`
	NominatorMobile        string `conform:"trim" validate:"max=10000"`
	Category               string `conform:"trim" validate:"max=10000"`
	NomineeName            string `conform:"trim" validate:"max=10000"`
	NomineeFather          string `conform:"trim" validate:"max=10000"`
	NomineeDegree          string `conform:"trim" validate:"max=10000"`
	NomineeBranch          string `conform:"trim" validate:"max=10000"`
	NomineeYear            string `conform:"trim" validate:"max=10000"`
	NomineeQualifications  string `conform:"trim" validate:"max=10000"`
	NomineePresentPosition string `conform:"trim" validate:"max=10000"`
	NomineePastPositions   string `conform:"trim" validate:"max=10000"`
	NomineeAddress         string `conform:"trim" validate:"max=10000"`
	NomineeEmail           string `conform:"trim" validate:"max=10000"`
	NomineeMobile          string `conform:"trim" validate:"max=10000"`
	NomineeLinkedIn        string `conform:"trim" validate:"max=10000"`
	NomineeOtherInfo       string `conform:"trim" validate:"max=10000"`
}

// formFieldNames maps struct fields back to their form names for error messages.
var formFieldNames = map[string]string{
	"NominatorName":          "nominator_name",
	"NominatorAffiliation":   "nominator_affiliation",
	"NominatorAddress":       "nominator_address",
	"NominatorEmail":         "nominator_email",
	"NominatorMobile":        "nominator_mobile",
	"Category":               "category",
	"NomineeName":            "nominee_name",
	"NomineeFather":          "nominee_father",
	"NomineeDegree":          "nominee_degree",
	"NomineeBranch":          "nominee_branch",
	"NomineeYear":            "nominee_year",
	"NomineeQualifications":  "nominee_qualifications",
	"NomineePresentPosition": "nominee_present_position",
	"NomineePastPositions":   "nominee_past_positions",
	"NomineeAddress":         "nominee_address",
	"NomineeEmail":           "nominee_email",
	"NomineeMobile":          "nominee_mobile",
	"NomineeLinkedIn":        "nominee_linkedin",
	"NomineeOtherInfo":       "nominee_other_info",
}

func formFromFields(f map[string]string) submissionForm {
	return submissionForm{
		NominatorName:          f["nominator_name"],
		NominatorAffiliation:   f["nominator_affiliation"],
		NominatorAddress:       f["nominator_address"],
		NominatorEmail:         f["nominator_email"],
		NominatorMobile:        f["nominator_mobile"],
		Category:               f["category"],
		NomineeName:            f["nominee_name"],
		NomineeFather:          f["nominee_father"],
		NomineeDegree:          f["nominee_degree"],
		NomineeBranch:          f["nominee_branch"],
		NomineeYear:            f["nominee_year"],
		NomineeQualifications:  f["nominee_qualifications"],
		NomineePresentPosition: f["nominee_present_position"],
		NomineePastPositions:   f["nominee_past_positions"],
		NomineeAddress:         f["nominee_address"],
		NomineeEmail:           f["nominee_email"],
		NomineeMobile:          f["nominee_mobile"],
		NomineeLinkedIn:        f["nominee_linkedin"],
		NomineeOtherInfo:       f["nominee_other_info"],
	}
}

// IntakeValidator turns raw form input into a Candidate.
type IntakeValidator struct {
	validate *validator.Validate
}

func NewIntakeValidator() *IntakeValidator {
	return &IntakeValidator{validate: validator.New()}
}

// Validate normalizes raw. Text is trimmed but never truncated; an
// unparseable nominee_year becomes an unknown year rather than a rejection.
func (v *IntakeValidator) Validate(raw RawSubmission) (Candidate, error) {
	form := formFromFields(raw.Fields)
	if err := conform.Strings(&form); err != nil {
		return Candidate{}, fmt.Errorf("normalize form: %w", err)
	}

	if err := v.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			name := formFieldNames[verrs[0].StructField()]
			return Candidate{}, fmt.Errorf("%w: %s exceeds %d characters", ErrRejected, name, MaxFieldLength)
		}
		return Candidate{}, fmt.Errorf("validate form: %w", err)
	}

	c := Candidate{Nomination: domain.Nomination{
		NominatorName:          form.NominatorName,
		NominatorAffiliation:   form.NominatorAffiliation,
		NominatorAddress:       form.NominatorAddress,
		NominatorEmail:         form.NominatorEmail,
		NominatorMobile:        form.NominatorMobile,
		Category:               form.Category,
		NomineeName:            form.NomineeName,
		NomineeFather:          form.NomineeFather,
		NomineeDegree:          form.NomineeDegree,
		NomineeBranch:          form.NomineeBranch,
		NomineeYear:            domain.ParseYear(form.NomineeYear),
		NomineeQualifications:  form.NomineeQualifications,
		NomineePresentPosition: form.NomineePresentPosition,
		NomineePastPositions:   form.NomineePastPositions,
		NomineeAddress:         form.NomineeAddress,
		NomineeEmail:           form.NomineeEmail,
		NomineeMobile:          form.NomineeMobile,
		NomineeLinkedIn:        form.NomineeLinkedIn,
		NomineeOtherInfo:       form.NomineeOtherInfo,
	}}

	staged, err := stageFile(raw.File)
	if err != nil {
		return Candidate{}, err
	}
	c.File = staged
	return c, nil
}

func stageFile(f *FilePayload) (*StagedFile, error) {
	if f == nil || (f.Filename == "" && len(f.Data) == 0) {
		return nil, nil
	}

	base := baseName(f.Filename)
	ext := filepath.Ext(base)
	if ext == "" || ext == "." || ext == base {
		return nil, fmt.Errorf("%w: file name must have an extension", ErrRejected)
	}

	field := f.FieldName
	if field == "" {
		field = defaultFileField
	}

	return &StagedFile{
		Name:        idx.ObjectKey(field, ext),
		Filename:    base,
		ContentType: contentType(f.ContentType, f.Data),
		Data:        f.Data,
	}, nil
}

// baseName strips client paths of either flavour ("C:\docs\cv.pdf").
func baseName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSpace(name)
}

func contentType(declared string, data []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return mimetype.Detect(data).String()
}
