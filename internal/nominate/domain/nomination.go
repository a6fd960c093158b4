package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

// Nomination is a single award nomination as submitted through the public
// form. It is never updated after creation.
type Nomination struct {
	ID string // ULID

	NominatorName        string
	NominatorAffiliation string
	NominatorAddress     string
	NominatorEmail       string
	NominatorMobile      string

	Category string

	NomineeName            string
	NomineeFather          string
	NomineeDegree          string
	NomineeBranch          string
	NomineeYear            Year
	NomineeQualifications  string
	NomineePresentPosition string
	NomineePastPositions   string
	NomineeAddress         string
	NomineeEmail           string
	NomineeMobile          string
	NomineeLinkedIn        string
	NomineeOtherInfo       string

	// AssessmentNote is admin-entered and empty at intake.
	AssessmentNote string

	CV        *CVRef // nil when no file was attached
	CreatedAt time.Time
}

// CVReference returns the blob reference of the attached CV, or "" if none.
func (n Nomination) CVReference() string {
	if n.CV == nil {
		return ""
	}
	return n.CV.Reference
}

// CVRef points at a CV stored in the blob store.
type CVRef struct {
	Reference   string // opaque blob store key
	Filename    string // name the submitter uploaded
	ContentType string
	Size        int64
}

// NominationSummary is the projection shown in the admin listing.
type NominationSummary struct {
	ID            string
	NominatorName string
	NomineeName   string
	Category      string
	CVReference   string // "" when no CV
}

// Year is an optional calendar year. The zero value means "unknown": the
// form value was missing or not a number.
type Year struct {
	Value int
	Valid bool
}

// ParseYear parses s as a base-10 integer. Anything that does not parse, or
// does not fit the 32-bit INTEGER column it is stored in, yields the unknown
// year rather than an error.
func ParseYear(s string) Year {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return Year{}
	}
	return Year{Value: int(v), Valid: true}
}

// String renders the year as text, or "" when unknown.
func (y Year) String() string {
	if !y.Valid {
		return ""
	}
	return strconv.Itoa(y.Value)
}

func (y Year) MarshalJSON() ([]byte, error) {
	if !y.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(y.Value)
}

func (y *Year) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*y = Year{}
		return nil
	}
	if err := json.Unmarshal(b, &y.Value); err != nil {
		return err
	}
	y.Valid = true
	return nil
}
