package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/nominate/internal/nominate/domain"
)

type nominationsRepo struct {
	db *sql.DB
}

const nominationColumns = `id,
	nominator_name, nominator_affiliation, nominator_address, nominator_email, nominator_mobile,
	category,
	nominee_name, nominee_father, nominee_degree, nominee_branch, nominee_year,
	nominee_qualifications, nominee_present_position, nominee_past_positions,
	nominee_address, nominee_email, nominee_mobile, nominee_linkedin, nominee_other_info,
	assessment_note,
	cv_reference, cv_filename, cv_content_type, cv_size,
	created_at`

func (r *nominationsRepo) CreateNomination(ctx context.Context, n domain.Nomination) error {
	var (
		year                      sql.NullInt64
		cvRef, cvFilename, cvType sql.NullString
		cvSize                    sql.NullInt64
	)
	if n.NomineeYear.Valid {
		year = sql.NullInt64{Int64: int64(n.NomineeYear.Value), Valid: true}
	}
	if n.CV != nil {
		cvRef = sql.NullString{String: n.CV.Reference, Valid: true}
		cvFilename = sql.NullString{String: n.CV.Filename, Valid: true}
		cvType = sql.NullString{String: n.CV.ContentType, Valid: true}
		cvSize = sql.NullInt64{Int64: n.CV.Size, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO nominations (`+nominationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID,
		n.NominatorName, n.NominatorAffiliation, n.NominatorAddress, n.NominatorEmail, n.NominatorMobile,
		n.Category,
		n.NomineeName, n.NomineeFather, n.NomineeDegree, n.NomineeBranch, year,
		n.NomineeQualifications, n.NomineePresentPosition, n.NomineePastPositions,
		n.NomineeAddress, n.NomineeEmail, n.NomineeMobile, n.NomineeLinkedIn, n.NomineeOtherInfo,
		n.AssessmentNote,
		cvRef, cvFilename, cvType, cvSize,
		toMillis(n.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *nominationsRepo) GetNominationByID(ctx context.Context, id string) (domain.Nomination, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+nominationColumns+` FROM nominations WHERE id = ?`, id)

	var (
		n                         domain.Nomination
		year                      sql.NullInt64
		cvRef, cvFilename, cvType sql.NullString
		cvSize                    sql.NullInt64
		createdAt                 int64
	)
	err := row.Scan(
		&n.ID,
		&n.NominatorName, &n.NominatorAffiliation, &n.NominatorAddress, &n.NominatorEmail, &n.NominatorMobile,
		&n.Category,
		&n.NomineeName, &n.NomineeFather, &n.NomineeDegree, &n.NomineeBranch, &year,
		&n.NomineeQualifications, &n.NomineePresentPosition, &n.NomineePastPositions,
		&n.NomineeAddress, &n.NomineeEmail, &n.NomineeMobile, &n.NomineeLinkedIn, &n.NomineeOtherInfo,
		&n.AssessmentNote,
		&cvRef, &cvFilename, &cvType, &cvSize,
		&createdAt,
	)
	if err != nil {
		return domain.Nomination{}, mapNotFound(err)
	}

	if year.Valid {
		n.NomineeYear = domain.Year{Value: int(year.Int64), Valid: true}
	}
	if cvRef.Valid {
		n.CV = &domain.CVRef{
			Reference:   cvRef.String,
			Filename:    mapNullString(cvFilename),
			ContentType: mapNullString(cvType),
			Size:        cvSize.Int64,
		}
	}
	n.CreatedAt = fromMillis(createdAt)
	return n, nil
}

func (r *nominationsRepo) ListNominationSummaries(ctx context.Context) ([]domain.NominationSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, nominator_name, nominee_name, category, cv_reference
		FROM nominations
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.NominationSummary, 0)
	for rows.Next() {
		var (
			s     domain.NominationSummary
			cvRef sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.NominatorName, &s.NomineeName, &s.Category, &cvRef); err != nil {
			return nil, err
		}
		s.CVReference = mapNullString(cvRef)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *nominationsRepo) CVReferenceExists(ctx context.Context, ref string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM nominations WHERE cv_reference = ?)`, ref,
	).Scan(&exists)
	return exists, err
}
