package repositories

import (
	"database/sql"

	"banthub/internal/models"
)

type ReportRepository interface {
	Create(report *models.Report) error
	GetByID(id string) (*models.Report, error)
	List(status string, limit, offset int) ([]*models.Report, error)
	Resolve(id, status, reviewerID string) (*models.Report, error)
}

type reportRepository struct {
	DB *sql.DB
}

func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{DB: db}
}

func (r *reportRepository) Create(report *models.Report) error {
	const q = `
		INSERT INTO reports (reporter_id, post_id, comment_id, reason, status)
		VALUES ($1,NULLIF($2,'')::uuid,NULLIF($3,'')::uuid,$4,$5)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q,
		report.ReporterID, report.PostID, report.CommentID, report.Reason, report.Status,
	).Scan(&report.ID, &report.CreatedAt)
}

func (r *reportRepository) GetByID(id string) (*models.Report, error) {
	const q = `
		SELECT id, reporter_id, COALESCE(post_id::text,''), COALESCE(comment_id::text,''),
			reason, status, created_at, reviewed_at, COALESCE(reviewed_by,'')
		FROM reports
		WHERE id = $1
	`
	return scanReport(r.DB.QueryRow(q, id))
}

func scanReport(row interface{ Scan(...interface{}) error }) (*models.Report, error) {
	rep := &models.Report{}
	var reviewedAt sql.NullTime
	err := row.Scan(
		&rep.ID, &rep.ReporterID, &rep.PostID, &rep.CommentID,
		&rep.Reason, &rep.Status, &rep.CreatedAt, &reviewedAt, &rep.ReviewedBy,
	)
	if err != nil {
		return nil, err
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		rep.ReviewedAt = &t
	}
	return rep, nil
}

func (r *reportRepository) List(status string, limit, offset int) ([]*models.Report, error) {
	const q = `
		SELECT id, reporter_id, COALESCE(post_id::text,''), COALESCE(comment_id::text,''),
			reason, status, created_at, reviewed_at, COALESCE(reviewed_by,'')
		FROM reports
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.Query(q, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, rep)
	}
	return res, rows.Err()
}

// Resolve moves a pending report to its final status. Already reviewed
// reports are left untouched.
func (r *reportRepository) Resolve(id, status, reviewerID string) (*models.Report, error) {
	const q = `
		UPDATE reports
		SET status=$1, reviewed_at=NOW(), reviewed_by=$2
		WHERE id=$3 AND status='pending'
		RETURNING id, reporter_id, COALESCE(post_id::text,''), COALESCE(comment_id::text,''),
			reason, status, created_at, reviewed_at, COALESCE(reviewed_by,'')
	`
	return scanReport(r.DB.QueryRow(q, status, reviewerID, id))
}
