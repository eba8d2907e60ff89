package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const selectReportColumns = `SELECT id, account_id, title, category, description, status, created_at, updated_at FROM reports`

func (s *Store) CreateReport(ctx context.Context, r *Report) error {
	if r.Status == "" {
		r.Status = "pending"
	}
	err := s.Pool.QueryRow(ctx,
		`INSERT INTO reports (account_id, title, category, description, status)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING id, created_at, updated_at`,
		r.AccountID, r.Title, r.Category, r.Description, r.Status,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	return mapConstraint(err)
}

func (s *Store) ListReports(ctx context.Context, f ReportFilter, limit, offset int) ([]Report, error) {
	limit, offset = clampPage(limit, offset, 50, 500)
	rows, err := s.Pool.Query(ctx,
		selectReportColumns+`
		 WHERE ($1::bigint IS NULL OR account_id = $1)
		   AND ($2::text IS NULL OR status = $2)
		   AND ($3::text IS NULL OR category = $3)
		 ORDER BY created_at DESC, id DESC
		 LIMIT $4 OFFSET $5`,
		int8PtrParam(f.AccountID), textParam(f.Status), textParam(f.Category), limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *Store) UpdateReportStatus(ctx context.Context, id int64, status string) (*Report, error) {
	r, err := scanReport(s.Pool.QueryRow(ctx,
		`UPDATE reports SET status = $2, updated_at = now() WHERE id = $1
		 RETURNING id, account_id, title, category, description, status, created_at, updated_at`,
		id, status,
	))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return r, nil
}

func scanReport(row pgx.Row) (*Report, error) {
	var r Report
	if err := row.Scan(&r.ID, &r.AccountID, &r.Title, &r.Category, &r.Description, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}
