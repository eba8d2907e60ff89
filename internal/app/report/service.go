package report

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"xbet/internal/store"
)

var (
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrReportNotFound  = errors.New("report_not_found")
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 5000
)

type Store interface {
	CreateReport(ctx context.Context, r *store.Report) error
	ListReports(ctx context.Context, f store.ReportFilter, limit, offset int) ([]store.Report, error)
	UpdateReportStatus(ctx context.Context, id int64, status string) (*store.Report, error)
}

type Service struct {
	store Store
}

func NewService(st Store) *Service {
	return &Service{store: st}
}

type SubmitInput struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type ListResponse struct {
	Items  []store.Report `json:"items"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

func (s *Service) Submit(ctx context.Context, accountID int64, in SubmitInput) (*store.Report, error) {
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	if accountID <= 0 || title == "" || desc == "" ||
		utf8.RuneCountInString(title) > maxTitleLen || utf8.RuneCountInString(desc) > maxDescriptionLen {
		return nil, ErrInvalidRequest
	}
	category := strings.ToLower(strings.TrimSpace(in.Category))
	if !oneOf(category, store.ReportCategories) {
		return nil, ErrInvalidCategory
	}
	r := &store.Report{AccountID: accountID, Title: title, Category: category, Description: desc}
	if err := s.store.CreateReport(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) ListMine(ctx context.Context, accountID int64, limit, offset int) (*ListResponse, error) {
	items, err := s.store.ListReports(ctx, store.ReportFilter{AccountID: &accountID}, limit, offset)
	if err != nil {
		return nil, err
	}
	return &ListResponse{Items: items, Limit: limit, Offset: offset}, nil
}

// ListAll is the admin view; empty status or category means any.
func (s *Service) ListAll(ctx context.Context, status, category string, limit, offset int) (*ListResponse, error) {
	if status != "" && !oneOf(status, store.ReportStatuses) {
		return nil, ErrInvalidStatus
	}
	if category != "" && !oneOf(category, store.ReportCategories) {
		return nil, ErrInvalidCategory
	}
	items, err := s.store.ListReports(ctx, store.ReportFilter{Status: status, Category: category}, limit, offset)
	if err != nil {
		return nil, err
	}
	return &ListResponse{Items: items, Limit: limit, Offset: offset}, nil
}

func (s *Service) SetStatus(ctx context.Context, id int64, status string) (*store.Report, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if id <= 0 {
		return nil, ErrInvalidRequest
	}
	if !oneOf(status, store.ReportStatuses) {
		return nil, ErrInvalidStatus
	}
	r, err := s.store.UpdateReportStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return r, nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
