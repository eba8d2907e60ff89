package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"xbet/internal/testutil"
)

func TestSubmitValidation(t *testing.T) {
	m := testutil.NewMemStore()
	acc := m.AddAccount("a@gmail.com")
	svc := NewService(m)

	tests := []struct {
		name string
		in   SubmitInput
		want error
	}{
		{name: "ok", in: SubmitInput{Title: "Late payout", Category: "Payment", Description: "still waiting"}},
		{name: "missing title", in: SubmitInput{Category: "payment", Description: "x"}, want: ErrInvalidRequest},
		{name: "missing description", in: SubmitInput{Title: "x", Category: "payment"}, want: ErrInvalidRequest},
		{name: "title too long", in: SubmitInput{Title: strings.Repeat("t", 201), Category: "other", Description: "x"}, want: ErrInvalidRequest},
		{name: "bad category", in: SubmitInput{Title: "x", Category: "refund", Description: "x"}, want: ErrInvalidCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := svc.Submit(context.Background(), acc.ID, tt.in)
			if tt.want != nil {
				if !errors.Is(err, tt.want) {
					t.Fatalf("err = %v, want %v", err, tt.want)
				}
				return
			}
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if r.Status != "pending" || r.Category != "payment" {
				t.Fatalf("unexpected report %+v", r)
			}
		})
	}
}

func TestListAndSetStatus(t *testing.T) {
	m := testutil.NewMemStore()
	a := m.AddAccount("a@gmail.com")
	b := m.AddAccount("b@gmail.com")
	svc := NewService(m)
	ctx := context.Background()

	ra, err := svc.Submit(ctx, a.ID, SubmitInput{Title: "A", Category: "betting", Description: "wheel stuck"})
	if err != nil {
		t.Fatalf("submit a: %v", err)
	}
	if _, err := svc.Submit(ctx, b.ID, SubmitInput{Title: "B", Category: "account", Description: "cannot log in"}); err != nil {
		t.Fatalf("submit b: %v", err)
	}

	mine, err := svc.ListMine(ctx, a.ID, 10, 0)
	if err != nil || len(mine.Items) != 1 || mine.Items[0].ID != ra.ID {
		t.Fatalf("list mine = %+v, %v", mine, err)
	}

	if _, err := svc.SetStatus(ctx, ra.ID, "done"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("bad status err = %v", err)
	}
	if _, err := svc.SetStatus(ctx, 99, "closed"); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("missing report err = %v", err)
	}
	updated, err := svc.SetStatus(ctx, ra.ID, "Reviewing")
	if err != nil || updated.Status != "reviewing" {
		t.Fatalf("set status = %+v, %v", updated, err)
	}

	reviewing, err := svc.ListAll(ctx, "reviewing", "", 10, 0)
	if err != nil || len(reviewing.Items) != 1 {
		t.Fatalf("list reviewing = %+v, %v", reviewing, err)
	}
	all, err := svc.ListAll(ctx, "", "", 10, 0)
	if err != nil || len(all.Items) != 2 {
		t.Fatalf("list all = %+v, %v", all, err)
	}
	if _, err := svc.ListAll(ctx, "bogus", "", 10, 0); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("bogus filter err = %v", err)
	}
}
