package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"xbet/internal/config"
	"xbet/internal/store"
	"xbet/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (*Service, *testutil.MemStore) {
	t.Helper()
	m := testutil.NewMemStore()
	svc := NewService(m, config.ServerConfig{AllowedEmailDomains: []string{"gmail.com"}, SessionTTL: time.Hour})
	svc.SetHashCostForTesting(bcrypt.MinCost)
	return svc, m
}

func validInput() RegisterInput {
	return RegisterInput{
		Email:           "Alice@Gmail.com",
		Phone:           "0812345678",
		FullName:        "Alice",
		Age:             25,
		Password:        "secret123",
		ConfirmPassword: "secret123",
		AcceptTerms:     true,
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*RegisterInput)
		field string
	}{
		{name: "wrong domain", mut: func(in *RegisterInput) { in.Email = "a@yahoo.com" }, field: "email"},
		{name: "empty local part", mut: func(in *RegisterInput) { in.Email = "@gmail.com" }, field: "email"},
		{name: "no at sign", mut: func(in *RegisterInput) { in.Email = "gmail.com" }, field: "email"},
		{name: "short phone", mut: func(in *RegisterInput) { in.Phone = "081234567" }, field: "phone"},
		{name: "phone without leading zero", mut: func(in *RegisterInput) { in.Phone = "1812345678" }, field: "phone"},
		{name: "phone with letters", mut: func(in *RegisterInput) { in.Phone = "08123x5678" }, field: "phone"},
		{name: "underage", mut: func(in *RegisterInput) { in.Age = 19 }, field: "age"},
		{name: "missing name", mut: func(in *RegisterInput) { in.FullName = "  " }, field: "full_name"},
		{name: "short password", mut: func(in *RegisterInput) { in.Password, in.ConfirmPassword = "abc", "abc" }, field: "password"},
		{name: "confirm mismatch", mut: func(in *RegisterInput) { in.ConfirmPassword = "other123" }, field: "confirm_password"},
		{name: "terms not accepted", mut: func(in *RegisterInput) { in.AcceptTerms = false }, field: "accept_terms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(t)
			in := validInput()
			tt.mut(&in)
			_, err := svc.Register(context.Background(), in)
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("err = %v, want ErrValidationFailed", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("field = %+v, want %s", ve, tt.field)
			}
			if m.LedgerRows() != 0 {
				t.Fatal("validation failure persisted a ledger row")
			}
		})
	}
}

func TestRegisterNormalizesAndHashes(t *testing.T) {
	svc, m := newTestService(t)
	resp, err := svc.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Email != "alice@gmail.com" {
		t.Fatalf("email = %s, want lower-cased", resp.Email)
	}
	acc, err := m.GetAccountByID(context.Background(), resp.AccountID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if acc.PasswordHash == "secret123" || !VerifyCredential(acc, "secret123") || VerifyCredential(acc, "wrong") {
		t.Fatal("password not stored as a verifiable hash")
	}
	bal, err := m.GetBalance(context.Background(), acc.ID)
	if err != nil || !bal.Amount.IsZero() {
		t.Fatalf("ledger = %+v, %v", bal, err)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("register: %v", err)
	}
	in := validInput()
	in.Phone = "0899999999"
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
	in = validInput()
	in.Email = "bob@gmail.com"
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrDuplicatePhone) {
		t.Fatalf("err = %v, want ErrDuplicatePhone", err)
	}
}

func TestLoginResolveLogout(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, validInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(ctx, "alice@gmail.com", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := svc.Login(ctx, "ghost@gmail.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v", err)
	}

	login, err := svc.Login(ctx, "ALICE@gmail.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.AccountID != reg.AccountID || login.Token == "" {
		t.Fatalf("login = %+v", login)
	}
	acc, err := svc.Resolve(ctx, login.Token)
	if err != nil || acc.ID != reg.AccountID {
		t.Fatalf("resolve = %+v, %v", acc, err)
	}
	if err := svc.Logout(ctx, login.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Resolve(ctx, login.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("resolve after logout err = %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, validInput()); err != nil {
		t.Fatalf("register: %v", err)
	}
	login, err := svc.Login(ctx, "alice@gmail.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	m.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.Resolve(ctx, login.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expired session err = %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	acc, err := svc.EnsureAdmin(ctx, "h2w@admin.com", "0999999999", "")
	if err != nil || acc != nil {
		t.Fatalf("no password should skip: %+v, %v", acc, err)
	}
	acc, err = svc.EnsureAdmin(ctx, "h2w@admin.com", "0999999999", "adminpass")
	if err != nil || !acc.IsAdmin() {
		t.Fatalf("create admin = %+v, %v", acc, err)
	}
	again, err := svc.EnsureAdmin(ctx, "h2w@admin.com", "0999999999", "adminpass")
	if err != nil || again.ID != acc.ID {
		t.Fatalf("second ensure = %+v, %v", again, err)
	}
	if _, err := svc.Login(ctx, "h2w@admin.com", "adminpass"); err != nil {
		t.Fatalf("admin login: %v", err)
	}

	user := m.AddAccount("promote@gmail.com")
	promoted, err := svc.EnsureAdmin(ctx, "promote@gmail.com", "", "")
	if err != nil || promoted.Role != store.RoleAdmin {
		t.Fatalf("promote = %+v, %v", promoted, err)
	}
	stored, _ := m.GetAccountByID(ctx, user.ID)
	if !stored.IsAdmin() {
		t.Fatal("role not persisted")
	}
}
