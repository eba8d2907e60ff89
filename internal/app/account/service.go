package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"xbet/internal/config"
	"xbet/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Store is the account and session persistence used by Service.
type Store interface {
	CreateAccountWithLedger(ctx context.Context, in store.NewAccount) (*store.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*store.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*store.Account, error)
	SetAccountRole(ctx context.Context, id int64, role string) error
	CreateSession(ctx context.Context, tokenHash string, accountID int64, expiresAt time.Time) error
	GetSessionAccount(ctx context.Context, tokenHash string) (*store.Account, error)
	DeleteSession(ctx context.Context, tokenHash string) error
}

type Service struct {
	store    Store
	domains  []string
	ttl      time.Duration
	hashCost int
	now      func() time.Time
}

func NewService(st Store, cfg config.ServerConfig) *Service {
	domains := make([]string, 0, len(cfg.AllowedEmailDomains))
	for _, d := range cfg.AllowedEmailDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			domains = append(domains, d)
		}
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Service{
		store:    st,
		domains:  domains,
		ttl:      ttl,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// SetHashCostForTesting lowers the bcrypt cost so tests stay fast.
func (s *Service) SetHashCostForTesting(cost int) {
	s.hashCost = cost
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*RegisterResponse, error) {
	if err := s.validateRegistration(&in); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, err
	}
	acc, err := s.store.CreateAccountWithLedger(ctx, store.NewAccount{
		Email:        in.Email,
		Phone:        in.Phone,
		FullName:     in.FullName,
		Age:          in.Age,
		Role:         store.RoleUser,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	log.Info().Int64("account_id", acc.ID).Msg("account registered")
	return &RegisterResponse{AccountID: acc.ID, Email: acc.Email}, nil
}

// VerifyCredential compares plaintext against the stored bcrypt hash.
func VerifyCredential(acc *store.Account, plaintext string) bool {
	if acc == nil || acc.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(plaintext)) == nil
}

// Login checks credentials and opens a session. Unknown email and wrong
// password both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidRequest
	}
	acc, err := s.store.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyCredential(acc, password) {
		return nil, ErrInvalidCredentials
	}
	token := uuid.NewString()
	expiresAt := s.now().Add(s.ttl)
	if err := s.store.CreateSession(ctx, store.HashToken(token), acc.ID, expiresAt); err != nil {
		return nil, err
	}
	return &LoginResponse{AccountID: acc.ID, Role: acc.Role, Token: token, ExpiresAt: expiresAt}, nil
}

// Resolve maps a session token to its account.
func (s *Service) Resolve(ctx context.Context, token string) (*store.Account, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	acc, err := s.store.GetSessionAccount(ctx, store.HashToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return acc, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthenticated
	}
	err := s.store.DeleteSession(ctx, store.HashToken(token))
	if errors.Is(err, store.ErrNotFound) {
		return ErrUnauthenticated
	}
	return err
}

func (s *Service) Me(acc *store.Account) (*MeResponse, error) {
	if acc == nil {
		return nil, ErrUnauthenticated
	}
	return toMe(acc), nil
}

// EnsureAdmin creates the bootstrap admin account when it is missing and
// promotes it when it exists with a lower role. An empty password skips
// creation.
func (s *Service) EnsureAdmin(ctx context.Context, email, phone, password string) (*store.Account, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidRequest
	}
	acc, err := s.store.GetAccountByEmail(ctx, email)
	switch {
	case err == nil:
		if acc.Role != store.RoleAdmin {
			if err := s.store.SetAccountRole(ctx, acc.ID, store.RoleAdmin); err != nil {
				return nil, err
			}
			acc.Role = store.RoleAdmin
			log.Info().Int64("account_id", acc.ID).Msg("admin role granted")
		}
		return acc, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}
	if password == "" {
		log.Warn().Str("email", email).Msg("admin account missing and ADMIN_PASSWORD unset; skipping bootstrap")
		return nil, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, err
	}
	acc, err = s.store.CreateAccountWithLedger(ctx, store.NewAccount{
		Email:        email,
		Phone:        phone,
		FullName:     "Administrator",
		Age:          minAge,
		Role:         store.RoleAdmin,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	log.Info().Int64("account_id", acc.ID).Msg("admin account created")
	return acc, nil
}

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, store.ErrDuplicateEmail):
		return ErrDuplicateEmail
	case errors.Is(err, store.ErrDuplicatePhone):
		return ErrDuplicatePhone
	default:
		return err
	}
}
