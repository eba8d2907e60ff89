package store

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	FullName     string    `json:"full_name"`
	Age          int       `json:"age"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a *Account) IsAdmin() bool { return a != nil && a.Role == RoleAdmin }

type NewAccount struct {
	Email        string
	Phone        string
	FullName     string
	Age          int
	Role         string
	PasswordHash string
}

// Balance is the single ledger row owned by one account.
type Balance struct {
	AccountID int64           `json:"account_id"`
	Amount    decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"last_updated"`
}

// PlayRecord is one immutable row of play_history.
type PlayRecord struct {
	ID            int64           `json:"id"`
	RefID         string          `json:"ref_id"`
	AccountID     int64           `json:"account_id"`
	Game          string          `json:"game"`
	Wager         decimal.Decimal `json:"wager"`
	PlayerInput   string          `json:"player_input"`
	Outcome       string          `json:"outcome"`
	Result        string          `json:"result"`
	WinLoss       decimal.Decimal `json:"win_loss_amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	RequestID     string          `json:"request_id,omitempty"`
	PlayedAt      time.Time       `json:"played_at"`
}

// GameStats are the running totals for one account and game.
type GameStats struct {
	AccountID     int64            `json:"account_id"`
	Game          string           `json:"game"`
	GamesPlayed   int64            `json:"games_played"`
	Wins          int64            `json:"wins"`
	Losses        int64            `json:"losses"`
	Ties          int64            `json:"ties"`
	TotalWagered  decimal.Decimal  `json:"total_wagered"`
	TotalWon      decimal.Decimal  `json:"total_won"`
	TotalLost     decimal.Decimal  `json:"total_lost"`
	NetProfit     decimal.Decimal  `json:"net_profit"`
	ChoiceCounts  map[string]int64 `json:"choice_counts"`
	FirstPlayedAt *time.Time       `json:"first_played_at"`
	LastPlayedAt  *time.Time       `json:"last_played_at"`
}

// Add folds one play into the running totals.
func (g *GameStats) Add(p *PlayRecord) {
	g.GamesPlayed++
	g.TotalWagered = g.TotalWagered.Add(p.Wager)
	switch p.Result {
	case "win":
		g.Wins++
		g.TotalWon = g.TotalWon.Add(p.WinLoss)
	case "lose":
		g.Losses++
		g.TotalLost = g.TotalLost.Add(p.WinLoss.Neg())
	default:
		g.Ties++
	}
	g.NetProfit = g.TotalWon.Sub(g.TotalLost)
	if g.ChoiceCounts == nil {
		g.ChoiceCounts = map[string]int64{}
	}
	g.ChoiceCounts[p.PlayerInput]++
	at := p.PlayedAt
	if g.FirstPlayedAt == nil || at.Before(*g.FirstPlayedAt) {
		g.FirstPlayedAt = &at
	}
	if g.LastPlayedAt == nil || at.After(*g.LastPlayedAt) {
		g.LastPlayedAt = &at
	}
}

// WinPercentage is wins over games played, rounded to two places.
func (g *GameStats) WinPercentage() float64 {
	if g.GamesPlayed == 0 {
		return 0
	}
	pct := decimal.NewFromInt(g.Wins * 100).Div(decimal.NewFromInt(g.GamesPlayed)).Round(2)
	f, _ := pct.Float64()
	return f
}

// Equal compares counters and totals; timestamps are compared to the
// microsecond since that is what the database keeps.
func (g *GameStats) Equal(o *GameStats) bool {
	if g.GamesPlayed != o.GamesPlayed || g.Wins != o.Wins || g.Losses != o.Losses || g.Ties != o.Ties {
		return false
	}
	if !g.TotalWagered.Equal(o.TotalWagered) || !g.TotalWon.Equal(o.TotalWon) ||
		!g.TotalLost.Equal(o.TotalLost) || !g.NetProfit.Equal(o.NetProfit) {
		return false
	}
	if len(g.ChoiceCounts) != len(o.ChoiceCounts) {
		return false
	}
	for k, v := range g.ChoiceCounts {
		if o.ChoiceCounts[k] != v {
			return false
		}
	}
	return sameInstant(g.FirstPlayedAt, o.FirstPlayedAt) && sameInstant(g.LastPlayedAt, o.LastPlayedAt)
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Truncate(time.Microsecond).Equal(b.Truncate(time.Microsecond))
}

type StatsKey struct {
	AccountID int64
	Game      string
}

const (
	JournalGame     = "game_settle"
	JournalDeposit  = "deposit"
	JournalWithdraw = "withdraw"
)

// JournalEntry records every balance mutation, game or not.
type JournalEntry struct {
	ID           string          `json:"id"`
	AccountID    int64           `json:"account_id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	RefType      string          `json:"ref_type"`
	RefID        string          `json:"ref_id"`
	CreatedAt    time.Time       `json:"created_at"`
}

type JournalFilter struct {
	AccountID *int64
	Type      string
	From      *time.Time
	To        *time.Time
}

var (
	ReportCategories = []string{"technical", "payment", "account", "betting", "suggestion", "other"}
	ReportStatuses   = []string{"pending", "reviewing", "resolved", "closed"}
)

type Report struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"account_id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ReportFilter struct {
	AccountID *int64
	Status    string
	Category  string
}
