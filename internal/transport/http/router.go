package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	appaccount "xbet/internal/app/account"
	appreport "xbet/internal/app/report"
	"xbet/internal/config"
	"xbet/internal/ledger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Store is everything the HTTP layer reaches through services or directly.
// *store.Store and testutil.MemStore both satisfy it.
type Store interface {
	appaccount.Store
	appreport.Store
	AdminStore
}

func NewRouter(st Store, cfg config.ServerConfig, coord *ledger.Coordinator) *chi.Mux {
	accountSvc := appaccount.NewService(st, cfg)
	reportSvc := appreport.NewService(st)
	return newRouter(st, accountSvc, reportSvc, coord)
}

func newRouter(st AdminStore, accountSvc *appaccount.Service, reportSvc *appreport.Service, coord *ledger.Coordinator) *chi.Mux {
	accountHandlers := NewAccountHandlers(accountSvc)
	walletHandlers := NewWalletHandlers(coord)
	gameHandlers := NewGameHandlers(coord)
	reportHandlers := NewReportHandlers(reportSvc)
	adminHandlers := NewAdminHandlers(st, coord, reportSvc)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Post("/register", accountHandlers.Register())
		r.Post("/login", accountHandlers.Login())
		r.Post("/logout", accountHandlers.Logout())

		r.Group(func(r chi.Router) {
			r.Use(SessionAuthMiddleware(accountSvc))
			r.Get("/me", accountHandlers.Me())
			r.Get("/balance", walletHandlers.Balance())
			r.Post("/deposit", walletHandlers.Deposit())
			r.Post("/withdraw", walletHandlers.Withdraw())

			r.Route("/games/{game}", func(r chi.Router) {
				r.Post("/play", gameHandlers.Play())
				r.Get("/history", gameHandlers.History())
				r.Get("/stats", gameHandlers.Stats())
			})

			r.Post("/reports", reportHandlers.Submit())
			r.Get("/reports", reportHandlers.ListMine())

			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Get("/accounts", adminHandlers.Accounts())
				r.Get("/journal", adminHandlers.Journal())
				r.Get("/reports", adminHandlers.Reports())
				r.With(BodyCaptureMiddleware(4096)).Post("/reports/{id}/status", adminHandlers.ReportStatus())
				r.With(BodyCaptureMiddleware(4096)).Post("/stats/rebuild", adminHandlers.RebuildStats())
				r.Get("/debug/vars", expvar.Handler().ServeHTTP)
			})
		})
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 32)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
