package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jyl33/cardscanner-backend/api/controllers"
	"github.com/jyl33/cardscanner-backend/api/middleware"
	"github.com/jyl33/cardscanner-backend/internal/buyers"
	"github.com/jyl33/cardscanner-backend/internal/cards"
	"github.com/jyl33/cardscanner-backend/internal/orders"
	"github.com/jyl33/cardscanner-backend/pkg/config"
	"github.com/jyl33/cardscanner-backend/pkg/logger"
)

// Deps bundles everything the router needs. Handlers guard against nil
// services themselves, so a partially wired Deps still serves what it can.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    controllers.Pinger
	Cards    cards.Service
	Buyers   buyers.Service
	Orders   orders.Service
	Registry *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/scan", controllers.Scan(deps.Cards, logg))

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", controllers.ListCards(deps.Cards, logg))
			r.Post("/", controllers.IngestCard(deps.Cards, logg))
			r.Get("/filter-options", controllers.CardFilterOptions(deps.Cards, logg))
			r.Get("/{certNumber}", controllers.GetCard(deps.Cards, logg))
			r.Delete("/{certNumber}", controllers.DeleteCard(deps.Cards, logg))
			r.Patch("/{cardId}/status", controllers.UpdateCardStatus(deps.Cards, logg))
		})

		r.Route("/buyers", func(r chi.Router) {
			r.Get("/", controllers.ListBuyers(deps.Buyers, logg))
			r.Post("/", controllers.CreateBuyer(deps.Buyers, logg))
			r.Get("/{buyerId}", controllers.GetBuyer(deps.Buyers, logg))
		})

		r.Route("/order-sessions", func(r chi.Router) {
			r.Post("/", controllers.StartSession(deps.Orders, logg))
			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", controllers.GetSession(deps.Orders, logg))
				r.Post("/cards", controllers.AddSessionCard(deps.Orders, logg))
				r.Delete("/cards/{cardId}", controllers.RemoveSessionCard(deps.Orders, logg))
				r.Post("/submit", controllers.SubmitSession(deps.Orders, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Get("/{orderId}", controllers.GetOrder(deps.Orders, logg))
		})
	})

	return r
}
