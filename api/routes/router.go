package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stocktrail/stocktrail-backend/api/controllers"
	"github.com/stocktrail/stocktrail-backend/api/middleware"
	"github.com/stocktrail/stocktrail-backend/internal/catalog"
	"github.com/stocktrail/stocktrail-backend/internal/inventory"
	"github.com/stocktrail/stocktrail-backend/internal/ledger"
	"github.com/stocktrail/stocktrail-backend/internal/realtime"
	"github.com/stocktrail/stocktrail-backend/internal/reports"
	"github.com/stocktrail/stocktrail-backend/pkg/config"
	"github.com/stocktrail/stocktrail-backend/pkg/logger"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Catalog   catalog.Service
	Inventory inventory.Service
	Ledger    ledger.Service
	Reports   reports.Service
	Hub       *realtime.Hub
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(svcs.Catalog, logg))
			r.Post("/", controllers.CategoryCreate(svcs.Catalog, logg))
			r.Get("/{categoryId}", controllers.CategoryGet(svcs.Catalog, logg))
			r.Put("/{categoryId}", controllers.CategoryUpdate(svcs.Catalog, logg))
			r.Delete("/{categoryId}", controllers.CategoryDelete(svcs.Catalog, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Catalog, logg))
			r.Post("/", controllers.ProductCreate(svcs.Catalog, logg))
			r.Get("/{productId}", controllers.ProductGet(svcs.Catalog, logg))
			r.Put("/{productId}", controllers.ProductUpdate(svcs.Catalog, logg))
			r.Delete("/{productId}", controllers.ProductDelete(svcs.Catalog, logg))
		})

		r.Route("/inventory/{productId}", func(r chi.Router) {
			r.Get("/", controllers.InventoryGet(svcs.Inventory, logg))
			r.Post("/reserve", controllers.InventoryReserve(svcs.Inventory, logg))
			r.Post("/release", controllers.InventoryRelease(svcs.Inventory, logg))
			r.Put("/location", controllers.InventorySetLocation(svcs.Inventory, logg))
			r.Post("/movements", controllers.InventoryMovement(svcs.Inventory, logg))
		})

		r.Get("/transactions", controllers.TransactionList(svcs.Ledger, logg))

		r.Route("/reports", func(r chi.Router) {
			r.Get("/low-stock", controllers.ReportLowStock(svcs.Reports, logg))
			r.Get("/out-of-stock", controllers.ReportOutOfStock(svcs.Reports, logg))
			r.Get("/valuation", controllers.ReportValuation(svcs.Reports, logg))
			r.Get("/categories", controllers.ReportCategoryRollups(svcs.Reports, logg))
			r.Get("/top-movers", controllers.ReportTopMovers(svcs.Reports, logg))
		})

		r.Get("/stream", controllers.Stream(svcs.Hub, cfg.Stream, logg))
	})

	return r
}
