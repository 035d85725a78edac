package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seatstack/backoffice/api/controllers"
	"github.com/seatstack/backoffice/api/middleware"
	"github.com/seatstack/backoffice/internal/banks"
	"github.com/seatstack/backoffice/internal/fixtures"
	"github.com/seatstack/backoffice/internal/members"
	"github.com/seatstack/backoffice/internal/reconcile"
	"github.com/seatstack/backoffice/internal/records"
	"github.com/seatstack/backoffice/internal/transactions"
	"github.com/seatstack/backoffice/internal/vendors"
	"github.com/seatstack/backoffice/pkg/config"
	"github.com/seatstack/backoffice/pkg/db"
	"github.com/seatstack/backoffice/pkg/enums"
	"github.com/seatstack/backoffice/pkg/logger"
	"github.com/seatstack/backoffice/pkg/metrics"
	"github.com/seatstack/backoffice/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Records      records.Service
	Reconcile    reconcile.Service
	Transactions transactions.Service
	Vendors      vendors.Service
	Members      members.Service
	Banks        banks.Service
	Fixtures     fixtures.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	cache redis.Pinger,
	idem redis.IdempotencyStore,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, cache, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	// Event lookups are read-only upstream proxies; the dashboard calls them
	// before a user signs in, so they stay public.
	r.Route("/api/public/events", func(r chi.Router) {
		r.Get("/", controllers.EventsList(svcs.Fixtures, logg))
		r.Get("/{eventID}", controllers.EventGet(svcs.Fixtures, logg))
		r.Get("/leagues", controllers.LeaguesList(svcs.Fixtures, logg))
		r.Get("/teams", controllers.TeamsList(svcs.Fixtures, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idem, logg))

		write := middleware.RequireRole(logg, enums.MemberRoleAdmin, enums.MemberRoleManager)

		r.Route("/inventory-records", func(r chi.Router) {
			r.Get("/", controllers.RecordList(svcs.Records, logg))
			r.Get("/available", controllers.RecordsAvailable(svcs.Records, logg))
			r.Get("/unfulfilled", controllers.RecordsUnfulfilled(svcs.Records, logg))

			r.With(write).Post("/purchases", controllers.RecordCreatePurchase(svcs.Records, logg))
			r.With(write).Post("/orders", controllers.RecordCreateOrder(svcs.Records, logg))
			r.With(write).Post("/assignments", controllers.SaleAssign(svcs.Reconcile, logg))

			r.Get("/orders/{orderID}/candidates", controllers.SaleCandidates(svcs.Reconcile, logg))

			r.Route("/sales", func(r chi.Router) {
				r.Get("/", controllers.SalesList(svcs.Reconcile, logg))
				r.With(write).Post("/{saleID}/complete", controllers.SaleComplete(svcs.Reconcile, logg))
				r.With(write).Post("/{saleID}/unassign", controllers.SaleUnassign(svcs.Reconcile, logg))
			})

			r.Get("/{recordID}", controllers.RecordGet(svcs.Records, logg))
			r.With(write).Patch("/{recordID}", controllers.RecordUpdate(svcs.Records, logg))
			r.With(write).Patch("/{recordID}/status", controllers.RecordUpdateStatus(svcs.Records, logg))
			r.With(write).Post("/{recordID}/split", controllers.RecordSplit(svcs.Reconcile, logg))
			r.With(write).Post("/{recordID}/cancel", controllers.RecordCancel(svcs.Reconcile, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.TransactionList(svcs.Transactions, logg))
			r.With(write).Post("/", controllers.TransactionCreate(svcs.Transactions, logg))
			r.Get("/{transactionID}", controllers.TransactionGet(svcs.Transactions, logg))
			r.With(write).Post("/{transactionID}/pay", controllers.TransactionMarkPaid(svcs.Transactions, logg))
			r.With(write).Post("/{transactionID}/cancel", controllers.TransactionCancel(svcs.Transactions, logg))
		})

		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", controllers.VendorList(svcs.Vendors, logg))
			r.With(write).Post("/", controllers.VendorCreate(svcs.Vendors, logg))
			r.Get("/{vendorID}", controllers.VendorGet(svcs.Vendors, logg))
			r.Get("/{vendorID}/balance", controllers.VendorBalance(svcs.Vendors, logg))
			r.With(write).Patch("/{vendorID}", controllers.VendorUpdate(svcs.Vendors, logg))
			r.With(write).Delete("/{vendorID}", controllers.VendorDelete(svcs.Vendors, logg))
		})

		r.Route("/members", func(r chi.Router) {
			r.Get("/", controllers.MemberList(svcs.Members, logg))
			r.With(write).Post("/", controllers.MemberCreate(svcs.Members, logg))
			r.Get("/{memberID}", controllers.MemberGet(svcs.Members, logg))
			r.With(write).Patch("/{memberID}", controllers.MemberUpdate(svcs.Members, logg))
			r.With(write).Delete("/{memberID}", controllers.MemberDelete(svcs.Members, logg))
		})

		r.Route("/banks", func(r chi.Router) {
			r.Get("/", controllers.BankList(svcs.Banks, logg))
			r.With(write).Post("/", controllers.BankCreate(svcs.Banks, logg))
			r.Get("/{bankID}", controllers.BankGet(svcs.Banks, logg))
			r.With(write).Patch("/{bankID}", controllers.BankUpdate(svcs.Banks, logg))
			r.With(write).Delete("/{bankID}", controllers.BankDelete(svcs.Banks, logg))
		})
	})

	return r
}
