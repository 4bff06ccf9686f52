package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/bizmanage/internal/http/handlers"
	mw "github.com/rogerio-castellano/bizmanage/internal/http/middleware"
	"github.com/rogerio-castellano/bizmanage/internal/logging"
	"github.com/rogerio-castellano/bizmanage/internal/models"
	"github.com/rogerio-castellano/bizmanage/internal/telemetry"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type options struct {
	limiter *mw.RateLimiter
	log     zerolog.Logger
}

type Option func(*options)

// WithRateLimiter throttles every /api route.
func WithRateLimiter(l *mw.RateLimiter) Option {
	return func(o *options) { o.limiter = l }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

func NewRouter(opts ...Option) http.Handler {
	o := options{log: logging.Logger}
	for _, opt := range opts {
		opt(&o)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.RequestLogger(o.log))
	r.Use(chimw.Recoverer)
	r.Use(telemetry.InstrumentHandler)

	r.Get("/health", handlers.HealthHandler)
	r.Handle("/metrics", telemetry.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		if o.limiter != nil {
			r.Use(o.limiter.Middleware)
		}

		r.Post("/register", handlers.RegisterHandler)
		r.Post("/login", handlers.LoginHandler)
		r.Post("/refresh", handlers.RefreshHandler)
		r.Post("/logout", handlers.LogoutHandler)

		r.Group(func(r chi.Router) {
			r.Use(mw.AuthMiddleware)

			r.Get("/user", handlers.CurrentUserHandler)
			r.Patch("/user/profile", handlers.UpdateProfileHandler)

			r.Route("/users", func(r chi.Router) {
				r.With(mw.RequireRole(models.RoleAdmin)).Get("/", handlers.ListUsersHandler)
				r.Put("/{id}", handlers.UpdateUserHandler)
				r.With(mw.RequireRole(models.RoleAdmin)).Delete("/{id}", handlers.DeleteUserHandler)
			})

			r.Route("/branches", func(r chi.Router) {
				r.Get("/", handlers.ListBranchesHandler)
				r.Post("/", handlers.CreateBranchHandler)
				r.Get("/{id}", handlers.GetBranchHandler)
				r.Put("/{id}", handlers.UpdateBranchHandler)
				r.Delete("/{id}", handlers.DeleteBranchHandler)
			})

			r.Get("/product-categories", handlers.ListCategoriesHandler)
			r.Post("/product-categories", handlers.CreateCategoryHandler)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", handlers.GetProductsHandler)
				r.Post("/", handlers.CreateProductHandler)
				r.Get("/search", handlers.FilterProductsHandler)
				r.Post("/import", handlers.ImportProductsHandler)
				r.Get("/{id}", handlers.GetProductByIDHandler)
				r.Put("/{id}", handlers.UpdateProductHandler)
				r.Delete("/{id}", handlers.DeleteProductHandler)
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", handlers.ListInventoryHandler)
				r.Post("/", handlers.CreateInventoryHandler)
				r.Put("/{id}", handlers.UpdateInventoryHandler)
				r.Post("/{id}/adjust", handlers.AdjustQuantityHandler)
			})

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", handlers.ListCustomersHandler)
				r.Post("/", handlers.CreateCustomerHandler)
				r.Get("/{id}", handlers.GetCustomerHandler)
				r.Put("/{id}", handlers.UpdateCustomerHandler)
				r.Delete("/{id}", handlers.DeleteCustomerHandler)
			})

			r.Route("/suppliers", func(r chi.Router) {
				r.Get("/", handlers.ListSuppliersHandler)
				r.Post("/", handlers.CreateSupplierHandler)
				r.Get("/{id}", handlers.GetSupplierHandler)
				r.Put("/{id}", handlers.UpdateSupplierHandler)
				r.Delete("/{id}", handlers.DeleteSupplierHandler)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", handlers.ListOrdersHandler)
				r.Post("/", handlers.CreateOrderHandler)
				r.Get("/{id}", handlers.GetOrderHandler)
				r.Put("/{id}/status", handlers.UpdateOrderStatusHandler)
			})

			r.Get("/activities", handlers.ListActivitiesHandler)
			r.Get("/activities/search", handlers.SearchActivitiesHandler)
			r.Get("/activities/export", handlers.ExportActivitiesHandler)

			r.Get("/analytics/dashboard", handlers.GetDashboardHandler)
			r.Post("/insights", handlers.GenerateInsightsHandler)
		})
	})

	return r
}
