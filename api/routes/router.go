package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/ayurcart-backend/api/controllers"
	"github.com/angelmondragon/ayurcart-backend/api/middleware"
	"github.com/angelmondragon/ayurcart-backend/internal/auth"
	"github.com/angelmondragon/ayurcart-backend/internal/cart"
	"github.com/angelmondragon/ayurcart-backend/internal/catalog"
	"github.com/angelmondragon/ayurcart-backend/internal/imports"
	"github.com/angelmondragon/ayurcart-backend/internal/media"
	"github.com/angelmondragon/ayurcart-backend/internal/resource"
	"github.com/angelmondragon/ayurcart-backend/pkg/config"
	"github.com/angelmondragon/ayurcart-backend/pkg/enums"
	"github.com/angelmondragon/ayurcart-backend/pkg/logger"
	"github.com/angelmondragon/ayurcart-backend/pkg/metrics"
	"github.com/angelmondragon/ayurcart-backend/pkg/redis"
)

// Dependencies are the wired services behind the HTTP surface. Redis may be nil,
// in which case idempotent replay and login throttling are disabled.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       *redis.Client
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics

	Auth      auth.Service
	Catalog   catalog.Service
	Cart      cart.Service
	Resources *resource.Registry
	Imports   imports.Service
	Media     media.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	var (
		idemStore redis.IdempotencyStore
		rateStore middleware.RateLimiterStore
		cachePing controllers.Pinger
	)
	if deps.Redis != nil {
		idemStore = deps.Redis
		rateStore = deps.Redis
		cachePing = deps.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.LoginRateLimit(cfg.AuthRateLimit)
	registerPolicy := middleware.RegisterRateLimit(cfg.AuthRateLimit)
	idempotency := middleware.Idempotency(idemStore, cfg.Cart.CookieName, logg)
	cartCookies := controllers.CartCookies{Cart: cfg.Cart, Cookies: cfg.Cookies}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, cachePing, logg))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	prefix := "/" + strings.Trim(cfg.Media.PublicPrefix, "/")
	if prefix == "/" {
		prefix = "/uploads"
	}
	r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(cfg.Media.UploadDir))))

	r.With(middleware.RequireSessionCookies(logg)).Get("/buynow/{slug}", controllers.BuyNow(deps.Catalog, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(idempotency)

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/login", controllers.AuthLogin(deps.Auth, cfg.Cookies, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, rateStore, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(cfg.Cookies))
		})

		r.Get("/categories", controllers.Categories(deps.Catalog, logg))
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.Products(deps.Catalog, logg))
			r.Get("/{slug}", controllers.Product(deps.Catalog, logg))
			r.Get("/{slug}/quote", controllers.ProductQuote(deps.Catalog, logg))
		})
		r.Get("/faqs", controllers.FAQs(deps.Catalog, logg))
		r.Route("/geo", func(r chi.Router) {
			r.Get("/countries", controllers.Countries(deps.Catalog, logg))
			r.Get("/countries/{id}/states", controllers.States(deps.Catalog, logg))
			r.Get("/states/{id}/cities", controllers.Cities(deps.Catalog, logg))
			r.Get("/pincodes/{code}", controllers.Pincode(deps.Catalog, logg))
		})
		r.Get("/shipping/quote", controllers.ShippingQuote(deps.Catalog, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartView(deps.Cart, cartCookies))
			r.Delete("/", controllers.CartClear(deps.Cart, cartCookies))
			r.Post("/items", controllers.CartAddItem(deps.Cart, cartCookies, logg))
			r.Delete("/items/{name}", controllers.CartRemoveItem(deps.Cart, cartCookies))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))
		r.Use(idempotency)

		r.Get("/", controllers.ResourceIndex(deps.Resources))
		r.Post("/uploads", controllers.UploadImage(deps.Media, cfg.Media.MaxImageBytes(), logg))
		r.Post("/countries/import", controllers.ImportSpreadsheet(deps.Imports, imports.ResourceCountries, cfg.Import.MaxUploadBytes(), logg))
		r.Post("/cities/import", controllers.ImportSpreadsheet(deps.Imports, imports.ResourceCities, cfg.Import.MaxUploadBytes(), logg))

		r.Route("/{resource}", func(r chi.Router) {
			r.Get("/", controllers.ResourceRead(deps.Resources, logg))
			r.Post("/", controllers.ResourceCreate(deps.Resources, logg))
			r.Put("/", controllers.ResourceUpdate(deps.Resources, logg))
			r.Patch("/", controllers.ResourceUpdate(deps.Resources, logg))
			r.Delete("/", controllers.ResourceDelete(deps.Resources, logg))
			r.Get("/{id}", controllers.ResourceRead(deps.Resources, logg))
			r.Put("/{id}", controllers.ResourceUpdate(deps.Resources, logg))
			r.Patch("/{id}", controllers.ResourceUpdate(deps.Resources, logg))
			r.Delete("/{id}", controllers.ResourceDelete(deps.Resources, logg))
		})
	})

	return r
}
