package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sdauto/catalog-backend/api/controllers"
	"github.com/sdauto/catalog-backend/api/middleware"
	brandrepo "github.com/sdauto/catalog-backend/internal/brands"
	products "github.com/sdauto/catalog-backend/internal/products"
	"github.com/sdauto/catalog-backend/pkg/config"
	"github.com/sdauto/catalog-backend/pkg/db"
	"github.com/sdauto/catalog-backend/pkg/logger"
	"github.com/sdauto/catalog-backend/pkg/metrics"
	"github.com/sdauto/catalog-backend/pkg/redis"
)

// NewRouter assembles the HTTP surface. redisClient and httpMetrics may be
// nil; the routes that depend on them degrade to pass-through behavior.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	productService products.Service,
	brandRepo *brandrepo.Repository,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware)
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, cachePinger(redisClient), logg))
	})

	fileServer := http.StripPrefix("/storage/", http.FileServer(http.Dir(cfg.Blob.RootDir)))
	r.Method(http.MethodGet, "/storage/*", fileServer)

	r.Route("/api", func(r chi.Router) {
		if redisClient != nil {
			r.Use(middleware.WriteRateLimit(cfg.RateLimit, redisClient, logg))
			r.Use(middleware.Idempotency(redisClient, logg))
		}

		r.Get("/ping", controllers.Ping())
		r.Get("/brands", controllers.ListBrands(brandRepo, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Post("/", controllers.CreateProduct(productService, cfg.Media, logg))
			r.Get("/stats", controllers.ProductStats(productService, logg))
			r.Get("/categories", controllers.ProductCategories(productService, logg))
			r.Post("/bulk", controllers.BulkProducts(productService, logg))

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.GetProduct(productService, logg))
				r.Put("/", controllers.UpdateProduct(productService, cfg.Media, logg))
				r.Patch("/", controllers.UpdateProduct(productService, cfg.Media, logg))
				r.Delete("/", controllers.DeleteProduct(productService, logg))
				r.Patch("/stock", controllers.UpdateStock(productService, logg))
				r.Patch("/discount", controllers.ApplyDiscount(productService, logg))
				r.Delete("/images", controllers.RemoveProductImages(productService, logg))
				r.Delete("/videos", controllers.RemoveProductVideos(productService, logg))
			})
		})
	})

	return r
}

// cachePinger keeps the typed-nil redis client from masquerading as a
// non-nil interface inside the readiness check.
func cachePinger(client *redis.Client) redis.Pinger {
	if client == nil {
		return nil
	}
	return client
}
