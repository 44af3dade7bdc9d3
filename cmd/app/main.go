package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/redis/go-redis/v9"
	"github.com/wichananm65/eco-shop-backend/internal/cart"
	"github.com/wichananm65/eco-shop-backend/internal/category"
	"github.com/wichananm65/eco-shop-backend/internal/config"
	"github.com/wichananm65/eco-shop-backend/internal/database"
	"github.com/wichananm65/eco-shop-backend/internal/eco"
	"github.com/wichananm65/eco-shop-backend/internal/eco/bayes"
	"github.com/wichananm65/eco-shop-backend/internal/narrator"
	"github.com/wichananm65/eco-shop-backend/internal/order"
	"github.com/wichananm65/eco-shop-backend/internal/platform/logger"
	"github.com/wichananm65/eco-shop-backend/internal/product"
	"github.com/wichananm65/eco-shop-backend/internal/recommended"
	"github.com/wichananm65/eco-shop-backend/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// repositories groups the storage backends; Postgres when DATABASE_URL is
// set, in-memory otherwise.
type repositories struct {
	users      user.Repository
	products   product.Repository
	carts      cart.Repository
	orders     order.Repository
	categories func(product.Repository) category.Repository
	db         *sql.DB
}

func openRepositories(ctx context.Context, cfg config.Config, log *logger.Logger) (repositories, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory storage")
		return repositories{
			users:    user.NewInMemoryRepository(nil),
			products: product.NewInMemoryRepository(nil),
			carts:    cart.NewInMemoryRepository(nil),
			orders:   order.NewInMemoryRepository(),
			categories: func(p product.Repository) category.Repository {
				return category.NewCatalogRepository(p)
			},
		}, nil
	}

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return repositories{}, err
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return repositories{}, err
	}
	return repositories{
		users:    user.NewPostgresRepository(db),
		products: product.NewPostgresRepository(db),
		carts:    cart.NewPostgresRepository(db),
		orders:   order.NewPostgresRepository(db),
		categories: func(product.Repository) category.Repository {
			return category.NewPostgresRepository(db)
		},
		db: db,
	}, nil
}

// loadClassifier returns nil when the model artifact is missing or invalid;
// the API then serves degraded assessments.
func loadClassifier(path string, log *logger.Logger) eco.Classifier {
	model, err := bayes.LoadFile(path)
	if err != nil {
		log.Warn("classifier unavailable, labels default to medium", "model_path", path, "error", err)
		return nil
	}
	log.Info("classifier loaded", "model_id", model.ID, "corpus_version", model.CorpusVersion)
	return model
}

func run(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		return err
	}
	if repos.db != nil {
		defer repos.db.Close()
	}

	assessor := eco.NewAssessor(eco.NewScorer(cfg.Rules), loadClassifier(cfg.ModelPath, log))

	userService := user.NewService(repos.users)
	if cfg.Admin.Enabled() {
		if _, err := userService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
	}

	productService := product.NewService(repos.products, assessor, log.With("component", "product"))
	if err := seedCatalog(ctx, repos, productService, log); err != nil {
		return err
	}

	var cache recommended.Cache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, alternatives are computed per request", "addr", cfg.RedisAddr, "error", err)
		}
		cache = recommended.NewRedisCache(client, recommended.WithTTL(cfg.CacheTTL))
	}

	var rewriter narrator.Rewriter
	if cfg.Narrator.Enabled() {
		rewriter = narrator.New(cfg.Narrator.URL, cfg.Narrator.APIKey, cfg.Narrator.Model, cfg.Narrator.Timeout)
	}

	cartService := cart.NewService(repos.carts, productService, log.With("component", "cart"))
	recService := recommended.NewService(productService, cartService, cache, recommended.Limits{
		Cart:   cfg.Alternatives.CartLimit,
		Detail: cfg.Alternatives.DetailLimit,
	}, log.With("component", "recommended"))
	productService.OnChange(recService.InvalidateCache)
	orderService := order.NewService(repos.orders, cartService, log.With("component", "order"))
	categoryService := category.NewService(repos.categories(repos.products))

	userHandler := user.NewHandler(userService, cfg.JWTSecret)
	productHandler := product.NewHandler(productService, rewriter, cfg.AllowReset, log.With("component", "product"))
	recHandler := recommended.NewHandler(recService)
	categoryHandler := category.NewHandler(categoryService)
	cartHandler := cart.NewHandler(cartService)
	orderHandler := order.NewHandler(orderService)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	setupCORS(app)
	app.Use(recover.New())
	app.Use(requestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "classifier": assessor.ClassifierAvailable()})
	})

	userHandler.RegisterPublicRoutes(app)
	recHandler.RegisterPublicRoutes(app)
	// category before product so the literal path wins over :id
	categoryHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
		Filter:     isPublic,
	}))

	userHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	recHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Warn("shutdown", "error", err)
		}
	}()

	log.Info("listening", "addr", cfg.Addr)
	return app.Listen(cfg.Addr)
}

// seedCatalog loads the sample catalog into empty storage.
func seedCatalog(ctx context.Context, repos repositories, svc *product.Service, log *logger.Logger) error {
	if repos.db != nil {
		empty, err := database.IsEmpty(ctx, repos.db)
		if err != nil {
			return err
		}
		if !empty {
			return nil
		}
	}
	seeded, err := svc.ResetProducts(ctx, product.SeedProducts())
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	log.Info("catalog seeded", "products", len(seeded))
	return nil
}

// isPublic lets unauthenticated requests through the JWT middleware. Public
// handlers registered above answer first; this covers unmatched paths under
// the public prefixes.
func isPublic(c *fiber.Ctx) bool {
	p := c.Path()
	if p == "/health" || strings.HasPrefix(p, "/dev/") {
		return true
	}
	return c.Method() == fiber.MethodGet && p == "/api/v1/products"
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func requestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Debug("request",
			"method", c.Method(),
			"path", c.OriginalURL(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start).String(),
		)
		return err
	}
}
