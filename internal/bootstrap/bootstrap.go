package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/edusponsor/internal/app/controllers"
	appMigrations "github.com/yigit/edusponsor/internal/app/migrations"
	appRepos "github.com/yigit/edusponsor/internal/app/repositories"
	appRoutes "github.com/yigit/edusponsor/internal/app/routes"
	appServices "github.com/yigit/edusponsor/internal/app/services"
	"github.com/yigit/edusponsor/internal/config"
	"github.com/yigit/edusponsor/internal/db"
	appMiddleware "github.com/yigit/edusponsor/internal/middleware"
	pkgAuth "github.com/yigit/edusponsor/internal/pkg/auth"
	"github.com/yigit/edusponsor/internal/pkg/email"
	"github.com/yigit/edusponsor/internal/pkg/events"
	"github.com/yigit/edusponsor/internal/pkg/logger"
	"github.com/yigit/edusponsor/internal/pkg/metrics"
	"github.com/yigit/edusponsor/internal/pkg/payments"
)

const senderName = "EduSponsor"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services              *appServices.Services
	AuthController        *appControllers.AuthController
	SchoolController      *appControllers.SchoolController
	StudentController     *appControllers.StudentController
	SponsorshipController *appControllers.SponsorshipController
	PaymentController     *appControllers.PaymentController
	AuthMiddleware        *appMiddleware.AuthMiddleware
	Repos                 *appRepos.Repositories
	JWTService            *pkgAuth.JWTService
	Gateway               payments.Gateway
	Publisher             events.Publisher
	Metrics               *metrics.Metrics
	Logger                zerolog.Logger
}

// Close releases connections owned by the dependencies
func (d *Dependencies) Close() {
	if d.Publisher != nil {
		d.Publisher.Close()
	}
}

// LoadConfigAndSetupLogger loads .env and the YAML config, then configures the logger
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if err := config.LoadDotEnv(); err != nil {
		logger.Warn().Err(err).Msg("Failed to load .env file")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.ConfigFromSettings(cfg.Logging.Level, cfg.Logging.Format))

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database, nil
}

// RunMigrations applies pending SQL migrations from the configured directory
func RunMigrations(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// BuildDependencies initializes repositories, services and controllers
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	tokenExp, err := time.ParseDuration(cfg.JWT.Expiration)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT expiration: %w", err)
	}
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey: cfg.JWT.Secret,
		TokenExp:  tokenExp,
	})

	deps.Repos = appRepos.NewRepositories(database.Gorm)
	deps.Metrics = metrics.New()

	if cfg.Stripe.SecretKey == "" {
		lgr.Warn().Msg("STRIPE_SECRET_KEY is not set, payment endpoints will fail")
	}
	deps.Gateway = payments.NewStripeGateway(payments.StripeConfig{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		Currency:      cfg.Stripe.Currency,
	})

	deps.Publisher = newPublisher(cfg, lgr)
	mailer := email.NewSMTPSender(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  senderName,
		FromEmail: cfg.SMTP.From,
	}, lgr.With().Str("component", "email").Logger())

	notifier := appServices.NewDonationNotifier(
		deps.Publisher,
		mailer,
		deps.Repos.Users,
		deps.Repos.EmailLogs,
		lgr.With().Str("component", "notifier").Logger(),
	)

	deps.Services = appServices.NewServices(appServices.Dependencies{
		Repos:    deps.Repos,
		JWT:      deps.JWTService,
		Gateway:  deps.Gateway,
		Notifier: notifier,
		Metrics:  deps.Metrics,
		URLs: appServices.RedirectURLs{
			Frontend: cfg.URLs.Frontend,
			Backend:  cfg.URLs.Backend,
		},
		Logger: lgr,
	})

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.Services.Auth)
	deps.SchoolController = appControllers.NewSchoolController(deps.Services.Schools)
	deps.StudentController = appControllers.NewStudentController(deps.Services.Students)
	deps.SponsorshipController = appControllers.NewSponsorshipController(deps.Services.Sponsorships)
	deps.PaymentController = appControllers.NewPaymentController(deps.Services.Payments, deps.Services.Donations)

	return deps, nil
}

// newPublisher connects to NATS when configured. A failed connection falls
// back to the no-op publisher so the API still starts.
func newPublisher(cfg *config.Config, lgr zerolog.Logger) events.Publisher {
	if cfg.NATS.URL == "" {
		return events.NoopPublisher{}
	}
	publisher, err := events.NewNatsPublisher(cfg.NATS.URL, cfg.NATS.Subject)
	if err != nil {
		lgr.Error().Err(err).Str("url", cfg.NATS.URL).Msg("NATS unavailable, donation events disabled")
		return events.NoopPublisher{}
	}
	lgr.Info().Str("subject", cfg.NATS.Subject).Msg("Publishing donation events to NATS")
	return publisher
}

// SetupRouter configures the Gin engine with middleware and routes
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(),
		appMiddleware.CORS(cfg.CORSOrigins()),
		appMiddleware.Metrics(deps.Metrics),
	)

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.SchoolController,
		deps.StudentController,
		deps.SponsorshipController,
		deps.PaymentController,
		deps.AuthMiddleware,
	)

	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	setupStaticFileServing(router, cfg.Server.StaticDir, lgr)

	return router
}

// setupStaticFileServing serves the payment landing pages. Unknown paths fall
// through to the static directory so /payment-complete.html resolves.
func setupStaticFileServing(router *gin.Engine, dir string, lgr zerolog.Logger) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		lgr.Warn().Str("path", dir).Msg("Static directory not found, skipping")
		return
	}

	fs := http.Dir(dir)
	fileServer := http.FileServer(fs)
	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusNotFound)
			return
		}
		f, err := fs.Open(c.Request.URL.Path)
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		info, err := f.Stat()
		_ = f.Close()
		if err != nil || info.IsDir() {
			c.Status(http.StatusNotFound)
			return
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	})
	lgr.Info().Str("path", dir).Msg("Static file serving configured")
}
