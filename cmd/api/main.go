package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/auth"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/usecase"
	"github.com/jhoicas/Inmobiliaria-crm/internal/infrastructure/gateway"
	infrapdf "github.com/jhoicas/Inmobiliaria-crm/internal/infrastructure/pdf"
	"github.com/jhoicas/Inmobiliaria-crm/internal/infrastructure/postgres"
	"github.com/jhoicas/Inmobiliaria-crm/internal/infrastructure/redisstore"
	httpRouter "github.com/jhoicas/Inmobiliaria-crm/internal/interfaces/http"
	"github.com/jhoicas/Inmobiliaria-crm/pkg/config"
	"github.com/jhoicas/Inmobiliaria-crm/pkg/logger"
	"github.com/jhoicas/Inmobiliaria-crm/pkg/retry"
)

const revocationRetryEvery = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	policy := retry.Policy{
		MaxRetries:   cfg.Retry.MaxRetries,
		InitialDelay: cfg.Retry.InitialDelay,
		Multiplier:   cfg.Retry.Multiplier,
		IsRetryable:  retry.IsTransient,
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, policy, log.Component("postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	rdb, err := redisstore.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer rdb.Close()

	userRepo := postgres.NewUserRepository(pool)
	inmoRepo := postgres.NewInmobiliariaRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	prospectRepo := postgres.NewProspectRepository(pool)
	campaignRepo := postgres.NewCampaignRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Gateway: filas vía pgx, tokens y revocaciones en Redis
	tokens := redisstore.NewTokenStore(rdb, "")
	hub := gateway.NewHub(gateway.HubConfig{
		Secret:      cfg.JWT.Secret,
		Rows:        postgres.NewRowStore(pool),
		Tokens:      tokens,
		Revocations: redisstore.NewRevocations(rdb, ""),
		Log:         log.Component("gateway"),
	})
	// cierres de sesión cuya revocación falló se reintentan en segundo plano
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	go hub.RunRevocationRetries(bgCtx, revocationRetryEvery)

	// Un Store por cookie de cliente; las lecturas de filas se reintentan con la política
	projections := redisstore.NewProjectionStore(rdb, "", cfg.Session.ProjectionTTL)
	sessionLog := log.Component("session")
	registry := session.NewRegistry(session.RegistryConfig{
		Factory: func(clientID string) session.Gateway {
			return session.WithRetry(hub.Gateway(clientID), policy)
		},
		Options: func(clientID string) []session.Option {
			return []session.Option{
				session.WithLogger(sessionLog.With().Str("client_id", clientID).Logger()),
				session.WithProjection(projections, clientID),
			}
		},
		OnEvict: hub.Release,
		MaxIdle: cfg.Session.IdleTTL,
	})
	defer registry.CloseAll()

	authUC := auth.NewAuthUseCase(userRepo, hub, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, policy)

	sessionCfg := httpRouter.SessionConfig{
		CookieName: cfg.Session.CookieName,
		Wait:       cfg.Session.Wait,
		Secure:     cfg.Session.SecureCookie,
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "CRM Inmobiliario API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions:       registry,
		Gateways:       hub.Gateway,
		Session:        sessionCfg,
		LoginLimiter:   httpRouter.NewRateLimiter(cfg.RateLimit.LoginPerSecond, cfg.RateLimit.LoginBurst),
		AuthUC:         authUC,
		InmobiliariaUC: usecase.NewInmobiliariaUseCase(inmoRepo, txRunner, policy),
		UserUC:         usecase.NewUserUseCase(userRepo, hub, policy),
		ProfileUC:      usecase.NewProfileUseCase(hub),
		ProjectUC:      usecase.NewProjectUseCase(projectRepo, policy),
		ProspectUC:     usecase.NewProspectUseCase(prospectRepo, projectRepo, userRepo, infrapdf.NewPipelineReport(), policy),
		CampaignUC:     usecase.NewCampaignUseCase(campaignRepo, policy),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
