package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/auth"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/usecase"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions       *session.Registry
	Gateways       session.GatewayFactory
	Session        SessionConfig
	LoginLimiter   *RateLimiter
	AuthUC         *auth.AuthUseCase
	InmobiliariaUC *usecase.InmobiliariaUseCase
	UserUC         *usecase.UserUseCase
	ProfileUC      *usecase.ProfileUseCase
	ProjectUC      *usecase.ProjectUseCase
	ProspectUC     *usecase.ProspectUseCase
	CampaignUC     *usecase.CampaignUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	cfg := deps.Session
	api := app.Group("/api", ClientSession(deps.Sessions, cfg))

	authed := RequireSession(cfg)
	staff := RequireSession(cfg, entity.RoleDeveloper, entity.RoleAdmin)
	devOnly := RequireSession(cfg, entity.RoleDeveloper)

	// Auth y estado de sesión (sin guard)
	authHandler := NewAuthHandler(deps.AuthUC, cfg)
	authGroup := api.Group("/auth")
	if deps.LoginLimiter != nil {
		authGroup.Post("/login", IPRateLimit(deps.LoginLimiter), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Post("/refresh", authed, authHandler.Refresh)
	api.Get("/session", authHandler.Session)

	meHandler := NewMeHandler(deps.ProfileUC, deps.Gateways)
	api.Get("/me", authed, meHandler.Get)
	api.Patch("/me", authed, meHandler.Update)

	// Inmobiliarias (developer)
	inmoHandler := NewInmobiliariaHandler(deps.InmobiliariaUC)
	inmos := api.Group("/inmobiliarias", devOnly)
	inmos.Get("/", inmoHandler.List)
	inmos.Post("/", inmoHandler.Create)
	inmos.Get("/:id", inmoHandler.GetByID)

	// Usuarios (developer, admin)
	userHandler := NewUserHandler(deps.UserUC)
	users := api.Group("/usuarios", staff)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Patch("/:id/activo", userHandler.SetActive)

	// Proyectos (todos leen; crean developer y admin)
	projectHandler := NewProjectHandler(deps.ProjectUC)
	api.Get("/proyectos", authed, projectHandler.List)
	api.Post("/proyectos", staff, projectHandler.Create)

	// Prospectos y pipeline
	prospectHandler := NewProspectHandler(deps.ProspectUC)
	prospects := api.Group("/prospectos", authed)
	prospects.Get("/", prospectHandler.List)
	prospects.Post("/", prospectHandler.Create)
	prospects.Patch("/:id/etapa", prospectHandler.MoveStage)
	api.Get("/pipeline", authed, prospectHandler.Pipeline)
	api.Get("/pipeline/reporte.pdf", staff, prospectHandler.PipelineReport)

	// Campañas push (developer, admin)
	campaignHandler := NewCampaignHandler(deps.CampaignUC)
	campaigns := api.Group("/campanas", staff)
	campaigns.Get("/", campaignHandler.List)
	campaigns.Post("/", campaignHandler.Create)
}
