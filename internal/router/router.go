package router

import (
	"github.com/gofiber/fiber/v2"

	handlers "github.com/carlos50barbosa/controle-gastos/internal/http"
)

type Router struct {
	AuthHandler       *handlers.AuthHandler
	TransacoesHandler *handlers.TransacoesHandler
	AuthMW            fiber.Handler
}

// RegisterRoutes wires every route twice: bare and under /api, which is
// what the deployed frontend calls. Limiters are created once so both
// prefixes share counters.
func (r *Router) RegisterRoutes(app *fiber.App) {
	loginLimiter := RateLimitAuth()
	writeLimiter := RateLimitWrite()

	for _, g := range []fiber.Router{app, app.Group("/api")} {
		g.Get("/health", health)
		g.Post("/login", loginLimiter, r.AuthHandler.Login)

		g.Post("/transacoes", r.AuthMW, writeLimiter, r.TransacoesHandler.Create)
		g.Get("/transacoes", r.AuthMW, r.TransacoesHandler.List)
		g.Get("/transacoes/resumo", r.AuthMW, r.TransacoesHandler.Resumo)
		g.Get("/transacoes/export", r.AuthMW, r.TransacoesHandler.Export)
		g.Post("/transacoes/import", r.AuthMW, writeLimiter, r.TransacoesHandler.Import)
		g.Put("/transacoes/:id", r.AuthMW, writeLimiter, r.TransacoesHandler.Update)
		g.Delete("/transacoes", r.AuthMW, writeLimiter, r.TransacoesHandler.DeleteMany)
		g.Delete("/transacoes/:id", r.AuthMW, writeLimiter, r.TransacoesHandler.Delete)
	}
}

func health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "OK"})
}
