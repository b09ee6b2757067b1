package main

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carlos50barbosa/controle-gastos/internal/auth"
	"github.com/carlos50barbosa/controle-gastos/internal/config"
	handlers "github.com/carlos50barbosa/controle-gastos/internal/http"
	"github.com/carlos50barbosa/controle-gastos/internal/logger"
	"github.com/carlos50barbosa/controle-gastos/internal/router"
	"github.com/carlos50barbosa/controle-gastos/internal/transactions"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuração inválida")
	}

	ctx := context.Background()
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("DATABASE_URL inválida")
	}
	poolCfg.MaxConns = cfg.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("erro ao criar pool de conexões")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("erro ao conectar ao banco de dados")
	}
	log.Info().Msg("conectado ao banco de dados")

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "erro no servidor"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(router.CorsMiddleware(cfg.CORSOrigin))
	app.Use(router.RequestLogger(log))

	repo := transactions.NewRepo(pool, cfg.QueryTimeout)
	r := &router.Router{
		AuthHandler:       &handlers.AuthHandler{DB: pool, Secret: cfg.JWTSecret, Log: log},
		TransacoesHandler: handlers.NewTransacoesHandler(repo, log),
		AuthMW:            auth.Middleware(cfg.JWTSecret),
	}
	r.RegisterRoutes(app)

	log.Info().Str("port", cfg.Port).Msg("API no ar")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("erro no servidor HTTP")
	}
}
