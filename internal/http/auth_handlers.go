package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/carlos50barbosa/controle-gastos/internal/auth"
)

type AuthHandler struct {
	DB     *pgxpool.Pool
	Secret []byte
	Log    zerolog.Logger
}

type loginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

type authResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "corpo inválido")
	}

	body.Email = strings.TrimSpace(body.Email)
	if body.Email == "" || body.Senha == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email e senha são obrigatórios")
	}

	var (
		usuarioID int64
		email     string
		senhaHash string
	)
	err := h.DB.QueryRow(userContext(c),
		`SELECT id, email, senha FROM usuarios WHERE email = $1`,
		body.Email,
	).Scan(&usuarioID, &email, &senhaHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return fiber.NewError(fiber.StatusUnauthorized, "dados inválidos")
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("erro no login")
		return fiber.NewError(fiber.StatusInternalServerError, "erro no servidor")
	}

	if !auth.CheckPassword(body.Senha, senhaHash) {
		return fiber.NewError(fiber.StatusUnauthorized, "dados inválidos")
	}

	token, err := auth.GenerateToken(h.Secret, usuarioID, email)
	if err != nil {
		h.Log.Error().Err(err).Msg("erro ao gerar token")
		return fiber.NewError(fiber.StatusInternalServerError, "erro no servidor")
	}

	return c.JSON(authResponse{Token: token})
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
