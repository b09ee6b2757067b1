package http

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/carlos50barbosa/controle-gastos/internal/auth"
	"github.com/carlos50barbosa/controle-gastos/internal/filter"
	"github.com/carlos50barbosa/controle-gastos/internal/transactions"
)

// Store is the owner-scoped persistence contract the handlers depend on.
type Store interface {
	Create(ctx context.Context, usuarioID int64, f transactions.Fields) (int64, error)
	ListByUser(ctx context.Context, usuarioID int64) ([]transactions.Transacao, error)
	Update(ctx context.Context, usuarioID, id int64, f transactions.Fields) error
	Delete(ctx context.Context, usuarioID, id int64) error
	DeleteMany(ctx context.Context, usuarioID int64, ids []int64) (int64, error)
}

type TransacoesHandler struct {
	Store Store
	Log   zerolog.Logger
}

func NewTransacoesHandler(store Store, log zerolog.Logger) *TransacoesHandler {
	return &TransacoesHandler{Store: store, Log: log}
}

func (h *TransacoesHandler) Create(c *fiber.Ctx) error {
	usuarioID, ok := auth.UsuarioID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "token ausente")
	}

	var body transactions.Payload
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, transactions.ErrCamposObrigatorios.Error())
	}

	fields, err := body.Validate()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	id, err := h.Store.Create(userContext(c), usuarioID, fields)
	if err != nil {
		h.Log.Error().Err(err).Int64("usuario_id", usuarioID).Msg("erro ao salvar transação")
		return fiber.NewError(fiber.StatusInternalServerError, "erro ao salvar transação")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *TransacoesHandler) List(c *fiber.Ctx) error {
	usuarioID, ok := auth.UsuarioID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "token ausente")
	}

	txs, err := h.Store.ListByUser(userContext(c), usuarioID)
	if err != nil {
		h.Log.Error().Err(err).Int64("usuario_id", usuarioID).Msg("erro ao buscar transações")
		return fiber.NewError(fiber.StatusInternalServerError, "erro ao buscar transações")
	}

	return c.JSON(txs)
}

func (h *TransacoesHandler) Update(c *fiber.Ctx) error {
	usuarioID, ok := auth.UsuarioID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "token ausente")
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id inválido")
	}

	var body transactions.Payload
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, transactions.ErrCamposObrigatorios.Error())
	}

	fields, err := body.Validate()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	err = h.Store.Update(userContext(c), usuarioID, id, fields)
	if errors.Is(err, transactions.ErrNotFound) {
		// Absent and not-owned are deliberately indistinguishable.
		return fiber.NewError(fiber.StatusNotFound, transactions.ErrNotFound.Error())
	}
	if err != nil {
		h.Log.Error().Err(err).Int64("usuario_id", usuarioID).Int64("id", id).Msg("erro ao atualizar transação")
		return fiber.NewError(fiber.StatusInternalServerError, "erro ao atualizar transação")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TransacoesHandler) Delete(c *fiber.Ctx) error {
	usuarioID, ok := auth.UsuarioID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "token ausente")
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id inválido")
	}

	err = h.Store.Delete(userContext(c), usuarioID, id)
	if errors.Is(err, transactions.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, transactions.ErrNotFound.Error())
	}
	if err != nil {
		h.Log.Error().Err(err).Int64("usuario_id", usuarioID).Int64("id", id).Msg("erro ao excluir transação")
		return fiber.NewError(fiber.StatusInternalServerError, "erro ao excluir transação")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type deleteManyRequest struct {
	IDs []any `json:"ids"`
}

func (h *TransacoesHandler) DeleteMany(c *fiber.Ctx) error {
	usuarioID, ok := auth.UsuarioID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "token ausente")
	}

	var body deleteManyRequest
	if err := c.BodyParser(&body); err != nil || len(body.IDs) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "nenhuma transação selecionada")
	}

	ids := sanitizeIDs(body.IDs)
	if len(ids) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "ids inválidos")
	}

	count, err := h.Store.DeleteMany(userContext(c), usuarioID, ids)
	if err != nil {
		h.Log.Error().Err(err).Int64("usuario_id", usuarioID).Msg("erro ao excluir transações")
		return fiber.NewError(fiber.StatusInternalServerError, "erro ao excluir transações")
	}

	return c.JSON(fiber.Map{"deletadas": count})
}

// Resumo returns income/expense totals over the filtered subset.
func (h *TransacoesHandler) Resumo(c *fiber.Ctx) error {
	usuarioID, ok := auth.UsuarioID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "token ausente")
	}

	_, resumo, err := h.visible(c, usuarioID)
	if err != nil {
		return err
	}
	return c.JSON(resumo)
}

// sanitizeIDs coerces JSON numbers and numeric strings to int64, dropping
// anything non-numeric before it reaches the store.
func sanitizeIDs(raw []any) []int64 {
	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		switch n := v.(type) {
		case float64:
			ids = append(ids, int64(n))
		case string:
			if id, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// filterSpec builds a filter.Spec from the query parameters shared by the
// resumo and export endpoints.
func filterSpec(c *fiber.Ctx) (filter.Spec, error) {
	spec := filter.Spec{
		Periodo:   strings.TrimSpace(c.Query("periodo")),
		Tipo:      strings.TrimSpace(c.Query("tipo")),
		Categoria: strings.TrimSpace(c.Query("categoria")),
	}

	if v := strings.TrimSpace(c.Query("inicio")); v != "" {
		t, err := transactions.ParseData(v)
		if err != nil {
			return filter.Spec{}, err
		}
		spec.DataInicio = &t
	}
	if v := strings.TrimSpace(c.Query("fim")); v != "" {
		t, err := transactions.ParseData(v)
		if err != nil {
			return filter.Spec{}, err
		}
		spec.DataFim = &t
	}
	return spec, nil
}

func (h *TransacoesHandler) visible(c *fiber.Ctx, usuarioID int64) ([]transactions.Transacao, filter.Resumo, error) {
	spec, err := filterSpec(c)
	if err != nil {
		return nil, filter.Resumo{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	txs, err := h.Store.ListByUser(userContext(c), usuarioID)
	if err != nil {
		h.Log.Error().Err(err).Int64("usuario_id", usuarioID).Msg("erro ao buscar transações")
		return nil, filter.Resumo{}, fiber.NewError(fiber.StatusInternalServerError, "erro ao buscar transações")
	}

	filtered, resumo := filter.Apply(txs, spec, time.Now())
	return filtered, resumo, nil
}
