package http

import (
	"bytes"
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/carlos50barbosa/controle-gastos/internal/auth"
	"github.com/carlos50barbosa/controle-gastos/internal/export"
	"github.com/carlos50barbosa/controle-gastos/internal/transactions"
)

// Export serializes the currently filtered transaction set. The unfiltered
// full set goes out only when no filter parameter is given.
func (h *TransacoesHandler) Export(c *fiber.Ctx) error {
	usuarioID, ok := auth.UsuarioID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "token ausente")
	}

	filtered, _, err := h.visible(c, usuarioID)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch strings.ToLower(strings.TrimSpace(c.Query("formato", "csv"))) {
	case "csv":
		if err := export.WriteCSV(&buf, filtered); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "erro ao exportar transações")
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="transacoes.csv"`)
	case "json":
		if err := export.WriteJSON(&buf, filtered); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "erro ao exportar transações")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="backup-transacoes.json"`)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "formato deve ser csv ou json")
	}

	return c.Send(buf.Bytes())
}

// storeCreator adapts the owner-scoped Store to the import Creator contract.
type storeCreator struct {
	store     Store
	usuarioID int64
}

func (s storeCreator) Create(ctx context.Context, f transactions.Fields) error {
	_, err := s.store.Create(ctx, s.usuarioID, f)
	return err
}

// Import accepts a JSON array of transaction payloads and creates the valid
// records one by one, reporting per-record failures without aborting.
func (h *TransacoesHandler) Import(c *fiber.Ctx) error {
	usuarioID, ok := auth.UsuarioID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "token ausente")
	}

	report, err := export.ImportJSON(userContext(c), bytes.NewReader(c.Body()), storeCreator{
		store:     h.Store,
		usuarioID: usuarioID,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "arquivo inválido")
	}

	return c.JSON(report)
}
