package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlos50barbosa/controle-gastos/internal/auth"
	handlers "github.com/carlos50barbosa/controle-gastos/internal/http"
	"github.com/carlos50barbosa/controle-gastos/internal/logger"
	"github.com/carlos50barbosa/controle-gastos/internal/router"
	"github.com/carlos50barbosa/controle-gastos/internal/transactions"
)

var testSecret = []byte("segredo-de-teste")

// fakeStore is an in-memory, owner-scoped Store.
type fakeStore struct {
	nextID int64
	txs    map[int64]transactions.Transacao
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{txs: make(map[int64]transactions.Transacao)}
}

func (s *fakeStore) Create(_ context.Context, usuarioID int64, f transactions.Fields) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.nextID++
	s.txs[s.nextID] = transactions.Transacao{
		ID:        s.nextID,
		Descricao: f.Descricao,
		Tipo:      f.Tipo,
		Valor:     f.Valor,
		Data:      transactions.NewData(f.Data),
		Categoria: f.Categoria,
		UsuarioID: usuarioID,
	}
	return s.nextID, nil
}

func (s *fakeStore) ListByUser(_ context.Context, usuarioID int64) ([]transactions.Transacao, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]transactions.Transacao, 0)
	for _, t := range s.txs {
		if t.UsuarioID == usuarioID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) Update(_ context.Context, usuarioID, id int64, f transactions.Fields) error {
	t, ok := s.txs[id]
	if !ok || t.UsuarioID != usuarioID {
		return transactions.ErrNotFound
	}
	t.Descricao = f.Descricao
	t.Tipo = f.Tipo
	t.Valor = f.Valor
	t.Data = transactions.NewData(f.Data)
	t.Categoria = f.Categoria
	s.txs[id] = t
	return nil
}

func (s *fakeStore) Delete(_ context.Context, usuarioID, id int64) error {
	t, ok := s.txs[id]
	if !ok || t.UsuarioID != usuarioID {
		return transactions.ErrNotFound
	}
	delete(s.txs, id)
	return nil
}

func (s *fakeStore) DeleteMany(_ context.Context, usuarioID int64, ids []int64) (int64, error) {
	var count int64
	for _, id := range ids {
		if t, ok := s.txs[id]; ok && t.UsuarioID == usuarioID {
			delete(s.txs, id)
			count++
		}
	}
	return count, nil
}

func newTestApp(store *fakeStore) *fiber.App {
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

	log := logger.NewWithWriter(io.Discard)
	r := &router.Router{
		AuthHandler:       &handlers.AuthHandler{Secret: testSecret, Log: log},
		TransacoesHandler: handlers.NewTransacoesHandler(store, log),
		AuthMW:            auth.Middleware(testSecret),
	}
	r.RegisterRoutes(app)
	return app
}

func tokenFor(t *testing.T, usuarioID int64) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, usuarioID, "teste@example.com")
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, path, token, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func seed(t *testing.T, store *fakeStore, usuarioID int64, descricao, tipo, valor, data, categoria string) int64 {
	t.Helper()
	v, err := decimal.NewFromString(valor)
	require.NoError(t, err)
	d, err := transactions.ParseData(data)
	require.NoError(t, err)
	id, err := store.Create(context.Background(), usuarioID, transactions.Fields{
		Descricao: descricao, Tipo: tipo, Valor: v, Data: d, Categoria: categoria,
	})
	require.NoError(t, err)
	return id
}

func TestCreateTransacao(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(store)

	resp := doRequest(t, app, "POST", "/transacoes", tokenFor(t, 1),
		`{"descricao":"Mercado","tipo":"despesa","valor":35,"data":"2025-04-02T10:00:00","categoria":"Alimentação"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(1), body.ID)

	created := store.txs[body.ID]
	assert.Equal(t, int64(1), created.UsuarioID)
	assert.Equal(t, "2025-04-02", created.Data.Format("2006-01-02"))
}

func TestCreateTransacao_MissingField(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(store)

	resp := doRequest(t, app, "POST", "/transacoes", tokenFor(t, 1),
		`{"descricao":"Mercado","tipo":"despesa","valor":35,"data":"2025-04-02"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, store.txs)
}

func TestAuth_MissingToken(t *testing.T) {
	app := newTestApp(newFakeStore())

	resp := doRequest(t, app, "GET", "/transacoes", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_InvalidToken(t *testing.T) {
	app := newTestApp(newFakeStore())

	resp := doRequest(t, app, "GET", "/transacoes", "nao-e-um-token", "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestList_IsOwnerScoped(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(store)

	seed(t, store, 1, "minha", "despesa", "10", "2025-04-01", "x")
	seed(t, store, 2, "de outro", "despesa", "20", "2025-04-01", "x")

	resp := doRequest(t, app, "GET", "/transacoes", tokenFor(t, 1), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var txs []transactions.Transacao
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&txs))
	require.Len(t, txs, 1)
	assert.Equal(t, "minha", txs[0].Descricao)
}

func TestUpdate_OtherOwnerIs404AndUnchanged(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(store)

	id := seed(t, store, 2, "de outro", "despesa", "20", "2025-04-01", "x")

	resp := doRequest(t, app, "PUT", "/transacoes/1", tokenFor(t, 1),
		`{"descricao":"hackeada","tipo":"receita","valor":1,"data":"2025-04-01","categoria":"x"}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "de outro", store.txs[id].Descricao)
}

func TestUpdate_OK(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(store)

	id := seed(t, store, 1, "antes", "despesa", "20", "2025-04-01", "x")

	resp := doRequest(t, app, "PUT", "/transacoes/1", tokenFor(t, 1),
		`{"descricao":"depois","tipo":"despesa","valor":25,"data":"2025-04-02","categoria":"x"}`)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "depois", store.txs[id].Descricao)
}

func TestDelete(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(store)

	seed(t, store, 1, "minha", "despesa", "10", "2025-04-01", "x")

	resp := doRequest(t, app, "DELETE", "/transacoes/1", tokenFor(t, 1), "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, app, "DELETE", "/transacoes/1", tokenFor(t, 1), "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteMany_SanitizesAndStaysOwnerScoped(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(store)

	seed(t, store, 1, "a", "despesa", "10", "2025-04-01", "x") // id 1
	seed(t, store, 2, "b", "despesa", "10", "2025-04-01", "x") // id 2, outro dono
	seed(t, store, 1, "c", "despesa", "10", "2025-04-01", "x") // id 3

	resp := doRequest(t, app, "DELETE", "/transacoes", tokenFor(t, 1),
		`{"ids":["1","abc","3","2"]}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Deletadas int64 `json:"deletadas"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(2), body.Deletadas)

	// the other owner's transaction survives
	_, ok := store.txs[2]
	assert.True(t, ok)
}

func TestDeleteMany_EmptyAndInvalid(t *testing.T) {
	app := newTestApp(newFakeStore())

	resp := doRequest(t, app, "DELETE", "/transacoes", tokenFor(t, 1), `{"ids":[]}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, "DELETE", "/transacoes", tokenFor(t, 1), `{"ids":["abc","x"]}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestResumo_FilteredTotals(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(store)

	seed(t, store, 1, "Salário", "receita", "3000", "2025-04-01", "Trabalho")
	seed(t, store, 1, "Mercado", "despesa", "35", "2025-04-02", "Alimentação")

	resp := doRequest(t, app, "GET", "/transacoes/resumo?tipo=despesa", tokenFor(t, 1), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var resumo struct {
		Receitas decimal.Decimal `json:"receitas"`
		Despesas decimal.Decimal `json:"despesas"`
		Saldo    decimal.Decimal `json:"saldo"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&resumo))
	assert.True(t, resumo.Receitas.IsZero())
	assert.True(t, resumo.Despesas.Equal(decimal.NewFromInt(35)))
	assert.True(t, resumo.Saldo.Equal(decimal.NewFromInt(-35)))
}

func TestExport_CSV(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(store)

	seed(t, store, 1, "Mercado", "despesa", "35", "2025-04-02", "Alimentação")

	resp := doRequest(t, app, "GET", "/transacoes/export?formato=csv", tokenFor(t, 1), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Data,Descrição,Tipo,Categoria,Valor\n2025-04-02,Mercado,despesa,Alimentação,35\n", string(raw))
}

func TestImport_PartialSuccess(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(store)

	body := `[
		{"descricao":"ok","tipo":"despesa","valor":10,"data":"2025-04-01","categoria":"x"},
		{"descricao":"sem tipo","valor":10,"data":"2025-04-01","categoria":"x"}
	]`
	resp := doRequest(t, app, "POST", "/transacoes/import", tokenFor(t, 1), body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var report struct {
		Importadas int `json:"importadas"`
		Falhas     []struct {
			Indice int    `json:"indice"`
			Motivo string `json:"motivo"`
		} `json:"falhas"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 1, report.Importadas)
	require.Len(t, report.Falhas, 1)

	// the list grew by exactly one
	assert.Len(t, store.txs, 1)
}

func TestHealth(t *testing.T) {
	app := newTestApp(newFakeStore())

	for _, path := range []string{"/health", "/api/health"} {
		resp := doRequest(t, app, "GET", path, "", "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "OK", body.Status)
	}
}
