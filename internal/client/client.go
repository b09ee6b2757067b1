// Package client is the HTTP client the CLI uses against the API. Each
// operation is one request-response exchange.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/carlos50barbosa/controle-gastos/internal/export"
	"github.com/carlos50barbosa/controle-gastos/internal/transactions"
)

var (
	ErrNaoAutenticado = errors.New("não autenticado: faça login")
	ErrSessaoExpirada = errors.New("sessão expirada: faça login novamente")
)

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrNaoAutenticado
	case resp.StatusCode == http.StatusForbidden:
		return ErrSessaoExpirada
	case resp.StatusCode >= 400:
		return apiError(resp.Body, resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func apiError(r io.Reader, status int) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&body); err == nil && body.Error != "" {
		return errors.New(body.Error)
	}
	return fmt.Errorf("erro inesperado do servidor (%d)", status)
}

// Login exchanges credentials for a bearer token and stores it on the
// client for subsequent calls.
func (c *Client) Login(ctx context.Context, email, senha string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/login", map[string]string{"email": email, "senha": senha}, &out)
	if errors.Is(err, ErrNaoAutenticado) {
		return "", errors.New("dados inválidos")
	}
	if err != nil {
		return "", err
	}
	c.Token = out.Token
	return out.Token, nil
}

// List loads the full transaction set of the authenticated user; filtering
// happens client-side.
func (c *Client) List(ctx context.Context) ([]transactions.Transacao, error) {
	var out []transactions.Transacao
	if err := c.do(ctx, http.MethodGet, "/transacoes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, f transactions.Fields) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/transacoes", payloadFrom(f), &out)
	if err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *Client) Update(ctx context.Context, id int64, f transactions.Fields) error {
	return c.do(ctx, http.MethodPut, "/transacoes/"+strconv.FormatInt(id, 10), payloadFrom(f), nil)
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/transacoes/"+strconv.FormatInt(id, 10), nil, nil)
}

// DeleteMany issues the single bulk-delete request and returns how many
// rows the server actually removed.
func (c *Client) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	var out struct {
		Deletadas int64 `json:"deletadas"`
	}
	err := c.do(ctx, http.MethodDelete, "/transacoes", map[string][]int64{"ids": ids}, &out)
	if err != nil {
		return 0, err
	}
	return out.Deletadas, nil
}

// Create satisfies export.Creator so a JSON backup can be re-imported
// through the same per-record create calls the dashboard used.
var _ export.Creator = creatorFunc(nil)

type creatorFunc func(ctx context.Context, f transactions.Fields) error

func (fn creatorFunc) Create(ctx context.Context, f transactions.Fields) error {
	return fn(ctx, f)
}

// Creator adapts the client for export.ImportJSON.
func (c *Client) Creator() export.Creator {
	return creatorFunc(func(ctx context.Context, f transactions.Fields) error {
		_, err := c.Create(ctx, f)
		return err
	})
}

func payloadFrom(f transactions.Fields) transactions.Payload {
	valor := f.Valor
	return transactions.Payload{
		Descricao: f.Descricao,
		Tipo:      f.Tipo,
		Valor:     &valor,
		Data:      f.Data.Format("2006-01-02"),
		Categoria: f.Categoria,
	}
}
