package transactions

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TipoReceita = "receita"
	TipoDespesa = "despesa"
)

var (
	ErrCamposObrigatorios = errors.New("todos os campos são obrigatórios")
	ErrTipoInvalido       = errors.New("tipo deve ser receita ou despesa")
	ErrDataInvalida       = errors.New("data inválida, use AAAA-MM-DD")
	ErrNotFound           = errors.New("transação não encontrada")
)

// Transacao is one income or expense record owned by a user.
type Transacao struct {
	ID        int64           `json:"id"`
	Descricao string          `json:"descricao"`
	Tipo      string          `json:"tipo"`
	Valor     decimal.Decimal `json:"valor"`
	Data      Data            `json:"data"`
	Categoria string          `json:"categoria"`
	UsuarioID int64           `json:"usuario_id"`
}

// Data is a plain calendar date. Time-of-day is never persisted; native
// date pickers send combined date-time values, so parsing truncates at 'T'.
type Data struct {
	time.Time
}

func NewData(t time.Time) Data {
	y, m, d := t.Date()
	return Data{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Data) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *Data) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	t, err := ParseData(s)
	if err != nil {
		return err
	}
	*d = NewData(t)
	return nil
}

// ParseData parses a calendar date, dropping any time component.
func ParseData(s string) (time.Time, error) {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrDataInvalida
	}
	return t, nil
}

// Fields holds the validated, normalized mutable attributes of a
// transaction. ID and UsuarioID are never client-supplied.
type Fields struct {
	Descricao string
	Tipo      string
	Valor     decimal.Decimal
	Data      time.Time
	Categoria string
}

// Payload is the wire shape shared by create, update and import.
type Payload struct {
	Descricao string           `json:"descricao"`
	Tipo      string           `json:"tipo"`
	Valor     *decimal.Decimal `json:"valor"`
	Data      string           `json:"data"`
	Categoria string           `json:"categoria"`
}

// Validate checks the five required fields and normalizes the date.
func (p Payload) Validate() (Fields, error) {
	descricao := strings.TrimSpace(p.Descricao)
	categoria := strings.TrimSpace(p.Categoria)
	tipo := strings.TrimSpace(strings.ToLower(p.Tipo))

	if descricao == "" || tipo == "" || categoria == "" || p.Data == "" || p.Valor == nil {
		return Fields{}, ErrCamposObrigatorios
	}
	if tipo != TipoReceita && tipo != TipoDespesa {
		return Fields{}, ErrTipoInvalido
	}
	data, err := ParseData(p.Data)
	if err != nil {
		return Fields{}, err
	}

	return Fields{
		Descricao: descricao,
		Tipo:      tipo,
		Valor:     *p.Valor,
		Data:      data,
		Categoria: categoria,
	}, nil
}
