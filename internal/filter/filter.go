// Package filter derives the visible subset of a user's transactions and
// its income/expense summary from a filter specification. It is a pure
// function of (transactions, spec, current date) with no store access.
package filter

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carlos50barbosa/controle-gastos/internal/transactions"
)

// Period selectors. An empty Periodo means no period constraint.
const (
	PeriodoDia    = "dia"
	PeriodoSemana = "semana"
	PeriodoMes    = "mes"
)

// Type selectors.
const (
	TipoTodos = "todos"
)

// Spec is the ephemeral, conjunctive filter specification. The period
// selector and an explicit date range are evaluated independently and
// both applied: "this month" plus an explicit range narrows further.
type Spec struct {
	Periodo    string
	Tipo       string
	DataInicio *time.Time
	DataFim    *time.Time
	Categoria  string
}

// Resumo holds totals computed over the filtered subset only.
type Resumo struct {
	Receitas decimal.Decimal `json:"receitas"`
	Despesas decimal.Decimal `json:"despesas"`
	Saldo    decimal.Decimal `json:"saldo"`
}

// Apply returns the transactions matching every active predicate of spec,
// in input order, together with their summary.
func Apply(txs []transactions.Transacao, spec Spec, now time.Time) ([]transactions.Transacao, Resumo) {
	filtered := make([]transactions.Transacao, 0, len(txs))
	for _, t := range txs {
		if Matches(t, spec, now) {
			filtered = append(filtered, t)
		}
	}
	return filtered, Summarize(filtered)
}

// Matches reports whether t satisfies every active predicate of spec.
func Matches(t transactions.Transacao, spec Spec, now time.Time) bool {
	data := t.Data.Time

	switch spec.Periodo {
	case PeriodoDia:
		if !sameDay(data, now) {
			return false
		}
	case PeriodoSemana:
		if !sameWeek(data, now) {
			return false
		}
	case PeriodoMes:
		if !sameMonth(data, now) {
			return false
		}
	}

	if spec.Tipo != "" && spec.Tipo != TipoTodos && t.Tipo != spec.Tipo {
		return false
	}
	if spec.DataInicio != nil && data.Before(dateOf(*spec.DataInicio)) {
		return false
	}
	if spec.DataFim != nil && data.After(dateOf(*spec.DataFim)) {
		return false
	}
	if spec.Categoria != "" && t.Categoria != spec.Categoria {
		return false
	}
	return true
}

// Summarize totals receitas and despesas over txs. Anything that is not a
// receita counts as despesa.
func Summarize(txs []transactions.Transacao) Resumo {
	receitas := decimal.Zero
	despesas := decimal.Zero
	for _, t := range txs {
		if t.Tipo == transactions.TipoReceita {
			receitas = receitas.Add(t.Valor)
		} else {
			despesas = despesas.Add(t.Valor)
		}
	}
	return Resumo{
		Receitas: receitas,
		Despesas: despesas,
		Saldo:    receitas.Sub(despesas),
	}
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// sameWeek compares weeks starting on Sunday.
func sameWeek(a, b time.Time) bool {
	return startOfWeek(a).Equal(startOfWeek(b))
}

func startOfWeek(t time.Time) time.Time {
	d := dateOf(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
