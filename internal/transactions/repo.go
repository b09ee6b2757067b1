package transactions

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repo issues parameterized statements against the transacoes table.
// Every statement is scoped by usuario_id server-side; no operation may
// observe or mutate a transaction belonging to a different user.
type Repo struct {
	Pool    *pgxpool.Pool
	Timeout time.Duration
}

func NewRepo(pool *pgxpool.Pool, timeout time.Duration) *Repo {
	return &Repo{Pool: pool, Timeout: timeout}
}

func (r *Repo) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout > 0 {
		return context.WithTimeout(ctx, r.Timeout)
	}
	return ctx, func() {}
}

func (r *Repo) Create(ctx context.Context, usuarioID int64, f Fields) (int64, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var id int64
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO transacoes (descricao, tipo, valor, data, categoria, usuario_id)
		 VALUES ($1, $2, $3::numeric, $4::date, $5, $6)
		 RETURNING id`,
		f.Descricao, f.Tipo, f.Valor.String(), f.Data.Format("2006-01-02"), f.Categoria, usuarioID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repo) ListByUser(ctx context.Context, usuarioID int64) ([]Transacao, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx,
		`SELECT id, descricao, tipo, valor::text, data, categoria, usuario_id
		 FROM transacoes
		 WHERE usuario_id = $1
		 ORDER BY data DESC, id DESC`,
		usuarioID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Transacao, 0)
	for rows.Next() {
		var (
			t     Transacao
			valor string
			data  time.Time
		)
		if err := rows.Scan(&t.ID, &t.Descricao, &t.Tipo, &valor, &data, &t.Categoria, &t.UsuarioID); err != nil {
			return nil, err
		}
		t.Valor, err = decimal.NewFromString(valor)
		if err != nil {
			return nil, err
		}
		t.Data = NewData(data)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, usuarioID, id int64, f Fields) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	ct, err := r.Pool.Exec(ctx,
		`UPDATE transacoes
		 SET descricao = $1, tipo = $2, valor = $3::numeric, data = $4::date, categoria = $5
		 WHERE id = $6 AND usuario_id = $7`,
		f.Descricao, f.Tipo, f.Valor.String(), f.Data.Format("2006-01-02"), f.Categoria, id, usuarioID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, usuarioID, id int64) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	ct, err := r.Pool.Exec(ctx,
		`DELETE FROM transacoes WHERE id = $1 AND usuario_id = $2`,
		id, usuarioID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany removes the caller's transactions among ids. IDs not owned by
// the caller are ignored; they simply do not count toward the total.
func (r *Repo) DeleteMany(ctx context.Context, usuarioID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	ct, err := r.Pool.Exec(ctx,
		`DELETE FROM transacoes WHERE id = ANY($1) AND usuario_id = $2`,
		ids, usuarioID,
	)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
