// Seeds a user so the login endpoint has someone to authenticate.
package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carlos50barbosa/controle-gastos/internal/auth"
	"github.com/carlos50barbosa/controle-gastos/internal/logger"
)

func main() {
	log := logger.New()

	email := flag.String("email", "", "email do usuário")
	senha := flag.String("senha", "", "senha do usuário")
	flag.Parse()

	if strings.TrimSpace(*email) == "" || *senha == "" {
		log.Fatal().Msg("uso: adduser -email <email> -senha <senha>")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("erro ao conectar ao banco de dados")
	}
	defer pool.Close()

	hash, err := auth.HashPassword(*senha)
	if err != nil {
		log.Fatal().Err(err).Msg("erro ao gerar hash da senha")
	}

	var id int64
	err = pool.QueryRow(ctx,
		`INSERT INTO usuarios (email, senha) VALUES ($1, $2) RETURNING id`,
		strings.TrimSpace(*email), hash,
	).Scan(&id)
	if err != nil {
		log.Fatal().Err(err).Msg("erro ao criar usuário")
	}

	log.Info().Int64("id", id).Str("email", *email).Msg("usuário criado")
}
