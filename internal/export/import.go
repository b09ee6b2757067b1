package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/carlos50barbosa/controle-gastos/internal/transactions"
)

// Creator submits one validated record. The server backs it with the
// repository; the CLI backs it with the HTTP client.
type Creator interface {
	Create(ctx context.Context, f transactions.Fields) error
}

// Falha reports one record that could not be imported.
type Falha struct {
	Indice int    `json:"indice"`
	Motivo string `json:"motivo"`
}

// Report summarizes a best-effort import: valid records are created
// individually, invalid ones are skipped and reported, the batch always
// completes.
type Report struct {
	Importadas int     `json:"importadas"`
	Falhas     []Falha `json:"falhas"`
}

// ImportJSON decodes a JSON array of transaction payloads and submits each
// valid record through creator. One record's failure never aborts the
// others. A non-array or malformed body is the only fatal error.
func ImportJSON(ctx context.Context, r io.Reader, creator Creator) (Report, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Report{}, fmt.Errorf("arquivo inválido: %w", err)
	}

	report := Report{Falhas: []Falha{}}
	for i, rec := range raw {
		var p transactions.Payload
		if err := json.Unmarshal(rec, &p); err != nil {
			report.Falhas = append(report.Falhas, Falha{Indice: i, Motivo: "registro inválido"})
			continue
		}
		fields, err := p.Validate()
		if err != nil {
			report.Falhas = append(report.Falhas, Falha{Indice: i, Motivo: err.Error()})
			continue
		}
		if err := creator.Create(ctx, fields); err != nil {
			report.Falhas = append(report.Falhas, Falha{Indice: i, Motivo: err.Error()})
			continue
		}
		report.Importadas++
	}
	return report, nil
}
