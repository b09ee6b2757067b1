// Package export serializes a filtered transaction set to CSV or JSON and
// imports a JSON array back as individual create requests.
package export

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/carlos50barbosa/controle-gastos/internal/transactions"
)

// CSVHeader matches the original dashboard export column order.
const CSVHeader = "Data,Descrição,Tipo,Categoria,Valor"

// WriteCSV writes a header row followed by one comma-joined row per
// transaction. Values are intentionally not quoted or escaped: a descricao
// containing a comma corrupts its row. Known limitation, kept as-is.
func WriteCSV(w io.Writer, txs []transactions.Transacao) error {
	var b strings.Builder
	b.WriteString(CSVHeader)
	b.WriteByte('\n')
	for _, t := range txs {
		b.WriteString(strings.Join([]string{
			t.Data.Format("2006-01-02"),
			t.Descricao,
			t.Tipo,
			t.Categoria,
			t.Valor.String(),
		}, ","))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON writes the transaction set as a pretty-printed array.
func WriteJSON(w io.Writer, txs []transactions.Transacao) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(txs)
}
