// gastos is the terminal client for the controle-gastos API: login, list
// with the same filters the dashboard had, add/edit/delete, selection-based
// bulk delete, CSV/JSON export and JSON import.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/carlos50barbosa/controle-gastos/internal/client"
	"github.com/carlos50barbosa/controle-gastos/internal/export"
	"github.com/carlos50barbosa/controle-gastos/internal/filter"
	"github.com/carlos50barbosa/controle-gastos/internal/selection"
	"github.com/carlos50barbosa/controle-gastos/internal/session"
	"github.com/carlos50barbosa/controle-gastos/internal/transactions"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "login":
		err = runLogin(os.Args[2:])
	case "logout":
		err = runLogout()
	case "list":
		err = runList(os.Args[2:])
	case "add":
		err = runAdd(os.Args[2:])
	case "edit":
		err = runEdit(os.Args[2:])
	case "rm":
		err = runRemove(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "import":
		err = runImport(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "comando desconhecido: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Controle de Gastos")
	fmt.Println("\nUso:")
	fmt.Println("  gastos <comando> [opções]")
	fmt.Println("\nComandos:")
	fmt.Println("  login    Autentica e guarda a sessão")
	fmt.Println("  logout   Encerra a sessão local")
	fmt.Println("  list     Lista transações (com filtros e resumo)")
	fmt.Println("  add      Adiciona uma transação")
	fmt.Println("  edit     Atualiza uma transação existente")
	fmt.Println("  rm       Exclui transações selecionadas")
	fmt.Println("  export   Exporta a visão filtrada em CSV ou JSON")
	fmt.Println("  import   Importa um backup JSON, registro a registro")
	fmt.Println("\nUse 'gastos <comando> -h' para as opções de cada comando.")
}

func apiURL() string {
	if v := strings.TrimSpace(os.Getenv("GASTOS_API_URL")); v != "" {
		return v
	}
	return "http://localhost:3001/api"
}

func openClient() (*client.Client, error) {
	path, err := session.DefaultPath()
	if err != nil {
		return nil, err
	}
	sess, err := session.Load(path)
	if err != nil {
		return nil, err
	}
	if sess.Token == "" {
		return nil, client.ErrNaoAutenticado
	}
	return client.New(apiURL(), sess.Token), nil
}

// filterOpts carries the flags shared by list, rm and export.
type filterOpts struct {
	periodo   *string
	tipo      *string
	inicio    *string
	fim       *string
	categoria *string
}

func bindFilterFlags(fs *flag.FlagSet, defaultPeriodo string) *filterOpts {
	return &filterOpts{
		periodo:   fs.String("periodo", defaultPeriodo, "dia, semana, mes ou vazio para todas"),
		tipo:      fs.String("tipo", "todos", "todos, receita ou despesa"),
		inicio:    fs.String("inicio", "", "data inicial AAAA-MM-DD"),
		fim:       fs.String("fim", "", "data final AAAA-MM-DD"),
		categoria: fs.String("categoria", "", "categoria exata"),
	}
}

func (o *filterOpts) spec() (filter.Spec, error) {
	spec := filter.Spec{
		Periodo:   strings.TrimSpace(*o.periodo),
		Tipo:      strings.TrimSpace(*o.tipo),
		Categoria: strings.TrimSpace(*o.categoria),
	}
	if v := strings.TrimSpace(*o.inicio); v != "" {
		t, err := transactions.ParseData(v)
		if err != nil {
			return filter.Spec{}, err
		}
		spec.DataInicio = &t
	}
	if v := strings.TrimSpace(*o.fim); v != "" {
		t, err := transactions.ParseData(v)
		if err != nil {
			return filter.Spec{}, err
		}
		spec.DataFim = &t
	}
	return spec, nil
}

func loadVisible(ctx context.Context, cli *client.Client, opts *filterOpts) ([]transactions.Transacao, filter.Resumo, error) {
	spec, err := opts.spec()
	if err != nil {
		return nil, filter.Resumo{}, err
	}
	txs, err := cli.List(ctx)
	if err != nil {
		return nil, filter.Resumo{}, err
	}
	visible, resumo := filter.Apply(txs, spec, time.Now())
	return visible, resumo, nil
}

func runLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email")
	senha := fs.String("senha", "", "senha")
	fs.Parse(args)

	if *email == "" || *senha == "" {
		return errors.New("informe -email e -senha")
	}

	cli := client.New(apiURL(), "")
	token, err := cli.Login(context.Background(), *email, *senha)
	if err != nil {
		return err
	}

	path, err := session.DefaultPath()
	if err != nil {
		return err
	}
	if err := (session.Session{Token: token, Email: *email}).Save(path); err != nil {
		return err
	}

	fmt.Println("login efetuado como", *email)
	return nil
}

func runLogout() error {
	path, err := session.DefaultPath()
	if err != nil {
		return err
	}
	if err := session.Clear(path); err != nil {
		return err
	}
	fmt.Println("sessão encerrada")
	return nil
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	opts := bindFilterFlags(fs, filter.PeriodoMes)
	resumoOnly := fs.Bool("resumo", false, "mostra apenas os totais")
	fs.Parse(args)

	cli, err := openClient()
	if err != nil {
		return err
	}

	visible, resumo, err := loadVisible(context.Background(), cli, opts)
	if err != nil {
		return err
	}

	if !*resumoOnly {
		printTable(os.Stdout, visible)
	}
	fmt.Printf("receitas: %s  despesas: %s  saldo: %s\n",
		resumo.Receitas.StringFixed(2), resumo.Despesas.StringFixed(2), resumo.Saldo.StringFixed(2))
	return nil
}

func printTable(w io.Writer, txs []transactions.Transacao) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Data", "Descrição", "Tipo", "Categoria", "Valor"})
	for _, t := range txs {
		table.Append([]string{
			strconv.FormatInt(t.ID, 10),
			t.Data.Format("2006-01-02"),
			t.Descricao,
			t.Tipo,
			t.Categoria,
			t.Valor.StringFixed(2),
		})
	}
	table.Render()
}

func payloadFlags(fs *flag.FlagSet) (descricao, tipo, valor, data, categoria *string) {
	descricao = fs.String("descricao", "", "descrição")
	tipo = fs.String("tipo", "", "receita ou despesa")
	valor = fs.String("valor", "", "valor decimal")
	data = fs.String("data", "", "data AAAA-MM-DD")
	categoria = fs.String("categoria", "", "categoria")
	return
}

func fieldsFromFlags(descricao, tipo, valor, data, categoria string) (transactions.Fields, error) {
	p := transactions.Payload{
		Descricao: descricao,
		Tipo:      tipo,
		Data:      data,
		Categoria: categoria,
	}
	if strings.TrimSpace(valor) != "" {
		d, err := decimal.NewFromString(strings.TrimSpace(valor))
		if err != nil {
			return transactions.Fields{}, errors.New("valor inválido")
		}
		p.Valor = &d
	}
	return p.Validate()
}

func runAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	descricao, tipo, valor, data, categoria := payloadFlags(fs)
	fs.Parse(args)

	fields, err := fieldsFromFlags(*descricao, *tipo, *valor, *data, *categoria)
	if err != nil {
		return err
	}

	cli, err := openClient()
	if err != nil {
		return err
	}

	id, err := cli.Create(context.Background(), fields)
	if err != nil {
		return err
	}
	fmt.Println("transação adicionada, id", id)
	return nil
}

func runEdit(args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.Int64("id", 0, "id da transação")
	descricao, tipo, valor, data, categoria := payloadFlags(fs)
	fs.Parse(args)

	if *id <= 0 {
		return errors.New("informe -id")
	}

	fields, err := fieldsFromFlags(*descricao, *tipo, *valor, *data, *categoria)
	if err != nil {
		return err
	}

	cli, err := openClient()
	if err != nil {
		return err
	}

	if err := cli.Update(context.Background(), *id, fields); err != nil {
		return err
	}
	fmt.Println("transação atualizada")
	return nil
}

func runRemove(args []string) error {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	opts := bindFilterFlags(fs, "")
	ids := fs.String("id", "", "ids separados por vírgula")
	all := fs.Bool("all", false, "seleciona todas as transações visíveis")
	yes := fs.Bool("yes", false, "não pede confirmação")
	fs.Parse(args)

	cli, err := openClient()
	if err != nil {
		return err
	}

	ctx := context.Background()
	visible, _, err := loadVisible(ctx, cli, opts)
	if err != nil {
		return err
	}
	visibleIDs := make([]int64, 0, len(visible))
	for _, t := range visible {
		visibleIDs = append(visibleIDs, t.ID)
	}

	sel := selection.NewSet()
	if *all {
		sel.ToggleAll(visibleIDs)
	} else {
		for _, part := range strings.Split(*ids, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				continue
			}
			sel.Toggle(id)
		}
		// The selection only ever acts on the currently visible rows.
		sel.Intersect(visibleIDs)
	}

	if sel.Len() == 0 {
		return selection.ErrNenhumaSelecionada
	}

	if !*yes && !confirm(fmt.Sprintf("Excluir %d transações? [s/N] ", sel.Len())) {
		fmt.Println("cancelado")
		return nil
	}

	count, err := cli.DeleteMany(ctx, sel.IDs())
	if err != nil {
		// Selection stays intact so the user can retry.
		return err
	}
	sel.Clear()

	fmt.Printf("transações excluídas: %d\n", count)
	return nil
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "s" || line == "sim" || line == "y"
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	opts := bindFilterFlags(fs, "")
	formato := fs.String("formato", "csv", "csv ou json")
	saida := fs.String("o", "", "arquivo de saída (padrão: stdout)")
	fs.Parse(args)

	cli, err := openClient()
	if err != nil {
		return err
	}

	visible, _, err := loadVisible(context.Background(), cli, opts)
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if *saida != "" {
		f, err := os.Create(*saida)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch strings.ToLower(*formato) {
	case "csv":
		return export.WriteCSV(out, visible)
	case "json":
		return export.WriteJSON(out, visible)
	default:
		return errors.New("formato deve ser csv ou json")
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	arquivo := fs.String("arquivo", "", "arquivo JSON com as transações")
	fs.Parse(args)

	if *arquivo == "" {
		return errors.New("informe -arquivo")
	}

	f, err := os.Open(*arquivo)
	if err != nil {
		return err
	}
	defer f.Close()

	cli, err := openClient()
	if err != nil {
		return err
	}

	report, err := export.ImportJSON(context.Background(), f, cli.Creator())
	if err != nil {
		return err
	}

	fmt.Printf("importadas: %d\n", report.Importadas)
	for _, falha := range report.Falhas {
		fmt.Printf("registro %d: %s\n", falha.Indice, falha.Motivo)
	}
	return nil
}
