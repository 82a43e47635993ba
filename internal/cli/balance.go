package cli

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"ponto-bot/internal/ledger"
	"ponto-bot/internal/repository"

	"github.com/spf13/cobra"
)

type balanceOptions struct {
	chatID int64
	format string
	days   int
}

func newBalanceCommand(load Loader) *cobra.Command {
	opts := &balanceOptions{}

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Mostra o banco de horas de um funcionário",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBalance(cmd, load, opts)
		},
	}

	cmd.Flags().Int64Var(&opts.chatID, "chat", 0, "Chat ID do funcionário no Telegram")
	cmd.Flags().StringVar(&opts.format, "format", "md", "Formato de saída: md, csv, json")
	cmd.Flags().IntVar(&opts.days, "days", 0, "Últimos N dias (0 = todos)")
	_ = cmd.MarkFlagRequired("chat")

	return cmd
}

// balanceReport то, что печатает balance в любом формате
type balanceReport struct {
	Name     string
	Target   time.Duration
	Days     []ledger.DaySummary // от старых к новым
	Total    time.Duration
	Location *time.Location
}

func runBalance(cmd *cobra.Command, load Loader, opts *balanceOptions) error {
	switch opts.format {
	case "md", "csv", "json":
	default:
		return fmt.Errorf("unknown format %q: use md, csv or json", opts.format)
	}

	// 0 у users означает "все", а balance печатает одного сотрудника
	if opts.chatID == 0 {
		return errors.New("--chat must be a non-zero chat ID")
	}

	env, closeFn, err := load()
	if err != nil {
		return err
	}
	defer closeFn()

	users, err := env.users(opts.chatID)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return fmt.Errorf("chat %d: %w", opts.chatID, repository.ErrUserNotFound)
	}
	user := users[0]

	result, err := env.balanceService().LedgerFor(user, env.now())
	if err != nil {
		return err
	}

	days := result.Recent(opts.days)
	for i, j := 0, len(days)-1; i < j; i, j = i+1, j-1 {
		days[i], days[j] = days[j], days[i]
	}

	report := balanceReport{
		Name:     user.FullName(),
		Target:   user.Target(),
		Days:     days,
		Total:    result.TotalBalance,
		Location: env.Location,
	}

	out := cmd.OutOrStdout()
	switch opts.format {
	case "json":
		return report.writeJSON(out)
	case "csv":
		return report.writeCSV(out)
	default:
		return report.writeMarkdown(out)
	}
}

func (r balanceReport) events(day ledger.DaySummary) []string {
	out := make([]string, 0, len(day.Events))
	for _, e := range day.Events {
		out = append(out, e.Timestamp.In(r.Location).Format("15:04")+" "+string(e.Type))
	}
	return out
}

type dayJSON struct {
	Date      string   `json:"date"`
	Events    []string `json:"events"`
	Worked    string   `json:"worked"`
	Balance   string   `json:"balance"`
	Finalized bool     `json:"finalized"`
}

type balanceJSON struct {
	Name         string    `json:"name"`
	Target       string    `json:"target"`
	Days         []dayJSON `json:"days"`
	TotalBalance string    `json:"total_balance"`
}

func (r balanceReport) writeJSON(w io.Writer) error {
	doc := balanceJSON{
		Name:         r.Name,
		Target:       ledger.FormatClock(r.Target),
		Days:         make([]dayJSON, 0, len(r.Days)),
		TotalBalance: ledger.FormatDuration(r.Total),
	}
	for _, day := range r.Days {
		doc.Days = append(doc.Days, dayJSON{
			Date:      day.DateKey,
			Events:    r.events(day),
			Worked:    ledger.FormatClock(day.TotalWorked),
			Balance:   ledger.FormatDuration(day.Balance),
			Finalized: day.Finalized,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func (r balanceReport) writeCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "events", "worked", "balance", "finalized"}); err != nil {
		return err
	}
	for _, day := range r.Days {
		record := []string{
			day.DateKey,
			strings.Join(r.events(day), " "),
			ledger.FormatClock(day.TotalWorked),
			ledger.FormatDuration(day.Balance),
			strconv.FormatBool(day.Finalized),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"total", "", "", ledger.FormatDuration(r.Total), ""}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func (r balanceReport) writeMarkdown(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s (meta %s)\n\n", r.Name, ledger.FormatClock(r.Target))
	b.WriteString("| Data | Pontos | Trabalhado | Saldo | Encerrado |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, day := range r.Days {
		finalized := "não"
		if day.Finalized {
			finalized = "sim"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			day.DateKey,
			strings.Join(r.events(day), ", "),
			ledger.FormatClock(day.TotalWorked),
			ledger.FormatDuration(day.Balance),
			finalized)
	}
	fmt.Fprintf(&b, "\n**Saldo acumulado:** %s\n", ledger.FormatDuration(r.Total))

	_, err := io.WriteString(w, b.String())
	return err
}
