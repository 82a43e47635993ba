package cli

import (
	"fmt"
	"os"

	"ponto-bot/internal/report"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type exportOptions struct {
	out    string
	chatID int64
}

func newExportCommand(load Loader) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exporta o banco de horas para uma planilha XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, load, opts)
		},
	}

	cmd.Flags().StringVar(&opts.out, "out", "", "Arquivo .xlsx de saída")
	cmd.Flags().Int64Var(&opts.chatID, "chat", 0, "Somente este chat ID (padrão: todos)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runExport(cmd *cobra.Command, load Loader, opts *exportOptions) error {
	env, closeFn, err := load()
	if err != nil {
		return err
	}
	defer closeFn()

	users, err := env.users(opts.chatID)
	if err != nil {
		return err
	}

	balance := env.balanceService()
	now := env.now()

	people := make([]report.Person, 0, len(users))
	for _, u := range users {
		result, err := balance.LedgerFor(u, now)
		if err != nil {
			return fmt.Errorf("ledger of %s: %w", u.FullName(), err)
		}
		people = append(people, report.Person{
			Name:     u.FullName(),
			Role:     u.Role,
			Target:   u.Target(),
			Ledger:   result,
			Location: env.Location,
		})
	}

	f, err := os.Create(opts.out)
	if err != nil {
		return err
	}
	if err := report.WriteTimesheet(f, people); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	env.Logger.WithFields(logrus.Fields{
		"file":   opts.out,
		"people": len(people),
	}).Info("Timesheet exported")

	fmt.Fprintf(cmd.OutOrStdout(), "%d funcionário(s) exportado(s) para %s\n", len(people), opts.out)
	return nil
}
