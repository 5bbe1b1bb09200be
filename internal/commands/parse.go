package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finance-analyzer/statementcore/internal/export"
	"github.com/finance-analyzer/statementcore/internal/importer"
)

func newParseCommand(opts *rootOptions) *cobra.Command {
	var bank string
	var format string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a bank statement into labelled transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "json" {
				return fmt.Errorf("unknown output format %q (want csv or json)", format)
			}

			ws, err := openWorkspace(opts.workspace)
			if err != nil {
				return err
			}
			bank, err := ws.bank(bank)
			if err != nil {
				return err
			}
			expense, income, err := ws.cfg.Classifiers(ws.root)
			if err != nil {
				return err
			}

			res, err := importer.Parse(cmd.Context(), importer.DefaultRegistry(), bank, args[0])
			if err != nil {
				return err
			}
			txns := label(expense, income, res.Transactions)

			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d transactions, skipped: %s, unclassified: %d\n",
				args[0], len(txns), skipSummary(res.Skipped), unclassified(expense, income, txns))

			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), txns)
			}
			return export.WriteTransactions(cmd.OutOrStdout(), txns)
		},
	}

	cmd.Flags().StringVar(&bank, "bank", "", "bank code (defaults to workspace.bank)")
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or json")

	return cmd
}
