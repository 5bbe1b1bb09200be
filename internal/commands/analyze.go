package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finance-analyzer/statementcore/internal/analysis"
	"github.com/finance-analyzer/statementcore/internal/export"
	"github.com/finance-analyzer/statementcore/internal/importer"
	"github.com/finance-analyzer/statementcore/internal/model"
	"github.com/finance-analyzer/statementcore/internal/tax"
)

// analyzeOutput is the JSON document printed by analyze.
type analyzeOutput struct {
	Expenses analysis.ExpenseAnalysis `json:"expenses"`
	Income   analysis.IncomeAnalysis  `json:"income"`
	Taxes    tax.AllEstimates         `json:"taxes"`
	Advice   tax.Advice               `json:"tax_advice"`
	Report   analysis.Report          `json:"report"`
}

func newAnalyzeCommand(opts *rootOptions) *cobra.Command {
	var bank string
	var month string

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a statement or a ledger month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 1) == (month != "") {
				return errors.New("give either a statement file or --ledger-month")
			}

			ws, err := openWorkspace(opts.workspace)
			if err != nil {
				return err
			}
			expense, income, err := ws.cfg.Classifiers(ws.root)
			if err != nil {
				return err
			}
			calc, err := ws.cfg.Calculator()
			if err != nil {
				return err
			}

			var txns []model.Transaction
			if month != "" {
				txns, err = export.NewStore(ws.ledgerDir()).ReadMonth(month)
				if err != nil {
					return err
				}
			} else {
				bank, err := ws.bank(bank)
				if err != nil {
					return err
				}
				res, err := importer.Parse(cmd.Context(), importer.DefaultRegistry(), bank, args[0])
				if err != nil {
					return err
				}
				txns = res.Transactions
			}

			out, err := analyze(calc, expense, income, txns, ws.cfg.Currency)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&bank, "bank", "", "bank code (defaults to workspace.bank)")
	cmd.Flags().StringVar(&month, "ledger-month", "", "analyze a stored ledger month (YYYY-MM) instead of a file")

	return cmd
}

func analyze(calc *tax.Calculator, expense, income analysis.Labeler, txns []model.Transaction, currency string) (analyzeOutput, error) {
	exp := analysis.Expenses(expense, txns)
	inc := analysis.Income(income, txns)

	all := calc.EstimateAll(inc.Total, exp.Total)
	current, err := calc.Estimate(inc.Total, exp.Total, calc.Current())
	if err != nil {
		return analyzeOutput{}, fmt.Errorf("estimating current regime: %w", err)
	}

	return analyzeOutput{
		Expenses: exp,
		Income:   inc,
		Taxes:    all,
		Advice:   calc.Recommend(all),
		Report:   analysis.BuildReport(exp, inc, current, currency),
	}, nil
}
