package commands

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newTaxCommand(opts *rootOptions) *cobra.Command {
	var incomeStr, expenseStr, regime string

	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Estimate tax for an income and expense total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			income, err := decimal.NewFromString(incomeStr)
			if err != nil {
				return fmt.Errorf("parsing --income %q: %w", incomeStr, err)
			}
			expense, err := decimal.NewFromString(expenseStr)
			if err != nil {
				return fmt.Errorf("parsing --expense %q: %w", expenseStr, err)
			}
			if income.IsNegative() || expense.IsNegative() {
				return errors.New("income and expense must not be negative")
			}

			ws, err := openWorkspace(opts.workspace)
			if err != nil {
				return err
			}
			calc, err := ws.cfg.Calculator()
			if err != nil {
				return err
			}

			if regime != "" {
				e, err := calc.Estimate(income, expense, regime)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), e)
			}

			all := calc.EstimateAll(income, expense)
			return writeJSON(cmd.OutOrStdout(), struct {
				Taxes  any `json:"taxes"`
				Advice any `json:"tax_advice"`
			}{all, calc.Recommend(all)})
		},
	}

	cmd.Flags().StringVar(&incomeStr, "income", "", "total income (required)")
	cmd.Flags().StringVar(&expenseStr, "expense", "0", "total expense")
	cmd.Flags().StringVar(&regime, "regime", "", "estimate a single regime instead of all")
	_ = cmd.MarkFlagRequired("income")

	return cmd
}
