package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finance-analyzer/statementcore/internal/classify"
	"github.com/finance-analyzer/statementcore/internal/config"
	"github.com/finance-analyzer/statementcore/internal/importer"
)

func newInitCommand() *cobra.Command {
	var name string
	var bank string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new statementcore workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			bank = strings.ToUpper(bank)
			if !knownBank(bank) {
				return fmt.Errorf("unknown bank %q (known: %s)", bank, strings.Join(importer.DefaultRegistry().Banks(), ", "))
			}

			if err := runInit(absDir, name, bank); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Initialized statementcore workspace at %s\n", absDir)
			fmt.Fprintf(out, "Rules: %d expense categories, %d income sources\n",
				len(classify.DefaultExpenseRules().Labels()), len(classify.DefaultIncomeRules().Labels()))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "taxpayer name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&bank, "bank", importer.BankKaspi, "default bank code")

	return cmd
}

func knownBank(bank string) bool {
	for _, b := range importer.DefaultRegistry().Banks() {
		if b == bank {
			return true
		}
	}
	return false
}

func runInit(dir, name, bank string) error {
	dirs := []string{
		"rules",
		"inbox",
		filepath.Join("inbox", "processed"),
		"ledger",
		"logs",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(name, bank)
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := classify.SaveRules(filepath.Join(dir, cfg.Rules.ExpenseFile), classify.DefaultExpenseRules()); err != nil {
		return fmt.Errorf("writing expense rules: %w", err)
	}
	if err := classify.SaveRules(filepath.Join(dir, cfg.Rules.IncomeFile), classify.DefaultIncomeRules()); err != nil {
		return fmt.Errorf("writing income rules: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "inbox", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}
	return nil
}
