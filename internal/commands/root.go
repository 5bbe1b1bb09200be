package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finance-analyzer/statementcore/internal/buildinfo"
	"github.com/finance-analyzer/statementcore/internal/config"
	"github.com/finance-analyzer/statementcore/internal/logger"
)

// rootOptions holds the persistent flags shared by all subcommands.
type rootOptions struct {
	workspace string
	logLevel  string
	logJSON   bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "statementcore",
		Short:   "Bank statement parsing, classification and tax estimation",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, json := opts.logLevel, opts.logJSON
			if ws, err := openWorkspace(opts.workspace); err == nil && ws.configured {
				if !cmd.Flags().Changed("log-level") && ws.cfg.Log.Level != "" {
					level = ws.cfg.Log.Level
				}
				if !cmd.Flags().Changed("log-json") {
					json = ws.cfg.Log.JSON
				}
			}
			log := logger.New(logger.Options{Out: cmd.ErrOrStderr(), Level: level, JSON: json})
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.workspace, "workspace", "w", ".", "workspace directory")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.BoolVar(&opts.logJSON, "log-json", false, "write logs as JSON lines")

	rootCmd.AddCommand(
		newInitCommand(),
		newParseCommand(opts),
		newAnalyzeCommand(opts),
		newTaxCommand(opts),
		newBatchCommand(opts),
	)

	return rootCmd
}

// workspace is a loaded workspace directory. Without a config file the
// built-in defaults apply.
type workspace struct {
	root       string
	cfg        *config.Config
	configured bool
}

func openWorkspace(dir string) (*workspace, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		cfg := config.Default("", "")
		cfg.Rules = config.RulesConfig{}
		return &workspace{root: root, cfg: cfg}, nil
	}
	if err != nil {
		return nil, err
	}
	return &workspace{root: root, cfg: cfg, configured: true}, nil
}

// bank returns the flag value, or the workspace default bank.
func (w *workspace) bank(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if w.cfg.Workspace.Bank != "" {
		return w.cfg.Workspace.Bank, nil
	}
	return "", errors.New("no bank given: use --bank or set workspace.bank in " + config.FileName)
}

func (w *workspace) ledgerDir() string {
	return filepath.Join(w.root, "ledger")
}
