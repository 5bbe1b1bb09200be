package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/finance-analyzer/statementcore/internal/classify"
	"github.com/finance-analyzer/statementcore/internal/config"
	"github.com/finance-analyzer/statementcore/internal/export"
	"github.com/finance-analyzer/statementcore/internal/importer"
	"github.com/finance-analyzer/statementcore/internal/logger"
	"github.com/finance-analyzer/statementcore/internal/runlog"
)

func newBatchCommand(opts *rootOptions) *cobra.Command {
	var bank string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Parse every statement in the inbox into the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts.workspace)
			if err != nil {
				return err
			}
			if !ws.configured {
				return fmt.Errorf("%s not found in %s: run init first", config.FileName, ws.root)
			}
			bank, err := ws.bank(bank)
			if err != nil {
				return err
			}
			expense, income, err := ws.cfg.Classifiers(ws.root)
			if err != nil {
				return err
			}

			run := &batchRun{
				root:    ws.root,
				bank:    bank,
				reg:     importer.DefaultRegistry(),
				store:   export.NewStore(ws.ledgerDir()),
				expense: expense,
				income:  income,
			}
			files, err := importer.Scan(ws.root, run.reg)
			if err != nil {
				return err
			}

			log := logger.FromContext(cmd.Context())
			failed := 0
			for _, f := range files {
				entry := runlog.Entry{
					Timestamp: time.Now().UTC().Truncate(time.Second),
					File:      f.Name,
					Bank:      bank,
					Status:    runlog.StatusOK,
				}

				if err := run.ingest(cmd.Context(), f, &entry); err != nil {
					failed++
					entry.Status = runlog.StatusFailed
					entry.Error = err.Error()
					flog := logger.WithFields(log, map[string]any{"file": f.Name, "run_id": entry.RunID.String()})
					flog.Error().Err(err).Msg("statement failed")
				}

				if err := runlog.Append(ws.root, []runlog.Entry{entry}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s: %d accepted, %d skipped\n",
					entry.Status, f.Name, entry.Accepted, entry.Skipped)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Processed %d file(s), %d failed\n", len(files), failed)
			if failed > 0 {
				return errors.New("some statements failed, see logs/run-log.csv")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bank, "bank", "", "bank code (defaults to workspace.bank)")

	return cmd
}

type batchRun struct {
	root    string
	bank    string
	reg     *importer.Registry
	store   *export.Store
	expense *classify.Classifier
	income  *classify.Classifier
}

// ingest parses one inbox file, moves it to processed and appends it to the
// ledger, filling in the run log entry as it goes.
func (b *batchRun) ingest(ctx context.Context, f importer.FileInfo, entry *runlog.Entry) error {
	res, err := importer.Parse(ctx, b.reg, b.bank, f.Path)
	if err != nil {
		entry.RunID = uuid.New()
		return err
	}
	entry.RunID = res.RunID
	entry.Accepted = len(res.Transactions)
	entry.Skipped = res.SkippedTotal()

	// Claim the file before touching the ledger so a failed move cannot leave
	// stored rows behind for a file that will be ingested again.
	if err := importer.MarkProcessed(b.root, f.Name); err != nil {
		return err
	}
	if _, err := b.store.Append(label(b.expense, b.income, res.Transactions)); err != nil {
		err = fmt.Errorf("storing transactions: %w", err)
		if rerr := importer.ReturnToInbox(b.root, f.Name); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	return nil
}
