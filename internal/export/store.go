package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/finance-analyzer/statementcore/internal/model"
	"github.com/finance-analyzer/statementcore/internal/period"
)

// FileName is the name of each month's transactions file.
const FileName = "transactions.csv"

// Store keeps transactions in month-partitioned CSV files under
// <root>/YYYY/MM/transactions.csv.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Append validates txns and appends them to their months' files, creating
// files with a header as needed. Nothing is written if any transaction fails
// validation or any month cannot be staged. It returns the months touched, in
// ascending order.
func (s *Store) Append(txns []model.Transaction) ([]string, error) {
	if verrs := Validate(txns); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return nil, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	byMonth := make(map[string][]model.Transaction)
	for _, t := range txns {
		m := period.MonthOf(t.Date)
		byMonth[m] = append(byMonth[m], t)
	}

	months := period.SortedKeys(byMonth)
	staged := make([]stagedMonth, 0, len(months))
	discard := func() {
		for _, sm := range staged {
			os.Remove(sm.tmp)
		}
	}
	for _, m := range months {
		sm, err := s.stageMonth(m, byMonth[m])
		if err != nil {
			discard()
			return nil, err
		}
		staged = append(staged, sm)
	}

	for i, sm := range staged {
		if err := os.Rename(sm.tmp, sm.path); err != nil {
			staged = staged[i:]
			discard()
			return nil, fmt.Errorf("replacing ledger %s: %w", sm.path, err)
		}
	}
	return months, nil
}

type stagedMonth struct {
	path string
	tmp  string
}

// stageMonth writes the month's current contents plus txns to a temporary
// file next to the ledger file.
func (s *Store) stageMonth(month string, txns []model.Transaction) (stagedMonth, error) {
	year, mon, err := period.ParseMonth(month)
	if err != nil {
		return stagedMonth{}, err
	}

	path := s.monthPath(year, mon)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return stagedMonth{}, fmt.Errorf("creating ledger dir: %w", err)
	}

	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return stagedMonth{}, fmt.Errorf("reading ledger %s: %w", path, err)
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+FileName+".*")
	if err != nil {
		return stagedMonth{}, fmt.Errorf("staging ledger: %w", err)
	}
	sm := stagedMonth{path: path, tmp: f.Name()}
	fail := func(err error) (stagedMonth, error) {
		f.Close()
		os.Remove(sm.tmp)
		return stagedMonth{}, err
	}

	if len(existing) == 0 {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fail(fmt.Errorf("writing header: %w", err))
		}
	} else if _, err := f.Write(existing); err != nil {
		return fail(fmt.Errorf("copying ledger: %w", err))
	}

	if err := AppendTransactions(f, txns); err != nil {
		return fail(fmt.Errorf("appending transactions: %w", err))
	}
	if err := f.Chmod(0o644); err != nil {
		return fail(fmt.Errorf("staging ledger: %w", err))
	}
	if err := f.Close(); err != nil {
		os.Remove(sm.tmp)
		return stagedMonth{}, fmt.Errorf("staging ledger: %w", err)
	}
	return sm, nil
}

// ReadMonth reads all transactions for a YYYY-MM month. A month with no file
// yields no transactions and no error.
func (s *Store) ReadMonth(month string) ([]model.Transaction, error) {
	year, mon, err := period.ParseMonth(month)
	if err != nil {
		return nil, err
	}

	path := s.monthPath(year, mon)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}
	return txns, nil
}

func (s *Store) monthPath(year, month int) string {
	return filepath.Join(s.root, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), FileName)
}
