// Package importer selects a statement parser by bank and file extension and
// runs it.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/finance-analyzer/statementcore/internal/extract"
	"github.com/finance-analyzer/statementcore/internal/fieldmap"
	"github.com/finance-analyzer/statementcore/internal/logger"
	"github.com/finance-analyzer/statementcore/internal/model"
)

// Parser converts one statement file into transactions.
type Parser interface {
	Parse(ctx context.Context, path string) (*model.ParseResult, error)
	Format() string
	BankCode() string
}

type key struct {
	bank   string
	format string
}

// Registry holds parsers keyed by (bank, extension).
type Registry struct {
	parsers map[key]Parser
}

// FileInfo describes a statement file in the inbox.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[key]Parser)}
}

func keyOf(bank, format string) key {
	return key{bank: strings.ToUpper(bank), format: strings.ToLower(strings.TrimPrefix(format, "."))}
}

// Register adds a parser. Panics on a duplicate (bank, format) pair.
func (r *Registry) Register(p Parser) {
	k := keyOf(p.BankCode(), p.Format())
	if _, ok := r.parsers[k]; ok {
		panic("duplicate parser: " + k.bank + "/" + k.format)
	}
	r.parsers[k] = p
}

// Get returns the parser for bank and format, or nil.
func (r *Registry) Get(bank, format string) Parser {
	return r.parsers[keyOf(bank, format)]
}

// Lookup returns the parser for bank and the extension of filename.
func (r *Registry) Lookup(bank, filename string) (Parser, error) {
	ext := filepath.Ext(filename)
	if p := r.Get(bank, ext); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("%w: bank %q, extension %q", ErrUnsupportedFormat, bank, ext)
}

// Banks returns the registered bank codes in sorted order.
func (r *Registry) Banks() []string {
	seen := make(map[string]bool)
	var banks []string
	for k := range r.parsers {
		if !seen[k.bank] {
			seen[k.bank] = true
			banks = append(banks, k.bank)
		}
	}
	sort.Strings(banks)
	return banks
}

// Supports reports whether any bank handles the extension of filename.
func (r *Registry) Supports(filename string) bool {
	format := keyOf("", filepath.Ext(filename)).format
	for k := range r.parsers {
		if k.format == format {
			return true
		}
	}
	return false
}

// DefaultRegistry returns a registry with every built-in bank and format.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, profile := range []Profile{KaspiProfile(), HalykProfile()} {
		r.Register(NewTextParser(profile))
		for _, format := range []string{FormatXLS, FormatXLSX, FormatCSV} {
			r.Register(NewTableParser(profile, format))
		}
	}
	return r
}

// Parse runs the parser registered for bank on the file at path. Each call
// gets a fresh run ID that tags its log lines and result.
func Parse(ctx context.Context, reg *Registry, bank, path string) (*model.ParseResult, error) {
	p, err := reg.Lookup(bank, path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := uuid.New()
	log := logger.WithFields(logger.FromContext(ctx), map[string]any{
		"run_id": runID.String(),
		"bank":   p.BankCode(),
		"file":   path,
	})
	ctx = logger.WithContext(ctx, log)

	res, err := p.Parse(ctx, path)
	if err != nil {
		if errors.Is(err, fieldmap.ErrUnrecognized) || errors.Is(err, extract.ErrDecodeExhausted) {
			err = fmt.Errorf("%w: %s: %w", ErrStructureNotRecognized, path, err)
		} else {
			err = fmt.Errorf("parsing %s: %w", path, err)
		}
		log.Error().Err(err).Msg("statement rejected")
		return nil, err
	}
	res.RunID = runID

	ev := log.Info()
	if res.SkippedTotal() > 0 {
		ev = log.Warn()
	}
	ev.Int("accepted", len(res.Transactions)).
		Interface("skipped", res.Skipped).
		Msg("statement parsed")
	return res, nil
}

// inboxDir is the subdirectory for statements awaiting processing.
const inboxDir = "inbox"

// processedDir is the subdirectory for processed statements.
const processedDir = "inbox/processed"

// Scan returns the statement files in <root>/inbox/ that some parser in reg
// can read.
func Scan(root string, reg *Registry) ([]FileInfo, error) {
	dir := filepath.Join(root, inboxDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading inbox dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !reg.Supports(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from inbox/ to inbox/processed/.
func MarkProcessed(root, fileName string) error {
	return move(root, fileName, inboxDir, processedDir)
}

// ReturnToInbox undoes MarkProcessed so the file is picked up by the next scan.
func ReturnToInbox(root, fileName string) error {
	return move(root, fileName, processedDir, inboxDir)
}

func move(root, fileName, from, to string) error {
	dstDir := filepath.Join(root, to)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating %s dir: %w", to, err)
	}

	src := filepath.Join(root, from, fileName)
	if err := os.Rename(src, filepath.Join(dstDir, fileName)); err != nil {
		return fmt.Errorf("moving %s to %s: %w", fileName, to, err)
	}
	return nil
}
