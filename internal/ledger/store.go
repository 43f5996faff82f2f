// Package ledger reads and writes per-account entry tables stored as
// flat CSV files. One file per account, full overwrite on save, no
// locking: two simultaneous writers race and the second save wins. That
// limitation is inherited from the file-as-database design and is
// documented rather than fixed here.
package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"financas/internal/core"
)

// Header is the canonical column order of a ledger file.
const Header = "Data,Tipo,Categoria,Descricao,Valor,Responsavel"

const (
	numFields = 6
	colDate   = 0
	colKind   = 1
	colCat    = 2
	colDesc   = 3
	colAmount = 4
	colResp   = 5
)

// Row pairs an entry with its position, the ordinal of the row within
// the loaded table. Positions are recomputed on every load and never
// persisted, so they are only valid against the snapshot they came
// from; a delete issued against a stale snapshot may remove a
// different row.
type Row struct {
	Position int
	Entry    core.Entry
}

// Table is one account's ledger as loaded from disk.
type Table []Row

// Entries returns the entry values without their positions.
func (t Table) Entries() []core.Entry {
	out := make([]core.Entry, len(t))
	for i, r := range t {
		out[i] = r.Entry
	}
	return out
}

// Store keeps one CSV file per account under a base directory.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(account string) string {
	return filepath.Join(s.dir, account+".csv")
}

// Load reads an account's ledger. A missing file is an empty table, not
// an error. Files are decoded as UTF-8 with a Latin-1 fallback, and the
// amount column is coerced to a decimal with non-numeric values
// becoming zero.
func (s *Store) Load(ctx context.Context, account string) (Table, error) {
	raw, err := os.ReadFile(s.path(account))
	if os.IsNotExist(err) {
		return Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", account, err)
	}

	text, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode ledger %s: %w", account, err)
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1 // ragged rows are padded below
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse ledger %s: %w", account, err)
	}
	if len(records) == 0 {
		return Table{}, nil
	}

	table := make(Table, 0, len(records)-1)
	for i, rec := range records[1:] { // skip header
		table = append(table, Row{Position: i, Entry: unmarshalEntry(rec)})
	}

	slog.DebugContext(ctx, "Ledger loaded", "account", account, "rows", len(table))
	return table, nil
}

// Save writes the full table back, UTF-8, canonical columns only.
// Positions and any derived values are not written; they are rebuilt on
// the next load. This is a whole-file replace with no locking.
func (s *Store) Save(ctx context.Context, account string, table Table) error {
	var buf strings.Builder
	cw := csv.NewWriter(&buf)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range table {
		if err := cw.Write(marshalEntry(row.Entry)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("encode ledger %s: %w", account, err)
	}

	if err := os.WriteFile(s.path(account), []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("write ledger %s: %w", account, err)
	}

	slog.DebugContext(ctx, "Ledger saved", "account", account, "rows", len(table))
	return nil
}

// Append adds one entry at the end of an account's ledger.
func (s *Store) Append(ctx context.Context, account string, e core.Entry) error {
	table, err := s.Load(ctx, account)
	if err != nil {
		return err
	}
	table = append(table, Row{Position: len(table), Entry: e})
	return s.Save(ctx, account, table)
}

// Delete removes the row at the given position. Deleting a position
// that does not exist in the current table is a no-op.
func (s *Store) Delete(ctx context.Context, account string, position int) error {
	table, err := s.Load(ctx, account)
	if err != nil {
		return err
	}
	kept := make(Table, 0, len(table))
	for _, row := range table {
		if row.Position == position {
			continue
		}
		kept = append(kept, row)
	}
	if len(kept) == len(table) {
		return nil
	}
	return s.Save(ctx, account, kept)
}

// decode interprets raw file bytes as UTF-8, falling back to Latin-1
// for ledgers written by older tooling.
func decode(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func marshalEntry(e core.Entry) []string {
	row := make([]string, numFields)
	row[colDate] = e.Date
	row[colKind] = string(e.Kind)
	row[colCat] = e.Category
	row[colDesc] = e.Description
	row[colAmount] = e.Amount.String()
	row[colResp] = e.Responsible
	return row
}

func unmarshalEntry(rec []string) core.Entry {
	if len(rec) < numFields {
		padded := make([]string, numFields)
		copy(padded, rec)
		rec = padded
	}
	return core.Entry{
		Date:        rec[colDate],
		Kind:        core.Kind(rec[colKind]),
		Category:    rec[colCat],
		Description: rec[colDesc],
		Amount:      core.CoerceAmount(rec[colAmount]),
		Responsible: rec[colResp],
	}
}
