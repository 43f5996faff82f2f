package ledger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financas/internal/core"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestLoadMissingFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Loading an untouched account twice yields identical empty tables.
	first, err := s.Load(ctx, "casa")
	require.NoError(t, err)
	assert.Empty(t, first)

	second, err := s.Load(ctx, "casa")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entries := []core.Entry{
		{Date: "01-01-2024", Kind: core.Income, Category: "Salario", Description: "pagamento", Amount: dec("1000"), Responsible: "Ana"},
		{Date: "05-01-2024", Kind: core.Expense, Category: "Lazer", Description: "cinema, pipoca", Amount: dec("200.5"), Responsible: "Ana"},
		{Date: "10-02-2024", Kind: core.Expense, Category: "lazer", Description: "", Amount: dec("50"), Responsible: "João"},
	}

	table := make(Table, len(entries))
	for i, e := range entries {
		table[i] = Row{Position: i, Entry: e}
	}
	require.NoError(t, s.Save(ctx, "casa", table))

	got, err := s.Load(ctx, "casa")
	require.NoError(t, err)
	require.Len(t, got, len(entries))

	for i, e := range entries {
		assert.Equal(t, e.Date, got[i].Entry.Date)
		assert.Equal(t, e.Kind, got[i].Entry.Kind)
		assert.Equal(t, e.Category, got[i].Entry.Category)
		assert.Equal(t, e.Description, got[i].Entry.Description)
		assert.True(t, e.Amount.Equal(got[i].Entry.Amount), "amount mismatch row %d: %s", i, got[i].Entry.Amount)
		assert.Equal(t, e.Responsible, got[i].Entry.Responsible)
		assert.Equal(t, i, got[i].Position)
	}
}

func TestSaveWritesCanonicalHeader(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "casa", Table{}))

	raw, err := os.ReadFile(filepath.Join(dir, "casa.csv"))
	require.NoError(t, err)
	assert.Equal(t, Header, strings.TrimSpace(string(raw)))
}

func TestLoadCoercesBadAmounts(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)

	content := Header + "\n" +
		"01-01-2024,entrada,Salario,ok,abc,Ana\n" +
		"02-01-2024,saida,Mercado,sem valor,,Ana\n" +
		"03-01-2024,saida,Mercado,ok,12.5,Ana\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "casa.csv"), []byte(content), 0o644))

	got, err := s.Load(context.Background(), "casa")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Entry.Amount.IsZero())
	assert.True(t, got[1].Entry.Amount.IsZero())
	assert.True(t, got[2].Entry.Amount.Equal(dec("12.5")))
}

func TestLoadLatin1Fallback(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)

	// "Saúde" and "João" encoded as Latin-1: ú=0xFA, ã=0xE3.
	content := Header + "\n" +
		"01-01-2024,saida,Sa\xfade,rem\xe9dio,30,Jo\xe3o\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "casa.csv"), []byte(content), 0o644))

	got, err := s.Load(context.Background(), "casa")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Saúde", got[0].Entry.Category)
	assert.Equal(t, "remédio", got[0].Entry.Description)
	assert.Equal(t, "João", got[0].Entry.Responsible)
}

func TestLoadPadsShortRows(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)

	content := Header + "\n" + "01-01-2024,saida,Mercado\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "casa.csv"), []byte(content), 0o644))

	got, err := s.Load(context.Background(), "casa")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Mercado", got[0].Entry.Category)
	assert.True(t, got[0].Entry.Amount.IsZero())
	assert.Empty(t, got[0].Entry.Responsible)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, desc := range []string{"primeira", "segunda", "terceira"} {
		e := core.Entry{Date: "01-01-2024", Kind: core.Expense, Category: "x", Description: desc, Amount: dec("1"), Responsible: "Ana"}
		require.NoError(t, s.Append(ctx, "casa", e))
	}

	require.NoError(t, s.Delete(ctx, "casa", 1))

	got, err := s.Load(ctx, "casa")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "primeira", got[0].Entry.Description)
	assert.Equal(t, "terceira", got[1].Entry.Description)
	// Positions are renumbered from the new row order.
	assert.Equal(t, 0, got[0].Position)
	assert.Equal(t, 1, got[1].Position)
}

func TestDeleteMissingPositionIsNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e := core.Entry{Date: "01-01-2024", Kind: core.Expense, Category: "x", Description: "fica", Amount: dec("1"), Responsible: "Ana"}
	require.NoError(t, s.Append(ctx, "casa", e))

	require.NoError(t, s.Delete(ctx, "casa", 42))

	got, err := s.Load(ctx, "casa")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestAccountsAreIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e := core.Entry{Date: "01-01-2024", Kind: core.Income, Category: "Salario", Amount: dec("100"), Responsible: "Ana"}
	require.NoError(t, s.Append(ctx, "individual_ana", e))

	other, err := s.Load(ctx, "individual_joao")
	require.NoError(t, err)
	assert.Empty(t, other)
}
