package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/flexprice/proposals/internal/domain/invoice"
	"github.com/flexprice/proposals/internal/domain/lineitem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRowsAndTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"type": "one_time_fee", "name": "Setup", "amount": "100"},
		{"type": "recurring_fee", "name": "Hosting", "amount": 30, "billing_period": "month"}
	]`), 0o600))

	rows, err := readRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	totals := invoice.ComputeTotals(lineitem.FromRaw(rows))

	var out bytes.Buffer
	require.NoError(t, outputTable(&out, totals, invoice.DefaultFormatter()))
	assert.Contains(t, out.String(), "$30.00/month")
	assert.Contains(t, out.String(), "$100.00")
	assert.Contains(t, out.String(), "Recurring (1_month)")
}

func TestTable_UnknownPeriodIsListedButNotAveraged(t *testing.T) {
	rows := []lineitem.Raw{
		{Type: "recurring_fee", Name: "Retainer", Amount: "99.50", BillingPeriod: "fortnight"},
		{Type: "recurring_fee", Name: "Hosting", Amount: "30", BillingPeriod: "month"},
		{Type: "discount", Amount: "10"},
	}
	items := lineitem.FromRaw(rows)
	require.Len(t, items, 2)

	var out bytes.Buffer
	require.NoError(t, outputTable(&out, invoice.ComputeTotals(items), invoice.DefaultFormatter()))
	assert.Contains(t, out.String(), "Recurring (1_fortnight)")
	assert.Contains(t, out.String(), "$30.00/month")
}

func TestReadRows_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type": "x"}`), 0o600))

	_, err := readRows(path)
	assert.Error(t, err)
}
