package dataset

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundview/internal/shared/testutil"
)

func TestColumn_SymbolOnly(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  bool
	}{
		{"dollar", []string{"$", "$", "$"}, true},
		{"USD", []string{"USD", "USD"}, true},
		{"US$", []string{"US$"}, true},
		{"padded", []string{" $ ", "$", "$  "}, true},
		{"gaps between symbols", []string{"$", "", "$"}, true},
		{"whitespace only", []string{"  ", " "}, true},
		{"mixed symbols", []string{"$", "USD"}, false},
		{"other currency", []string{"EUR", "EUR"}, false},
		{"numbers", []string{"$", "12"}, false},
		{"lowercase", []string{"usd"}, false},
		{"all empty", []string{"", ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := column{header: "c", cells: tt.cells}
			assert.Equal(t, tt.want, c.symbolOnly())
		})
	}
}

func TestLoader_SymbolColumnVariants(t *testing.T) {
	logger, capture := testutil.NewTestLogger(t)
	path := testutil.WriteWorkbook(t, testutil.Sheet{
		{"Year", "Code", "Number of Funds", "Padded", "Total Amount", "Mixed", "Average Fund Size"},
		{2006, "USD", 10, " US$ ", 1234, "$", 123.4},
		{2007, "USD", 15, "US$", 2000, "USD", 133.3},
	})

	table, err := NewLoader(logger, "").Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []int{2006, 2007}, table.Years())

	var dropped []string
	for _, r := range capture.RecordsAt(slog.LevelDebug) {
		if r.Message == "dropped columns" {
			dropped, _ = r.Attrs["columns"].([]string)
		}
	}
	assert.ElementsMatch(t, []string{"Code", "Padded"}, dropped, "a column mixing two symbols is kept")
}
