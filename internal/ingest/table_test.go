package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTestFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestNormalizeColumn(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{" Standard Price ", "standard_price"},
		{"PROMO PRICE", "promo_price"},
		{"cogs", "cogs"},
		{"Other Variable Costs", "other_variable_costs"},
		{"week", "week"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeColumn(c.raw))
	}
}

func TestReadDelimited_NormalizesHeaderAndAlignsRows(t *testing.T) {
	input := strings.Join([]string{
		"Product Name,Standard Price,Promo Price,COGS",
		"gum 10-pack,2.50,2.00,1.00",
		"mints tin,3.00,2.50",
	}, "\n")

	table, err := ReadDelimited(strings.NewReader(input), ',')
	require.NoError(t, err)

	assert.Equal(t, []string{"product_name", "standard_price", "promo_price", "cogs"}, table.Columns)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, 2, table.Rows[0].Line)
	assert.Equal(t, "gum 10-pack", table.Rows[0].Fields["product_name"])
	assert.Equal(t, "2.50", table.Rows[0].Fields["standard_price"])

	// the short row is padded to the header width
	assert.Equal(t, 3, table.Rows[1].Line)
	assert.Equal(t, "", table.Rows[1].Fields["cogs"])
}

func TestReadDelimited_SkipsFullyEmptyRows(t *testing.T) {
	input := "product_name,standard_price\nsoap bar,4.00\n,,\n , \nshampoo,7.50\n"

	table, err := ReadDelimited(strings.NewReader(input), ',')
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "soap bar", table.Rows[0].Fields["product_name"])
	assert.Equal(t, "shampoo", table.Rows[1].Fields["product_name"])
	assert.Equal(t, 5, table.Rows[1].Line)
}

func TestReadDelimited_EmptyInput(t *testing.T) {
	_, err := ReadDelimited(strings.NewReader(""), ',')
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestReadFile_TSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promos.tsv")
	content := "product_name\tstandard_price\tpromo_price\tcogs\ntea 40ct\t6.00\t4.80\t2.50\n"
	require.NoError(t, writeTestFile(path, content))

	table, err := ReadFile(path)
	require.NoError(t, err)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "tea 40ct", table.Rows[0].Fields["product_name"])
	assert.Equal(t, "4.80", table.Rows[0].Fields["promo_price"])
}

func TestReadFile_XLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promos.xlsx")

	workbook := excelize.NewFile()
	header := []string{"Product Name", "Standard Price", "Promo Price", "COGS"}
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		require.NoError(t, workbook.SetCellValue("Sheet1", cell, name))
	}
	values := []interface{}{"candles 3-pack", 12.0, 9.5, 4.25}
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, 2)
		require.NoError(t, err)
		require.NoError(t, workbook.SetCellValue("Sheet1", cell, value))
	}
	require.NoError(t, workbook.SaveAs(path))
	require.NoError(t, workbook.Close())

	table, err := ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"product_name", "standard_price", "promo_price", "cogs"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, 2, table.Rows[0].Line)
	assert.Equal(t, "candles 3-pack", table.Rows[0].Fields["product_name"])
	assert.Equal(t, "9.5", table.Rows[0].Fields["promo_price"])
}

func TestReadFile_UnsupportedExtension(t *testing.T) {
	_, err := ReadFile("promotions.parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported input format")
}

func TestMissingColumns(t *testing.T) {
	table := &Table{Columns: []string{"product_name", "cogs"}}

	missing := table.MissingColumns([]string{"product_name", "standard_price", "promo_price", "cogs"})

	assert.Equal(t, []string{"standard_price", "promo_price"}, missing)
}
