package summary

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendorstats/database"
	"vendorstats/model"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// seedBaseTables creates the four base tables the way the loader would
// and fills them with a small fixture:
//
//	vendor 1 / brand 10: purchased 100 dollars, sold 150 dollars, freight 20
//	vendor 2 / brand 11: purchased 40 dollars, no sales, no freight
//	vendor 3 / brand 12: zero purchase price, excluded from the summary
func seedBaseTables(t *testing.T, db *sqlx.DB) {
	t.Helper()
	stmts := []string{
		`CREATE TABLE purchases (VendorNumber INTEGER, VendorName TEXT, Brand INTEGER, Description TEXT, PurchasePrice REAL, Quantity REAL, Dollars REAL)`,
		`CREATE TABLE purchase_prices (Brand INTEGER, Price REAL, Volume TEXT)`,
		`CREATE TABLE vendor_invoice (VendorNumber INTEGER, Freight REAL)`,
		`CREATE TABLE sales (VendorNo INTEGER, Brand INTEGER, SalesQuantity REAL, SalesDollars REAL, SalesPrice REAL, ExciseTax REAL)`,

		`INSERT INTO purchases VALUES (1, ' Acme Wines ', 10, ' Pinot Noir ', 10.0, 6, 60.0)`,
		`INSERT INTO purchases VALUES (1, ' Acme Wines ', 10, ' Pinot Noir ', 10.0, 4, 40.0)`,
		`INSERT INTO purchases VALUES (2, 'Zen Supply', 11, 'Whiskey', 8.0, 5, 40.0)`,
		`INSERT INTO purchases VALUES (3, 'Free Sample Co', 12, 'Sampler', 0.0, 9, 0.0)`,

		`INSERT INTO purchase_prices VALUES (10, 12.5, '750')`,
		`INSERT INTO purchase_prices VALUES (11, 9.0, '1000')`,
		`INSERT INTO purchase_prices VALUES (12, 1.0, '50')`,

		`INSERT INTO vendor_invoice VALUES (1, 12.0)`,
		`INSERT INTO vendor_invoice VALUES (1, 8.0)`,

		`INSERT INTO sales VALUES (1, 10, 3, 90.0, 15.0, 1.5)`,
		`INSERT INTO sales VALUES (1, 10, 2, 60.0, 15.0, 1.0)`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
}

func TestRun_BuildsSummaryTable(t *testing.T) {
	db := openTestDB(t)
	seedBaseTables(t, db)

	require.NoError(t, Run(db, DefaultTable, zerolog.Nop()))

	var rows []model.VendorSalesSummary
	require.NoError(t, db.Select(&rows, "SELECT * FROM vendor_sales_summary ORDER BY TotalPurchaseDollars DESC"))
	require.Len(t, rows, 2)

	// vendor 1 / brand 10: 100 purchased, 150 sold
	first := rows[0]
	assert.Equal(t, int64(1), first.VendorNumber)
	assert.Equal(t, "Acme Wines", first.VendorName)
	assert.Equal(t, int64(10), first.Brand)
	assert.Equal(t, "Pinot Noir", first.Description)
	assert.Equal(t, 100.0, first.TotalPurchaseDollars)
	assert.Equal(t, 10.0, first.TotalPurchaseQuantity)
	assert.Equal(t, 150.0, first.TotalSalesDollars)
	assert.Equal(t, 5.0, first.TotalSalesQuantity)
	assert.Equal(t, 20.0, first.FreightCost)
	assert.Equal(t, 750.0, first.Volume)
	assert.Equal(t, 50.0, first.GrossProfit)
	assert.InDelta(t, 33.33, first.ProfitMargin, 0.01)
	assert.Equal(t, 0.5, first.StockTurnover)
	assert.Equal(t, 1.5, first.SalesToPurchaseRatio)

	// vendor 2 / brand 11: no sales, no freight -- zeros after cleaning
	second := rows[1]
	assert.Equal(t, int64(2), second.VendorNumber)
	assert.Equal(t, 40.0, second.TotalPurchaseDollars)
	assert.Zero(t, second.TotalSalesDollars)
	assert.Zero(t, second.TotalSalesQuantity)
	assert.Zero(t, second.FreightCost)
	assert.Equal(t, -40.0, second.GrossProfit)
	assert.Zero(t, second.ProfitMargin)
	assert.Zero(t, second.StockTurnover)
	assert.Zero(t, second.SalesToPurchaseRatio)
}

func TestRun_ExcludesZeroPurchasePrice(t *testing.T) {
	db := openTestDB(t)
	seedBaseTables(t, db)

	require.NoError(t, Run(db, DefaultTable, zerolog.Nop()))

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM vendor_sales_summary WHERE VendorNumber = 3"))
	assert.Zero(t, count)
}

func TestRun_EachVendorBrandPairOnce(t *testing.T) {
	db := openTestDB(t)
	seedBaseTables(t, db)

	require.NoError(t, Run(db, DefaultTable, zerolog.Nop()))

	var dupes int
	require.NoError(t, db.Get(&dupes, `
		SELECT COUNT(*) FROM (
			SELECT VendorNumber, Brand FROM vendor_sales_summary
			GROUP BY VendorNumber, Brand HAVING COUNT(*) > 1
		)`))
	assert.Zero(t, dupes)
}

func TestRun_ReplaceSemantics(t *testing.T) {
	db := openTestDB(t)
	seedBaseTables(t, db)

	require.NoError(t, Run(db, DefaultTable, zerolog.Nop()))
	require.NoError(t, Run(db, DefaultTable, zerolog.Nop()))

	count, err := database.RowCount(db, DefaultTable)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRun_OrderedByPurchaseDollarsDesc(t *testing.T) {
	db := openTestDB(t)
	seedBaseTables(t, db)

	require.NoError(t, Run(db, DefaultTable, zerolog.Nop()))

	var dollars []float64
	require.NoError(t, db.Select(&dollars, "SELECT TotalPurchaseDollars FROM vendor_sales_summary"))
	require.Len(t, dollars, 2)
	assert.True(t, dollars[0] >= dollars[1])
}

func TestRun_NullPurchaseAggregatesZeroFilled(t *testing.T) {
	db := openTestDB(t)
	seedBaseTables(t, db)

	// blank numeric CSV fields load as NULL, so a reference price can be
	// NULL and SUM over all-NULL quantities yields NULL
	stmts := []string{
		`INSERT INTO purchases VALUES (7, 'Ghost Goods', 20, 'Mystery', 5.0, NULL, NULL)`,
		`INSERT INTO purchase_prices VALUES (20, NULL, NULL)`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, Run(db, DefaultTable, zerolog.Nop()))

	var row model.VendorSalesSummary
	require.NoError(t, db.Get(&row, "SELECT * FROM vendor_sales_summary WHERE VendorNumber = 7"))
	assert.Zero(t, row.ActualPrice)
	assert.Zero(t, row.TotalPurchaseQuantity)
	assert.Zero(t, row.TotalPurchaseDollars)
	assert.Zero(t, row.Volume)
	assert.Zero(t, row.GrossProfit)
	assert.Zero(t, row.StockTurnover)
	assert.Zero(t, row.SalesToPurchaseRatio)
}

func TestRun_LogsHeadPreview(t *testing.T) {
	db := openTestDB(t)
	seedBaseTables(t, db)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	require.NoError(t, Run(db, DefaultTable, logger))

	// the preview rows must land in the component log at info level
	assert.Contains(t, buf.String(), `"message":"summary head"`)
	assert.NotContains(t, buf.String(), `"level":"debug"`)
}

func TestClean_ZeroDenominatorsGuarded(t *testing.T) {
	rows := []model.VendorSummaryRow{
		{
			VendorNumber:       9,
			VendorName:         "No Sales Inc",
			Brand:              1,
			TotalSalesDollars:  sql.NullFloat64{Float64: 25, Valid: true},
			TotalSalesQuantity: sql.NullFloat64{Float64: 5, Valid: true},
		},
	}

	cleaned := Clean(rows)
	require.Len(t, cleaned, 1)

	// sales against zero purchases: every purchase-denominated ratio is
	// 0, never Inf or NaN
	assert.Equal(t, 25.0, cleaned[0].GrossProfit)
	assert.Equal(t, 100.0, cleaned[0].ProfitMargin)
	assert.Zero(t, cleaned[0].StockTurnover)
	assert.Zero(t, cleaned[0].SalesToPurchaseRatio)
}

func TestClean_TrimsAndFillsNulls(t *testing.T) {
	rows := []model.VendorSummaryRow{
		{
			VendorNumber:          4,
			VendorName:            "  Spaced Out Ltd ",
			Brand:                 2,
			Description:           " Gin  ",
			PurchasePrice:         7,
			ActualPrice:           sql.NullFloat64{Float64: 9, Valid: true},
			Volume:                sql.NullString{String: " 330 ", Valid: true},
			TotalPurchaseQuantity: sql.NullFloat64{Float64: 2, Valid: true},
			TotalPurchaseDollars:  sql.NullFloat64{Float64: 14, Valid: true},
		},
	}

	cleaned := Clean(rows)
	require.Len(t, cleaned, 1)

	c := cleaned[0]
	assert.Equal(t, "Spaced Out Ltd", c.VendorName)
	assert.Equal(t, "Gin", c.Description)
	assert.Equal(t, 330.0, c.Volume)
	assert.Zero(t, c.TotalSalesDollars)
	assert.Zero(t, c.TotalExciseTax)
	assert.Zero(t, c.FreightCost)
	assert.Equal(t, -14.0, c.GrossProfit)
}

func TestClean_UnparseableVolume(t *testing.T) {
	rows := []model.VendorSummaryRow{
		{VendorNumber: 5, Brand: 3, Volume: sql.NullString{String: "n/a", Valid: true}},
		{VendorNumber: 5, Brand: 4},
	}

	cleaned := Clean(rows)
	require.Len(t, cleaned, 2)
	assert.Zero(t, cleaned[0].Volume)
	assert.Zero(t, cleaned[1].Volume)
}

func TestVendorSummaryRows_LeftJoinNulls(t *testing.T) {
	db := openTestDB(t)
	seedBaseTables(t, db)

	rows, err := database.VendorSummaryRows(db)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// descending purchase dollars puts vendor 1 first
	assert.Equal(t, int64(1), rows[0].VendorNumber)
	assert.True(t, rows[0].TotalSalesDollars.Valid)
	assert.True(t, rows[0].FreightCost.Valid)

	assert.Equal(t, int64(2), rows[1].VendorNumber)
	assert.False(t, rows[1].TotalSalesDollars.Valid)
	assert.False(t, rows[1].FreightCost.Valid)
}
