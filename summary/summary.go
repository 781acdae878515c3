package summary

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"vendorstats/database"
	"vendorstats/model"
)

// DefaultTable is the name the summary is persisted under when no
// override is configured.
const DefaultTable = "vendor_sales_summary"

const headRows = 5

// Run builds the vendor summary from the pre-loaded base tables,
// cleans it, and writes it back to the store under table, replacing any
// prior version in full.
func Run(db *sqlx.DB, table string, logger zerolog.Logger) error {
	logger.Info().Msg("creating vendor summary table")
	raw, err := database.VendorSummaryRows(db)
	if err != nil {
		return err
	}

	logger.Info().Int("rows", len(raw)).Msg("cleaning data")
	cleaned := Clean(raw)
	logHead(logger, cleaned)

	logger.Info().Str("table", table).Msg("ingesting data")
	if err := Save(db, table, cleaned); err != nil {
		return err
	}

	logger.Info().Int("rows", len(cleaned)).Str("table", table).Msg("completed")
	return nil
}

// Clean converts the raw query rows into their persisted form: Volume
// parsed to a float, null aggregates filled with zero on both the
// purchase and sales sides, vendor name and description trimmed, and
// the four computed columns appended. Ratios with a zero denominator
// come out as zero rather than Inf/NaN.
func Clean(rows []model.VendorSummaryRow) []model.VendorSalesSummary {
	result := make([]model.VendorSalesSummary, 0, len(rows))
	for _, r := range rows {
		s := model.VendorSalesSummary{
			VendorNumber:          r.VendorNumber,
			VendorName:            strings.TrimSpace(r.VendorName),
			Brand:                 r.Brand,
			Description:           strings.TrimSpace(r.Description),
			PurchasePrice:         r.PurchasePrice,
			ActualPrice:           r.ActualPrice.Float64,
			Volume:                parseVolume(r.Volume.String),
			TotalPurchaseQuantity: r.TotalPurchaseQuantity.Float64,
			TotalPurchaseDollars:  r.TotalPurchaseDollars.Float64,
			TotalSalesQuantity:    r.TotalSalesQuantity.Float64,
			TotalSalesDollars:     r.TotalSalesDollars.Float64,
			TotalSalesPrice:       r.TotalSalesPrice.Float64,
			TotalExciseTax:        r.TotalExciseTax.Float64,
			FreightCost:           r.FreightCost.Float64,
		}

		s.GrossProfit = s.TotalSalesDollars - s.TotalPurchaseDollars
		s.ProfitMargin = safeDiv(s.GrossProfit, s.TotalSalesDollars) * 100
		s.StockTurnover = safeDiv(s.TotalSalesQuantity, s.TotalPurchaseQuantity)
		s.SalesToPurchaseRatio = safeDiv(s.TotalSalesDollars, s.TotalPurchaseDollars)

		result = append(result, s)
	}
	return result
}

// Save writes the cleaned summary rows to table with replace
// semantics.
func Save(db *sqlx.DB, table string, rows []model.VendorSalesSummary) (err error) {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %s: %w", table, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	if err = database.DropTable(tx, table); err != nil {
		return err
	}

	createStmt := fmt.Sprintf(`CREATE TABLE %s (
		VendorNumber INTEGER,
		VendorName TEXT,
		Brand INTEGER,
		Description TEXT,
		PurchasePrice REAL,
		ActualPrice REAL,
		Volume REAL,
		TotalPurchaseQuantity REAL,
		TotalPurchaseDollars REAL,
		TotalSalesQuantity REAL,
		TotalSalesDollars REAL,
		TotalSalesPrice REAL,
		TotalExciseTax REAL,
		FreightCost REAL,
		GrossProfit REAL,
		ProfitMargin REAL,
		StockTurnover REAL,
		SalesToPurchaseRatio REAL
	)`, database.QuoteIdent(table))
	if _, err = tx.Exec(createStmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	insertStmt := fmt.Sprintf(`INSERT INTO %s VALUES (
		:VendorNumber, :VendorName, :Brand, :Description,
		:PurchasePrice, :ActualPrice, :Volume,
		:TotalPurchaseQuantity, :TotalPurchaseDollars,
		:TotalSalesQuantity, :TotalSalesDollars, :TotalSalesPrice, :TotalExciseTax,
		:FreightCost,
		:GrossProfit, :ProfitMargin, :StockTurnover, :SalesToPurchaseRatio
	)`, database.QuoteIdent(table))
	stmt, err := tx.PrepareNamed(insertStmt)
	if err != nil {
		return fmt.Errorf("failed to prepare insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err = stmt.Exec(row); err != nil {
			return fmt.Errorf("failed to insert summary row for vendor %d brand %d: %w", row.VendorNumber, row.Brand, err)
		}
	}
	return nil
}

// parseVolume reads the text volume column as a float; anything
// unparseable (including null, scanned as "") counts as zero.
func parseVolume(val string) float64 {
	num, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return 0
	}
	return num
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func logHead(logger zerolog.Logger, rows []model.VendorSalesSummary) {
	for i, row := range rows {
		if i == headRows {
			break
		}
		logger.Info().
			Int64("vendor", row.VendorNumber).
			Int64("brand", row.Brand).
			Float64("purchaseDollars", row.TotalPurchaseDollars).
			Float64("salesDollars", row.TotalSalesDollars).
			Float64("grossProfit", row.GrossProfit).
			Msg("summary head")
	}
}
