package model

import "database/sql"

// VendorSummaryRow is one row of the vendor summary query before
// cleaning. The sales and freight columns come from left joins and are
// null when no matching row exists. The purchase-side aggregates can be
// null too: the loader writes NULL for blank numeric fields, so a blank
// reference price or a SUM over all-NULL quantities comes back as NULL.
// Volume is kept as text because the purchase_prices table stores it
// however the source file had it. PurchasePrice stays non-nullable
// because the query filters on PurchasePrice > 0.
type VendorSummaryRow struct {
	VendorNumber          int64           `db:"VendorNumber"`
	VendorName            string          `db:"VendorName"`
	Brand                 int64           `db:"Brand"`
	Description           string          `db:"Description"`
	PurchasePrice         float64         `db:"PurchasePrice"`
	ActualPrice           sql.NullFloat64 `db:"ActualPrice"`
	Volume                sql.NullString  `db:"Volume"`
	TotalPurchaseQuantity sql.NullFloat64 `db:"TotalPurchaseQuantity"`
	TotalPurchaseDollars  sql.NullFloat64 `db:"TotalPurchaseDollars"`
	TotalSalesQuantity    sql.NullFloat64 `db:"TotalSalesQuantity"`
	TotalSalesDollars     sql.NullFloat64 `db:"TotalSalesDollars"`
	TotalSalesPrice       sql.NullFloat64 `db:"TotalSalesPrice"`
	TotalExciseTax        sql.NullFloat64 `db:"TotalExciseTax"`
	FreightCost           sql.NullFloat64 `db:"FreightCost"`
}

// VendorSalesSummary is the cleaned, persisted form: nulls filled with
// zero, Volume numeric, plus the four computed ratio columns.
type VendorSalesSummary struct {
	VendorNumber          int64   `db:"VendorNumber"`
	VendorName            string  `db:"VendorName"`
	Brand                 int64   `db:"Brand"`
	Description           string  `db:"Description"`
	PurchasePrice         float64 `db:"PurchasePrice"`
	ActualPrice           float64 `db:"ActualPrice"`
	Volume                float64 `db:"Volume"`
	TotalPurchaseQuantity float64 `db:"TotalPurchaseQuantity"`
	TotalPurchaseDollars  float64 `db:"TotalPurchaseDollars"`
	TotalSalesQuantity    float64 `db:"TotalSalesQuantity"`
	TotalSalesDollars     float64 `db:"TotalSalesDollars"`
	TotalSalesPrice       float64 `db:"TotalSalesPrice"`
	TotalExciseTax        float64 `db:"TotalExciseTax"`
	FreightCost           float64 `db:"FreightCost"`
	GrossProfit           float64 `db:"GrossProfit"`
	ProfitMargin          float64 `db:"ProfitMargin"`
	StockTurnover         float64 `db:"StockTurnover"`
	SalesToPurchaseRatio  float64 `db:"SalesToPurchaseRatio"`
}
