package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"vendorstats/model"
)

// vendorSummaryQuery joins three grouped sub-aggregates:
// freight per vendor, purchases per (vendor, brand) with reference
// prices, and sales per (vendor, brand). Left joins keep every purchase
// group even when a vendor never sold the brand or has no invoices.
const vendorSummaryQuery = `
WITH FreightSummary AS (
    SELECT
        VendorNumber,
        SUM(Freight) AS FreightCost
    FROM vendor_invoice
    GROUP BY VendorNumber
),

PurchaseSummary AS (
    SELECT
        p.VendorNumber,
        p.VendorName,
        p.Brand,
        p.Description,
        p.PurchasePrice,
        pp.Price AS ActualPrice,
        pp.Volume,
        SUM(p.Quantity) AS TotalPurchaseQuantity,
        SUM(p.Dollars) AS TotalPurchaseDollars
    FROM purchases p
    JOIN purchase_prices pp
        ON p.Brand = pp.Brand
    WHERE p.PurchasePrice > 0
    GROUP BY p.VendorNumber, p.VendorName, p.Brand, p.Description, p.PurchasePrice, pp.Price, pp.Volume
),

SalesSummary AS (
    SELECT
        VendorNo,
        Brand,
        SUM(SalesQuantity) AS TotalSalesQuantity,
        SUM(SalesDollars) AS TotalSalesDollars,
        SUM(SalesPrice) AS TotalSalesPrice,
        SUM(ExciseTax) AS TotalExciseTax
    FROM sales
    GROUP BY VendorNo, Brand
)

SELECT
    ps.VendorNumber,
    ps.VendorName,
    ps.Brand,
    ps.Description,
    ps.PurchasePrice,
    ps.ActualPrice,
    ps.Volume,
    ps.TotalPurchaseQuantity,
    ps.TotalPurchaseDollars,
    ss.TotalSalesQuantity,
    ss.TotalSalesDollars,
    ss.TotalSalesPrice,
    ss.TotalExciseTax,
    fs.FreightCost
FROM PurchaseSummary ps
LEFT JOIN SalesSummary ss
    ON ps.VendorNumber = ss.VendorNo
   AND ps.Brand = ss.Brand
LEFT JOIN FreightSummary fs
    ON ps.VendorNumber = fs.VendorNumber
ORDER BY ps.TotalPurchaseDollars DESC`

// VendorSummaryRows runs the vendor summary aggregation against the
// pre-loaded base tables. Row order is descending total purchase
// dollars; ties carry no secondary order.
func VendorSummaryRows(conn *sqlx.DB) ([]model.VendorSummaryRow, error) {
	rows, err := conn.Queryx(vendorSummaryQuery)
	if err != nil {
		return nil, fmt.Errorf("vendor summary query failed: %w", err)
	}
	defer rows.Close()

	var result []model.VendorSummaryRow
	for rows.Next() {
		var r model.VendorSummaryRow
		if err := rows.StructScan(&r); err != nil {
			return nil, fmt.Errorf("failed to scan vendor summary row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
