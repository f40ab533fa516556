package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"api_retail/internal/products"
	"api_retail/internal/sales"
)

const exportTimeLayout = "2006-01-02 15:04"

// WriteSalesCSV writes one row per sale, dates shown in loc.
func WriteSalesCSV(w io.Writer, list []sales.Sale, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "product", "quantity", "unit_price", "total", "seller"}); err != nil {
		return fmt.Errorf("write sales header: %w", err)
	}
	for _, s := range list {
		row := []string{
			s.Date.In(loc).Format(exportTimeLayout),
			s.ProductName,
			strconv.Itoa(s.Quantity),
			s.UnitPrice.StringFixed(2),
			s.Total.StringFixed(2),
			string(s.Seller),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write sale %s: %w", s.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteInventoryCSV writes one row per product.
func WriteInventoryCSV(w io.Writer, list []products.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "category", "quantity", "purchase_price", "sale_price", "expiry_date"}); err != nil {
		return fmt.Errorf("write inventory header: %w", err)
	}
	for _, p := range list {
		row := []string{
			p.Name,
			p.Category,
			strconv.Itoa(p.Quantity),
			p.PurchasePrice.StringFixed(2),
			p.SalePrice.StringFixed(2),
			p.ExpiryDate,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write product %s: %w", p.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
