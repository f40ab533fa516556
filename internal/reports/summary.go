package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"api_retail/internal/calendar"
	"api_retail/internal/products"
	"api_retail/internal/sales"
)

// DefaultTopN is how many products a summary ranks.
const DefaultTopN = 5

// ForecastDays is the history a forecast averages over.
const ForecastDays = 7

// ProductUnits is one line of a top products ranking.
type ProductUnits struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// Anomaly is a sale whose product is no longer in the catalogue; it counts
// towards revenue with zero profit.
type Anomaly struct {
	SaleID    string `json:"sale_id"`
	ProductID string `json:"product_id"`
	Name      string `json:"product_name"`
}

type Summary struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	UnitsSold    int             `json:"units_sold"`
	SalesCount   int             `json:"sales_count"`
	TopProducts  []ProductUnits  `json:"top_products"`
	Profit       decimal.Decimal `json:"profit"`
	Anomalies    []Anomaly       `json:"anomalies"`
}

// Filter keeps the sales whose date matches.
func Filter(list []sales.Sale, match func(time.Time) bool) []sales.Sale {
	out := make([]sales.Sale, 0)
	for _, s := range list {
		if match(s.Date) {
			out = append(out, s)
		}
	}
	return out
}

// TotalRevenue sums the totals of list.
func TotalRevenue(list []sales.Sale) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range list {
		sum = sum.Add(s.Total)
	}
	return sum
}

func UnitsSold(list []sales.Sale) int {
	n := 0
	for _, s := range list {
		n += s.Quantity
	}
	return n
}

// TopProducts ranks products by units sold, keeping the order in which they
// first appear for equal quantities. Products are grouped by id and labelled
// with the name of their first sale.
func TopProducts(list []sales.Sale, n int) []ProductUnits {
	index := make(map[string]int)
	ranked := make([]ProductUnits, 0)
	for _, s := range list {
		i, ok := index[s.ProductID]
		if !ok {
			i = len(ranked)
			index[s.ProductID] = i
			ranked = append(ranked, ProductUnits{ProductID: s.ProductID, Name: s.ProductName})
		}
		ranked[i].Quantity += s.Quantity
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].Quantity > ranked[b].Quantity })
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Profit sums (unit price − current purchase price) × quantity, joining on
// product id. Sales of products missing from catalogue are returned as anomalies.
func Profit(list []sales.Sale, catalogue []products.Product) (decimal.Decimal, []Anomaly) {
	cost := make(map[string]decimal.Decimal, len(catalogue))
	for _, p := range catalogue {
		cost[p.ID] = p.PurchasePrice
	}
	profit := decimal.Zero
	anomalies := make([]Anomaly, 0)
	for _, s := range list {
		purchase, ok := cost[s.ProductID]
		if !ok {
			anomalies = append(anomalies, Anomaly{SaleID: s.ID, ProductID: s.ProductID, Name: s.ProductName})
			continue
		}
		profit = profit.Add(s.UnitPrice.Sub(purchase).Mul(decimal.NewFromInt(int64(s.Quantity))))
	}
	return profit, anomalies
}

// Summarize computes the aggregates of the sales matching the window.
func Summarize(list []sales.Sale, catalogue []products.Product, match func(time.Time) bool, topN int) Summary {
	in := Filter(list, match)
	profit, anomalies := Profit(in, catalogue)
	return Summary{
		TotalRevenue: TotalRevenue(in),
		UnitsSold:    UnitsSold(in),
		SalesCount:   len(in),
		TopProducts:  TopProducts(in, topN),
		Profit:       profit,
		Anomalies:    anomalies,
	}
}

// MonthlyRevenueForecast projects 30 days of revenue from the mean daily
// revenue of the last seven calendar days, today included. It is zero until
// the history, from the first sale's day through today, covers seven days.
func MonthlyRevenueForecast(list []sales.Sale, now time.Time, loc *time.Location) decimal.Decimal {
	if len(list) == 0 {
		return decimal.Zero
	}
	first := list[0].Date
	for _, s := range list[1:] {
		if s.Date.Before(first) {
			first = s.Date
		}
	}
	if calendar.DaysBetween(first, now, loc)+1 < ForecastDays {
		return decimal.Zero
	}

	from := calendar.StartOfDay(now.In(loc)).AddDate(0, 0, -(ForecastDays - 1))
	to := calendar.StartOfDay(now.In(loc)).AddDate(0, 0, 1)
	recent := Filter(list, func(t time.Time) bool { return !t.Before(from) && t.Before(to) })
	return TotalRevenue(recent).
		Div(decimal.NewFromInt(ForecastDays)).
		Mul(decimal.NewFromInt(30)).
		Round(2)
}
