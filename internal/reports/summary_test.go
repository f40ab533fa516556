package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api_retail/internal/products"
	"api_retail/internal/sales"
)

var fixedNow = time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC)

func sale(id, productID, name string, qty int, price int64, at time.Time) sales.Sale {
	p := decimal.NewFromInt(price)
	return sales.Sale{
		ID:          id,
		ProductID:   productID,
		ProductName: name,
		Quantity:    qty,
		UnitPrice:   p,
		Total:       p.Mul(decimal.NewFromInt(int64(qty))),
		Date:        at,
		Seller:      "staff",
	}
}

func everything(time.Time) bool { return true }

func TestTopProducts_StableAndIdempotent(t *testing.T) {
	list := []sales.Sale{
		sale("1", "p-sabao", "Sabão", 2, 10, fixedNow),
		sale("2", "p-arroz", "Arroz", 5, 10, fixedNow),
		sale("3", "p-oleo", "Óleo", 2, 10, fixedNow),
		sale("4", "p-sabao", "Sabão", 3, 10, fixedNow),
		sale("5", "p-acucar", "Açúcar", 1, 10, fixedNow),
	}

	first := TopProducts(list, 3)
	second := TopProducts(list, 3)
	assert.Equal(t, first, second)

	require.Len(t, first, 3)
	assert.Equal(t, "p-sabao", first[0].ProductID)
	assert.Equal(t, 5, first[0].Quantity)
	assert.Equal(t, "p-arroz", first[1].ProductID, "ties keep first-encountered order")
	assert.Equal(t, "p-oleo", first[2].ProductID)
}

func TestTopProducts_GroupsByID(t *testing.T) {
	list := []sales.Sale{
		sale("1", "p1", "Pão", 1, 5, fixedNow),
		sale("2", "p2", "Pão", 4, 5, fixedNow),
	}
	top := TopProducts(list, DefaultTopN)
	require.Len(t, top, 2, "same name, different products")
	assert.Equal(t, "p2", top[0].ProductID)
}

func TestSummarize(t *testing.T) {
	catalogue := []products.Product{
		{ID: "p1", Name: "Arroz", PurchasePrice: decimal.NewFromInt(60)},
	}
	list := []sales.Sale{
		sale("s1", "p1", "Arroz", 3, 100, fixedNow),
		sale("s2", "gone", "Feijão", 2, 40, fixedNow),
		sale("s3", "p1", "Arroz", 1, 100, fixedNow.AddDate(0, -2, 0)),
	}

	got := Summarize(list, catalogue, Window{Period: Today}.Match(fixedNow, time.UTC), DefaultTopN)
	assert.True(t, got.TotalRevenue.Equal(decimal.NewFromInt(380)))
	assert.Equal(t, 5, got.UnitsSold)
	assert.Equal(t, 2, got.SalesCount)
	assert.True(t, got.Profit.Equal(decimal.NewFromInt(120)), got.Profit.String())
	require.Len(t, got.Anomalies, 1)
	assert.Equal(t, "s2", got.Anomalies[0].SaleID)
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(nil, nil, everything, DefaultTopN)
	assert.True(t, got.TotalRevenue.IsZero())
	assert.Equal(t, 0, got.UnitsSold)
	assert.Empty(t, got.TopProducts)
	assert.Empty(t, got.Anomalies)
}

func TestMonthlyRevenueForecast(t *testing.T) {
	dailyHistory := func(days int) []sales.Sale {
		list := make([]sales.Sale, 0, days)
		for d := days - 1; d >= 0; d-- {
			list = append(list, sale("", "p1", "Arroz", 1, 100, fixedNow.AddDate(0, 0, -d)))
		}
		return list
	}

	t.Run("seven days", func(t *testing.T) {
		got := MonthlyRevenueForecast(dailyHistory(7), fixedNow, time.UTC)
		assert.True(t, got.Equal(decimal.NewFromInt(3000)), got.String())
	})

	t.Run("three days", func(t *testing.T) {
		got := MonthlyRevenueForecast(dailyHistory(3), fixedNow, time.UTC)
		assert.True(t, got.IsZero(), got.String())
	})

	t.Run("no sales", func(t *testing.T) {
		assert.True(t, MonthlyRevenueForecast(nil, fixedNow, time.UTC).IsZero())
	})

	t.Run("older days are ignored", func(t *testing.T) {
		list := append(dailyHistory(7), sale("", "p1", "Arroz", 1, 5000, fixedNow.AddDate(0, 0, -20)))
		got := MonthlyRevenueForecast(list, fixedNow, time.UTC)
		assert.True(t, got.Equal(decimal.NewFromInt(3000)), got.String())
	})

	t.Run("nothing sold today", func(t *testing.T) {
		// Seven sale days ending yesterday span eight days of history;
		// the window counts today's zero and drops the oldest day.
		list := make([]sales.Sale, 0, 7)
		for d := 7; d >= 1; d-- {
			list = append(list, sale("", "p1", "Arroz", 1, 100, fixedNow.AddDate(0, 0, -d)))
		}
		got := MonthlyRevenueForecast(list, fixedNow, time.UTC)
		assert.True(t, got.Equal(decimal.RequireFromString("2571.43")), got.String())
	})

	t.Run("six sale days ending yesterday", func(t *testing.T) {
		list := make([]sales.Sale, 0, 6)
		for d := 6; d >= 1; d-- {
			list = append(list, sale("", "p1", "Arroz", 1, 100, fixedNow.AddDate(0, 0, -d)))
		}
		got := MonthlyRevenueForecast(list, fixedNow, time.UTC)
		assert.True(t, got.Equal(decimal.RequireFromString("2571.43")), got.String())
	})

	t.Run("quiet last week", func(t *testing.T) {
		list := []sales.Sale{sale("", "p1", "Arroz", 1, 700, fixedNow.AddDate(0, 0, -10))}
		assert.True(t, MonthlyRevenueForecast(list, fixedNow, time.UTC).IsZero())
	})
}
