package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/mamadbah2/vinstock/internal/domain/models"
)

// RotationTopN caps the rotation table.
const RotationTopN = 10

var frenchShortMonths = [12]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

// MonthLabel returns the French short month name of t.
func MonthLabel(t time.Time) string {
	return frenchShortMonths[t.Month()-1]
}

// TypeShare is the stocked quantity of one wine type.
type TypeShare struct {
	Type     models.WineType `json:"type"`
	Quantity int             `json:"quantity"`
}

// MonthRevenue is the sale revenue booked in one calendar month.
type MonthRevenue struct {
	Month   string `json:"month"`
	Revenue int    `json:"revenue"`
}

// KPIs are the headline figures of the dashboard.
type KPIs struct {
	TotalRevenue        int     `json:"totalRevenue"`
	CurrentMonthRevenue int     `json:"currentMonthRevenue"`
	AverageBasket       float64 `json:"averageBasket"`
	TotalBottles        int     `json:"totalBottles"`
	SalesCount          int     `json:"salesCount"`
}

// Rotation is the turnover of one wine.
type Rotation struct {
	WineID       string  `json:"wineId"`
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	SoldQty      int     `json:"soldQty"`
	AvgStock     float64 `json:"avgStock"`
	RotationRate float64 `json:"rotationRate"`
	AvgDays      int     `json:"avgDays"`
}

// Dashboard bundles every aggregate.
type Dashboard struct {
	KPIs             KPIs           `json:"kpis"`
	TypeDistribution []TypeShare    `json:"typeDistribution"`
	MonthlyRevenue   []MonthRevenue `json:"monthlyRevenue"`
	Rotation         []Rotation     `json:"rotation"`
	GeneratedAt      time.Time      `json:"generatedAt"`
}

// TypeDistribution sums stocked quantities per wine type, in first-seen order.
func TypeDistribution(wines []models.Wine) []TypeShare {
	shares := []TypeShare{}
	index := make(map[models.WineType]int)
	for _, w := range wines {
		i, ok := index[w.Type]
		if !ok {
			i = len(shares)
			index[w.Type] = i
			shares = append(shares, TypeShare{Type: w.Type})
		}
		shares[i].Quantity += w.Quantity
	}
	return shares
}

// MonthlyRevenue sums sale totals per calendar month name, in first-seen
// order. Months of different years share a bucket. Dates are read in loc.
func MonthlyRevenue(txs []models.Transaction, loc *time.Location) []MonthRevenue {
	if loc == nil {
		loc = time.UTC
	}

	months := []MonthRevenue{}
	index := make(map[string]int)
	for _, tx := range txs {
		if !tx.Type.IsSale() {
			continue
		}
		label := MonthLabel(tx.Date.In(loc))
		i, ok := index[label]
		if !ok {
			i = len(months)
			index[label] = i
			months = append(months, MonthRevenue{Month: label})
		}
		months[i].Revenue += tx.Total
	}
	return months
}

// ComputeKPIs derives the headline figures. The current month is the month
// and year of now, in now's location.
func ComputeKPIs(wines []models.Wine, txs []models.Transaction, now time.Time) KPIs {
	var k KPIs
	for _, tx := range txs {
		if !tx.Type.IsSale() {
			continue
		}
		k.TotalRevenue += tx.Total
		k.SalesCount++

		d := tx.Date.In(now.Location())
		if d.Month() == now.Month() && d.Year() == now.Year() {
			k.CurrentMonthRevenue += tx.Total
		}
	}

	if k.SalesCount > 0 {
		k.AverageBasket = float64(k.TotalRevenue) / float64(k.SalesCount)
	}

	for _, w := range wines {
		k.TotalBottles += w.Quantity
	}
	return k
}

// RotationStats computes the turnover of every wine, fastest first, capped
// at RotationTopN entries.
func RotationStats(wines []models.Wine, txs []models.Transaction) []Rotation {
	sold := make(map[string]int)
	for _, tx := range txs {
		if tx.Type.IsSale() {
			sold[tx.WineID] += tx.Quantity
		}
	}

	stats := make([]Rotation, 0, len(wines))
	for _, w := range wines {
		avgStock := float64(w.InitialQuantity+w.Quantity) / 2
		if avgStock == 0 {
			avgStock = 1
		}

		soldQty := sold[w.ID]
		rate := float64(soldQty) / avgStock * 100

		avgDays := 0
		if rate > 0 {
			avgDays = int(math.Floor(365/(rate/100) + 0.5))
		}

		stats = append(stats, Rotation{
			WineID:       w.ID,
			Name:         w.Name,
			Quantity:     w.Quantity,
			SoldQty:      soldQty,
			AvgStock:     avgStock,
			RotationRate: rate,
			AvgDays:      avgDays,
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].RotationRate > stats[j].RotationRate
	})

	if len(stats) > RotationTopN {
		stats = stats[:RotationTopN]
	}
	return stats
}

// BuildDashboard computes every aggregate at instant now.
func BuildDashboard(wines []models.Wine, txs []models.Transaction, now time.Time) Dashboard {
	return Dashboard{
		KPIs:             ComputeKPIs(wines, txs, now),
		TypeDistribution: TypeDistribution(wines),
		MonthlyRevenue:   MonthlyRevenue(txs, now.Location()),
		Rotation:         RotationStats(wines, txs),
		GeneratedAt:      now,
	}
}
