package models

import "time"

// DailyDigest is the end-of-day snapshot of alerts and sales sent to the
// manager and archived when a document store is configured.
type DailyDigest struct {
	Date                time.Time `bson:"date" json:"date"`
	TotalBottles        int       `bson:"total_bottles" json:"total_bottles"`
	StockOut            []string  `bson:"stock_out" json:"stock_out"`
	LowStock            []string  `bson:"low_stock" json:"low_stock"`
	OverStock           []string  `bson:"over_stock" json:"over_stock"`
	CustomAlerts        int       `bson:"custom_alerts" json:"custom_alerts"`
	DayRevenue          int       `bson:"day_revenue" json:"day_revenue"`
	DayBottlesSold      int       `bson:"day_bottles_sold" json:"day_bottles_sold"`
	CurrentMonthRevenue int       `bson:"current_month_revenue" json:"current_month_revenue"`
	LedgerEntries       int       `bson:"ledger_entries" json:"ledger_entries"`
	MirrorChecked       bool      `bson:"mirror_checked" json:"mirror_checked"`
	MirroredEntries     int       `bson:"mirrored_entries" json:"mirrored_entries"`
	CreatedAt           time.Time `bson:"created_at" json:"created_at"`
}

// MirrorGap is the number of ledger entries missing from the mirror. It is
// negative when the mirror holds rows deleted from the ledger.
func (d DailyDigest) MirrorGap() int {
	if !d.MirrorChecked {
		return 0
	}
	return d.LedgerEntries - d.MirroredEntries
}
