package models

import "time"

// WineType enumerates the wine families carried by the shop.
type WineType string

const (
	WineRouge        WineType = "Rouge"
	WineBlanc        WineType = "Blanc"
	WineRose         WineType = "Rosé"
	WineEffervescent WineType = "Effervescent"
	WineMoelleux     WineType = "Moelleux"
)

// WineTypes lists every supported wine type in display order.
var WineTypes = []WineType{WineRouge, WineBlanc, WineRose, WineEffervescent, WineMoelleux}

// Valid reports whether t belongs to the closed set of wine types.
func (t WineType) Valid() bool {
	for _, known := range WineTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Wine is one stocked reference of the cellar.
type Wine struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Type            WineType  `json:"type"`
	Appellation     string    `json:"appellation"`
	Vintage         string    `json:"vintage"`
	Producer        string    `json:"producer"`
	Region          string    `json:"region"`
	Quantity        int       `json:"quantity"`
	SellPrice       int       `json:"sellPrice"`
	MinStock        int       `json:"minStock"`
	MaxStock        int       `json:"maxStock"`
	Location        string    `json:"location"`
	Supplier        string    `json:"supplier"`
	DateAdded       time.Time `json:"dateAdded"`
	InitialQuantity int       `json:"initialQuantity"`
}

// IsStockOut reports an empty shelf.
func (w Wine) IsStockOut() bool {
	return w.Quantity == 0
}

// IsLowStock reports a non-empty stock at or under the alert floor.
func (w Wine) IsLowStock() bool {
	return w.Quantity > 0 && w.Quantity <= w.MinStock
}

// IsOverStock reports a stock at or above the alert ceiling.
func (w Wine) IsOverStock() bool {
	return w.Quantity >= w.MaxStock
}
