package models

import "time"

// SeedCatalog returns the references installed on a fresh cellar. Every wine
// starts with its initial quantity equal to its current stock.
func SeedCatalog(now time.Time) []Wine {
	return []Wine{
		{
			ID:              "1",
			Name:            "Château Margaux",
			Type:            WineRouge,
			Appellation:     "Margaux",
			Vintage:         "2015",
			Producer:        "Château Margaux",
			Region:          "Bordeaux",
			Quantity:        24,
			SellPrice:       450000,
			MinStock:        6,
			MaxStock:        48,
			Location:        "Cave A1",
			Supplier:        "Grands Crus Direct",
			DateAdded:       now,
			InitialQuantity: 24,
		},
		{
			ID:              "2",
			Name:            "Cloudy Bay Sauvignon Blanc",
			Type:            WineBlanc,
			Appellation:     "Marlborough",
			Vintage:         "2022",
			Producer:        "Cloudy Bay",
			Region:          "Nouvelle-Zélande",
			Quantity:        60,
			SellPrice:       25000,
			MinStock:        12,
			MaxStock:        120,
			Location:        "Rayon Frais 1",
			Supplier:        "LVMH",
			DateAdded:       now,
			InitialQuantity: 60,
		},
		{
			ID:              "3",
			Name:            "Whispering Angel",
			Type:            WineRose,
			Appellation:     "Côtes de Provence",
			Vintage:         "2023",
			Producer:        "Caves d'Esclans",
			Region:          "Provence",
			Quantity:        120,
			SellPrice:       18000,
			MinStock:        24,
			MaxStock:        240,
			Location:        "Terrasse B",
			Supplier:        "Provence Wines",
			DateAdded:       now,
			InitialQuantity: 120,
		},
		{
			ID:              "4",
			Name:            "Dom Pérignon Vintage",
			Type:            WineEffervescent,
			Appellation:     "Champagne",
			Vintage:         "2012",
			Producer:        "Moët & Chandon",
			Region:          "Champagne",
			Quantity:        12,
			SellPrice:       165000,
			MinStock:        3,
			MaxStock:        24,
			Location:        "Vitrine Luxe",
			Supplier:        "MH France",
			DateAdded:       now,
			InitialQuantity: 12,
		},
	}
}
