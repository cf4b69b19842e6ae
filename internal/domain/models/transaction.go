package models

import "time"

// TransactionType enumerates the stock flows recorded in the ledger.
type TransactionType string

const (
	FlowSale    TransactionType = "Vente"
	FlowLoss    TransactionType = "Perte"
	FlowBreak   TransactionType = "Casse"
	FlowExpired TransactionType = "Péremption"
)

// TransactionTypes lists the supported flows.
var TransactionTypes = []TransactionType{FlowSale, FlowLoss, FlowBreak, FlowExpired}

// Valid reports whether t belongs to the closed set of flows.
func (t TransactionType) Valid() bool {
	for _, known := range TransactionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsSale reports whether the flow generates revenue.
func (t TransactionType) IsSale() bool {
	return t == FlowSale
}

const (
	// CounterClient labels over-the-counter sales.
	CounterClient = "Comptoir"
	// AdjustmentClient labels inventory corrections that are not sales.
	AdjustmentClient = "Ajustement Inventaire"
	// AdjustmentSeller attributes adjustments done from the inventory screen.
	AdjustmentSeller = "Ajustement Système"
)

// Transaction is one immutable movement of stock. Wine name and type are
// copied at recording time so history survives renames and deletions.
type Transaction struct {
	ID         string          `json:"id"`
	WineID     string          `json:"wineId"`
	WineName   string          `json:"wineName"`
	WineType   WineType        `json:"wineType"`
	Quantity   int             `json:"quantity"`
	Price      int             `json:"price"`
	Client     string          `json:"client"`
	Date       time.Time       `json:"date"`
	Type       TransactionType `json:"type"`
	Total      int             `json:"total"`
	SellerName string          `json:"sellerName"`
}

// LedgerColumns are the column titles of an exported or mirrored ledger.
var LedgerColumns = []string{
	"Date", "Vin", "Type Vin", "Quantite", "Prix Unitaire (FCFA)",
	"Total (FCFA)", "Client / Destination", "Type Flux", "Vendeur",
}
