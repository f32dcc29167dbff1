// Package model defines the core domain models used throughout the application.
package model

import (
	"time"
)

// AssetCategory classifies a fixed asset for depreciation purposes.
type AssetCategory string

// Asset category constants.
const (
	CategoryComputer  AssetCategory = "computer"
	CategoryPhone     AssetCategory = "phone"
	CategoryFurniture AssetCategory = "furniture"
	CategoryEquipment AssetCategory = "equipment"
	CategorySoftware  AssetCategory = "software"
)

// AfaMethod selects how an asset is written down.
type AfaMethod string

const (
	// MethodLinear spreads the purchase price evenly over the useful life,
	// pro-rated by month in the first year.
	MethodLinear AfaMethod = "linear"
	// MethodImmediate writes the full price off in the purchase year (GWG).
	MethodImmediate AfaMethod = "immediate"
)

// AssetStatus tracks an asset through its lifecycle.
type AssetStatus string

const (
	// AssetActive is an asset still in use.
	AssetActive AssetStatus = "active"
	// AssetDisposed is an asset taken out of service without sale proceeds.
	AssetDisposed AssetStatus = "disposed"
	// AssetSold is an asset sold for a disposal price.
	AssetSold AssetStatus = "sold"
)

// Asset represents a purchased fixed asset subject to depreciation.
type Asset struct {
	PurchaseDate    time.Time
	DisposalDate    *time.Time
	DisposalPrice   *float64
	Name            string
	Category        AssetCategory
	Method          AfaMethod
	Status          AssetStatus
	ID              int64
	UsefulLifeYears int
	PurchasePrice   float64 // net
	VATPaid         float64
}

// DepreciationEntry is one fiscal year's write-down for an asset.
// Entries are derived data: regenerated wholesale whenever the asset's
// price, date, category, useful life, or method changes.
type DepreciationEntry struct {
	ID         int64
	AssetID    int64
	Year       int
	Months     int // months covered within the fiscal year, 1-12
	Amount     float64
	Cumulative float64
	BookValue  float64
}

// IsDisposed reports whether the asset has left service, by sale or otherwise.
func (a *Asset) IsDisposed() bool {
	return a.Status == AssetDisposed || a.Status == AssetSold
}

// DisposalYear returns the fiscal year of disposal, or 0 when the asset is
// still active or has no disposal date recorded.
func (a *Asset) DisposalYear() int {
	if a.DisposalDate == nil {
		return 0
	}
	return a.DisposalDate.Year()
}
