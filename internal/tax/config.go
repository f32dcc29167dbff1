// Package tax implements the German tax calculation core: asset
// depreciation schedules (AfA), quarterly VAT aggregation
// (USt-Voranmeldung), and the annual profit report (EÜR).
//
// Everything in this package is pure value computation over records the
// caller already fetched; the storage-backed orchestration lives in
// Service. Statutory figures are configuration, not magic numbers.
package tax

import (
	"github.com/fmeinberg/kontor/internal/model"
)

// Lines holds the statutory EÜR line numbers for lines the aggregator
// populates itself. Record-based lines carry their own number.
type Lines struct {
	// DisposalGain is the income line for gains on asset disposal.
	DisposalGain int
	// Afa is the expense line for depreciation on movable assets.
	Afa int
	// DisposalLoss is the expense line for the remaining book value of
	// assets leaving service.
	DisposalLoss int
	// HomeOffice is the expense line for the home office, flat allowance
	// or real costs.
	HomeOffice int
}

// Config carries the statutory constants the calculation core reads.
type Config struct {
	UsefulLife map[model.AssetCategory]int
	Lines      Lines
	// GWGThreshold is the net price at or below which an asset is a
	// Geringwertiges Wirtschaftsgut and written off immediately.
	GWGThreshold float64
	// HomeOfficeAllowance is the annual flat allowance applied when no
	// real home office expenses were recorded.
	HomeOfficeAllowance float64
	// HighConfidenceThreshold is the reconciliation confidence at or
	// above which a proposed match may be accepted without review.
	HighConfidenceThreshold float64
}

// DefaultConfig returns the statutory constants as of assessment year 2024.
func DefaultConfig() Config {
	return Config{
		GWGThreshold:            800,
		HomeOfficeAllowance:     1260,
		HighConfidenceThreshold: 0.8,
		Lines: Lines{
			DisposalGain: 18,
			Afa:          31,
			DisposalLoss: 36,
			HomeOffice:   55,
		},
		// AfA table useful lives by category.
		UsefulLife: map[model.AssetCategory]int{
			model.CategoryComputer:  3,
			model.CategoryPhone:     5,
			model.CategoryFurniture: 13,
			model.CategoryEquipment: 7,
			model.CategorySoftware:  3,
		},
	}
}

// ResolveMethod applies the GWG rule: when the caller requested no
// explicit method, assets at or below the low-value threshold are written
// off immediately; everything else depreciates linearly.
func (c Config) ResolveMethod(netPrice float64, requested model.AfaMethod) model.AfaMethod {
	if requested != "" {
		return requested
	}
	if netPrice <= c.GWGThreshold {
		return model.MethodImmediate
	}
	return model.MethodLinear
}

// DefaultUsefulLife returns the AfA table life for a category, or 0 when
// the category is unknown and the caller must supply one.
func (c Config) DefaultUsefulLife(category model.AssetCategory) int {
	return c.UsefulLife[category]
}
