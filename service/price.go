package service

import (
	"museum-ticket/common/constant"
	"museum-ticket/common/errs"
)

// Price returns the order total in cents from the catalog. Client supplied
// totals are never used.
func Price(product string, adults, reduced int32) (int64, error) {
	p, ok := constant.ProductById[product]
	if !ok {
		return 0, errs.Validation("Product", "not found")
	}

	if adults < 0 || reduced < 0 {
		return 0, errs.Validation("Party", "negative")
	}

	if adults+reduced == 0 {
		return 0, errs.Validation("Party", "empty")
	}

	return int64(adults)*p.AdultPriceCents + int64(reduced)*p.ReducedPriceCents, nil
}
