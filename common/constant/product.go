package constant

import "museum-ticket/model"

const (
	ProductLift   = "lift"
	ProductStairs = "stairs"
	ProductDuomo  = "duomo"

	ScopeAllProducts = "all"

	Currency = "eur"
)

var ProductById = map[string]model.Product{
	ProductLift: {
		Id:                 ProductLift,
		Name:               "Cathedral Rooftop by Lift",
		AdultPriceCents:    3590,
		ReducedPriceCents:  1990,
		OriginalPriceCents: 4200,
	},
	ProductStairs: {
		Id:                 ProductStairs,
		Name:               "Cathedral Rooftop by Stairs",
		AdultPriceCents:    2990,
		ReducedPriceCents:  2090,
		OriginalPriceCents: 3500,
	},
	ProductDuomo: {
		Id:                 ProductDuomo,
		Name:               "Cathedral Entry",
		AdultPriceCents:    2190,
		ReducedPriceCents:  1390,
		OriginalPriceCents: 2600,
	},
}

// ProductsData keeps the catalog order shown to customers.
var ProductsData = []model.Product{
	ProductById[ProductLift],
	ProductById[ProductStairs],
	ProductById[ProductDuomo],
}
