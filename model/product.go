package model

type Product struct {
	Id                 string `json:"id"`
	Name               string `json:"name"`
	AdultPriceCents    int64  `json:"adult_price_cents"`
	ReducedPriceCents  int64  `json:"reduced_price_cents"`
	OriginalPriceCents int64  `json:"original_price_cents"`
}

type ListProductsResponse struct {
	Products []Product `json:"products"`
	Slots    []string  `json:"slots"`
	Currency string    `json:"currency"`
}
