package domain

// Rating holds the catalog's aggregate review score for a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is an immutable snapshot of catalog data taken at the moment a
// product enters a store. The stores never re-fetch or revalidate it, so a
// later catalog change (for example a price update) is not reflected in
// entries that already hold the old snapshot.
type Product struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}
