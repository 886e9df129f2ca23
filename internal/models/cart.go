package models

// ShoppingCart is the transient checkout payload submitted by a client.
// Duplicates are permitted and unknown ids are tolerated; the checkout
// workflow resolves entries against the catalog and reports misses.
type ShoppingCart struct {
	BookIDs []int `json:"book_ids"`
}
