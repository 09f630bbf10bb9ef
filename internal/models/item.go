package models

// ShoppingListItemDB represents a line item inside a shoppinglist.
type ShoppingListItemDB struct {
	ID             int64  `json:"id" db:"id"`               // Primary key
	ShoppinglistID int64  `json:"-" db:"shoppinglist_id"`   // Owning shoppinglist
	Name           string `json:"name" db:"name"`           // Name, stored lower-cased and trimmed, unique per list
	Price          int64  `json:"price" db:"price"`         // Non-negative price
	Quantity       int64  `json:"quantity" db:"quantity"`   // Positive quantity, defaults to 1
}
