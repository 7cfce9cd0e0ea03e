package models

import "time"

// Bakery owns zero or more baked goods. BakedGoods is populated by the
// repositories on every read.
type Bakery struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	BakedGoods []BakedGood `json:"baked_goods"`
}
