package commerce

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Category groups products. ProductCount is derived at read time from the
// products referencing the category; it is never stored.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Name        string `bun:"name,notnull" json:"name"`
	Description string `bun:"description" json:"description,omitempty"`
	IsActive    bool   `bun:"is_active" json:"is_active"`

	// ProductCount reflects the number of products referencing the category
	// at the moment the row was read.
	ProductCount int `bun:"product_count,scanonly" json:"product_count"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Product is a sellable item. Quantity is the stock counter and must never be
// observed as negative by a committed read.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          int64           `bun:"id,pk,autoincrement" json:"id"`
	Name        string          `bun:"name,notnull" json:"name"`
	Description string          `bun:"description" json:"description,omitempty"`
	SKU         string          `bun:"sku,notnull" json:"sku"`
	Price       decimal.Decimal `bun:"price,notnull,type:numeric(10,2)" json:"price"`
	Quantity    int             `bun:"quantity,notnull" json:"quantity"`
	CategoryID  int64           `bun:"category_id,notnull" json:"category_id"`
	IsActive    bool            `bun:"is_active" json:"is_active"`

	Category *Category `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Order records a purchase. UnitPrice is a snapshot of the product price at
// creation time and is immutable thereafter, as are TotalPrice, Quantity and
// ProductID. Status is an opaque string; no transition graph is enforced.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID            int64           `bun:"id,pk,autoincrement" json:"id"`
	ProductID     int64           `bun:"product_id,notnull" json:"product_id"`
	CustomerName  string          `bun:"customer_name,notnull" json:"customer_name"`
	CustomerEmail string          `bun:"customer_email,notnull" json:"customer_email"`
	Quantity      int             `bun:"quantity,notnull" json:"quantity"`
	UnitPrice     decimal.Decimal `bun:"unit_price,notnull,type:numeric(10,2)" json:"unit_price"`
	TotalPrice    decimal.Decimal `bun:"total_price,notnull,type:numeric(10,2)" json:"total_price"`
	Status        string          `bun:"status,notnull" json:"status"`
	OrderDate     time.Time       `bun:"order_date,notnull" json:"order_date"`

	Product *Product `bun:"rel:belongs-to,join:product_id=id" json:"product,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
