package model

// Product is the locally edited catalog record.
type Product struct {
	BaseModel
	CategoryID   *string `db:"category_id" json:"category_id"`
	CategoryName *string `db:"category_name" json:"category_name"` // Joined data
	Name         string  `db:"name" json:"name"`
	Description  *string `db:"description" json:"description"`
	Price        float64 `db:"price" json:"price"`
	Code         *string `db:"code" json:"code"`
	IsActive     bool    `db:"is_active" json:"is_active"`
	FudoID       *string `db:"fudo_id" json:"fudo_id"` // Remote cross-reference, nil until pushed or linked
}
