package entity

type Client struct {
	Base
	Name       string  `db:"name"`
	Email      *string `db:"email"`
	Phone      *string `db:"phone"`
	Address    *string `db:"address"`
	TotalSpent float64 `db:"total_spent"`
}
