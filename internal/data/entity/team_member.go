package entity

type TeamMember struct {
	Base
	Name     string `db:"name"`
	IsActive bool   `db:"is_active"`
}
