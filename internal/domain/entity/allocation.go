package entity

import "github.com/shopspring/decimal"

// Allocation horas semanales asignadas a un usuario (suma de sus proyectos).
type Allocation struct {
	UserID          string
	UserName        string
	AllocatedHours  decimal.Decimal
	MaxHoursPerWeek decimal.Decimal
}
