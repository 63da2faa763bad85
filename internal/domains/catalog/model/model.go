package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Server is an IPTV panel a reseller sells access to.
type Server struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Plan is a subscription package with its default monthly price.
type Plan struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Screens   int             `json:"screens" db:"screens"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// Application is a player app a client can be provisioned on.
type Application struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Lookups is the reference data the import pipeline validates and bulk-edits against.
type Lookups struct {
	Servers      []Server      `json:"servers"`
	Plans        []Plan        `json:"plans"`
	Applications []Application `json:"applications"`
}

// FindPlan returns the plan whose name equals name exactly.
func (l Lookups) FindPlan(name string) (Plan, bool) {
	for _, p := range l.Plans {
		if p.Name == name {
			return p, true
		}
	}
	return Plan{}, false
}
