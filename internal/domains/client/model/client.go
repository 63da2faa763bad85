package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client is a reseller's IPTV subscriber.
type Client struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	OwnerID      string          `json:"owner_id" db:"owner_id"`
	Name         string          `json:"name" db:"name"`
	Username     string          `json:"username" db:"username"`
	IPTVPassword string          `json:"iptv_password" db:"iptv_password"`
	Phone        string          `json:"phone" db:"phone"`
	RenewalDate  time.Time       `json:"renewal_date" db:"renewal_date"`
	Server       string          `json:"server" db:"server"`
	Application  string          `json:"application" db:"application"`
	MAC          string          `json:"mac" db:"mac"`
	Plan         string          `json:"plan" db:"plan"`
	Email        string          `json:"email" db:"email"`
	Value        decimal.Decimal `json:"value" db:"value"`
	Screens      int             `json:"screens" db:"screens"`
	Notes        string          `json:"notes" db:"notes"`
	ImportJobID  *uuid.UUID      `json:"import_job_id,omitempty" db:"import_job_id"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// NewClient is the input of a batch import. RenewalDate is YYYY-MM-DD.
type NewClient struct {
	Name         string
	Username     string
	IPTVPassword string
	Phone        string
	RenewalDate  string
	Server       string
	Application  string
	MAC          string
	Plan         string
	Email        string
	Value        decimal.Decimal
	Screens      int
	Notes        string
}

var (
	ErrEmptyBatch     = errors.New("no clients to import")
	ErrUsernameTaken  = errors.New("usuário IPTV já cadastrado")
	ErrInvalidRenewal = errors.New("data de vencimento inválida")
	ErrDatabaseQuery  = errors.New("database query error")
)
