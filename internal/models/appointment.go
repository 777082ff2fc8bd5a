package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Appointment struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	ClientID   string `gorm:"size:36;index;not null" json:"client_id"`
	ClientName string `gorm:"size:100" json:"client_name"`

	BarberID  string `gorm:"size:36;not null;index:idx_appointments_barber_start,priority:1" json:"barber_id"`
	ServiceID string `gorm:"size:36;not null;index" json:"service_id"`

	StartTime time.Time `gorm:"not null;index:idx_appointments_barber_start,priority:2" json:"start_time"`

	Status string `gorm:"size:20;not null;default:'confirmed'" json:"status"`

	// Snapshot do preço no momento da reserva. A duração, ao contrário,
	// é sempre lida do catálogo atual.
	PriceAtBooking decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price_at_booking"`
	PaymentMethod  *string         `gorm:"size:20" json:"payment_method,omitempty"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
