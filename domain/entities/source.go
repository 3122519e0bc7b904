package entities

import (
	"time"

	"gorm.io/gorm"
)

// Booking is an accepted booking from the customer funnel. Jobs keep a weak
// reference to it; the funnel itself lives outside this service.
type Booking struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	CustomerName string `gorm:"type:varchar(255);not null"`
	Street       string `gorm:"type:varchar(255)"`
	PostalCode   string `gorm:"type:varchar(16)"`
	City         string `gorm:"type:varchar(128)"`
	ServiceID    *int64 `gorm:"index"`

	Title           string `gorm:"type:varchar(255);not null"`
	Description     string `gorm:"type:text"`
	HourlyRateCents int64  `gorm:"not null;default:0"`
	ScheduledFor    *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName overrides the default table name.
func (Booking) TableName() string {
	return "bookings"
}

// Quote is an accepted fixed-price quote. Like Booking it is a job source.
type Quote struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	CustomerName string `gorm:"type:varchar(255);not null"`
	Street       string `gorm:"type:varchar(255)"`
	PostalCode   string `gorm:"type:varchar(16)"`
	City         string `gorm:"type:varchar(128)"`
	ServiceID    *int64 `gorm:"index"`

	Title           string `gorm:"type:varchar(255);not null"`
	Description     string `gorm:"type:text"`
	FixedPriceCents int64  `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName overrides the default table name.
func (Quote) TableName() string {
	return "quotes"
}

// QuoteRequest is an inbound customer inquiry that may become a Quote.
// Carried here only for the shared trash lifecycle.
type QuoteRequest struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	CustomerName string `gorm:"type:varchar(255);not null"`
	Email        string `gorm:"type:varchar(255)"`
	Message      string `gorm:"type:text"`
	ServiceID    *int64 `gorm:"index"`

	CreatedAt time.Time `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName overrides the default table name.
func (QuoteRequest) TableName() string {
	return "quote_requests"
}

// Project groups related jobs for a customer. Carried here only for the
// shared trash lifecycle.
type Project struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"type:varchar(255);not null"`
	CustomerName string `gorm:"type:varchar(255)"`
	Description  string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName overrides the default table name.
func (Project) TableName() string {
	return "projects"
}
