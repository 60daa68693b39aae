// Package domain contains persistence models for properties.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// PropertyType classifies a rentable unit.
type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeFlat      PropertyType = "flat"
	PropertyTypeShop      PropertyType = "shop"
	PropertyTypeOffice    PropertyType = "office"
	PropertyTypeWarehouse PropertyType = "warehouse"
	PropertyTypeLand      PropertyType = "land"
)

// PropertyStatus is stored rather than derived from the active lease; it keeps
// dashboard filtering cheap and is flipped by the lease lifecycle.
type PropertyStatus string

const (
	PropertyStatusVacant      PropertyStatus = "vacant"
	PropertyStatusOccupied    PropertyStatus = "occupied"
	PropertyStatusMaintenance PropertyStatus = "maintenance"
)

// Property represents a rentable unit owned by the landlord.
type Property struct {
	ID        snowflake.ID   `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"type:text;not null;index" json:"name"`
	Slug      string         `gorm:"type:text;not null;uniqueIndex:ux_properties_slug" json:"slug"`
	Type      PropertyType   `gorm:"type:text;not null;default:'house'" json:"type"`
	Address   string         `gorm:"type:text;not null" json:"address"`
	Status    PropertyStatus `gorm:"type:text;not null;default:'vacant';index" json:"status"`
	Notes     *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Property) TableName() string { return "properties" }

func ValidType(t PropertyType) bool {
	switch t {
	case PropertyTypeHouse, PropertyTypeApartment, PropertyTypeFlat,
		PropertyTypeShop, PropertyTypeOffice, PropertyTypeWarehouse, PropertyTypeLand:
		return true
	}
	return false
}

var (
	ErrNotFound      = errors.New("property_not_found")
	ErrInvalidName   = errors.New("invalid_property_name")
	ErrInvalidType   = errors.New("invalid_property_type")
	ErrDuplicateSlug = errors.New("duplicate_property_slug")
)
