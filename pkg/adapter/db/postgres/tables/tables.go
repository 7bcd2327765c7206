// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package tables defines the gorm row structs of all database tables.
// The authoritative PostgreSQL schema is kept in the SQL migrations
// (see the migration package) and these structs must match them.
// All returns the structs in a dependency order, so they may be passed
// to gorm AutoMigrate for creating a throw-away schema in tests.
package tables

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID             int64  `gorm:"primaryKey"`
	Username       string `gorm:"size:32;not null;uniqueIndex:idx_users_username,where:deleted_at IS NULL"`
	Email          string `gorm:"size:256;not null;uniqueIndex:idx_users_email,where:deleted_at IS NULL"`
	EmailConfirmed bool   `gorm:"not null"`
	Password       string `gorm:"not null"`
	Role           string `gorm:"size:16;not null"`
	Status         string `gorm:"size:16;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string { return "users" }

type AccountToken struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_account_tokens_user_kind"`
	Kind      string    `gorm:"size:32;not null;uniqueIndex:idx_account_tokens_user_kind"`
	Hash      string    `gorm:"not null"`
	Count     int       `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
	User      *User `gorm:"constraint:OnDelete:CASCADE"`
}

func (AccountToken) TableName() string { return "account_tokens" }

type FuelType struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"size:32;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (FuelType) TableName() string { return "fuel_types" }

type StationChain struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"size:128;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (StationChain) TableName() string { return "station_chains" }

type StationService struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"size:32;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (StationService) TableName() string { return "station_services" }

type FuelStation struct {
	ID             int64         `gorm:"primaryKey"`
	Name           string        `gorm:"size:100;not null"`
	StationChainID *int64        `gorm:"index"`
	StationChain   *StationChain `gorm:"constraint:OnDelete:SET NULL"`
	Street         string        `gorm:"size:100;not null"`
	StreetNumber   string        `gorm:"size:10;not null"`
	City           string        `gorm:"size:50;not null"`
	PostalCode     string        `gorm:"size:5;not null"`
	Latitude       float64       `gorm:"type:decimal(17,15);not null;index:idx_fuel_stations_coordinates"`
	Longitude      float64       `gorm:"type:decimal(18,15);not null;index:idx_fuel_stations_coordinates"`
	CreatedBy      *int64
	UpdatedBy      *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (FuelStation) TableName() string { return "fuel_stations" }

type FuelAtStation struct {
	FuelTypeID    int64 `gorm:"primaryKey;autoIncrement:false"`
	FuelStationID int64 `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt     time.Time
	FuelType      *FuelType    `gorm:"constraint:OnDelete:CASCADE"`
	FuelStation   *FuelStation `gorm:"constraint:OnDelete:CASCADE"`
}

func (FuelAtStation) TableName() string { return "fuel_at_stations" }

type ServiceAtStation struct {
	StationServiceID int64 `gorm:"primaryKey;autoIncrement:false"`
	FuelStationID    int64 `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt        time.Time
	StationService   *StationService `gorm:"constraint:OnDelete:CASCADE"`
	FuelStation      *FuelStation    `gorm:"constraint:OnDelete:CASCADE"`
}

func (ServiceAtStation) TableName() string { return "service_at_stations" }

type OpeningClosingTime struct {
	FuelStationID int64        `gorm:"primaryKey;autoIncrement:false"`
	DayOfWeek     int          `gorm:"primaryKey;autoIncrement:false"`
	OpeningTime   int          `gorm:"not null"`
	ClosingTime   int          `gorm:"not null"`
	FuelStation   *FuelStation `gorm:"constraint:OnDelete:CASCADE"`
}

func (OpeningClosingTime) TableName() string { return "opening_closing_times" }

type OwnedStation struct {
	UserID        int64 `gorm:"primaryKey;autoIncrement:false"`
	FuelStationID int64 `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt     time.Time
	User          *User        `gorm:"constraint:OnDelete:CASCADE"`
	FuelStation   *FuelStation `gorm:"constraint:OnDelete:CASCADE"`
}

func (OwnedStation) TableName() string { return "owned_stations" }

type Favorite struct {
	UserID        int64 `gorm:"primaryKey;autoIncrement:false"`
	FuelStationID int64 `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt     time.Time
	User          *User        `gorm:"constraint:OnDelete:CASCADE"`
	FuelStation   *FuelStation `gorm:"constraint:OnDelete:CASCADE"`
}

func (Favorite) TableName() string { return "favorites" }

type FuelPrice struct {
	ID            int64        `gorm:"primaryKey"`
	FuelStationID int64        `gorm:"not null;index"`
	FuelStation   *FuelStation `gorm:"constraint:OnDelete:CASCADE"`
	FuelTypeID    int64        `gorm:"not null;index:idx_fuel_prices_search,priority:2"`
	FuelType      *FuelType    `gorm:"constraint:OnDelete:CASCADE"`
	Price         float64      `gorm:"type:decimal(5,2);not null;index:idx_fuel_prices_search,priority:4"`
	Available     bool         `gorm:"not null;index:idx_fuel_prices_search,priority:3"`
	Status        string       `gorm:"size:16;not null;index:idx_fuel_prices_search,priority:1"`
	Priority      uint8        `gorm:"not null"`
	UserID        int64        `gorm:"not null;index"`
	User          *User        `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time    `gorm:"index"`
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (FuelPrice) TableName() string { return "fuel_prices" }

type Review struct {
	ID            int64        `gorm:"primaryKey"`
	FuelStationID int64        `gorm:"not null;uniqueIndex:idx_reviews_station_user,where:deleted_at IS NULL"`
	FuelStation   *FuelStation `gorm:"constraint:OnDelete:CASCADE"`
	UserID        int64        `gorm:"not null;index;uniqueIndex:idx_reviews_station_user,where:deleted_at IS NULL"`
	User          *User        `gorm:"constraint:OnDelete:CASCADE"`
	Content       string       `gorm:"size:1000;not null"`
	Rate          int          `gorm:"not null"`
	CreatedAt     time.Time    `gorm:"index"`
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (Review) TableName() string { return "reviews" }

// All returns one pointer to every table struct, in a dependency order.
func All() []any {
	return []any{
		&User{}, &AccountToken{},
		&FuelType{}, &StationChain{}, &StationService{},
		&FuelStation{},
		&FuelAtStation{}, &ServiceAtStation{}, &OpeningClosingTime{},
		&OwnedStation{}, &Favorite{},
		&FuelPrice{}, &Review{},
	}
}
