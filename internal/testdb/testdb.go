// Package testdb opens isolated in-memory SQLite databases with the full
// schema and seeds common fixtures for service tests.
package testdb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/bookaro-backend/pkg/db"
	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	"github.com/angelmondragon/bookaro-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// New returns a db client over a private in-memory database. A single
// connection is used so concurrent transactions serialize.
func New(t testing.TB) *db.Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, conn.AutoMigrate(models.All()...))
	return db.NewFromGorm(conn)
}

// User inserts an active user with the given email.
func User(t testing.TB, client *db.Client, email string, role enums.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "unused",
		FullName:     email,
		Phone:        "555-0100",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, client.DB().WithContext(context.Background()).Create(user).Error)
	return user
}

// Vendor inserts an active vendor operated by owner.
func Vendor(t testing.TB, client *db.Client, owner *models.User, name string) *models.Vendor {
	t.Helper()
	vendor := &models.Vendor{
		OwnerUserID:     owner.ID,
		BusinessName:    name,
		PrimaryCategory: "Home Services",
		Phone:           "555-0200",
		Location:        "Bandra East",
		IsActive:        true,
	}
	require.NoError(t, client.DB().WithContext(context.Background()).Create(vendor).Error)
	return vendor
}

// Service inserts an available service for vendor priced at price.
func Service(t testing.TB, client *db.Client, vendor *models.Vendor, name, price string) *models.Service {
	t.Helper()
	service := &models.Service{
		VendorID:    vendor.ID,
		Name:        name,
		Category:    "Cleaning",
		Price:       decimal.RequireFromString(price),
		IsAvailable: true,
	}
	require.NoError(t, client.DB().WithContext(context.Background()).Create(service).Error)
	return service
}

// Booking inserts a booking directly in the given status, bypassing the
// lifecycle rules.
func Booking(t testing.TB, client *db.Client, customer *models.User, service *models.Service, status enums.BookingStatus) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		UserID:      customer.ID,
		ServiceID:   service.ID,
		BookingDate: time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour),
		BookingTime: "10:30",
		Status:      status,
		TotalAmount: service.Price,
	}
	require.NoError(t, client.DB().WithContext(context.Background()).Omit(clause.Associations).Create(booking).Error)
	return booking
}

// Reload fetches a fresh copy of the service to inspect its aggregate.
func Reload(t testing.TB, client *db.Client, serviceID int64) *models.Service {
	t.Helper()
	var service models.Service
	require.NoError(t, client.DB().WithContext(context.Background()).First(&service, serviceID).Error)
	return &service
}
