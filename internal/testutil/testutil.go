// Package testutil provides throwaway SQLite databases and fixtures for tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/agenda-citas/internal/config"
	dbpkg "github.com/BruksfildServices01/agenda-citas/internal/db"
	"github.com/BruksfildServices01/agenda-citas/internal/models"
)

var dbSeq atomic.Int64

// NewDB opens a migrated in-memory database private to the calling test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf(
		"file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)",
		name, dbSeq.Add(1),
	)

	db, err := dbpkg.Open(dbpkg.Options{
		Driver:   config.DriverSQLite,
		DSN:      dsn,
		LogLevel: gormlogger.Silent,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		_ = dbpkg.Close(db)
	})

	return db
}

func CreateClient(t testing.TB, db *gorm.DB, first, email string) *models.Client {
	t.Helper()

	c := &models.Client{
		FirstName:    first,
		LastName:     "Test",
		Email:        email,
		Phone:        "+5511999990000",
		RegisteredAt: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

func CreateService(t testing.TB, db *gorm.DB, name string, price string, active bool) *models.Service {
	t.Helper()

	s := &models.Service{
		Name:        name,
		Description: name + " service",
		DurationMin: 30,
		Price:       decimal.RequireFromString(price),
		Active:      active,
	}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return s
}

func CreateAppointment(
	t testing.TB,
	db *gorm.DB,
	clientID, serviceID uint,
	date, hm string,
	status models.AppointmentStatus,
) *models.Appointment {
	t.Helper()

	ap := &models.Appointment{
		ClientID:  clientID,
		ServiceID: serviceID,
		Date:      date,
		Time:      hm,
		Status:    status,
	}
	if err := db.Create(ap).Error; err != nil {
		t.Fatalf("failed to create appointment: %v", err)
	}
	return ap
}
