package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// AppointmentStatus is a closed set; the zero value is not a valid status.
type AppointmentStatus uint8

const (
	StatusPending AppointmentStatus = iota + 1
	StatusConfirmed
	StatusCompleted
	StatusCancelled
)

var statusNames = map[AppointmentStatus]string{
	StatusPending:   "pending",
	StatusConfirmed: "confirmed",
	StatusCompleted: "completed",
	StatusCancelled: "cancelled",
}

var statusAliases = map[string]AppointmentStatus{
	"pending":    StatusPending,
	"pendiente":  StatusPending,
	"confirmed":  StatusConfirmed,
	"confirmada": StatusConfirmed,
	"completed":  StatusCompleted,
	"completada": StatusCompleted,
	"cancelled":  StatusCancelled,
	"canceled":   StatusCancelled,
	"cancelada":  StatusCancelled,
}

func AllStatuses() []AppointmentStatus {
	return []AppointmentStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}
}

func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	if st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return 0, fmt.Errorf("unknown appointment status %q", s)
}

func (s AppointmentStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s AppointmentStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("AppointmentStatus(%d)", uint8(s))
}

func (s AppointmentStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid appointment status %d", uint8(s))
	}
	return []byte(statusNames[s]), nil
}

func (s *AppointmentStatus) UnmarshalText(b []byte) error {
	st, err := ParseAppointmentStatus(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

func (s AppointmentStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid appointment status %d", uint8(s))
	}
	return statusNames[s], nil
}

func (s *AppointmentStatus) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	case nil:
		return fmt.Errorf("appointment status is NULL")
	default:
		return fmt.Errorf("cannot scan %T into AppointmentStatus", src)
	}
}

// GormDataType stores the status as text rather than as an integer column.
func (AppointmentStatus) GormDataType() string {
	return "string"
}
