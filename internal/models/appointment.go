package models

import "time"

// Appointment occupies exactly one (date, time) slot of the shared schedule.
type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint   `gorm:"not null;index" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"client"`

	ServiceID uint    `gorm:"not null;index" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service"`

	Date string `gorm:"column:slot_date;size:10;not null;uniqueIndex:idx_appointment_slot,priority:1" json:"date"`
	Time string `gorm:"column:slot_time;size:5;not null;uniqueIndex:idx_appointment_slot,priority:2" json:"time"`

	Status          AppointmentStatus `gorm:"size:20;not null;index" json:"status"`
	StatusChangedAt *time.Time        `json:"status_changed_at"`

	Comment string `gorm:"size:250" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
