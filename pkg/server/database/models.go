/* Copyright 2025 UAVLog Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"time"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// User is a model for an operator account. License expiry dates are
// stored as ISO date strings (YYYY-MM-DD).
type User struct {
	Model
	UUID               string     `json:"uuid" gorm:"type:text;index"`
	Email              NullString `json:"email" gorm:"uniqueIndex"`
	Password           NullString `json:"-"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Phone              string     `json:"phone"`
	Street             string     `json:"street"`
	Zip                string     `json:"zip"`
	City               string     `json:"city"`
	Country            string     `json:"country"`
	Company            string     `json:"company"`
	DroneOpsNumber     string     `json:"drone_ops_nb"`
	PilotLicenseNumber string     `json:"pilot_license_nb"`
	LicenseA1A3        string     `json:"a1_a3"`
	LicenseA2          string     `json:"a2"`
	LicenseSTS         string     `json:"sts"`
	IsActive           bool       `json:"is_active" gorm:"default:true"`
	IsStaff            bool       `json:"is_staff" gorm:"default:false"`
	LastLoginAt        *time.Time `json:"-"`
}

// UserSettings is a model for per-user preferences, including the
// license-expiry reminder configuration.
type UserSettings struct {
	Model
	UserID               int    `json:"user_id" gorm:"index"`
	PreferredUnits       string `json:"preferred_units"`
	Theme                string `json:"theme"`
	NotificationsEnabled bool   `json:"notifications_enabled" gorm:"default:true"`
	A1A3Reminder         bool   `json:"a1_a3_reminder" gorm:"default:false"`
	A2Reminder           bool   `json:"a2_reminder" gorm:"default:false"`
	STSReminder          bool   `json:"sts_reminder" gorm:"default:false"`
	ReminderMonthsBefore int    `json:"reminder_months_before" gorm:"default:3"`
}

// Aircraft is a model for a UAV profile. The (UserID, Name) pair is unique.
type Aircraft struct {
	Model
	UserID           int    `json:"user_id" gorm:"index;uniqueIndex:idx_aircraft_user_name"`
	Name             string `json:"drone_name" gorm:"uniqueIndex:idx_aircraft_user_name"`
	Manufacturer     string `json:"manufacturer"`
	Type             string `json:"type"`
	Motors           int    `json:"motors"`
	MotorType        string `json:"motor_type"`
	Video            string `json:"video"`
	VideoSystem      string `json:"video_system"`
	ESC              string `json:"esc"`
	ESCFirmware      string `json:"esc_firmware"`
	Receiver         string `json:"receiver"`
	ReceiverFirmware string `json:"receiver_firmware"`
	FlightController string `json:"flight_controller"`
	Firmware         string `json:"firmware"`
	FirmwareVersion  string `json:"firmware_version"`
	GPS              string `json:"gps"`
	Mag              string `json:"mag"`
	Baro             string `json:"baro"`
	Gyro             string `json:"gyro"`
	Acc              string `json:"acc"`
	RegistrationNumber string `json:"registration_number"`
	SerialNumber       string `json:"serial_number" gorm:"index"`
	CustomAttributes   string `json:"custom_attributes" gorm:"type:text"`
	IsActive           bool   `json:"is_active" gorm:"default:true"`
}

// FlightSession is a model for one logged flight. Dates and times of day
// are ISO strings so that exported records survive a round trip unchanged.
type FlightSession struct {
	Model
	UserID          int    `json:"user_id" gorm:"index"`
	AircraftID      int    `json:"aircraft_id" gorm:"index"`
	DeparturePlace  string `json:"departure_place" gorm:"index"`
	DepartureDate   string `json:"departure_date" gorm:"index"`
	DepartureTime   string `json:"departure_time"`
	LandingPlace    string `json:"landing_place"`
	LandingTime     string `json:"landing_time"`
	FlightDuration  int    `json:"flight_duration"`
	Takeoffs        int    `json:"takeoffs"`
	Landings        int    `json:"landings"`
	LightConditions string `json:"light_conditions"`
	OpsConditions   string `json:"ops_conditions"`
	PilotType       string `json:"pilot_type"`
	Comments        string `json:"comments"`
}

// TelemetrySample is a model for one timestamped sample of a flight
// session's telemetry track. Timestamp is in microseconds.
type TelemetrySample struct {
	ID              int      `gorm:"primaryKey" json:"-"`
	FlightSessionID int      `json:"-" gorm:"index"`
	Timestamp       int64    `json:"timestamp"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	Altitude        *float64 `json:"altitude"`
	NumSat          *int     `json:"num_sat"`
	Speed           *float64 `json:"speed"`
	GroundCourse    *float64 `json:"ground_course"`
}

// MaintenanceEvent is a model for a logged service action on an aircraft.
// File holds the storage path of an optional attached document.
type MaintenanceEvent struct {
	Model
	UserID      int    `json:"user_id" gorm:"index"`
	AircraftID  int    `json:"aircraft_id" gorm:"index"`
	EventType   string `json:"event_type"`
	Description string `json:"description"`
	EventDate   string `json:"event_date" gorm:"index"`
	File        string `json:"file"`
}

// MaintenanceReminder is a model for a per-component due-date tracker.
// At most one reminder exists per (AircraftID, Component).
type MaintenanceReminder struct {
	Model
	AircraftID      int    `json:"aircraft_id" gorm:"index;uniqueIndex:idx_reminder_aircraft_component"`
	Component       string `json:"component" gorm:"uniqueIndex:idx_reminder_aircraft_component"`
	LastMaintenance string `json:"last_maintenance"`
	NextMaintenance string `json:"next_maintenance"`
	ReminderActive  bool   `json:"reminder_active" gorm:"default:true"`
}

// ConfigurationFile is a model for an aircraft configuration dump with an
// attached document.
type ConfigurationFile struct {
	Model
	UserID     int    `json:"user_id" gorm:"index"`
	AircraftID int    `json:"aircraft_id" gorm:"index"`
	Name       string `json:"name"`
	UploadDate string `json:"upload_date"`
	File       string `json:"file"`
}

// Token is a model for a token
type Token struct {
	Model
	UserID int    `gorm:"index"`
	Value  string `gorm:"index"`
	Type   string
	UsedAt *time.Time
}

// Session represents a user session
type Session struct {
	Model
	UserID     int    `gorm:"index"`
	Key        string `gorm:"index"`
	LastUsedAt time.Time
	ExpiresAt  time.Time
}
