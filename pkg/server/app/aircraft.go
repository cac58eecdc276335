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

package app

import (
	"errors"
	"fmt"

	pkgErrors "github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/server/database"
	"github.com/uavlog/uavlog/pkg/server/storage"
	"gorm.io/gorm"
)

var (
	// ErrAircraftNameRequired is an error for an aircraft without a name
	ErrAircraftNameRequired = pkgErrors.New("Aircraft name is required")
	// ErrDuplicateAircraftName is an error for a name collision within one user
	ErrDuplicateAircraftName = pkgErrors.New("An aircraft with that name already exists")
	// ErrAircraftNotFound is an error for a missing aircraft
	ErrAircraftNotFound = pkgErrors.New("Aircraft not found")
	// ErrNotAllowed is an error for accessing a record owned by another user
	ErrNotAllowed = pkgErrors.New("Not allowed")
)

// AircraftParams are the parameters for creating or updating an aircraft
type AircraftParams struct {
	Name               string
	Manufacturer       string
	Type               string
	Motors             int
	MotorType          string
	Video              string
	VideoSystem        string
	ESC                string
	ESCFirmware        string
	Receiver           string
	ReceiverFirmware   string
	FlightController   string
	Firmware           string
	FirmwareVersion    string
	GPS                string
	Mag                string
	Baro               string
	Gyro               string
	Acc                string
	RegistrationNumber string
	SerialNumber       string
	CustomAttributes   string
	IsActive           bool

	// Reminders carries component maintenance dates bundled into the
	// aircraft payload. Absent components are left untouched.
	Reminders map[Component]ReminderUpdate
}

func (p AircraftParams) apply(aircraft *database.Aircraft) {
	aircraft.Name = p.Name
	aircraft.Manufacturer = p.Manufacturer
	aircraft.Type = p.Type
	aircraft.Motors = p.Motors
	aircraft.MotorType = p.MotorType
	aircraft.Video = p.Video
	aircraft.VideoSystem = p.VideoSystem
	aircraft.ESC = p.ESC
	aircraft.ESCFirmware = p.ESCFirmware
	aircraft.Receiver = p.Receiver
	aircraft.ReceiverFirmware = p.ReceiverFirmware
	aircraft.FlightController = p.FlightController
	aircraft.Firmware = p.Firmware
	aircraft.FirmwareVersion = p.FirmwareVersion
	aircraft.GPS = p.GPS
	aircraft.Mag = p.Mag
	aircraft.Baro = p.Baro
	aircraft.Gyro = p.Gyro
	aircraft.Acc = p.Acc
	aircraft.RegistrationNumber = p.RegistrationNumber
	aircraft.SerialNumber = p.SerialNumber
	aircraft.CustomAttributes = p.CustomAttributes
	aircraft.IsActive = p.IsActive
}

// CreateAircraft creates an aircraft for the given user, along with any
// maintenance reminders bundled into the payload
func (a *App) CreateAircraft(user database.User, p AircraftParams) (database.Aircraft, error) {
	if p.Name == "" {
		return database.Aircraft{}, ErrAircraftNameRequired
	}

	var count int64
	if err := a.DB.Model(&database.Aircraft{}).
		Where("user_id = ? AND name = ?", user.ID, p.Name).
		Count(&count).Error; err != nil {
		return database.Aircraft{}, pkgErrors.Wrap(err, "counting aircraft")
	}
	if count > 0 {
		return database.Aircraft{}, ErrDuplicateAircraftName
	}

	aircraft := database.Aircraft{UserID: user.ID}
	p.apply(&aircraft)

	tx := a.DB.Begin()

	if err := tx.Create(&aircraft).Error; err != nil {
		tx.Rollback()
		return aircraft, pkgErrors.Wrap(err, "inserting aircraft")
	}

	if err := a.ReconcileReminders(tx, aircraft, p.Reminders); err != nil {
		tx.Rollback()
		return aircraft, pkgErrors.Wrap(err, "reconciling reminders")
	}

	tx.Commit()

	return aircraft, nil
}

// UpdateAircraft updates the aircraft and reconciles any bundled reminders
func (a *App) UpdateAircraft(user database.User, aircraft database.Aircraft, p AircraftParams) (database.Aircraft, error) {
	if user.ID != aircraft.UserID {
		return aircraft, ErrNotAllowed
	}
	if p.Name == "" {
		return aircraft, ErrAircraftNameRequired
	}

	tx := a.DB.Begin()

	p.apply(&aircraft)
	if err := tx.Save(&aircraft).Error; err != nil {
		tx.Rollback()
		return aircraft, pkgErrors.Wrap(err, "updating aircraft")
	}

	if err := a.ReconcileReminders(tx, aircraft, p.Reminders); err != nil {
		tx.Rollback()
		return aircraft, pkgErrors.Wrap(err, "reconciling reminders")
	}

	tx.Commit()

	return aircraft, nil
}

// DeleteAircraft deletes the aircraft and everything that references it:
// flight sessions with their telemetry, maintenance events, reminders,
// and configuration files. Attached documents are removed from storage
// after the transaction commits, best-effort.
func (a *App) DeleteAircraft(user database.User, aircraft database.Aircraft) error {
	if user.ID != aircraft.UserID {
		return ErrNotAllowed
	}

	var orphanedDocs []string

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		var sessionIDs []int
		if err := tx.Model(&database.FlightSession{}).
			Where("aircraft_id = ?", aircraft.ID).
			Pluck("id", &sessionIDs).Error; err != nil {
			return pkgErrors.Wrap(err, "finding flight sessions")
		}

		if len(sessionIDs) > 0 {
			if err := tx.Where("flight_session_id IN ?", sessionIDs).
				Delete(&database.TelemetrySample{}).Error; err != nil {
				return pkgErrors.Wrap(err, "deleting telemetry")
			}
		}
		if err := tx.Where("aircraft_id = ?", aircraft.ID).
			Delete(&database.FlightSession{}).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting flight sessions")
		}

		var events []database.MaintenanceEvent
		if err := tx.Where("aircraft_id = ?", aircraft.ID).Find(&events).Error; err != nil {
			return pkgErrors.Wrap(err, "finding maintenance events")
		}
		for _, event := range events {
			if event.File != "" {
				orphanedDocs = append(orphanedDocs, event.File)
			}
		}
		if err := tx.Where("aircraft_id = ?", aircraft.ID).
			Delete(&database.MaintenanceEvent{}).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting maintenance events")
		}

		var configs []database.ConfigurationFile
		if err := tx.Where("aircraft_id = ?", aircraft.ID).Find(&configs).Error; err != nil {
			return pkgErrors.Wrap(err, "finding configuration files")
		}
		for _, config := range configs {
			if config.File != "" {
				orphanedDocs = append(orphanedDocs, config.File)
			}
		}
		if err := tx.Where("aircraft_id = ?", aircraft.ID).
			Delete(&database.ConfigurationFile{}).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting configuration files")
		}

		if err := tx.Where("aircraft_id = ?", aircraft.ID).
			Delete(&database.MaintenanceReminder{}).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting reminders")
		}

		if err := tx.Delete(&aircraft).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting aircraft")
		}

		return nil
	})
	if err != nil {
		return err
	}

	for _, doc := range orphanedDocs {
		storage.DeleteQuiet(a.Storage, doc)
	}

	return nil
}

// GetAircraft retrieves an aircraft of the given user
func (a *App) GetAircraft(user database.User, id int) (database.Aircraft, error) {
	var aircraft database.Aircraft
	err := a.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&aircraft).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return aircraft, ErrAircraftNotFound
	} else if err != nil {
		return aircraft, pkgErrors.Wrap(err, "finding aircraft")
	}

	return aircraft, nil
}

// AircraftFilters are the supported filters for listing aircraft.
// String fields match partially, case-insensitive.
type AircraftFilters struct {
	Name               string `schema:"drone_name"`
	Manufacturer       string `schema:"manufacturer"`
	Type               string `schema:"type"`
	Motors             int    `schema:"motors"`
	MotorType          string `schema:"motor_type"`
	VideoSystem        string `schema:"video_system"`
	Firmware           string `schema:"firmware"`
	FirmwareVersion    string `schema:"firmware_version"`
	RegistrationNumber string `schema:"registration_number"`
	SerialNumber       string `schema:"serial_number"`
}

func likeClause(tx *gorm.DB, column, value string) *gorm.DB {
	if value == "" {
		return tx
	}

	return tx.Where(fmt.Sprintf("%s LIKE ?", column), "%"+value+"%")
}

// ListAircraft returns the user's aircraft matching the given filters
func (a *App) ListAircraft(user database.User, f AircraftFilters) ([]database.Aircraft, error) {
	tx := a.DB.Where("user_id = ?", user.ID)

	tx = likeClause(tx, "name", f.Name)
	tx = likeClause(tx, "manufacturer", f.Manufacturer)
	tx = likeClause(tx, "type", f.Type)
	tx = likeClause(tx, "motor_type", f.MotorType)
	tx = likeClause(tx, "video_system", f.VideoSystem)
	tx = likeClause(tx, "firmware", f.Firmware)
	tx = likeClause(tx, "firmware_version", f.FirmwareVersion)
	tx = likeClause(tx, "registration_number", f.RegistrationNumber)
	tx = likeClause(tx, "serial_number", f.SerialNumber)
	if f.Motors != 0 {
		tx = tx.Where("motors = ?", f.Motors)
	}

	var aircraft []database.Aircraft
	if err := tx.Order("id").Find(&aircraft).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding aircraft")
	}

	return aircraft, nil
}
