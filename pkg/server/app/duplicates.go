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

	pkgErrors "github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/server/database"
	"gorm.io/gorm"
)

// The find* helpers decide whether an imported record already exists,
// one equality rule per entity kind. They are checked once per record
// before creation so that re-importing the same archive is a no-op.

// findDuplicateAircraft matches by serial number when the candidate
// carries one, otherwise by display name narrowed by manufacturer when
// present. It returns nil when no match exists.
func findDuplicateAircraft(tx *gorm.DB, user database.User, rec aircraftRecord) (*database.Aircraft, error) {
	conn := tx.Where("user_id = ?", user.ID)

	if rec.SerialNumber != "" {
		conn = conn.Where("serial_number = ?", rec.SerialNumber)
	} else {
		conn = conn.Where("name = ?", rec.Name)
		if rec.Manufacturer != "" {
			conn = conn.Where("manufacturer = ?", rec.Manufacturer)
		}
	}

	var aircraft database.Aircraft
	err := conn.First(&aircraft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, pkgErrors.Wrap(err, "finding duplicate aircraft")
	}

	return &aircraft, nil
}

// findDuplicateFlightSession matches by departure date on the resolved
// aircraft, narrowed by departure time and departure place when the
// candidate carries them
func findDuplicateFlightSession(tx *gorm.DB, user database.User, aircraftID int, rec flightRecord) (*database.FlightSession, error) {
	conn := tx.Where("user_id = ? AND aircraft_id = ? AND departure_date = ?", user.ID, aircraftID, rec.DepartureDate)

	if rec.DepartureTime != "" {
		conn = conn.Where("departure_time = ?", rec.DepartureTime)
	}
	if rec.DeparturePlace != "" {
		conn = conn.Where("departure_place = ?", rec.DeparturePlace)
	}

	var session database.FlightSession
	err := conn.First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, pkgErrors.Wrap(err, "finding duplicate flight session")
	}

	return &session, nil
}

// findDuplicateMaintenanceEvent matches by event date and event type on
// the resolved aircraft, narrowed by description when present
func findDuplicateMaintenanceEvent(tx *gorm.DB, user database.User, aircraftID int, rec maintenanceRecord) (*database.MaintenanceEvent, error) {
	conn := tx.Where("user_id = ? AND aircraft_id = ? AND event_date = ? AND event_type = ?",
		user.ID, aircraftID, rec.EventDate, rec.EventType)

	if rec.Description != "" {
		conn = conn.Where("description = ?", rec.Description)
	}

	var event database.MaintenanceEvent
	err := conn.First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, pkgErrors.Wrap(err, "finding duplicate maintenance event")
	}

	return &event, nil
}

// findDuplicateReminder matches by component on the resolved aircraft,
// narrowed by next-due date when present
func findDuplicateReminder(tx *gorm.DB, aircraftID int, rec reminderRecord) (*database.MaintenanceReminder, error) {
	conn := tx.Where("aircraft_id = ? AND component = ?", aircraftID, rec.Component)

	if rec.NextMaintenance != "" {
		conn = conn.Where("next_maintenance = ?", rec.NextMaintenance)
	}

	var reminder database.MaintenanceReminder
	err := conn.First(&reminder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, pkgErrors.Wrap(err, "finding duplicate reminder")
	}

	return &reminder, nil
}

// findDuplicateConfig matches by name on the resolved aircraft, narrowed
// by upload date when present
func findDuplicateConfig(tx *gorm.DB, user database.User, aircraftID int, rec configRecord) (*database.ConfigurationFile, error) {
	conn := tx.Where("user_id = ? AND aircraft_id = ? AND name = ?", user.ID, aircraftID, rec.Name)

	if rec.UploadDate != "" {
		conn = conn.Where("upload_date = ?", rec.UploadDate)
	}

	var config database.ConfigurationFile
	err := conn.First(&config).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, pkgErrors.Wrap(err, "finding duplicate configuration file")
	}

	return &config, nil
}
