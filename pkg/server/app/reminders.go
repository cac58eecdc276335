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
	"time"

	pkgErrors "github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/server/database"
	"gorm.io/gorm"
)

// Component identifies a maintained aircraft component tracked by reminders
type Component string

const (
	// ComponentProps is the propeller set
	ComponentProps Component = "props"
	// ComponentMotor is the motor set
	ComponentMotor Component = "motor"
	// ComponentFrame is the airframe
	ComponentFrame Component = "frame"
)

// Components returns all known components in a fixed order
func Components() []Component {
	return []Component{ComponentProps, ComponentMotor, ComponentFrame}
}

// ValidComponent reports whether the given value names a known component
func ValidComponent(v string) bool {
	switch Component(v) {
	case ComponentProps, ComponentMotor, ComponentFrame:
		return true
	}

	return false
}

// ReminderUpdate describes a change to one component's maintenance
// reminder. A nil or empty LastMaintenance deletes the reminder. A nil
// NextMaintenance defaults to one year after LastMaintenance. A nil
// Active defaults to true.
type ReminderUpdate struct {
	LastMaintenance *string
	NextMaintenance *string
	Active          *bool
}

// ErrInvalidDate is an error for a date string that is not YYYY-MM-DD
var ErrInvalidDate = pkgErrors.New("invalid date")

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(database.DateFormat, s)
	if err != nil {
		return time.Time{}, pkgErrors.Wrapf(ErrInvalidDate, "'%s'", s)
	}

	return t, nil
}

// addYear returns the date one year after the given date. A source date
// of Feb 29 lands on Mar 1 when the target year is not a leap year.
func addYear(t time.Time) time.Time {
	return t.AddDate(1, 0, 0)
}

// ReconcileReminders creates, updates, or deletes maintenance reminders
// for the given aircraft. Only components present as keys in updates are
// touched; absent keys leave the component's reminder untouched. At most
// one reminder row exists per (aircraft, component) at all times.
func (a *App) ReconcileReminders(tx *gorm.DB, aircraft database.Aircraft, updates map[Component]ReminderUpdate) error {
	for _, component := range Components() {
		update, ok := updates[component]
		if !ok {
			continue
		}

		// Clearing the maintenance date means the component is no
		// longer tracked
		if update.LastMaintenance == nil || *update.LastMaintenance == "" {
			err := tx.Where("aircraft_id = ? AND component = ?", aircraft.ID, component).
				Delete(&database.MaintenanceReminder{}).Error
			if err != nil {
				return pkgErrors.Wrapf(err, "deleting %s reminder", component)
			}
			continue
		}

		lastMaintenance := *update.LastMaintenance
		lastDate, err := parseDate(lastMaintenance)
		if err != nil {
			return pkgErrors.Wrapf(err, "parsing %s maintenance date", component)
		}

		var nextMaintenance string
		if update.NextMaintenance != nil && *update.NextMaintenance != "" {
			if _, err := parseDate(*update.NextMaintenance); err != nil {
				return pkgErrors.Wrapf(err, "parsing %s next maintenance date", component)
			}
			nextMaintenance = *update.NextMaintenance
		} else {
			nextMaintenance = addYear(lastDate).Format(database.DateFormat)
		}

		active := true
		if update.Active != nil {
			active = *update.Active
		}

		if err := upsertReminder(tx, aircraft.ID, component, lastMaintenance, nextMaintenance, active); err != nil {
			return err
		}
	}

	return nil
}

// upsertReminder creates the reminder for (aircraftID, component) or
// overwrites the existing one, never inserting a second row for the pair
func upsertReminder(tx *gorm.DB, aircraftID int, component Component, lastMaintenance, nextMaintenance string, active bool) error {
	var reminder database.MaintenanceReminder
	err := tx.Where("aircraft_id = ? AND component = ?", aircraftID, component).First(&reminder).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		reminder = database.MaintenanceReminder{
			AircraftID:      aircraftID,
			Component:       string(component),
			LastMaintenance: lastMaintenance,
			NextMaintenance: nextMaintenance,
			ReminderActive:  active,
		}
		if err := tx.Create(&reminder).Error; err != nil {
			return pkgErrors.Wrapf(err, "inserting %s reminder", component)
		}

		return nil
	} else if err != nil {
		return pkgErrors.Wrapf(err, "finding %s reminder", component)
	}

	if err := tx.Model(&reminder).
		Updates(map[string]interface{}{
			"last_maintenance": lastMaintenance,
			"next_maintenance": nextMaintenance,
			"reminder_active":  active,
		}).Error; err != nil {
		return pkgErrors.Wrapf(err, "updating %s reminder", component)
	}

	return nil
}

// GetAircraftReminders returns the reminders of the given aircraft
func (a *App) GetAircraftReminders(aircraftID int) ([]database.MaintenanceReminder, error) {
	var reminders []database.MaintenanceReminder
	if err := a.DB.Where("aircraft_id = ?", aircraftID).Order("component").Find(&reminders).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding reminders")
	}

	return reminders, nil
}

// ListReminders returns all reminders belonging to the given user's aircraft
func (a *App) ListReminders(user database.User) ([]database.MaintenanceReminder, error) {
	var reminders []database.MaintenanceReminder
	err := a.DB.
		Joins("JOIN aircrafts ON aircrafts.id = maintenance_reminders.aircraft_id").
		Where("aircrafts.user_id = ?", user.ID).
		Order("maintenance_reminders.id").
		Find(&reminders).Error
	if err != nil {
		return nil, pkgErrors.Wrap(err, "finding reminders")
	}

	return reminders, nil
}
