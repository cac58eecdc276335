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
	"io"
	"path"

	pkgErrors "github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/server/database"
	"github.com/uavlog/uavlog/pkg/server/storage"
	"gorm.io/gorm"
)

// ErrMaintenanceEventNotFound is an error for a missing maintenance event
var ErrMaintenanceEventNotFound = pkgErrors.New("Maintenance event not found")

// Attachment is a document uploaded alongside a record
type Attachment struct {
	Filename string
	Content  io.Reader
}

// maintenanceDocPath returns the storage path for a maintenance document,
// namespaced by the owning user
func maintenanceDocPath(userID int, filename string) string {
	return path.Join("maintenance", fmt.Sprintf("user_%d", userID), filename)
}

// configDocPath returns the storage path for a configuration document,
// namespaced by the owning user
func configDocPath(userID int, filename string) string {
	return path.Join("configs", fmt.Sprintf("user_%d", userID), filename)
}

// MaintenanceEventParams are the parameters for creating or updating a
// maintenance event
type MaintenanceEventParams struct {
	AircraftID  int
	EventType   string
	Description string
	EventDate   string
}

// CreateMaintenanceEvent creates a maintenance event, storing the
// attached document if one is provided
func (a *App) CreateMaintenanceEvent(user database.User, p MaintenanceEventParams, doc *Attachment) (database.MaintenanceEvent, error) {
	if _, err := a.GetAircraft(user, p.AircraftID); err != nil {
		return database.MaintenanceEvent{}, err
	}

	event := database.MaintenanceEvent{
		UserID:      user.ID,
		AircraftID:  p.AircraftID,
		EventType:   p.EventType,
		Description: p.Description,
		EventDate:   p.EventDate,
	}

	if doc != nil {
		saved, err := a.Storage.Save(maintenanceDocPath(user.ID, doc.Filename), doc.Content)
		if err != nil {
			return event, pkgErrors.Wrap(err, "storing document")
		}
		event.File = saved
	}

	if err := a.DB.Create(&event).Error; err != nil {
		return event, pkgErrors.Wrap(err, "inserting maintenance event")
	}

	return event, nil
}

// UpdateMaintenanceEvent updates the maintenance event. When a new
// document is attached, the previous one is removed from storage.
func (a *App) UpdateMaintenanceEvent(user database.User, event database.MaintenanceEvent, p MaintenanceEventParams, doc *Attachment) (database.MaintenanceEvent, error) {
	if user.ID != event.UserID {
		return event, ErrNotAllowed
	}
	if _, err := a.GetAircraft(user, p.AircraftID); err != nil {
		return event, err
	}

	oldFile := event.File

	event.AircraftID = p.AircraftID
	event.EventType = p.EventType
	event.Description = p.Description
	event.EventDate = p.EventDate

	if doc != nil {
		saved, err := a.Storage.Save(maintenanceDocPath(user.ID, doc.Filename), doc.Content)
		if err != nil {
			return event, pkgErrors.Wrap(err, "storing document")
		}
		event.File = saved
	}

	if err := a.DB.Save(&event).Error; err != nil {
		return event, pkgErrors.Wrap(err, "updating maintenance event")
	}

	if doc != nil && oldFile != "" && oldFile != event.File {
		storage.DeleteQuiet(a.Storage, oldFile)
	}

	return event, nil
}

// DeleteMaintenanceEvent deletes the maintenance event and its attached
// document, if any
func (a *App) DeleteMaintenanceEvent(user database.User, event database.MaintenanceEvent) error {
	if user.ID != event.UserID {
		return ErrNotAllowed
	}

	if err := a.DB.Delete(&event).Error; err != nil {
		return pkgErrors.Wrap(err, "deleting maintenance event")
	}

	storage.DeleteQuiet(a.Storage, event.File)

	return nil
}

// GetMaintenanceEvent retrieves a maintenance event of the given user
func (a *App) GetMaintenanceEvent(user database.User, id int) (database.MaintenanceEvent, error) {
	var event database.MaintenanceEvent
	err := a.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&event).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return event, ErrMaintenanceEventNotFound
	} else if err != nil {
		return event, pkgErrors.Wrap(err, "finding maintenance event")
	}

	return event, nil
}

// ListMaintenanceEvents returns the user's maintenance events, optionally
// narrowed to one aircraft
func (a *App) ListMaintenanceEvents(user database.User, aircraftID int) ([]database.MaintenanceEvent, error) {
	tx := a.DB.Where("user_id = ?", user.ID)
	if aircraftID != 0 {
		tx = tx.Where("aircraft_id = ?", aircraftID)
	}

	var events []database.MaintenanceEvent
	if err := tx.Order("id").Find(&events).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding maintenance events")
	}

	return events, nil
}
