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
	"github.com/uavlog/uavlog/pkg/server/storage"
	"gorm.io/gorm"
)

// ErrConfigurationFileNotFound is an error for a missing configuration file
var ErrConfigurationFileNotFound = pkgErrors.New("Configuration file not found")

// ConfigurationFileParams are the parameters for creating or updating a
// configuration file record
type ConfigurationFileParams struct {
	AircraftID int
	Name       string
	UploadDate string
}

// CreateConfigurationFile creates a configuration file record, storing
// the attached document if one is provided
func (a *App) CreateConfigurationFile(user database.User, p ConfigurationFileParams, doc *Attachment) (database.ConfigurationFile, error) {
	if _, err := a.GetAircraft(user, p.AircraftID); err != nil {
		return database.ConfigurationFile{}, err
	}

	config := database.ConfigurationFile{
		UserID:     user.ID,
		AircraftID: p.AircraftID,
		Name:       p.Name,
		UploadDate: p.UploadDate,
	}

	if doc != nil {
		saved, err := a.Storage.Save(configDocPath(user.ID, doc.Filename), doc.Content)
		if err != nil {
			return config, pkgErrors.Wrap(err, "storing document")
		}
		config.File = saved
	}

	if err := a.DB.Create(&config).Error; err != nil {
		return config, pkgErrors.Wrap(err, "inserting configuration file")
	}

	return config, nil
}

// UpdateConfigurationFile updates the configuration file record. When a
// new document is attached, the previous one is removed from storage.
func (a *App) UpdateConfigurationFile(user database.User, config database.ConfigurationFile, p ConfigurationFileParams, doc *Attachment) (database.ConfigurationFile, error) {
	if user.ID != config.UserID {
		return config, ErrNotAllowed
	}
	if _, err := a.GetAircraft(user, p.AircraftID); err != nil {
		return config, err
	}

	oldFile := config.File

	config.AircraftID = p.AircraftID
	config.Name = p.Name
	config.UploadDate = p.UploadDate

	if doc != nil {
		saved, err := a.Storage.Save(configDocPath(user.ID, doc.Filename), doc.Content)
		if err != nil {
			return config, pkgErrors.Wrap(err, "storing document")
		}
		config.File = saved
	}

	if err := a.DB.Save(&config).Error; err != nil {
		return config, pkgErrors.Wrap(err, "updating configuration file")
	}

	if doc != nil && oldFile != "" && oldFile != config.File {
		storage.DeleteQuiet(a.Storage, oldFile)
	}

	return config, nil
}

// DeleteConfigurationFile deletes the configuration file record and its
// attached document, if any
func (a *App) DeleteConfigurationFile(user database.User, config database.ConfigurationFile) error {
	if user.ID != config.UserID {
		return ErrNotAllowed
	}

	if err := a.DB.Delete(&config).Error; err != nil {
		return pkgErrors.Wrap(err, "deleting configuration file")
	}

	storage.DeleteQuiet(a.Storage, config.File)

	return nil
}

// GetConfigurationFile retrieves a configuration file record of the given user
func (a *App) GetConfigurationFile(user database.User, id int) (database.ConfigurationFile, error) {
	var config database.ConfigurationFile
	err := a.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&config).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return config, ErrConfigurationFileNotFound
	} else if err != nil {
		return config, pkgErrors.Wrap(err, "finding configuration file")
	}

	return config, nil
}

// ListConfigurationFiles returns the user's configuration file records,
// optionally narrowed to one aircraft
func (a *App) ListConfigurationFiles(user database.User, aircraftID int) ([]database.ConfigurationFile, error) {
	tx := a.DB.Where("user_id = ?", user.ID)
	if aircraftID != 0 {
		tx = tx.Where("aircraft_id = ?", aircraftID)
	}

	var configs []database.ConfigurationFile
	if err := tx.Order("id").Find(&configs).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding configuration files")
	}

	return configs, nil
}
