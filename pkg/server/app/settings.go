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

// ErrInvalidReminderLead is an error for a non-positive reminder lead time
var ErrInvalidReminderLead = pkgErrors.New("reminder lead time must be positive")

// GetUserSettings returns the user's settings, creating a default row
// if none exists yet
func (a *App) GetUserSettings(user database.User) (database.UserSettings, error) {
	var settings database.UserSettings
	err := a.DB.Where("user_id = ?", user.ID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = database.UserSettings{
			UserID:               user.ID,
			NotificationsEnabled: true,
			ReminderMonthsBefore: 3,
		}
		if err := a.DB.Save(&settings).Error; err != nil {
			return database.UserSettings{}, pkgErrors.Wrap(err, "creating default settings")
		}

		return settings, nil
	} else if err != nil {
		return database.UserSettings{}, pkgErrors.Wrap(err, "finding settings")
	}

	return settings, nil
}

// UserSettingsParams are the updatable settings fields
type UserSettingsParams struct {
	PreferredUnits       string
	Theme                string
	NotificationsEnabled bool
	A1A3Reminder         bool
	A2Reminder           bool
	STSReminder          bool
	ReminderMonthsBefore int
}

// UpdateUserSettings updates the user's settings
func (a *App) UpdateUserSettings(user database.User, p UserSettingsParams) (database.UserSettings, error) {
	if p.ReminderMonthsBefore <= 0 {
		return database.UserSettings{}, ErrInvalidReminderLead
	}

	settings, err := a.GetUserSettings(user)
	if err != nil {
		return database.UserSettings{}, err
	}

	settings.PreferredUnits = p.PreferredUnits
	settings.Theme = p.Theme
	settings.NotificationsEnabled = p.NotificationsEnabled
	settings.A1A3Reminder = p.A1A3Reminder
	settings.A2Reminder = p.A2Reminder
	settings.STSReminder = p.STSReminder
	settings.ReminderMonthsBefore = p.ReminderMonthsBefore

	if err := a.DB.Save(&settings).Error; err != nil {
		return database.UserSettings{}, pkgErrors.Wrap(err, "saving settings")
	}

	return settings, nil
}
