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
	"testing"

	"github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/assert"
	"github.com/uavlog/uavlog/pkg/server/database"
	"github.com/uavlog/uavlog/pkg/server/testutils"
)

func TestGetUserSettings(t *testing.T) {
	t.Run("creates default row", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

		settings, err := a.GetUserSettings(user)
		if err != nil {
			t.Fatal(errors.Wrap(err, "getting settings"))
		}

		assert.Equal(t, settings.NotificationsEnabled, true, "notifications default mismatch")
		assert.Equal(t, settings.ReminderMonthsBefore, 3, "reminder lead default mismatch")

		var count int64
		testutils.MustExec(t, a.DB.Model(&database.UserSettings{}).Where("user_id = ?", user.ID).Count(&count), "counting settings")
		assert.Equal(t, count, int64(1), "settings row count mismatch")
	})

	t.Run("returns existing row", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

		existing := database.UserSettings{
			UserID:               user.ID,
			NotificationsEnabled: false,
			ReminderMonthsBefore: 6,
			Theme:                "dark",
		}
		testutils.MustExec(t, a.DB.Save(&existing), "preparing settings")

		settings, err := a.GetUserSettings(user)
		if err != nil {
			t.Fatal(errors.Wrap(err, "getting settings"))
		}

		assert.Equal(t, settings.ID, existing.ID, "settings id mismatch")
		assert.Equal(t, settings.NotificationsEnabled, false, "notifications mismatch")
		assert.Equal(t, settings.ReminderMonthsBefore, 6, "reminder lead mismatch")
		assert.Equal(t, settings.Theme, "dark", "theme mismatch")
	})
}

func TestUpdateUserSettings(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

		settings, err := a.UpdateUserSettings(user, UserSettingsParams{
			PreferredUnits:       "imperial",
			Theme:                "dark",
			NotificationsEnabled: true,
			A1A3Reminder:         true,
			STSReminder:          true,
			ReminderMonthsBefore: 2,
		})
		if err != nil {
			t.Fatal(errors.Wrap(err, "updating settings"))
		}

		assert.Equal(t, settings.PreferredUnits, "imperial", "units mismatch")
		assert.Equal(t, settings.Theme, "dark", "theme mismatch")
		assert.Equal(t, settings.A1A3Reminder, true, "A1/A3 reminder mismatch")
		assert.Equal(t, settings.A2Reminder, false, "A2 reminder mismatch")
		assert.Equal(t, settings.STSReminder, true, "STS reminder mismatch")
		assert.Equal(t, settings.ReminderMonthsBefore, 2, "reminder lead mismatch")

		var count int64
		testutils.MustExec(t, a.DB.Model(&database.UserSettings{}).Where("user_id = ?", user.ID).Count(&count), "counting settings")
		assert.Equal(t, count, int64(1), "settings row count mismatch")
	})

	t.Run("invalid reminder lead", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

		for _, months := range []int{0, -1} {
			_, err := a.UpdateUserSettings(user, UserSettingsParams{ReminderMonthsBefore: months})
			assert.Equal(t, errors.Cause(err), ErrInvalidReminderLead, "error mismatch")
		}
	})
}
