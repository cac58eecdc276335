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

func TestCreateAircraft(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

		aircraft, err := a.CreateAircraft(user, AircraftParams{
			Name:         "Quad X",
			Manufacturer: "Acme",
			Type:         "quad",
			Motors:       4,
			SerialNumber: "SN-001",
			IsActive:     true,
		})
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, aircraft.UserID, user.ID, "user id mismatch")
		assert.Equal(t, aircraft.Name, "Quad X", "name mismatch")

		var count int64
		testutils.MustExec(t, a.DB.Model(&database.Aircraft{}).Count(&count), "counting aircraft")
		assert.Equal(t, count, int64(1), "aircraft count mismatch")
	})

	t.Run("name is required", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

		_, err := a.CreateAircraft(user, AircraftParams{})
		assert.Equal(t, errors.Cause(err), ErrAircraftNameRequired, "error mismatch")
	})

	t.Run("duplicate name within one user", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
		testutils.SetupAircraftData(a.DB, user, "Quad X", "SN-001")

		_, err := a.CreateAircraft(user, AircraftParams{Name: "Quad X", IsActive: true})
		assert.Equal(t, errors.Cause(err), ErrDuplicateAircraftName, "error mismatch")
	})

	t.Run("same name for different users", func(t *testing.T) {
		a := NewTest(t)
		alice := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
		bob := testutils.SetupUserData(a.DB, "bob@example.com", "pass1234")
		testutils.SetupAircraftData(a.DB, alice, "Quad X", "SN-001")

		if _, err := a.CreateAircraft(bob, AircraftParams{Name: "Quad X", IsActive: true}); err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}
	})

	t.Run("bundled reminders are created", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

		aircraft, err := a.CreateAircraft(user, AircraftParams{
			Name:     "Quad X",
			IsActive: true,
			Reminders: map[Component]ReminderUpdate{
				ComponentProps: {LastMaintenance: strPtr("2024-05-10")},
			},
		})
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		var reminder database.MaintenanceReminder
		testutils.MustExec(t, a.DB.Where("aircraft_id = ?", aircraft.ID).First(&reminder), "finding reminder")
		assert.Equal(t, reminder.Component, "props", "component mismatch")
		assert.Equal(t, reminder.NextMaintenance, "2025-05-10", "next maintenance mismatch")
	})
}

func TestGetAircraft(t *testing.T) {
	a := NewTest(t)
	alice := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
	bob := testutils.SetupUserData(a.DB, "bob@example.com", "pass1234")
	aircraft := testutils.SetupAircraftData(a.DB, alice, "Quad X", "SN-001")

	found, err := a.GetAircraft(alice, aircraft.ID)
	if err != nil {
		t.Fatal(errors.Wrap(err, "executing"))
	}
	assert.Equal(t, found.ID, aircraft.ID, "id mismatch")

	// Other users' aircraft are invisible, not forbidden
	_, err = a.GetAircraft(bob, aircraft.ID)
	assert.Equal(t, errors.Cause(err), ErrAircraftNotFound, "error mismatch")
}

func TestDeleteAircraft(t *testing.T) {
	a := NewTest(t)
	user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
	aircraft := testutils.SetupAircraftData(a.DB, user, "Quad X", "SN-001")

	session, err := a.CreateFlightSession(user, validFlightParams(aircraft.ID))
	if err != nil {
		t.Fatal(errors.Wrap(err, "preparing session"))
	}
	if _, err := a.ReplaceTelemetry(session, []database.TelemetrySample{
		{Timestamp: 1714550400000000, Latitude: 48.85, Longitude: 2.35},
	}); err != nil {
		t.Fatal(errors.Wrap(err, "preparing telemetry"))
	}
	if err := a.ReconcileReminders(a.DB, aircraft, map[Component]ReminderUpdate{
		ComponentProps: {LastMaintenance: strPtr("2024-01-01")},
	}); err != nil {
		t.Fatal(errors.Wrap(err, "preparing reminder"))
	}

	if err := a.DeleteAircraft(user, aircraft); err != nil {
		t.Fatal(errors.Wrap(err, "executing"))
	}

	var aircraftCount, sessionCount, sampleCount, reminderCount int64
	testutils.MustExec(t, a.DB.Model(&database.Aircraft{}).Count(&aircraftCount), "counting aircraft")
	testutils.MustExec(t, a.DB.Model(&database.FlightSession{}).Count(&sessionCount), "counting sessions")
	testutils.MustExec(t, a.DB.Model(&database.TelemetrySample{}).Count(&sampleCount), "counting samples")
	testutils.MustExec(t, a.DB.Model(&database.MaintenanceReminder{}).Count(&reminderCount), "counting reminders")

	assert.Equal(t, aircraftCount, int64(0), "aircraft count mismatch")
	assert.Equal(t, sessionCount, int64(0), "session count mismatch")
	assert.Equal(t, sampleCount, int64(0), "sample count mismatch")
	assert.Equal(t, reminderCount, int64(0), "reminder count mismatch")
}

func TestListAircraft(t *testing.T) {
	a := NewTest(t)
	user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
	testutils.SetupAircraftData(a.DB, user, "Quad X", "SN-001")
	testutils.SetupAircraftData(a.DB, user, "Hex Y", "SN-002")

	all, err := a.ListAircraft(user, AircraftFilters{})
	if err != nil {
		t.Fatal(errors.Wrap(err, "listing all"))
	}
	assert.Equal(t, len(all), 2, "aircraft count mismatch")

	filtered, err := a.ListAircraft(user, AircraftFilters{Name: "Quad"})
	if err != nil {
		t.Fatal(errors.Wrap(err, "listing filtered"))
	}
	assert.Equal(t, len(filtered), 1, "filtered aircraft count mismatch")
	assert.Equal(t, filtered[0].Name, "Quad X", "name mismatch")

	bySerial, err := a.ListAircraft(user, AircraftFilters{SerialNumber: "SN-002"})
	if err != nil {
		t.Fatal(errors.Wrap(err, "listing by serial"))
	}
	assert.Equal(t, len(bySerial), 1, "serial filter count mismatch")
	assert.Equal(t, bySerial[0].Name, "Hex Y", "name mismatch")
}
