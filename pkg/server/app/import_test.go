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
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/assert"
	"github.com/uavlog/uavlog/pkg/server/database"
	"github.com/uavlog/uavlog/pkg/server/testutils"
)

// buildArchive zips the given entries, keyed by archive path
func buildArchive(t *testing.T, entries map[string][]byte) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating archive entry"))
		}
		if _, err := w.Write(content); err != nil {
			t.Fatal(errors.Wrap(err, "writing archive entry"))
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatal(errors.Wrap(err, "closing archive"))
	}

	return buf.Bytes()
}

func importArchive(a *App, user database.User, data []byte) ImportResult {
	return a.ImportBundle(user, bytes.NewReader(data), int64(len(data)))
}

func TestImportBundle(t *testing.T) {
	t.Run("imports aircraft and flight sessions", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

		data := buildArchive(t, map[string][]byte{
			"aircraft/aircraft.json": []byte(`[
				{"uav_id": 7, "drone_name": "Quad X", "manufacturer": "Acme", "serial_number": "SN-001", "is_active": true},
				{"uav_id": 8, "drone_name": "Hex Y", "manufacturer": "Acme", "serial_number": "SN-002", "is_active": true}
			]`),
			"flight_logs/flight_logs.json": []byte(`[
				{"flightlog_id": 1, "uav_id": 7, "uav_drone_name": "Quad X", "departure_place": "Field A", "departure_date": "2024-05-01", "departure_time": "10:00", "flight_duration": 600, "takeoffs": 1, "landings": 1, "light_conditions": "Day", "ops_conditions": "VLOS", "pilot_type": "PIC"},
				{"flightlog_id": 2, "uav_id": 8, "uav_drone_name": "Hex Y", "departure_place": "Field B", "departure_date": "2024-05-02", "departure_time": "11:00", "flight_duration": 300, "takeoffs": 1, "landings": 1, "light_conditions": "Night", "ops_conditions": "BLOS", "pilot_type": "Instruction"}
			]`),
		})

		result := importArchive(&a, user, data)

		assert.Equal(t, result.Success, true, "success mismatch")
		assert.Equal(t, result.Counts.Aircraft, 2, "aircraft count mismatch")
		assert.Equal(t, result.Counts.FlightSessions, 2, "session count mismatch")
		assert.Equal(t, result.Message, "Import successful! Imported: 2 aircraft, and 2 flight sessions.", "message mismatch")

		var aircraftCount, sessionCount int64
		testutils.MustExec(t, a.DB.Model(&database.Aircraft{}).Count(&aircraftCount), "counting aircraft")
		testutils.MustExec(t, a.DB.Model(&database.FlightSession{}).Count(&sessionCount), "counting sessions")
		assert.Equal(t, aircraftCount, int64(2), "aircraft row count mismatch")
		assert.Equal(t, sessionCount, int64(2), "session row count mismatch")

		var session database.FlightSession
		testutils.MustExec(t, a.DB.Where("departure_place = ?", "Field A").First(&session), "finding session")
		var aircraft database.Aircraft
		testutils.MustExec(t, a.DB.Where("serial_number = ?", "SN-001").First(&aircraft), "finding aircraft")
		assert.Equal(t, session.AircraftID, aircraft.ID, "session should be attached to the imported aircraft")
	})

	t.Run("re-import is a no-op", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

		data := buildArchive(t, map[string][]byte{
			"aircraft/aircraft.json": []byte(`[
				{"uav_id": 7, "drone_name": "Quad X", "serial_number": "SN-001", "is_active": true}
			]`),
			"flight_logs/flight_logs.json": []byte(`[
				{"flightlog_id": 1, "uav_id": 7, "uav_drone_name": "Quad X", "departure_place": "Field A", "departure_date": "2024-05-01", "departure_time": "10:00", "light_conditions": "Day", "ops_conditions": "VLOS", "pilot_type": "PIC"}
			]`),
			"maintenance_logs/maintenance_logs.json": []byte(`[
				{"maintenance_id": 1, "uav_id": 7, "drone_name": "Quad X", "event_type": "repair", "description": "prop swap", "event_date": "2024-04-01"}
			]`),
			"maintenance_reminders/reminders.json": []byte(`[
				{"reminder_id": 1, "uav_id": 7, "drone_name": "Quad X", "component": "props", "last_maintenance": "2024-04-01", "next_maintenance": "2025-04-01", "reminder_active": true}
			]`),
		})

		first := importArchive(&a, user, data)
		assert.Equal(t, first.Success, true, "first import success mismatch")

		second := importArchive(&a, user, data)
		assert.Equal(t, second.Success, true, "second import success mismatch")
		assert.Equal(t, second.Counts, ImportCounts{}, "second import should add nothing")
		assert.Equal(t, second.Message, "Import successful but no new data was added.", "message mismatch")

		var aircraftCount, sessionCount, eventCount, reminderCount int64
		testutils.MustExec(t, a.DB.Model(&database.Aircraft{}).Count(&aircraftCount), "counting aircraft")
		testutils.MustExec(t, a.DB.Model(&database.FlightSession{}).Count(&sessionCount), "counting sessions")
		testutils.MustExec(t, a.DB.Model(&database.MaintenanceEvent{}).Count(&eventCount), "counting events")
		testutils.MustExec(t, a.DB.Model(&database.MaintenanceReminder{}).Count(&reminderCount), "counting reminders")
		assert.Equal(t, aircraftCount, int64(1), "aircraft row count mismatch")
		assert.Equal(t, sessionCount, int64(1), "session row count mismatch")
		assert.Equal(t, eventCount, int64(1), "event row count mismatch")
		assert.Equal(t, reminderCount, int64(1), "reminder row count mismatch")
	})

	t.Run("serial number match attaches sessions to existing aircraft", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
		existing := testutils.SetupAircraftData(a.DB, user, "My Quad", "SN-001")

		// The archive uses a different display name and id; only the
		// serial number ties the records together
		data := buildArchive(t, map[string][]byte{
			"aircraft/aircraft.json": []byte(`[
				{"uav_id": 42, "drone_name": "Quad X", "serial_number": "SN-001", "is_active": true}
			]`),
			"flight_logs/flight_logs.json": []byte(`[
				{"flightlog_id": 1, "uav_id": 42, "uav_drone_name": "Quad X", "departure_place": "Field A", "departure_date": "2024-05-01", "departure_time": "10:00", "light_conditions": "Day", "ops_conditions": "VLOS", "pilot_type": "PIC"}
			]`),
		})

		result := importArchive(&a, user, data)

		assert.Equal(t, result.Success, true, "success mismatch")
		assert.Equal(t, result.Counts.Aircraft, 0, "no aircraft should be created")
		assert.Equal(t, result.Counts.FlightSessions, 1, "session count mismatch")

		var aircraftCount int64
		testutils.MustExec(t, a.DB.Model(&database.Aircraft{}).Count(&aircraftCount), "counting aircraft")
		assert.Equal(t, aircraftCount, int64(1), "aircraft row count mismatch")

		var session database.FlightSession
		testutils.MustExec(t, a.DB.First(&session), "finding session")
		assert.Equal(t, session.AircraftID, existing.ID, "session should be attached to the existing aircraft")
	})

	t.Run("unresolvable records are reported under strict matching", func(t *testing.T) {
		a := NewTest(t)
		a.StrictImportMatching = true
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

		data := buildArchive(t, map[string][]byte{
			"flight_logs/flight_logs.json": []byte(`[
				{"flightlog_id": 9, "uav_drone_name": "Ghost", "departure_place": "Field A", "departure_date": "2024-05-01", "light_conditions": "Day", "ops_conditions": "VLOS", "pilot_type": "PIC"}
			]`),
		})

		result := importArchive(&a, user, data)

		assert.Equal(t, result.Success, false, "success mismatch")
		assert.Equal(t, len(result.Errors), 1, "error count mismatch")
		assert.Equal(t, strings.Contains(result.Errors[0], "no aircraft found"), true, "error message mismatch")
		assert.Equal(t, result.Counts.FlightSessions, 0, "session count mismatch")
	})

	t.Run("orphans attach to the first aircraft by default", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
		first := testutils.SetupAircraftData(a.DB, user, "First", "SN-001")
		testutils.SetupAircraftData(a.DB, user, "Second", "SN-002")

		data := buildArchive(t, map[string][]byte{
			"flight_logs/flight_logs.json": []byte(`[
				{"flightlog_id": 9, "uav_drone_name": "Ghost", "departure_place": "Field A", "departure_date": "2024-05-01", "light_conditions": "Day", "ops_conditions": "VLOS", "pilot_type": "PIC"}
			]`),
		})

		result := importArchive(&a, user, data)

		assert.Equal(t, result.Success, true, "success mismatch")
		assert.Equal(t, result.Counts.FlightSessions, 1, "session count mismatch")

		var session database.FlightSession
		testutils.MustExec(t, a.DB.First(&session), "finding session")
		assert.Equal(t, session.AircraftID, first.ID, "session should attach to the first aircraft")
	})

	t.Run("invalid enum values are rejected per record", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
		testutils.SetupAircraftData(a.DB, user, "Quad X", "SN-001")

		data := buildArchive(t, map[string][]byte{
			"flight_logs/flight_logs.json": []byte(`[
				{"flightlog_id": 1, "uav_drone_name": "Quad X", "departure_place": "Field A", "departure_date": "2024-05-01", "light_conditions": "Dusk", "ops_conditions": "VLOS", "pilot_type": "PIC"},
				{"flightlog_id": 2, "uav_drone_name": "Quad X", "departure_place": "Field B", "departure_date": "2024-05-02", "light_conditions": "Day", "ops_conditions": "VLOS", "pilot_type": "PIC"}
			]`),
		})

		result := importArchive(&a, user, data)

		assert.Equal(t, result.Success, false, "success mismatch")
		assert.Equal(t, result.Counts.FlightSessions, 1, "valid record should still be imported")
		assert.Equal(t, len(result.Errors), 1, "error count mismatch")
		assert.Equal(t, strings.Contains(result.Errors[0], "invalid flight session"), true, "error message mismatch")
	})

	t.Run("imports telemetry for new sessions", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
		testutils.SetupAircraftData(a.DB, user, "Quad X", "SN-001")

		data := buildArchive(t, map[string][]byte{
			"flight_logs/flight_logs.json": []byte(`[
				{"flightlog_id": 3, "uav_drone_name": "Quad X", "departure_place": "Field A", "departure_date": "2024-05-01", "light_conditions": "Day", "ops_conditions": "VLOS", "pilot_type": "PIC"}
			]`),
			"flight_logs/gps_data/flight_3_gps.json": []byte(`[
				{"timestamp": 1714550400000000, "latitude": 48.85, "longitude": 2.35},
				{"timestamp": 1714550401000000, "latitude": 48.86, "longitude": 2.36}
			]`),
		})

		result := importArchive(&a, user, data)
		assert.Equal(t, result.Success, true, "success mismatch")

		var session database.FlightSession
		testutils.MustExec(t, a.DB.First(&session), "finding session")

		var samples []database.TelemetrySample
		testutils.MustExec(t, a.DB.Where("flight_session_id = ?", session.ID).Order("timestamp").Find(&samples), "finding samples")
		assert.Equal(t, len(samples), 2, "sample count mismatch")
		assert.Equal(t, samples[0].Latitude, 48.85, "latitude mismatch")
	})

	t.Run("duplicate session gains missing telemetry", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
		aircraft := testutils.SetupAircraftData(a.DB, user, "Quad X", "SN-001")

		session := database.FlightSession{
			UserID:          user.ID,
			AircraftID:      aircraft.ID,
			DeparturePlace:  "Field A",
			DepartureDate:   "2024-05-01",
			DepartureTime:   "10:00",
			LightConditions: "Day",
			OpsConditions:   "VLOS",
			PilotType:       "PIC",
		}
		testutils.MustExec(t, a.DB.Create(&session), "preparing session")

		data := buildArchive(t, map[string][]byte{
			"flight_logs/flight_logs.json": []byte(`[
				{"flightlog_id": 5, "uav_drone_name": "Quad X", "departure_place": "Field A", "departure_date": "2024-05-01", "departure_time": "10:00", "light_conditions": "Day", "ops_conditions": "VLOS", "pilot_type": "PIC"}
			]`),
			"flight_logs/gps_data/flight_5_gps.json": []byte(`[
				{"timestamp": 1714550400000000, "latitude": 48.85, "longitude": 2.35}
			]`),
		})

		result := importArchive(&a, user, data)

		assert.Equal(t, result.Success, true, "success mismatch")
		assert.Equal(t, result.Counts.FlightSessions, 0, "no session should be created")

		var samples []database.TelemetrySample
		testutils.MustExec(t, a.DB.Where("flight_session_id = ?", session.ID).Find(&samples), "finding samples")
		assert.Equal(t, len(samples), 1, "the duplicate should gain the archived telemetry")
	})

	t.Run("unknown reminder component is rejected", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
		testutils.SetupAircraftData(a.DB, user, "Quad X", "SN-001")

		data := buildArchive(t, map[string][]byte{
			"maintenance_reminders/reminders.json": []byte(`[
				{"reminder_id": 1, "drone_name": "Quad X", "component": "wing", "last_maintenance": "2024-04-01", "next_maintenance": "2025-04-01", "reminder_active": true}
			]`),
		})

		result := importArchive(&a, user, data)

		assert.Equal(t, result.Success, false, "success mismatch")
		assert.Equal(t, strings.Contains(result.Errors[0], "unknown component"), true, "error message mismatch")

		var count int64
		testutils.MustExec(t, a.DB.Model(&database.MaintenanceReminder{}).Count(&count), "counting reminders")
		assert.Equal(t, count, int64(0), "reminder count mismatch")
	})

	t.Run("malformed archive fails as a whole", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

		data := []byte("this is not a zip file")
		result := importArchive(&a, user, data)

		assert.Equal(t, result.Success, false, "success mismatch")
		assert.Equal(t, strings.HasPrefix(result.Message, "Import failed:"), true, "message mismatch")
	})

	t.Run("empty archive adds nothing", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

		data := buildArchive(t, map[string][]byte{})
		result := importArchive(&a, user, data)

		assert.Equal(t, result.Success, true, "success mismatch")
		assert.Equal(t, result.Message, "Import successful but no new data was added.", "message mismatch")
	})
}

func TestImportMessage(t *testing.T) {
	testCases := []struct {
		counts   ImportCounts
		expected string
	}{
		{
			counts:   ImportCounts{},
			expected: "Import successful but no new data was added.",
		},
		{
			counts:   ImportCounts{Aircraft: 1},
			expected: "Import successful! Imported: 1 aircraft.",
		},
		{
			counts:   ImportCounts{Aircraft: 2, FlightSessions: 5},
			expected: "Import successful! Imported: 2 aircraft, and 5 flight sessions.",
		},
		{
			counts:   ImportCounts{Aircraft: 1, ConfigurationFiles: 2, FlightSessions: 3, MaintenanceEvents: 4, Reminders: 5},
			expected: "Import successful! Imported: 1 aircraft, 2 configuration files, 3 flight sessions, 4 maintenance events, and 5 maintenance reminders.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, importMessage(tc.counts), tc.expected, "message mismatch")
		})
	}
}

func TestBoundedList(t *testing.T) {
	assert.Equal(t, boundedList([]string{"a", "b"}, 3), "a; b", "short list mismatch")
	assert.Equal(t, boundedList([]string{"a", "b", "c", "d", "e"}, 3), "a; b; c; and 2 more", "long list mismatch")
}
