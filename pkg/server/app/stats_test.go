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

func TestGetAircraftStats(t *testing.T) {
	t.Run("zero values without sessions", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
		aircraft := testutils.SetupAircraftData(a.DB, user, "Quad X", "SN-001")

		stats, err := a.GetAircraftStats(aircraft.ID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, stats.TotalFlights, int64(0), "flight count mismatch")
		assert.Equal(t, stats.TotalFlightTime, int64(0), "flight time mismatch")
		assert.Equal(t, stats.TotalFlightHours, float64(0), "flight hours mismatch")
		assert.Equal(t, stats.TotalTakeoffs, int64(0), "takeoff count mismatch")
		assert.Equal(t, stats.TotalLandings, int64(0), "landing count mismatch")
	})

	t.Run("aggregates across sessions", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
		aircraft := testutils.SetupAircraftData(a.DB, user, "Quad X", "SN-001")
		other := testutils.SetupAircraftData(a.DB, user, "Hex Y", "SN-002")

		sessions := []database.FlightSession{
			{UserID: user.ID, AircraftID: aircraft.ID, DepartureDate: "2024-05-01", FlightDuration: 1800, Takeoffs: 1, Landings: 1, LightConditions: "Day", OpsConditions: "VLOS", PilotType: "PIC"},
			{UserID: user.ID, AircraftID: aircraft.ID, DepartureDate: "2024-05-02", FlightDuration: 5400, Takeoffs: 3, Landings: 2, LightConditions: "Day", OpsConditions: "VLOS", PilotType: "PIC"},
			{UserID: user.ID, AircraftID: other.ID, DepartureDate: "2024-05-03", FlightDuration: 999, Takeoffs: 9, Landings: 9, LightConditions: "Day", OpsConditions: "VLOS", PilotType: "PIC"},
		}
		testutils.MustExec(t, a.DB.Create(&sessions), "preparing sessions")

		stats, err := a.GetAircraftStats(aircraft.ID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, stats.TotalFlights, int64(2), "flight count mismatch")
		assert.Equal(t, stats.TotalFlightTime, int64(7200), "flight time mismatch")
		assert.Equal(t, stats.TotalFlightHours, 2.0, "flight hours mismatch")
		assert.Equal(t, stats.TotalTakeoffs, int64(4), "takeoff count mismatch")
		assert.Equal(t, stats.TotalLandings, int64(3), "landing count mismatch")
	})
}
