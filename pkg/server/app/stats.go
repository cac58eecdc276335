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
	"github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/server/database"
)

// AircraftStats holds computed flight totals for one aircraft. The
// values are derived from flight sessions on demand and never persisted.
type AircraftStats struct {
	TotalFlights     int64   `json:"total_flights"`
	TotalFlightTime  int64   `json:"total_flight_time"`
	TotalFlightHours float64 `json:"total_flight_hours"`
	TotalTakeoffs    int64   `json:"total_takeoffs"`
	TotalLandings    int64   `json:"total_landings"`
}

// GetAircraftStats computes the flight totals for the given aircraft id.
// An aircraft without sessions yields all-zero stats.
func (a *App) GetAircraftStats(aircraftID int) (AircraftStats, error) {
	var stats AircraftStats

	err := a.DB.Model(&database.FlightSession{}).
		Where("aircraft_id = ?", aircraftID).
		Select(
			"COUNT(*) AS total_flights, " +
				"COALESCE(SUM(flight_duration), 0) AS total_flight_time, " +
				"COALESCE(SUM(takeoffs), 0) AS total_takeoffs, " +
				"COALESCE(SUM(landings), 0) AS total_landings").
		Scan(&stats).Error
	if err != nil {
		return AircraftStats{}, errors.Wrap(err, "computing aircraft stats")
	}

	stats.TotalFlightHours = float64(stats.TotalFlightTime) / 3600

	return stats, nil
}
