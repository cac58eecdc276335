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
	"gorm.io/gorm"
)

// GetTelemetry returns the telemetry track of the given flight session,
// ordered by timestamp
func (a *App) GetTelemetry(session database.FlightSession) ([]database.TelemetrySample, error) {
	var samples []database.TelemetrySample
	err := a.DB.Where("flight_session_id = ?", session.ID).
		Order("timestamp").
		Find(&samples).Error
	if err != nil {
		return nil, errors.Wrap(err, "finding telemetry")
	}

	return samples, nil
}

// ReplaceTelemetry replaces the flight session's telemetry track with the
// given samples. The replacement is atomic: existing samples are deleted
// and the new ones inserted within one transaction, never merged.
func (a *App) ReplaceTelemetry(session database.FlightSession, samples []database.TelemetrySample) (int, error) {
	err := a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("flight_session_id = ?", session.ID).
			Delete(&database.TelemetrySample{}).Error; err != nil {
			return errors.Wrap(err, "deleting existing telemetry")
		}

		if len(samples) == 0 {
			return nil
		}

		for i := range samples {
			samples[i].ID = 0
			samples[i].FlightSessionID = session.ID
		}
		if err := tx.Create(&samples).Error; err != nil {
			return errors.Wrap(err, "inserting telemetry")
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(samples), nil
}

// DeleteTelemetry removes all telemetry samples of the given flight
// session and returns the number of samples removed
func (a *App) DeleteTelemetry(session database.FlightSession) (int64, error) {
	result := a.DB.Where("flight_session_id = ?", session.ID).Delete(&database.TelemetrySample{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "deleting telemetry")
	}

	return result.RowsAffected, nil
}

func countTelemetry(tx *gorm.DB, sessionID int) (int64, error) {
	var count int64
	err := tx.Model(&database.TelemetrySample{}).
		Where("flight_session_id = ?", sessionID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "counting telemetry")
	}

	return count, nil
}
