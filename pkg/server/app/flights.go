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

var (
	// ErrFlightSessionNotFound is an error for a missing flight session
	ErrFlightSessionNotFound = pkgErrors.New("Flight session not found")
	// ErrInvalidLightConditions is an error for a light condition outside {Day, Night}
	ErrInvalidLightConditions = pkgErrors.New("Invalid light conditions")
	// ErrInvalidOpsConditions is an error for an operation condition outside {VLOS, BLOS}
	ErrInvalidOpsConditions = pkgErrors.New("Invalid operation conditions")
	// ErrInvalidPilotType is an error for a pilot role outside {PIC, Dual, Instruction}
	ErrInvalidPilotType = pkgErrors.New("Invalid pilot type")
)

// FlightSessionParams are the parameters for creating or updating a
// flight session
type FlightSessionParams struct {
	AircraftID      int
	DeparturePlace  string
	DepartureDate   string
	DepartureTime   string
	LandingPlace    string
	LandingTime     string
	FlightDuration  int
	Takeoffs        int
	Landings        int
	LightConditions string
	OpsConditions   string
	PilotType       string
	Comments        string
}

func validateFlightSessionParams(p FlightSessionParams) error {
	if !database.ValidLightConditions(p.LightConditions) {
		return pkgErrors.Wrapf(ErrInvalidLightConditions, "'%s'", p.LightConditions)
	}
	if !database.ValidOpsConditions(p.OpsConditions) {
		return pkgErrors.Wrapf(ErrInvalidOpsConditions, "'%s'", p.OpsConditions)
	}
	if !database.ValidPilotType(p.PilotType) {
		return pkgErrors.Wrapf(ErrInvalidPilotType, "'%s'", p.PilotType)
	}

	return nil
}

// CreateFlightSession creates a flight session attached to one of the
// user's aircraft. Enum fields outside their allowed values are rejected.
func (a *App) CreateFlightSession(user database.User, p FlightSessionParams) (database.FlightSession, error) {
	if err := validateFlightSessionParams(p); err != nil {
		return database.FlightSession{}, err
	}

	if _, err := a.GetAircraft(user, p.AircraftID); err != nil {
		return database.FlightSession{}, err
	}

	session := database.FlightSession{
		UserID:          user.ID,
		AircraftID:      p.AircraftID,
		DeparturePlace:  p.DeparturePlace,
		DepartureDate:   p.DepartureDate,
		DepartureTime:   p.DepartureTime,
		LandingPlace:    p.LandingPlace,
		LandingTime:     p.LandingTime,
		FlightDuration:  p.FlightDuration,
		Takeoffs:        p.Takeoffs,
		Landings:        p.Landings,
		LightConditions: p.LightConditions,
		OpsConditions:   p.OpsConditions,
		PilotType:       p.PilotType,
		Comments:        p.Comments,
	}
	if err := a.DB.Create(&session).Error; err != nil {
		return session, pkgErrors.Wrap(err, "inserting flight session")
	}

	return session, nil
}

// UpdateFlightSession updates the flight session with the given parameters
func (a *App) UpdateFlightSession(user database.User, session database.FlightSession, p FlightSessionParams) (database.FlightSession, error) {
	if user.ID != session.UserID {
		return session, ErrNotAllowed
	}
	if err := validateFlightSessionParams(p); err != nil {
		return session, err
	}
	if _, err := a.GetAircraft(user, p.AircraftID); err != nil {
		return session, err
	}

	session.AircraftID = p.AircraftID
	session.DeparturePlace = p.DeparturePlace
	session.DepartureDate = p.DepartureDate
	session.DepartureTime = p.DepartureTime
	session.LandingPlace = p.LandingPlace
	session.LandingTime = p.LandingTime
	session.FlightDuration = p.FlightDuration
	session.Takeoffs = p.Takeoffs
	session.Landings = p.Landings
	session.LightConditions = p.LightConditions
	session.OpsConditions = p.OpsConditions
	session.PilotType = p.PilotType
	session.Comments = p.Comments

	if err := a.DB.Save(&session).Error; err != nil {
		return session, pkgErrors.Wrap(err, "updating flight session")
	}

	return session, nil
}

// DeleteFlightSession deletes the flight session along with its telemetry
func (a *App) DeleteFlightSession(user database.User, session database.FlightSession) error {
	if user.ID != session.UserID {
		return ErrNotAllowed
	}

	return a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("flight_session_id = ?", session.ID).
			Delete(&database.TelemetrySample{}).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting telemetry")
		}
		if err := tx.Delete(&session).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting flight session")
		}

		return nil
	})
}

// GetFlightSession retrieves a flight session of the given user
func (a *App) GetFlightSession(user database.User, id int) (database.FlightSession, error) {
	var session database.FlightSession
	err := a.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return session, ErrFlightSessionNotFound
	} else if err != nil {
		return session, pkgErrors.Wrap(err, "finding flight session")
	}

	return session, nil
}

// FlightSessionFilters are the supported filters for listing flight
// sessions. Place and comment fields match partially.
type FlightSessionFilters struct {
	AircraftID      int    `schema:"uav"`
	DeparturePlace  string `schema:"departure_place"`
	LandingPlace    string `schema:"landing_place"`
	DepartureDate   string `schema:"departure_date"`
	DepartureTime   string `schema:"departure_time"`
	LandingTime     string `schema:"landing_time"`
	FlightDuration  int    `schema:"flight_duration"`
	Takeoffs        int    `schema:"takeoffs"`
	Landings        int    `schema:"landings"`
	LightConditions string `schema:"light_conditions"`
	OpsConditions   string `schema:"ops_conditions"`
	PilotType       string `schema:"pilot_type"`
	Comments        string `schema:"comments"`
}

// ListFlightSessions returns the user's flight sessions matching the
// given filters
func (a *App) ListFlightSessions(user database.User, f FlightSessionFilters) ([]database.FlightSession, error) {
	tx := a.DB.Where("user_id = ?", user.ID)

	tx = likeClause(tx, "departure_place", f.DeparturePlace)
	tx = likeClause(tx, "landing_place", f.LandingPlace)
	tx = likeClause(tx, "comments", f.Comments)
	if f.AircraftID != 0 {
		tx = tx.Where("aircraft_id = ?", f.AircraftID)
	}
	if f.DepartureDate != "" {
		tx = tx.Where("departure_date = ?", f.DepartureDate)
	}
	if f.DepartureTime != "" {
		tx = tx.Where("departure_time = ?", f.DepartureTime)
	}
	if f.LandingTime != "" {
		tx = tx.Where("landing_time = ?", f.LandingTime)
	}
	if f.FlightDuration != 0 {
		tx = tx.Where("flight_duration = ?", f.FlightDuration)
	}
	if f.Takeoffs != 0 {
		tx = tx.Where("takeoffs = ?", f.Takeoffs)
	}
	if f.Landings != 0 {
		tx = tx.Where("landings = ?", f.Landings)
	}
	if f.LightConditions != "" {
		tx = tx.Where("light_conditions = ?", f.LightConditions)
	}
	if f.OpsConditions != "" {
		tx = tx.Where("ops_conditions = ?", f.OpsConditions)
	}
	if f.PilotType != "" {
		tx = tx.Where("pilot_type = ?", f.PilotType)
	}

	var sessions []database.FlightSession
	if err := tx.Order("id").Find(&sessions).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding flight sessions")
	}

	return sessions, nil
}
