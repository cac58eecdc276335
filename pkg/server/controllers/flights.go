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

package controllers

import (
	"net/http"

	"github.com/uavlog/uavlog/pkg/server/app"
	"github.com/uavlog/uavlog/pkg/server/database"
)

// NewFlights creates a new Flights controller
func NewFlights(app *app.App) *Flights {
	return &Flights{app: app}
}

// Flights is a flight session controller
type Flights struct {
	app *app.App
}

// FlightSessionForm is the form data for creating or updating a flight
// session
type FlightSessionForm struct {
	AircraftID      int    `json:"aircraft_id"`
	DeparturePlace  string `json:"departure_place"`
	DepartureDate   string `json:"departure_date"`
	DepartureTime   string `json:"departure_time"`
	LandingPlace    string `json:"landing_place"`
	LandingTime     string `json:"landing_time"`
	FlightDuration  int    `json:"flight_duration"`
	Takeoffs        int    `json:"takeoffs"`
	Landings        int    `json:"landings"`
	LightConditions string `json:"light_conditions"`
	OpsConditions   string `json:"ops_conditions"`
	PilotType       string `json:"pilot_type"`
	Comments        string `json:"comments"`
}

func (f FlightSessionForm) params() app.FlightSessionParams {
	return app.FlightSessionParams{
		AircraftID:      f.AircraftID,
		DeparturePlace:  f.DeparturePlace,
		DepartureDate:   f.DepartureDate,
		DepartureTime:   f.DepartureTime,
		LandingPlace:    f.LandingPlace,
		LandingTime:     f.LandingTime,
		FlightDuration:  f.FlightDuration,
		Takeoffs:        f.Takeoffs,
		Landings:        f.Landings,
		LightConditions: f.LightConditions,
		OpsConditions:   f.OpsConditions,
		PilotType:       f.PilotType,
		Comments:        f.Comments,
	}
}

// Index handles GET /flights
func (c *Flights) Index(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var filters app.FlightSessionFilters
	if err := parseQuery(r, &filters); err != nil {
		handleJSONError(w, err, "parsing filters")
		return
	}

	sessions, err := c.app.ListFlightSessions(*user, filters)
	if err != nil {
		handleJSONError(w, err, "listing flight sessions")
		return
	}

	respondJSON(w, http.StatusOK, sessions)
}

// Show handles GET /flights/{sessionID}
func (c *Flights) Show(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := getIntParam(r, "sessionID")
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	session, err := c.app.GetFlightSession(*user, id)
	if err != nil {
		handleJSONError(w, err, "getting flight session")
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// Create handles POST /flights
func (c *Flights) Create(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var form FlightSessionForm
	if err := parseJSON(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	session, err := c.app.CreateFlightSession(*user, form.params())
	if err != nil {
		handleJSONError(w, err, "creating flight session")
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

// Update handles PATCH /flights/{sessionID}
func (c *Flights) Update(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := getIntParam(r, "sessionID")
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	session, err := c.app.GetFlightSession(*user, id)
	if err != nil {
		handleJSONError(w, err, "getting flight session")
		return
	}

	var form FlightSessionForm
	if err := parseJSON(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	updated, err := c.app.UpdateFlightSession(*user, session, form.params())
	if err != nil {
		handleJSONError(w, err, "updating flight session")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /flights/{sessionID}
func (c *Flights) Delete(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := getIntParam(r, "sessionID")
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	session, err := c.app.GetFlightSession(*user, id)
	if err != nil {
		handleJSONError(w, err, "getting flight session")
		return
	}

	if err := c.app.DeleteFlightSession(*user, session); err != nil {
		handleJSONError(w, err, "deleting flight session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetTelemetry handles GET /flights/{sessionID}/telemetry
func (c *Flights) GetTelemetry(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := getIntParam(r, "sessionID")
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	session, err := c.app.GetFlightSession(*user, id)
	if err != nil {
		handleJSONError(w, err, "getting flight session")
		return
	}

	samples, err := c.app.GetTelemetry(session)
	if err != nil {
		handleJSONError(w, err, "getting telemetry")
		return
	}

	respondJSON(w, http.StatusOK, samples)
}

// ReplaceTelemetry handles PUT /flights/{sessionID}/telemetry
func (c *Flights) ReplaceTelemetry(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := getIntParam(r, "sessionID")
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	session, err := c.app.GetFlightSession(*user, id)
	if err != nil {
		handleJSONError(w, err, "getting flight session")
		return
	}

	var samples []database.TelemetrySample
	if err := parseJSON(r, &samples); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	count, err := c.app.ReplaceTelemetry(session, samples)
	if err != nil {
		handleJSONError(w, err, "replacing telemetry")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Count int `json:"count"`
	}{Count: count})
}

// DeleteTelemetry handles DELETE /flights/{sessionID}/telemetry
func (c *Flights) DeleteTelemetry(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := getIntParam(r, "sessionID")
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	session, err := c.app.GetFlightSession(*user, id)
	if err != nil {
		handleJSONError(w, err, "getting flight session")
		return
	}

	if _, err := c.app.DeleteTelemetry(session); err != nil {
		handleJSONError(w, err, "deleting telemetry")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
