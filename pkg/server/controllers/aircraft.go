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
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	pkgErrors "github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/server/app"
	"github.com/uavlog/uavlog/pkg/server/database"
)

// NewAircraft creates a new Aircraft controller
func NewAircraft(app *app.App) *Aircraft {
	return &Aircraft{app: app}
}

// Aircraft is an aircraft controller
type Aircraft struct {
	app *app.App
}

// AircraftForm is the form data for creating or updating an aircraft
type AircraftForm struct {
	Name               string `json:"drone_name"`
	Manufacturer       string `json:"manufacturer"`
	Type               string `json:"type"`
	Motors             int    `json:"motors"`
	MotorType          string `json:"motor_type"`
	Video              string `json:"video"`
	VideoSystem        string `json:"video_system"`
	ESC                string `json:"esc"`
	ESCFirmware        string `json:"esc_firmware"`
	Receiver           string `json:"receiver"`
	ReceiverFirmware   string `json:"receiver_firmware"`
	FlightController   string `json:"flight_controller"`
	Firmware           string `json:"firmware"`
	FirmwareVersion    string `json:"firmware_version"`
	GPS                string `json:"gps"`
	Mag                string `json:"mag"`
	Baro               string `json:"baro"`
	Gyro               string `json:"gyro"`
	Acc                string `json:"acc"`
	RegistrationNumber string `json:"registration_number"`
	SerialNumber       string `json:"serial_number"`
	CustomAttributes   string `json:"custom_attributes"`
	IsActive           bool   `json:"is_active"`
}

func (f AircraftForm) params() app.AircraftParams {
	return app.AircraftParams{
		Name:               f.Name,
		Manufacturer:       f.Manufacturer,
		Type:               f.Type,
		Motors:             f.Motors,
		MotorType:          f.MotorType,
		Video:              f.Video,
		VideoSystem:        f.VideoSystem,
		ESC:                f.ESC,
		ESCFirmware:        f.ESCFirmware,
		Receiver:           f.Receiver,
		ReceiverFirmware:   f.ReceiverFirmware,
		FlightController:   f.FlightController,
		Firmware:           f.Firmware,
		FirmwareVersion:    f.FirmwareVersion,
		GPS:                f.GPS,
		Mag:                f.Mag,
		Baro:               f.Baro,
		Gyro:               f.Gyro,
		Acc:                f.Acc,
		RegistrationNumber: f.RegistrationNumber,
		SerialNumber:       f.SerialNumber,
		CustomAttributes:   f.CustomAttributes,
		IsActive:           f.IsActive,
	}
}

// parseAircraftPayload decodes the request body into the aircraft form
// and extracts bundled reminder updates. Reminder keys are read from the
// raw payload because a key that is absent means "do not touch", while
// an explicit null or empty date means "stop tracking".
func parseAircraftPayload(r *http.Request) (app.AircraftParams, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return app.AircraftParams{}, pkgErrors.Wrap(err, "reading request body")
	}

	var form AircraftForm
	if err := json.Unmarshal(body, &form); err != nil {
		return app.AircraftParams{}, pkgErrors.Wrap(err, "decoding request body")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return app.AircraftParams{}, pkgErrors.Wrap(err, "decoding request body")
	}

	params := form.params()
	params.Reminders = reminderUpdates(raw)

	return params, nil
}

func reminderUpdates(raw map[string]json.RawMessage) map[app.Component]app.ReminderUpdate {
	updates := make(map[app.Component]app.ReminderUpdate)

	for _, component := range app.Components() {
		maintKey := fmt.Sprintf("%s_maint_date", component)
		rawDate, ok := raw[maintKey]
		if !ok {
			continue
		}

		update := app.ReminderUpdate{
			LastMaintenance: decodeNullableString(rawDate),
		}

		if rawNext, ok := raw[fmt.Sprintf("%s_reminder_date", component)]; ok {
			update.NextMaintenance = decodeNullableString(rawNext)
		}
		if rawActive, ok := raw[fmt.Sprintf("%s_reminder_active", component)]; ok {
			var active bool
			if err := json.Unmarshal(rawActive, &active); err == nil {
				update.Active = &active
			}
		}

		updates[component] = update
	}

	return updates
}

func decodeNullableString(raw json.RawMessage) *string {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}

	return s
}

// aircraftPresenter is an aircraft enriched with its computed stats and
// current reminders
type aircraftPresenter struct {
	database.Aircraft
	Stats     app.AircraftStats              `json:"stats"`
	Reminders []database.MaintenanceReminder `json:"reminders"`
}

func (c *Aircraft) present(aircraft database.Aircraft) (aircraftPresenter, error) {
	stats, err := c.app.GetAircraftStats(aircraft.ID)
	if err != nil {
		return aircraftPresenter{}, err
	}

	reminders, err := c.app.GetAircraftReminders(aircraft.ID)
	if err != nil {
		return aircraftPresenter{}, err
	}

	return aircraftPresenter{Aircraft: aircraft, Stats: stats, Reminders: reminders}, nil
}

// Index handles GET /aircraft
func (c *Aircraft) Index(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var filters app.AircraftFilters
	if err := parseQuery(r, &filters); err != nil {
		handleJSONError(w, err, "parsing filters")
		return
	}

	aircraft, err := c.app.ListAircraft(*user, filters)
	if err != nil {
		handleJSONError(w, err, "listing aircraft")
		return
	}

	presenters := make([]aircraftPresenter, 0, len(aircraft))
	for _, item := range aircraft {
		p, err := c.present(item)
		if err != nil {
			handleJSONError(w, err, "presenting aircraft")
			return
		}
		presenters = append(presenters, p)
	}

	respondJSON(w, http.StatusOK, presenters)
}

// Show handles GET /aircraft/{aircraftID}
func (c *Aircraft) Show(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := getIntParam(r, "aircraftID")
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	aircraft, err := c.app.GetAircraft(*user, id)
	if err != nil {
		handleJSONError(w, err, "getting aircraft")
		return
	}

	p, err := c.present(aircraft)
	if err != nil {
		handleJSONError(w, err, "presenting aircraft")
		return
	}

	respondJSON(w, http.StatusOK, p)
}

// Create handles POST /aircraft
func (c *Aircraft) Create(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	params, err := parseAircraftPayload(r)
	if err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	aircraft, err := c.app.CreateAircraft(*user, params)
	if err != nil {
		handleJSONError(w, err, "creating aircraft")
		return
	}

	p, err := c.present(aircraft)
	if err != nil {
		handleJSONError(w, err, "presenting aircraft")
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

// Update handles PATCH /aircraft/{aircraftID}
func (c *Aircraft) Update(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := getIntParam(r, "aircraftID")
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	aircraft, err := c.app.GetAircraft(*user, id)
	if err != nil {
		handleJSONError(w, err, "getting aircraft")
		return
	}

	params, err := parseAircraftPayload(r)
	if err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	updated, err := c.app.UpdateAircraft(*user, aircraft, params)
	if err != nil {
		handleJSONError(w, err, "updating aircraft")
		return
	}

	p, err := c.present(updated)
	if err != nil {
		handleJSONError(w, err, "presenting aircraft")
		return
	}

	respondJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /aircraft/{aircraftID}
func (c *Aircraft) Delete(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := getIntParam(r, "aircraftID")
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	aircraft, err := c.app.GetAircraft(*user, id)
	if err != nil {
		handleJSONError(w, err, "getting aircraft")
		return
	}

	if err := c.app.DeleteAircraft(*user, aircraft); err != nil {
		handleJSONError(w, err, "deleting aircraft")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reminders handles GET /reminders
func (c *Aircraft) Reminders(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	reminders, err := c.app.ListReminders(*user)
	if err != nil {
		handleJSONError(w, err, "listing reminders")
		return
	}

	respondJSON(w, http.StatusOK, reminders)
}
