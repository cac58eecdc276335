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
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/server/database"
)

// Archive layout. Each top-level section folder is optional and
// interpreted independently by the importer.
const (
	aircraftJSONPath    = "aircraft/aircraft.json"
	aircraftCSVPath     = "aircraft/aircraft.csv"
	configJSONPath      = "uav_configs/uav_configs.json"
	configCSVPath       = "uav_configs/uav_configs.csv"
	configFilesDir      = "uav_configs/files"
	flightJSONPath      = "flight_logs/flight_logs.json"
	flightCSVPath       = "flight_logs/flight_logs.csv"
	telemetryDir        = "flight_logs/gps_data"
	maintenanceJSONPath = "maintenance_logs/maintenance_logs.json"
	maintenanceCSVPath  = "maintenance_logs/maintenance_logs.csv"
	maintenanceFilesDir = "maintenance_logs/files"
	reminderJSONPath    = "maintenance_reminders/reminders.json"
	reminderCSVPath     = "maintenance_reminders/reminders.csv"
)

// telemetryPath returns the archive path of the telemetry file for the
// flight session with the given id
func telemetryPath(sessionID int) string {
	return fmt.Sprintf("%s/flight_%d_gps.json", telemetryDir, sessionID)
}

// aircraftRecord is the archive form of an aircraft. The id is carried
// for traceability only and is never trusted as stable across systems.
type aircraftRecord struct {
	ID                 int    `json:"uav_id"`
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
	CustomAttributes   string `json:"custom_attributes,omitempty"`
	IsActive           bool   `json:"is_active"`
}

func newAircraftRecord(a database.Aircraft) aircraftRecord {
	return aircraftRecord{
		ID:                 a.ID,
		Name:               a.Name,
		Manufacturer:       a.Manufacturer,
		Type:               a.Type,
		Motors:             a.Motors,
		MotorType:          a.MotorType,
		Video:              a.Video,
		VideoSystem:        a.VideoSystem,
		ESC:                a.ESC,
		ESCFirmware:        a.ESCFirmware,
		Receiver:           a.Receiver,
		ReceiverFirmware:   a.ReceiverFirmware,
		FlightController:   a.FlightController,
		Firmware:           a.Firmware,
		FirmwareVersion:    a.FirmwareVersion,
		GPS:                a.GPS,
		Mag:                a.Mag,
		Baro:               a.Baro,
		Gyro:               a.Gyro,
		Acc:                a.Acc,
		RegistrationNumber: a.RegistrationNumber,
		SerialNumber:       a.SerialNumber,
		CustomAttributes:   a.CustomAttributes,
		IsActive:           a.IsActive,
	}
}

// toAircraft builds a new aircraft from the record, dropping the archive
// id so that the server assigns its own
func (r aircraftRecord) toAircraft(userID int) database.Aircraft {
	return database.Aircraft{
		UserID:             userID,
		Name:               r.Name,
		Manufacturer:       r.Manufacturer,
		Type:               r.Type,
		Motors:             r.Motors,
		MotorType:          r.MotorType,
		Video:              r.Video,
		VideoSystem:        r.VideoSystem,
		ESC:                r.ESC,
		ESCFirmware:        r.ESCFirmware,
		Receiver:           r.Receiver,
		ReceiverFirmware:   r.ReceiverFirmware,
		FlightController:   r.FlightController,
		Firmware:           r.Firmware,
		FirmwareVersion:    r.FirmwareVersion,
		GPS:                r.GPS,
		Mag:                r.Mag,
		Baro:               r.Baro,
		Gyro:               r.Gyro,
		Acc:                r.Acc,
		RegistrationNumber: r.RegistrationNumber,
		SerialNumber:       r.SerialNumber,
		CustomAttributes:   r.CustomAttributes,
		IsActive:           r.IsActive,
	}
}

// flightRecord is the archive form of a flight session, with the owning
// aircraft's natural-key fields inlined so that identity survives an
// export/import round trip without stable numeric ids.
type flightRecord struct {
	ID                   int    `json:"flightlog_id"`
	AircraftID           int    `json:"uav_id"`
	AircraftName         string `json:"uav_drone_name"`
	AircraftManufacturer string `json:"uav_manufacturer"`
	AircraftType         string `json:"uav_type"`
	DeparturePlace       string `json:"departure_place"`
	DepartureDate        string `json:"departure_date"`
	DepartureTime        string `json:"departure_time"`
	LandingPlace         string `json:"landing_place"`
	LandingTime          string `json:"landing_time"`
	FlightDuration       int    `json:"flight_duration"`
	Takeoffs             int    `json:"takeoffs"`
	Landings             int    `json:"landings"`
	LightConditions      string `json:"light_conditions"`
	OpsConditions        string `json:"ops_conditions"`
	PilotType            string `json:"pilot_type"`
	Comments             string `json:"comments"`
}

func newFlightRecord(s database.FlightSession, aircraft database.Aircraft) flightRecord {
	return flightRecord{
		ID:                   s.ID,
		AircraftID:           s.AircraftID,
		AircraftName:         aircraft.Name,
		AircraftManufacturer: aircraft.Manufacturer,
		AircraftType:         aircraft.Type,
		DeparturePlace:       s.DeparturePlace,
		DepartureDate:        s.DepartureDate,
		DepartureTime:        s.DepartureTime,
		LandingPlace:         s.LandingPlace,
		LandingTime:          s.LandingTime,
		FlightDuration:       s.FlightDuration,
		Takeoffs:             s.Takeoffs,
		Landings:             s.Landings,
		LightConditions:      s.LightConditions,
		OpsConditions:        s.OpsConditions,
		PilotType:            s.PilotType,
		Comments:             s.Comments,
	}
}

func (r flightRecord) toFlightSession(userID, aircraftID int) database.FlightSession {
	return database.FlightSession{
		UserID:          userID,
		AircraftID:      aircraftID,
		DeparturePlace:  r.DeparturePlace,
		DepartureDate:   r.DepartureDate,
		DepartureTime:   r.DepartureTime,
		LandingPlace:    r.LandingPlace,
		LandingTime:     r.LandingTime,
		FlightDuration:  r.FlightDuration,
		Takeoffs:        r.Takeoffs,
		Landings:        r.Landings,
		LightConditions: r.LightConditions,
		OpsConditions:   r.OpsConditions,
		PilotType:       r.PilotType,
		Comments:        r.Comments,
	}
}

// configRecord is the archive form of a configuration file entry. File
// names the attached document under uav_configs/files.
type configRecord struct {
	ID           int    `json:"config_id"`
	AircraftID   int    `json:"uav_id"`
	AircraftName string `json:"drone_name"`
	Name         string `json:"name"`
	UploadDate   string `json:"upload_date"`
	File         string `json:"file"`
}

func newConfigRecord(c database.ConfigurationFile, aircraft database.Aircraft) configRecord {
	return configRecord{
		ID:           c.ID,
		AircraftID:   c.AircraftID,
		AircraftName: aircraft.Name,
		Name:         c.Name,
		UploadDate:   c.UploadDate,
		File:         c.File,
	}
}

// maintenanceRecord is the archive form of a maintenance event
type maintenanceRecord struct {
	ID           int    `json:"maintenance_id"`
	AircraftID   int    `json:"uav_id"`
	AircraftName string `json:"drone_name"`
	EventType    string `json:"event_type"`
	Description  string `json:"description"`
	EventDate    string `json:"event_date"`
	File         string `json:"file"`
}

func newMaintenanceRecord(e database.MaintenanceEvent, aircraft database.Aircraft) maintenanceRecord {
	return maintenanceRecord{
		ID:           e.ID,
		AircraftID:   e.AircraftID,
		AircraftName: aircraft.Name,
		EventType:    e.EventType,
		Description:  e.Description,
		EventDate:    e.EventDate,
		File:         e.File,
	}
}

// reminderRecord is the archive form of a maintenance reminder
type reminderRecord struct {
	ID              int    `json:"reminder_id"`
	AircraftID      int    `json:"uav_id"`
	AircraftName    string `json:"drone_name"`
	Component       string `json:"component"`
	LastMaintenance string `json:"last_maintenance"`
	NextMaintenance string `json:"next_maintenance"`
	ReminderActive  bool   `json:"reminder_active"`
}

func newReminderRecord(r database.MaintenanceReminder, aircraft database.Aircraft) reminderRecord {
	return reminderRecord{
		ID:              r.ID,
		AircraftID:      r.AircraftID,
		AircraftName:    aircraft.Name,
		Component:       r.Component,
		LastMaintenance: r.LastMaintenance,
		NextMaintenance: r.NextMaintenance,
		ReminderActive:  r.ReminderActive,
	}
}

// bundleReader wraps an opened archive and indexes its entries by path
type bundleReader struct {
	files map[string]*zip.File
}

func newBundleReader(archive *zip.Reader) *bundleReader {
	files := make(map[string]*zip.File, len(archive.File))
	for _, f := range archive.File {
		files[f.Name] = f
	}

	return &bundleReader{files: files}
}

func (b *bundleReader) exists(path string) bool {
	_, ok := b.files[path]

	return ok
}

func (b *bundleReader) open(path string) (io.ReadCloser, error) {
	f, ok := b.files[path]
	if !ok {
		return nil, errors.Errorf("no such archive entry %s", path)
	}

	return f.Open()
}

// readJSON decodes the JSON entry at the given path into v. It reports
// whether the entry exists; a missing entry is not an error.
func (b *bundleReader) readJSON(path string, v interface{}) (bool, error) {
	f, ok := b.files[path]
	if !ok {
		return false, nil
	}

	rc, err := f.Open()
	if err != nil {
		return true, errors.Wrapf(err, "opening %s", path)
	}
	defer rc.Close()

	if err := json.NewDecoder(rc).Decode(v); err != nil {
		return true, errors.Wrapf(err, "decoding %s", path)
	}

	return true, nil
}
