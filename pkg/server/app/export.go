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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strconv"

	"github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/server/database"
)

// ExportFilename returns the download name for an export produced now
func (a *App) ExportFilename() string {
	return fmt.Sprintf("uavlog_export_%s.zip", a.Clock.Now().Format("20060102_150405"))
}

// ExportBundle serializes the user's full data set into an archive that
// ImportBundle can later re-import. The archive is built in memory; on
// any failure no partial archive is returned.
func (a *App) ExportBundle(user database.User) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	aircraftByID, err := a.exportAircraft(zw, user)
	if err != nil {
		return nil, err
	}
	if err := a.exportConfigs(zw, user, aircraftByID); err != nil {
		return nil, err
	}
	if err := a.exportFlights(zw, user, aircraftByID); err != nil {
		return nil, err
	}
	if err := a.exportMaintenance(zw, user, aircraftByID); err != nil {
		return nil, err
	}
	if err := a.exportReminders(zw, user, aircraftByID); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "finalizing archive")
	}

	return buf.Bytes(), nil
}

func writeJSONEntry(zw *zip.Writer, name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encoding %s", name)
	}

	w, err := zw.Create(name)
	if err != nil {
		return errors.Wrapf(err, "creating %s", name)
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrapf(err, "writing %s", name)
	}

	return nil
}

func writeCSVEntry(zw *zip.Writer, name string, header []string, rows [][]string) error {
	w, err := zw.Create(name)
	if err != nil {
		return errors.Wrapf(err, "creating %s", name)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return errors.Wrapf(err, "writing %s header", name)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "writing %s row", name)
		}
	}
	cw.Flush()

	return errors.Wrapf(cw.Error(), "flushing %s", name)
}

// copyDocEntry copies an attached document from storage into the
// archive under the given directory, named by its original filename
func (a *App) copyDocEntry(zw *zip.Writer, dir, docPath string) error {
	if docPath == "" || !a.Storage.Exists(docPath) {
		return nil
	}

	rc, err := a.Storage.Open(docPath)
	if err != nil {
		return errors.Wrapf(err, "opening document %s", docPath)
	}
	defer rc.Close()

	w, err := zw.Create(dir + "/" + path.Base(docPath))
	if err != nil {
		return errors.Wrap(err, "creating document entry")
	}
	if _, err := io.Copy(w, rc); err != nil {
		return errors.Wrapf(err, "copying document %s", docPath)
	}

	return nil
}

// exportAircraft writes the aircraft section and returns the user's
// aircraft keyed by id for denormalizing later sections
func (a *App) exportAircraft(zw *zip.Writer, user database.User) (map[int]database.Aircraft, error) {
	var aircraft []database.Aircraft
	if err := a.DB.Where("user_id = ?", user.ID).Order("id").Find(&aircraft).Error; err != nil {
		return nil, errors.Wrap(err, "finding aircraft")
	}

	byID := make(map[int]database.Aircraft, len(aircraft))
	for _, item := range aircraft {
		byID[item.ID] = item
	}

	if len(aircraft) == 0 {
		return byID, nil
	}

	records := make([]aircraftRecord, 0, len(aircraft))
	rows := make([][]string, 0, len(aircraft))
	for _, item := range aircraft {
		records = append(records, newAircraftRecord(item))
		rows = append(rows, []string{
			strconv.Itoa(item.ID), item.Name, item.Manufacturer, item.Type, strconv.Itoa(item.Motors),
			item.MotorType, item.Video, item.VideoSystem, item.ESC, item.ESCFirmware,
			item.Receiver, item.ReceiverFirmware, item.FlightController, item.Firmware,
			item.FirmwareVersion, item.GPS, item.Mag, item.Baro, item.Gyro, item.Acc,
			item.RegistrationNumber, item.SerialNumber, strconv.FormatBool(item.IsActive),
		})
	}

	if err := writeJSONEntry(zw, aircraftJSONPath, records); err != nil {
		return nil, err
	}

	header := []string{
		"uav_id", "drone_name", "manufacturer", "type", "motors",
		"motor_type", "video", "video_system", "esc", "esc_firmware",
		"receiver", "receiver_firmware", "flight_controller", "firmware",
		"firmware_version", "gps", "mag", "baro", "gyro", "acc",
		"registration_number", "serial_number", "is_active",
	}
	if err := writeCSVEntry(zw, aircraftCSVPath, header, rows); err != nil {
		return nil, err
	}

	return byID, nil
}

func (a *App) exportConfigs(zw *zip.Writer, user database.User, aircraftByID map[int]database.Aircraft) error {
	var configs []database.ConfigurationFile
	if err := a.DB.Where("user_id = ?", user.ID).Order("id").Find(&configs).Error; err != nil {
		return errors.Wrap(err, "finding configuration files")
	}
	if len(configs) == 0 {
		return nil
	}

	records := make([]configRecord, 0, len(configs))
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		aircraft := aircraftByID[config.AircraftID]
		records = append(records, newConfigRecord(config, aircraft))
		rows = append(rows, []string{
			strconv.Itoa(config.ID), strconv.Itoa(config.AircraftID), aircraft.Name,
			config.Name, config.UploadDate, config.File,
		})

		if err := a.copyDocEntry(zw, configFilesDir, config.File); err != nil {
			return err
		}
	}

	if err := writeJSONEntry(zw, configJSONPath, records); err != nil {
		return err
	}

	header := []string{"config_id", "uav_id", "drone_name", "name", "upload_date", "file_path"}
	return writeCSVEntry(zw, configCSVPath, header, rows)
}

func (a *App) exportFlights(zw *zip.Writer, user database.User, aircraftByID map[int]database.Aircraft) error {
	var sessions []database.FlightSession
	if err := a.DB.Where("user_id = ?", user.ID).Order("id").Find(&sessions).Error; err != nil {
		return errors.Wrap(err, "finding flight sessions")
	}
	if len(sessions) == 0 {
		return nil
	}

	records := make([]flightRecord, 0, len(sessions))
	rows := make([][]string, 0, len(sessions))
	for _, session := range sessions {
		aircraft := aircraftByID[session.AircraftID]
		records = append(records, newFlightRecord(session, aircraft))
		rows = append(rows, []string{
			strconv.Itoa(session.ID), strconv.Itoa(session.AircraftID), aircraft.Name,
			aircraft.Manufacturer, aircraft.Type,
			session.DeparturePlace, session.DepartureDate, session.DepartureTime,
			session.LandingPlace, session.LandingTime, strconv.Itoa(session.FlightDuration),
			strconv.Itoa(session.Takeoffs), strconv.Itoa(session.Landings),
			session.LightConditions, session.OpsConditions, session.PilotType, session.Comments,
		})
	}

	if err := writeJSONEntry(zw, flightJSONPath, records); err != nil {
		return err
	}

	header := []string{
		"flightlog_id", "uav_id", "uav_drone_name", "uav_manufacturer", "uav_type",
		"departure_place", "departure_date", "departure_time", "landing_place", "landing_time",
		"flight_duration", "takeoffs", "landings", "light_conditions", "ops_conditions",
		"pilot_type", "comments",
	}
	if err := writeCSVEntry(zw, flightCSVPath, header, rows); err != nil {
		return err
	}

	// One telemetry file per session that has samples, named by the
	// session's current id
	for _, session := range sessions {
		samples, err := a.GetTelemetry(session)
		if err != nil {
			return err
		}
		if len(samples) == 0 {
			continue
		}

		if err := writeJSONEntry(zw, telemetryPath(session.ID), samples); err != nil {
			return err
		}
	}

	return nil
}

func (a *App) exportMaintenance(zw *zip.Writer, user database.User, aircraftByID map[int]database.Aircraft) error {
	var events []database.MaintenanceEvent
	if err := a.DB.Where("user_id = ?", user.ID).Order("id").Find(&events).Error; err != nil {
		return errors.Wrap(err, "finding maintenance events")
	}
	if len(events) == 0 {
		return nil
	}

	records := make([]maintenanceRecord, 0, len(events))
	rows := make([][]string, 0, len(events))
	for _, event := range events {
		aircraft := aircraftByID[event.AircraftID]
		records = append(records, newMaintenanceRecord(event, aircraft))
		rows = append(rows, []string{
			strconv.Itoa(event.ID), strconv.Itoa(event.AircraftID), aircraft.Name,
			event.EventType, event.Description, event.EventDate, event.File,
		})

		if err := a.copyDocEntry(zw, maintenanceFilesDir, event.File); err != nil {
			return err
		}
	}

	if err := writeJSONEntry(zw, maintenanceJSONPath, records); err != nil {
		return err
	}

	header := []string{"maintenance_id", "uav_id", "drone_name", "event_type", "description", "event_date", "file_path"}
	return writeCSVEntry(zw, maintenanceCSVPath, header, rows)
}

func (a *App) exportReminders(zw *zip.Writer, user database.User, aircraftByID map[int]database.Aircraft) error {
	reminders, err := a.ListReminders(user)
	if err != nil {
		return err
	}
	if len(reminders) == 0 {
		return nil
	}

	records := make([]reminderRecord, 0, len(reminders))
	rows := make([][]string, 0, len(reminders))
	for _, reminder := range reminders {
		aircraft := aircraftByID[reminder.AircraftID]
		records = append(records, newReminderRecord(reminder, aircraft))
		rows = append(rows, []string{
			strconv.Itoa(reminder.ID), strconv.Itoa(reminder.AircraftID), aircraft.Name,
			reminder.Component, reminder.LastMaintenance, reminder.NextMaintenance,
			strconv.FormatBool(reminder.ReminderActive),
		})
	}

	if err := writeJSONEntry(zw, reminderJSONPath, records); err != nil {
		return err
	}

	header := []string{"reminder_id", "uav_id", "drone_name", "component", "last_maintenance", "next_maintenance", "reminder_active"}
	return writeCSVEntry(zw, reminderCSVPath, header, rows)
}
