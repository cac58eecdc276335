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
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/uavlog/uavlog/pkg/server/database"
	"github.com/uavlog/uavlog/pkg/server/log"
	"github.com/uavlog/uavlog/pkg/server/storage"
	"gorm.io/gorm"
)

// maxErrorExamples bounds how many concrete record errors are echoed
// into the summary message. The full list is always returned in Errors.
const maxErrorExamples = 3

// ImportCounts holds the number of newly created records per archive
// section. Duplicates and skipped records are not counted.
type ImportCounts struct {
	Aircraft           int `json:"uavs_imported"`
	ConfigurationFiles int `json:"uav_configs_imported"`
	FlightSessions     int `json:"flight_logs_imported"`
	MaintenanceEvents  int `json:"maintenance_logs_imported"`
	Reminders          int `json:"maintenance_reminders_imported"`
}

// ImportResult is the structured outcome of an import run. Success is
// false whenever any section or record raised an error; partial counts
// are still reported.
type ImportResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Counts  ImportCounts `json:"details"`
	Errors  []string     `json:"errors"`
}

// ImportBundle imports an exported archive into the given user's
// account. Sections run in dependency order, each in its own
// transaction, so a failure in one section cannot corrupt another.
// ImportBundle never returns an error; total failures are reported
// through the result.
func (a *App) ImportBundle(user database.User, r io.ReaderAt, size int64) ImportResult {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return ImportResult{
			Success: false,
			Message: fmt.Sprintf("Import failed: %v", err),
			Errors:  []string{err.Error()},
		}
	}

	bundle := newBundleReader(archive)
	result := ImportResult{}
	idMap := make(map[int]int)

	a.importAircraftSection(user, bundle, idMap, &result)
	a.importConfigSection(user, bundle, idMap, &result)
	a.importFlightSection(user, bundle, idMap, &result)
	a.importMaintenanceSection(user, bundle, idMap, &result)
	a.importReminderSection(user, bundle, idMap, &result)

	if len(result.Errors) > 0 {
		result.Success = false
		result.Message = fmt.Sprintf("Import completed with errors: %s", boundedList(result.Errors, maxErrorExamples))
	} else {
		result.Success = true
		result.Message = importMessage(result.Counts)
	}

	// Document copies may have created directories that ended up empty
	if fs, ok := a.Storage.(*storage.FileStore); ok {
		fs.CleanupEmptyDirs()
	}

	return result
}

// importMessage builds the summary listing the non-zero imported counts
func importMessage(c ImportCounts) string {
	var parts []string
	add := func(n int, label string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, label))
		}
	}

	add(c.Aircraft, "aircraft")
	add(c.ConfigurationFiles, "configuration files")
	add(c.FlightSessions, "flight sessions")
	add(c.MaintenanceEvents, "maintenance events")
	add(c.Reminders, "maintenance reminders")

	if len(parts) == 0 {
		return "Import successful but no new data was added."
	}
	if len(parts) == 1 {
		return fmt.Sprintf("Import successful! Imported: %s.", parts[0])
	}

	last := parts[len(parts)-1]
	return fmt.Sprintf("Import successful! Imported: %s, and %s.", strings.Join(parts[:len(parts)-1], ", "), last)
}

// boundedList joins up to max items, appending "and N more" when the
// list is longer
func boundedList(items []string, max int) string {
	if len(items) <= max {
		return strings.Join(items, "; ")
	}

	return fmt.Sprintf("%s; and %d more", strings.Join(items[:max], "; "), len(items)-max)
}

func (a *App) importAircraftSection(user database.User, bundle *bundleReader, idMap map[int]int, result *ImportResult) {
	var records []aircraftRecord
	ok, err := bundle.readJSON(aircraftJSONPath, &records)
	if !ok {
		return
	}
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("aircraft import error: %v", err))
		return
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			existing, err := findDuplicateAircraft(tx, user, rec)
			if err != nil {
				return err
			}
			if existing != nil {
				// Register the match so that later sections referencing
				// the old id attach to the existing aircraft
				if rec.ID != 0 {
					idMap[rec.ID] = existing.ID
				}
				continue
			}

			aircraft := rec.toAircraft(user.ID)
			if err := tx.Create(&aircraft).Error; err != nil {
				return err
			}

			if rec.ID != 0 {
				idMap[rec.ID] = aircraft.ID
			}
			result.Counts.Aircraft++
		}

		return nil
	})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("aircraft import error: %v", err))
	}
}

func (a *App) importConfigSection(user database.User, bundle *bundleReader, idMap map[int]int, result *ImportResult) {
	var records []configRecord
	ok, err := bundle.readJSON(configJSONPath, &records)
	if !ok {
		return
	}
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("configuration files import error: %v", err))
		return
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			ref := aircraftRef{OldID: rec.AircraftID, Name: rec.AircraftName}
			aircraftID, err := a.resolveAircraft(tx, user, ref, idMap)
			if err != nil {
				return err
			}
			if aircraftID == 0 {
				result.Errors = append(result.Errors, fmt.Sprintf("no aircraft found for configuration file %d", rec.ID))
				continue
			}

			existing, err := findDuplicateConfig(tx, user, aircraftID, rec)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}

			config := database.ConfigurationFile{
				UserID:     user.ID,
				AircraftID: aircraftID,
				Name:       rec.Name,
				UploadDate: rec.UploadDate,
			}
			if err := tx.Create(&config).Error; err != nil {
				return err
			}

			if rec.File != "" {
				filename := path.Base(rec.File)
				stored := a.copyBundleDoc(bundle, configFilesDir+"/"+filename, configDocPath(user.ID, filename))
				if stored != "" {
					if err := tx.Model(&config).Update("file", stored).Error; err != nil {
						return err
					}
				}
			}

			result.Counts.ConfigurationFiles++
		}

		return nil
	})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("configuration files import error: %v", err))
	}
}

func (a *App) importFlightSection(user database.User, bundle *bundleReader, idMap map[int]int, result *ImportResult) {
	var records []flightRecord
	ok, err := bundle.readJSON(flightJSONPath, &records)
	if !ok {
		return
	}
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("flight sessions import error: %v", err))
		return
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		sessionMap := make(map[int]int)

		for _, rec := range records {
			ref := aircraftRef{
				OldID:        rec.AircraftID,
				Name:         rec.AircraftName,
				Manufacturer: rec.AircraftManufacturer,
			}
			aircraftID, err := a.resolveAircraft(tx, user, ref, idMap)
			if err != nil {
				return err
			}
			if aircraftID == 0 {
				result.Errors = append(result.Errors, fmt.Sprintf("no aircraft found for flight session %d", rec.ID))
				continue
			}

			if err := validateFlightRecord(rec); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("invalid flight session %d: %v", rec.ID, err))
				continue
			}

			existing, err := findDuplicateFlightSession(tx, user, aircraftID, rec)
			if err != nil {
				return err
			}
			if existing != nil {
				// Keep the mapping so the duplicate can still gain any
				// telemetry it is missing
				if rec.ID != 0 {
					sessionMap[rec.ID] = existing.ID
				}
				continue
			}

			session := rec.toFlightSession(user.ID, aircraftID)
			if err := tx.Create(&session).Error; err != nil {
				return err
			}

			if rec.ID != 0 {
				sessionMap[rec.ID] = session.ID
			}
			result.Counts.FlightSessions++
		}

		return importTelemetry(tx, bundle, sessionMap)
	})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("flight sessions import error: %v", err))
	}
}

func validateFlightRecord(rec flightRecord) error {
	return validateFlightSessionParams(FlightSessionParams{
		LightConditions: rec.LightConditions,
		OpsConditions:   rec.OpsConditions,
		PilotType:       rec.PilotType,
	})
}

// importTelemetry bulk-inserts telemetry tracks for the sessions in the
// old-to-new mapping. A session that already carries samples, which can
// only be a duplicate, keeps its existing track untouched.
func importTelemetry(tx *gorm.DB, bundle *bundleReader, sessionMap map[int]int) error {
	for oldID, newID := range sessionMap {
		entry := telemetryPath(oldID)
		if !bundle.exists(entry) {
			continue
		}

		count, err := countTelemetry(tx, newID)
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		var samples []database.TelemetrySample
		if _, err := bundle.readJSON(entry, &samples); err != nil {
			return err
		}
		if len(samples) == 0 {
			continue
		}

		for i := range samples {
			samples[i].ID = 0
			samples[i].FlightSessionID = newID
		}
		if err := tx.Create(&samples).Error; err != nil {
			return err
		}
	}

	return nil
}

func (a *App) importMaintenanceSection(user database.User, bundle *bundleReader, idMap map[int]int, result *ImportResult) {
	var records []maintenanceRecord
	ok, err := bundle.readJSON(maintenanceJSONPath, &records)
	if !ok {
		return
	}
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("maintenance events import error: %v", err))
		return
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			ref := aircraftRef{OldID: rec.AircraftID, Name: rec.AircraftName}
			aircraftID, err := a.resolveAircraft(tx, user, ref, idMap)
			if err != nil {
				return err
			}
			if aircraftID == 0 {
				result.Errors = append(result.Errors, fmt.Sprintf("no aircraft found for maintenance event %d", rec.ID))
				continue
			}

			existing, err := findDuplicateMaintenanceEvent(tx, user, aircraftID, rec)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}

			event := database.MaintenanceEvent{
				UserID:      user.ID,
				AircraftID:  aircraftID,
				EventType:   rec.EventType,
				Description: rec.Description,
				EventDate:   rec.EventDate,
			}
			if err := tx.Create(&event).Error; err != nil {
				return err
			}

			if rec.File != "" {
				filename := path.Base(rec.File)
				stored := a.copyBundleDoc(bundle, maintenanceFilesDir+"/"+filename, maintenanceDocPath(user.ID, filename))
				if stored != "" {
					if err := tx.Model(&event).Update("file", stored).Error; err != nil {
						return err
					}
				}
			}

			result.Counts.MaintenanceEvents++
		}

		return nil
	})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("maintenance events import error: %v", err))
	}
}

func (a *App) importReminderSection(user database.User, bundle *bundleReader, idMap map[int]int, result *ImportResult) {
	var records []reminderRecord
	ok, err := bundle.readJSON(reminderJSONPath, &records)
	if !ok {
		return
	}
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("maintenance reminders import error: %v", err))
		return
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			ref := aircraftRef{OldID: rec.AircraftID, Name: rec.AircraftName}
			aircraftID, err := a.resolveAircraft(tx, user, ref, idMap)
			if err != nil {
				return err
			}
			if aircraftID == 0 {
				result.Errors = append(result.Errors, fmt.Sprintf("no aircraft found for reminder %d", rec.ID))
				continue
			}

			if !ValidComponent(rec.Component) {
				result.Errors = append(result.Errors, fmt.Sprintf("unknown component '%s' for reminder %d", rec.Component, rec.ID))
				continue
			}

			existing, err := findDuplicateReminder(tx, aircraftID, rec)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}

			// Replay through the reconciler so the one-row-per-component
			// invariant holds even when the archive carries a newer
			// snapshot for an already tracked component
			lastMaintenance := rec.LastMaintenance
			nextMaintenance := rec.NextMaintenance
			active := rec.ReminderActive
			updates := map[Component]ReminderUpdate{
				Component(rec.Component): {
					LastMaintenance: &lastMaintenance,
					NextMaintenance: &nextMaintenance,
					Active:          &active,
				},
			}

			aircraft := database.Aircraft{}
			aircraft.ID = aircraftID
			if err := a.ReconcileReminders(tx, aircraft, updates); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("importing reminder %d: %v", rec.ID, err))
				continue
			}

			result.Counts.Reminders++
		}

		return nil
	})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("maintenance reminders import error: %v", err))
	}
}

// copyBundleDoc copies an attached document from the archive into
// durable storage. Failures are logged and yield an empty path; the
// owning record is still created without its document.
func (a *App) copyBundleDoc(bundle *bundleReader, entry, dest string) string {
	rc, err := bundle.open(entry)
	if err != nil {
		log.WithFields(log.Fields{
			"entry": entry,
		}).ErrorWrap(err, "opening archive document")
		return ""
	}
	defer rc.Close()

	stored, err := a.Storage.Save(dest, rc)
	if err != nil {
		log.WithFields(log.Fields{
			"entry": entry,
			"dest":  dest,
		}).ErrorWrap(err, "storing archive document")
		return ""
	}

	return stored
}
