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
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	pkgErrors "github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/server/app"
)

// maxUploadBytes caps multipart uploads held in memory
const maxUploadBytes = 32 << 20

// NewMaintenance creates a new Maintenance controller
func NewMaintenance(app *app.App) *Maintenance {
	return &Maintenance{app: app}
}

// Maintenance is a maintenance event controller
type Maintenance struct {
	app *app.App
}

// parseAttachment extracts an optional uploaded document from a
// multipart form. A missing file field yields a nil attachment.
func parseAttachment(r *http.Request, field string) (*app.Attachment, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, nil
	} else if err != nil {
		return nil, pkgErrors.Wrap(err, "reading uploaded file")
	}

	return &app.Attachment{Filename: header.Filename, Content: file}, nil
}

func formInt(r *http.Request, field string) int {
	val, err := strconv.Atoi(r.FormValue(field))
	if err != nil {
		return 0
	}

	return val
}

func maintenanceParamsFromForm(r *http.Request) app.MaintenanceEventParams {
	return app.MaintenanceEventParams{
		AircraftID:  formInt(r, "aircraft_id"),
		EventType:   r.FormValue("event_type"),
		Description: r.FormValue("description"),
		EventDate:   r.FormValue("event_date"),
	}
}

// Index handles GET /maintenance
func (c *Maintenance) Index(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	aircraftID := 0
	if v := r.URL.Query().Get("uav"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			handleJSONError(w, pkgErrors.Wrap(err, "invalid uav filter"), "parsing filters")
			return
		}
		aircraftID = parsed
	}

	events, err := c.app.ListMaintenanceEvents(*user, aircraftID)
	if err != nil {
		handleJSONError(w, err, "listing maintenance events")
		return
	}

	respondJSON(w, http.StatusOK, events)
}

// Show handles GET /maintenance/{eventID}
func (c *Maintenance) Show(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := getIntParam(r, "eventID")
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	event, err := c.app.GetMaintenanceEvent(*user, id)
	if err != nil {
		handleJSONError(w, err, "getting maintenance event")
		return
	}

	respondJSON(w, http.StatusOK, event)
}

// Create handles POST /maintenance as a multipart form with an optional
// attached document
func (c *Maintenance) Create(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		handleJSONError(w, pkgErrors.Wrap(err, "parsing form"), "parsing payload")
		return
	}

	doc, err := parseAttachment(r, "file")
	if err != nil {
		handleJSONError(w, err, "parsing attachment")
		return
	}

	event, err := c.app.CreateMaintenanceEvent(*user, maintenanceParamsFromForm(r), doc)
	if err != nil {
		handleJSONError(w, err, "creating maintenance event")
		return
	}

	respondJSON(w, http.StatusCreated, event)
}

// Update handles PATCH /maintenance/{eventID}
func (c *Maintenance) Update(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := getIntParam(r, "eventID")
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	event, err := c.app.GetMaintenanceEvent(*user, id)
	if err != nil {
		handleJSONError(w, err, "getting maintenance event")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		handleJSONError(w, pkgErrors.Wrap(err, "parsing form"), "parsing payload")
		return
	}

	doc, err := parseAttachment(r, "file")
	if err != nil {
		handleJSONError(w, err, "parsing attachment")
		return
	}

	updated, err := c.app.UpdateMaintenanceEvent(*user, event, maintenanceParamsFromForm(r), doc)
	if err != nil {
		handleJSONError(w, err, "updating maintenance event")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /maintenance/{eventID}
func (c *Maintenance) Delete(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := getIntParam(r, "eventID")
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	event, err := c.app.GetMaintenanceEvent(*user, id)
	if err != nil {
		handleJSONError(w, err, "getting maintenance event")
		return
	}

	if err := c.app.DeleteMaintenanceEvent(*user, event); err != nil {
		handleJSONError(w, err, "deleting maintenance event")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Document handles GET /maintenance/{eventID}/document, streaming the
// attached document
func (c *Maintenance) Document(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := getIntParam(r, "eventID")
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	event, err := c.app.GetMaintenanceEvent(*user, id)
	if err != nil {
		handleJSONError(w, err, "getting maintenance event")
		return
	}

	if event.File == "" {
		http.NotFound(w, r)
		return
	}

	rc, err := c.app.Storage.Open(event.File)
	if err != nil {
		handleJSONError(w, err, "opening document")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", contentDispositionAttachment(filepath.Base(event.File)))
	if _, err := io.Copy(w, rc); err != nil {
		handleJSONError(w, err, "sending document")
	}
}
