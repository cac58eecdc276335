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
	"bytes"
	"io"
	"net/http"

	pkgErrors "github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/server/app"
)

// NewData creates a new Data controller
func NewData(app *app.App) *Data {
	return &Data{app: app}
}

// Data is a controller for bulk import and export of user records
type Data struct {
	app *app.App
}

// Import handles POST /import. It expects a multipart form with the
// archive under the "file" field.
func (c *Data) Import(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		handleJSONError(w, pkgErrors.Wrap(err, "parsing form"), "parsing payload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, app.ImportResult{
			Success: false,
			Message: "Import failed: no file was uploaded.",
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handleJSONError(w, pkgErrors.Wrap(err, "reading upload"), "reading upload")
		return
	}

	result := c.app.ImportBundle(*user, bytes.NewReader(data), int64(len(data)))

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}

	respondJSON(w, status, result)
}

// Export handles GET /export, responding with a zip archive of all the
// user's records.
func (c *Data) Export(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	data, err := c.app.ExportBundle(*user)
	if err != nil {
		handleJSONError(w, err, "exporting records")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", contentDispositionAttachment(c.app.ExportFilename()))
	if _, err := w.Write(data); err != nil {
		handleJSONError(w, err, "sending archive")
	}
}

// Stats handles GET /aircraft/{aircraftID}/stats
func (c *Data) Stats(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := getIntParam(r, "aircraftID")
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	// scope the lookup to the user before aggregating
	aircraft, err := c.app.GetAircraft(*user, id)
	if err != nil {
		handleJSONError(w, err, "finding aircraft")
		return
	}

	stats, err := c.app.GetAircraftStats(aircraft.ID)
	if err != nil {
		handleJSONError(w, err, "aggregating stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
