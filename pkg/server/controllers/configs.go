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

// NewConfigs creates a new Configs controller
func NewConfigs(app *app.App) *Configs {
	return &Configs{app: app}
}

// Configs is a configuration file controller
type Configs struct {
	app *app.App
}

func configParamsFromForm(r *http.Request) app.ConfigurationFileParams {
	return app.ConfigurationFileParams{
		AircraftID: formInt(r, "aircraft_id"),
		Name:       r.FormValue("name"),
		UploadDate: r.FormValue("upload_date"),
	}
}

// Index handles GET /configs
func (c *Configs) Index(w http.ResponseWriter, r *http.Request) {
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

	configs, err := c.app.ListConfigurationFiles(*user, aircraftID)
	if err != nil {
		handleJSONError(w, err, "listing configuration files")
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

// Show handles GET /configs/{configID}
func (c *Configs) Show(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := getIntParam(r, "configID")
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	config, err := c.app.GetConfigurationFile(*user, id)
	if err != nil {
		handleJSONError(w, err, "getting configuration file")
		return
	}

	respondJSON(w, http.StatusOK, config)
}

// Create handles POST /configs as a multipart form with an optional
// configuration dump
func (c *Configs) Create(w http.ResponseWriter, r *http.Request) {
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

	config, err := c.app.CreateConfigurationFile(*user, configParamsFromForm(r), doc)
	if err != nil {
		handleJSONError(w, err, "creating configuration file")
		return
	}

	respondJSON(w, http.StatusCreated, config)
}

// Update handles PATCH /configs/{configID}
func (c *Configs) Update(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := getIntParam(r, "configID")
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	config, err := c.app.GetConfigurationFile(*user, id)
	if err != nil {
		handleJSONError(w, err, "getting configuration file")
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

	updated, err := c.app.UpdateConfigurationFile(*user, config, configParamsFromForm(r), doc)
	if err != nil {
		handleJSONError(w, err, "updating configuration file")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /configs/{configID}
func (c *Configs) Delete(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := getIntParam(r, "configID")
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	config, err := c.app.GetConfigurationFile(*user, id)
	if err != nil {
		handleJSONError(w, err, "getting configuration file")
		return
	}

	if err := c.app.DeleteConfigurationFile(*user, config); err != nil {
		handleJSONError(w, err, "deleting configuration file")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Download handles GET /configs/{configID}/download, streaming the stored
// configuration dump
func (c *Configs) Download(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := getIntParam(r, "configID")
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	config, err := c.app.GetConfigurationFile(*user, id)
	if err != nil {
		handleJSONError(w, err, "getting configuration file")
		return
	}

	if config.File == "" {
		http.NotFound(w, r)
		return
	}

	rc, err := c.app.Storage.Open(config.File)
	if err != nil {
		handleJSONError(w, err, "opening configuration file")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", contentDispositionAttachment(filepath.Base(config.File)))
	if _, err := io.Copy(w, rc); err != nil {
		handleJSONError(w, err, "sending configuration file")
	}
}
