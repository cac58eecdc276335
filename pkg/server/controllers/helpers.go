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
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	pkgErrors "github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/server/app"
	"github.com/uavlog/uavlog/pkg/server/log"
)

// sessionCookieName is the cookie carrying the session key
const sessionCookieName = "uavlog_session"

var formDecoder = schema.NewDecoder()

func init() {
	formDecoder.IgnoreUnknownKeys(true)
}

// parseJSON decodes the request body as JSON into v
func parseJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return pkgErrors.Wrap(err, "decoding request body")
	}

	return nil
}

// parseQuery decodes the request's query string into v
func parseQuery(r *http.Request, v interface{}) error {
	if err := formDecoder.Decode(v, r.URL.Query()); err != nil {
		return pkgErrors.Wrap(err, "decoding query")
	}

	return nil
}

// getIntParam returns the named mux path variable as an integer
func getIntParam(r *http.Request, name string) (int, error) {
	vars := mux.Vars(r)

	val, err := strconv.Atoi(vars[name])
	if err != nil {
		return 0, pkgErrors.Wrapf(err, "invalid %s", name)
	}

	return val, nil
}

// respondJSON writes the JSON-encoding of v with the given status
func respondJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusForError maps application errors to HTTP status codes
func statusForError(err error) int {
	cause := pkgErrors.Cause(err)

	switch cause {
	case app.ErrNotFound, app.ErrAircraftNotFound, app.ErrFlightSessionNotFound,
		app.ErrMaintenanceEventNotFound, app.ErrConfigurationFileNotFound:
		return http.StatusNotFound
	case app.ErrLoginInvalid:
		return http.StatusUnauthorized
	case app.ErrDuplicateEmail, app.ErrDuplicateAircraftName:
		return http.StatusConflict
	case app.ErrEmailRequired, app.ErrPasswordRequired, app.ErrPasswordTooShort, app.ErrPasswordConfirmationMismatch,
		app.ErrInvalidLightConditions, app.ErrInvalidOpsConditions, app.ErrInvalidPilotType,
		app.ErrInvalidReminderLead, app.ErrRegistrationDisabled:
		return http.StatusBadRequest
	}

	if pkgErrors.Is(cause, app.ErrInvalidDate) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// handleJSONError logs the error and responds with its mapped status
// and a JSON error body
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	statusCode := statusForError(err)

	if statusCode == http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"statusCode": statusCode,
		}).ErrorWrap(err, msg)
		respondJSON(w, statusCode, errorResponse{Error: "Something went wrong"})
		return
	}

	respondJSON(w, statusCode, errorResponse{Error: pkgErrors.Cause(err).Error()})
}

func setSessionCookie(w http.ResponseWriter, key string, expires time.Time) {
	cookie := http.Cookie{
		Name:     sessionCookieName,
		Value:    key,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
	}
	http.SetCookie(w, &cookie)
}

func unsetSessionCookie(w http.ResponseWriter) {
	expires := time.Now().Add(time.Hour * -24)
	cookie := http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
	}

	w.Header().Set("Cache-Control", "no-cache")
	http.SetCookie(w, &cookie)
}

// contentDispositionAttachment builds the header value for a download
func contentDispositionAttachment(filename string) string {
	return "attachment; filename=\"" + strings.ReplaceAll(filename, "\"", "") + "\""
}
