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
	"github.com/uavlog/uavlog/pkg/server/context"
	"github.com/uavlog/uavlog/pkg/server/database"
	"github.com/uavlog/uavlog/pkg/server/log"
	"github.com/uavlog/uavlog/pkg/server/middleware"
)

// NewUsers creates a new Users controller
func NewUsers(app *app.App) *Users {
	return &Users{app: app}
}

// Users is a user controller
type Users struct {
	app *app.App
}

// RegistrationForm is the form data for registering
type RegistrationForm struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Create handles POST /register
func (u *Users) Create(w http.ResponseWriter, r *http.Request) {
	var form RegistrationForm
	if err := parseJSON(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	user, err := u.app.CreateUser(form.Email, form.Password, form.PasswordConfirmation)
	if err != nil {
		handleJSONError(w, err, "creating user")
		return
	}

	session, err := u.app.SignIn(&user)
	if err != nil {
		handleJSONError(w, err, "signing in a user")
		return
	}

	if err := u.app.SendWelcomeEmail(form.Email); err != nil {
		log.ErrorWrap(err, "sending welcome email")
	}

	setSessionCookie(w, session.Key, session.ExpiresAt)
	respondJSON(w, http.StatusCreated, struct {
		Key       string `json:"key"`
		ExpiresAt int64  `json:"expires_at"`
	}{
		Key:       session.Key,
		ExpiresAt: session.ExpiresAt.Unix(),
	})
}

// LoginForm is the form data for log in
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /login
func (u *Users) Login(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := parseJSON(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	if form.Email == "" {
		handleJSONError(w, app.ErrEmailRequired, "logging in")
		return
	}
	if form.Password == "" {
		handleJSONError(w, app.ErrPasswordRequired, "logging in")
		return
	}

	user, err := u.app.Authenticate(form.Email, form.Password)
	if err != nil {
		// If the user is not found, treat it as invalid login
		if err == app.ErrNotFound {
			err = app.ErrLoginInvalid
		}
		handleJSONError(w, err, "authenticating")
		return
	}

	session, err := u.app.SignIn(user)
	if err != nil {
		handleJSONError(w, err, "signing in a user")
		return
	}

	setSessionCookie(w, session.Key, session.ExpiresAt)
	respondJSON(w, http.StatusOK, struct {
		Key       string `json:"key"`
		ExpiresAt int64  `json:"expires_at"`
	}{
		Key:       session.Key,
		ExpiresAt: session.ExpiresAt.Unix(),
	})
}

// Logout handles POST /logout
func (u *Users) Logout(w http.ResponseWriter, r *http.Request) {
	key, err := middleware.GetCredential(r)
	if err != nil {
		handleJSONError(w, err, "getting credential")
		return
	}

	if key != "" {
		if err := u.app.DeleteSession(key); err != nil {
			handleJSONError(w, err, "deleting session")
			return
		}
	}

	unsetSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /me
func (u *Users) Me(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		middleware.RespondUnauthorized(w)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// ProfileForm is the form data for a profile update
type ProfileForm struct {
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Phone              string `json:"phone"`
	Street             string `json:"street"`
	Zip                string `json:"zip"`
	City               string `json:"city"`
	Country            string `json:"country"`
	Company            string `json:"company"`
	DroneOpsNumber     string `json:"drone_ops_nb"`
	PilotLicenseNumber string `json:"pilot_license_nb"`
	LicenseA1A3        string `json:"a1_a3"`
	LicenseA2          string `json:"a2"`
	LicenseSTS         string `json:"sts"`
}

// UpdateProfile handles PATCH /me
func (u *Users) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		middleware.RespondUnauthorized(w)
		return
	}

	var form ProfileForm
	if err := parseJSON(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	updated, err := u.app.UpdateUserProfile(*user, app.UserProfileParams{
		FirstName:          form.FirstName,
		LastName:           form.LastName,
		Phone:              form.Phone,
		Street:             form.Street,
		Zip:                form.Zip,
		City:               form.City,
		Country:            form.Country,
		Company:            form.Company,
		DroneOpsNumber:     form.DroneOpsNumber,
		PilotLicenseNumber: form.PilotLicenseNumber,
		LicenseA1A3:        form.LicenseA1A3,
		LicenseA2:          form.LicenseA2,
		LicenseSTS:         form.LicenseSTS,
	})
	if err != nil {
		handleJSONError(w, err, "updating profile")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// GetSettings handles GET /settings
func (u *Users) GetSettings(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		middleware.RespondUnauthorized(w)
		return
	}

	settings, err := u.app.GetUserSettings(*user)
	if err != nil {
		handleJSONError(w, err, "getting settings")
		return
	}

	respondJSON(w, http.StatusOK, settings)
}

// SettingsForm is the form data for a settings update
type SettingsForm struct {
	PreferredUnits       string `json:"preferred_units"`
	Theme                string `json:"theme"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	A1A3Reminder         bool   `json:"a1_a3_reminder"`
	A2Reminder           bool   `json:"a2_reminder"`
	STSReminder          bool   `json:"sts_reminder"`
	ReminderMonthsBefore int    `json:"reminder_months_before"`
}

// UpdateSettings handles PATCH /settings
func (u *Users) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		middleware.RespondUnauthorized(w)
		return
	}

	var form SettingsForm
	if err := parseJSON(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	settings, err := u.app.UpdateUserSettings(*user, app.UserSettingsParams{
		PreferredUnits:       form.PreferredUnits,
		Theme:                form.Theme,
		NotificationsEnabled: form.NotificationsEnabled,
		A1A3Reminder:         form.A1A3Reminder,
		A2Reminder:           form.A2Reminder,
		STSReminder:          form.STSReminder,
		ReminderMonthsBefore: form.ReminderMonthsBefore,
	})
	if err != nil {
		handleJSONError(w, err, "updating settings")
		return
	}

	respondJSON(w, http.StatusOK, settings)
}

// requireUser returns the authenticated user or responds with 401
func requireUser(w http.ResponseWriter, r *http.Request) *database.User {
	user := context.User(r.Context())
	if user == nil {
		middleware.RespondUnauthorized(w)
		return nil
	}

	return user
}
