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
	"testing"

	"github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/assert"
	"github.com/uavlog/uavlog/pkg/server/app"
	"github.com/uavlog/uavlog/pkg/server/database"
	"github.com/uavlog/uavlog/pkg/server/testutils"
)

type sessionPayload struct {
	Key       string `json:"key"`
	ExpiresAt int64  `json:"expires_at"`
}

func TestRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		a := app.NewTest(t)
		server := MustNewServer(t, &a)
		defer server.Close()

		req := testutils.MakeReq(server.URL, "POST", "/api/register", `{"email": "alice@example.com", "password": "pass1234", "password_confirmation": "pass1234"}`)
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusCreated, "status mismatch")

		var payload sessionPayload
		if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
			t.Fatal(errors.Wrap(err, "decoding payload"))
		}
		assert.NotEqual(t, payload.Key, "", "session key should be set")

		var user database.User
		testutils.MustExec(t, a.DB.Where("email = ?", "alice@example.com").First(&user), "finding user")

		backend := a.EmailBackend.(*testutils.MockEmailbackendImplementation)
		assert.Equal(t, len(backend.Emails), 1, "welcome email should have been sent")
	})

	t.Run("password too short", func(t *testing.T) {
		a := app.NewTest(t)
		server := MustNewServer(t, &a)
		defer server.Close()

		req := testutils.MakeReq(server.URL, "POST", "/api/register", `{"email": "alice@example.com", "password": "short", "password_confirmation": "short"}`)
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "status mismatch")
	})

	t.Run("registration disabled", func(t *testing.T) {
		a := app.NewTest(t)
		a.DisableRegistration = true
		server := MustNewServer(t, &a)
		defer server.Close()

		req := testutils.MakeReq(server.URL, "POST", "/api/register", `{"email": "alice@example.com", "password": "pass1234", "password_confirmation": "pass1234"}`)
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusNotFound, "route should not be registered")
	})
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		a := app.NewTest(t)
		server := MustNewServer(t, &a)
		defer server.Close()

		if _, err := a.CreateUser("alice@example.com", "pass1234", "pass1234"); err != nil {
			t.Fatal(errors.Wrap(err, "creating user"))
		}

		req := testutils.MakeReq(server.URL, "POST", "/api/login", `{"email": "alice@example.com", "password": "pass1234"}`)
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusOK, "status mismatch")

		var payload sessionPayload
		if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
			t.Fatal(errors.Wrap(err, "decoding payload"))
		}

		var session database.Session
		testutils.MustExec(t, a.DB.Where("key = ?", payload.Key).First(&session), "finding session")
	})

	t.Run("wrong password", func(t *testing.T) {
		a := app.NewTest(t)
		server := MustNewServer(t, &a)
		defer server.Close()

		if _, err := a.CreateUser("alice@example.com", "pass1234", "pass1234"); err != nil {
			t.Fatal(errors.Wrap(err, "creating user"))
		}

		req := testutils.MakeReq(server.URL, "POST", "/api/login", `{"email": "alice@example.com", "password": "wrongpass"}`)
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status mismatch")
	})

	t.Run("nonexistent user", func(t *testing.T) {
		a := app.NewTest(t)
		server := MustNewServer(t, &a)
		defer server.Close()

		req := testutils.MakeReq(server.URL, "POST", "/api/login", `{"email": "ghost@example.com", "password": "pass1234"}`)
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status mismatch")
	})
}

func TestLogout(t *testing.T) {
	a := app.NewTest(t)
	server := MustNewServer(t, &a)
	defer server.Close()

	user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

	req := testutils.MakeReq(server.URL, "POST", "/api/logout", "")
	res := testutils.HTTPAuthDo(t, a.DB, req, user)

	assert.StatusCodeEquals(t, res, http.StatusNoContent, "status mismatch")

	var count int64
	testutils.MustExec(t, a.DB.Model(&database.Session{}).Count(&count), "counting sessions")
	assert.Equal(t, count, int64(0), "session should have been deleted")
}

func TestMe(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		a := app.NewTest(t)
		server := MustNewServer(t, &a)
		defer server.Close()

		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

		req := testutils.MakeReq(server.URL, "GET", "/api/me", "")
		res := testutils.HTTPAuthDo(t, a.DB, req, user)

		assert.StatusCodeEquals(t, res, http.StatusOK, "status mismatch")

		var payload database.User
		if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
			t.Fatal(errors.Wrap(err, "decoding payload"))
		}
		assert.Equal(t, payload.Email.String, "alice@example.com", "email mismatch")
	})

	t.Run("unauthenticated", func(t *testing.T) {
		a := app.NewTest(t)
		server := MustNewServer(t, &a)
		defer server.Close()

		req := testutils.MakeReq(server.URL, "GET", "/api/me", "")
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status mismatch")
	})
}

func TestUpdateProfile(t *testing.T) {
	a := app.NewTest(t)
	server := MustNewServer(t, &a)
	defer server.Close()

	user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

	req := testutils.MakeReq(server.URL, "PATCH", "/api/me", `{"first_name": "Alice", "city": "Berlin", "a1_a3": "2026-01-31"}`)
	res := testutils.HTTPAuthDo(t, a.DB, req, user)

	assert.StatusCodeEquals(t, res, http.StatusOK, "status mismatch")

	var updated database.User
	testutils.MustExec(t, a.DB.Where("id = ?", user.ID).First(&updated), "finding user")
	assert.Equal(t, updated.FirstName, "Alice", "first name mismatch")
	assert.Equal(t, updated.City, "Berlin", "city mismatch")
	assert.Equal(t, updated.LicenseA1A3, "2026-01-31", "license date mismatch")
}

func TestUpdateSettings(t *testing.T) {
	a := app.NewTest(t)
	server := MustNewServer(t, &a)
	defer server.Close()

	user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

	req := testutils.MakeReq(server.URL, "PATCH", "/api/settings", `{"theme": "dark", "notifications_enabled": true, "reminder_months_before": 2}`)
	res := testutils.HTTPAuthDo(t, a.DB, req, user)

	assert.StatusCodeEquals(t, res, http.StatusOK, "status mismatch")

	var settings database.UserSettings
	testutils.MustExec(t, a.DB.Where("user_id = ?", user.ID).First(&settings), "finding settings")
	assert.Equal(t, settings.Theme, "dark", "theme mismatch")
	assert.Equal(t, settings.ReminderMonthsBefore, 2, "reminder lead mismatch")

	badReq := testutils.MakeReq(server.URL, "PATCH", "/api/settings", `{"reminder_months_before": 0}`)
	badRes := testutils.HTTPAuthDo(t, a.DB, badReq, user)
	assert.StatusCodeEquals(t, badRes, http.StatusBadRequest, "status mismatch")
}
