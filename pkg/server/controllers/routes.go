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

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/server/app"
	mw "github.com/uavlog/uavlog/pkg/server/middleware"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	APIRoutes   []Route
}

// NewAPIRoutes returns a new api routes
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	ret := []Route{
		{"POST", "/login", c.Users.Login, true},
		{"POST", "/logout", c.Users.Logout, true},

		{"GET", "/me", mw.Auth(a.DB, c.Users.Me), true},
		{"PATCH", "/me", mw.Auth(a.DB, c.Users.UpdateProfile), true},
		{"GET", "/settings", mw.Auth(a.DB, c.Users.GetSettings), true},
		{"PATCH", "/settings", mw.Auth(a.DB, c.Users.UpdateSettings), true},

		{"GET", "/aircraft", mw.Auth(a.DB, c.Aircraft.Index), true},
		{"POST", "/aircraft", mw.Auth(a.DB, c.Aircraft.Create), true},
		{"GET", "/aircraft/{aircraftID}", mw.Auth(a.DB, c.Aircraft.Show), true},
		{"PATCH", "/aircraft/{aircraftID}", mw.Auth(a.DB, c.Aircraft.Update), true},
		{"DELETE", "/aircraft/{aircraftID}", mw.Auth(a.DB, c.Aircraft.Delete), true},
		{"GET", "/aircraft/{aircraftID}/stats", mw.Auth(a.DB, c.Data.Stats), true},
		{"GET", "/reminders", mw.Auth(a.DB, c.Aircraft.Reminders), true},

		{"GET", "/flights", mw.Auth(a.DB, c.Flights.Index), true},
		{"POST", "/flights", mw.Auth(a.DB, c.Flights.Create), true},
		{"GET", "/flights/{sessionID}", mw.Auth(a.DB, c.Flights.Show), true},
		{"PATCH", "/flights/{sessionID}", mw.Auth(a.DB, c.Flights.Update), true},
		{"DELETE", "/flights/{sessionID}", mw.Auth(a.DB, c.Flights.Delete), true},
		{"GET", "/flights/{sessionID}/gps", mw.Auth(a.DB, c.Flights.GetTelemetry), true},
		{"PUT", "/flights/{sessionID}/gps", mw.Auth(a.DB, c.Flights.ReplaceTelemetry), true},
		{"DELETE", "/flights/{sessionID}/gps", mw.Auth(a.DB, c.Flights.DeleteTelemetry), true},

		{"GET", "/maintenance", mw.Auth(a.DB, c.Maintenance.Index), true},
		{"POST", "/maintenance", mw.Auth(a.DB, c.Maintenance.Create), true},
		{"GET", "/maintenance/{eventID}", mw.Auth(a.DB, c.Maintenance.Show), true},
		{"PATCH", "/maintenance/{eventID}", mw.Auth(a.DB, c.Maintenance.Update), true},
		{"DELETE", "/maintenance/{eventID}", mw.Auth(a.DB, c.Maintenance.Delete), true},
		{"GET", "/maintenance/{eventID}/document", mw.Auth(a.DB, c.Maintenance.Document), true},

		{"GET", "/configs", mw.Auth(a.DB, c.Configs.Index), true},
		{"POST", "/configs", mw.Auth(a.DB, c.Configs.Create), true},
		{"GET", "/configs/{configID}", mw.Auth(a.DB, c.Configs.Show), true},
		{"PATCH", "/configs/{configID}", mw.Auth(a.DB, c.Configs.Update), true},
		{"DELETE", "/configs/{configID}", mw.Auth(a.DB, c.Configs.Delete), true},
		{"GET", "/configs/{configID}/download", mw.Auth(a.DB, c.Configs.Download), true},

		{"POST", "/import", mw.Auth(a.DB, c.Data.Import), false},
		{"GET", "/export", mw.Auth(a.DB, c.Data.Export), false},

		{"GET", "/health", c.Health.Index, true},
	}

	if !a.DisableRegistration {
		ret = append(ret, Route{"POST", "/register", c.Users.Create, true})
	}

	return ret
}

func registerRoutes(router *mux.Router, routes []Route) {
	for _, route := range routes {
		router.
			Handle(route.Pattern, mw.ApplyLimit(route.Handler, route.RateLimit)).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)

	apiRouter := router.PathPrefix("/api").Subrouter()
	registerRoutes(apiRouter, rc.APIRoutes)

	router.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nAllow: /"))
	})

	return mw.Logging(router), nil
}
