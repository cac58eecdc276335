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

// Package app provides the application services for the UAVLog server
package app

import (
	"github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/clock"
	"github.com/uavlog/uavlog/pkg/server/mailer"
	"github.com/uavlog/uavlog/pkg/server/storage"
	"gorm.io/gorm"
)

var (
	// ErrEmptyDB is an error for missing database connection in the app configuration
	ErrEmptyDB = errors.New("No database connection was provided")
	// ErrEmptyClock is an error for missing clock in the app configuration
	ErrEmptyClock = errors.New("No clock was provided")
	// ErrEmptyBaseURL is an error for missing BaseURL content in the app configuration
	ErrEmptyBaseURL = errors.New("No BaseURL was provided")
	// ErrEmptyEmailBackend is an error for missing EmailBackend content in the app configuration
	ErrEmptyEmailBackend = errors.New("No EmailBackend was provided")
	// ErrEmptyStorage is an error for missing document storage in the app configuration
	ErrEmptyStorage = errors.New("No document storage was provided")
)

// App is an application context
type App struct {
	DB           *gorm.DB
	Clock        clock.Clock
	EmailBackend mailer.Backend
	Storage      storage.Store
	BaseURL      string
	Port         string
	DBPath       string
	MediaRoot    string

	DisableRegistration bool
	// StrictImportMatching disables the last-resort import fallback that
	// attaches otherwise unresolvable records to the operator's first
	// aircraft.
	StrictImportMatching bool
}

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.BaseURL == "" {
		return ErrEmptyBaseURL
	}
	if a.Clock == nil {
		return ErrEmptyClock
	}
	if a.EmailBackend == nil {
		return ErrEmptyEmailBackend
	}
	if a.DB == nil {
		return ErrEmptyDB
	}
	if a.Storage == nil {
		return ErrEmptyStorage
	}

	return nil
}
