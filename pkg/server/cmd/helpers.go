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

package cmd

import (
	"fmt"
	"os"

	"github.com/uavlog/uavlog/pkg/clock"
	"github.com/uavlog/uavlog/pkg/server/app"
	"github.com/uavlog/uavlog/pkg/server/config"
	"github.com/uavlog/uavlog/pkg/server/database"
	"github.com/uavlog/uavlog/pkg/server/log"
	"github.com/uavlog/uavlog/pkg/server/mailer"
	"github.com/uavlog/uavlog/pkg/server/storage"
	"gorm.io/gorm"
)

func initDB(dbPath string) *gorm.DB {
	db := database.Open(dbPath)
	database.InitSchema(db)

	return db
}

func getEmailBackend() mailer.Backend {
	smtpBackend, err := mailer.NewSMTPBackend()
	if err != nil {
		log.Debug("SMTP not configured, using StdoutBackend for emails")
		return mailer.NewStdoutBackend()
	}

	log.Debug("Email backend configured")
	return smtpBackend
}

func initApp(cfg config.Config) app.App {
	db := initDB(cfg.DBPath)
	emailBackend := getEmailBackend()

	return app.App{
		DB:                   db,
		Clock:                clock.New(),
		EmailBackend:         emailBackend,
		Storage:              storage.NewFileStore(cfg.MediaRoot),
		BaseURL:              cfg.WebURL,
		DisableRegistration:  cfg.DisableRegistration,
		Port:                 cfg.Port,
		DBPath:               cfg.DBPath,
		MediaRoot:            cfg.MediaRoot,
		StrictImportMatching: cfg.StrictImportMatching,
	}
}

// setupAppWithDB creates config, initializes app, and returns a cleanup function
func setupAppWithDB(dbPath string) (*app.App, func()) {
	cfg, err := config.New(config.Params{
		DBPath: dbPath,
	})
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}

	a := initApp(cfg)
	cleanup := func() {
		sqlDB, err := a.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	return &a, cleanup
}
