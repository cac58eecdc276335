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
	"net/http"

	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"github.com/spf13/cobra"
	"github.com/uavlog/uavlog/pkg/server/app"
	"github.com/uavlog/uavlog/pkg/server/buildinfo"
	"github.com/uavlog/uavlog/pkg/server/config"
	"github.com/uavlog/uavlog/pkg/server/controllers"
	"github.com/uavlog/uavlog/pkg/server/log"
)

func newStartCmd() *cobra.Command {
	var (
		appEnv               string
		port                 string
		webURL               string
		dbPath               string
		mediaRoot            string
		disableRegistration  bool
		strictImportMatching bool
		logLevel             string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New(config.Params{
				AppEnv:               appEnv,
				Port:                 port,
				WebURL:               webURL,
				DBPath:               dbPath,
				MediaRoot:            mediaRoot,
				DisableRegistration:  disableRegistration,
				StrictImportMatching: strictImportMatching,
				LogLevel:             logLevel,
			})
			if err != nil {
				return errors.Wrap(err, "loading config")
			}

			log.SetLevel(cfg.LogLevel)

			a := initApp(cfg)
			defer func() {
				sqlDB, err := a.DB.DB()
				if err == nil {
					sqlDB.Close()
				}
			}()

			ctl := controllers.New(&a)
			rc := controllers.RouteConfig{
				APIRoutes:   controllers.NewAPIRoutes(&a, ctl),
				Controllers: ctl,
			}

			r, err := controllers.NewRouter(&a, rc)
			if err != nil {
				return errors.Wrap(err, "initializing router")
			}

			stopScheduler := startScheduler(&a)
			defer stopScheduler()

			log.WithFields(log.Fields{
				"version": buildinfo.Version,
				"port":    cfg.Port,
			}).Info("UAVLog server starting")

			if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
				return errors.Wrap(err, "running server")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&appEnv, "appEnv", "", "application environment (env: APP_ENV, default: PRODUCTION)")
	cmd.Flags().StringVar(&port, "port", "", "server port (env: PORT, default: 3001)")
	cmd.Flags().StringVar(&webURL, "webUrl", "", "full URL to server without trailing slash (env: WebURL)")
	cmd.Flags().StringVar(&dbPath, "dbPath", "", "path to SQLite database file or postgres:// DSN (env: DBPath)")
	cmd.Flags().StringVar(&mediaRoot, "mediaRoot", "", "root directory for attached documents (env: MediaRoot)")
	cmd.Flags().BoolVar(&disableRegistration, "disableRegistration", false, "disable user registration (env: DisableRegistration)")
	cmd.Flags().BoolVar(&strictImportMatching, "strictImportMatching", false, "skip import records that match no aircraft instead of attaching them to the first one (env: StrictImportMatching)")
	cmd.Flags().StringVar(&logLevel, "logLevel", "", "log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")

	return cmd
}

// startScheduler runs the daily reminder jobs. The returned function
// stops the scheduler.
func startScheduler(a *app.App) func() {
	c := cron.New()

	if err := c.AddFunc("@daily", func() {
		count, err := a.SendLicenseExpiryReminders()
		if err != nil {
			log.ErrorWrap(err, "sending license expiry reminders")
			return
		}
		log.WithFields(log.Fields{"count": count}).Info("license expiry reminders sent")
	}); err != nil {
		panic(errors.Wrap(err, "scheduling license reminders"))
	}

	if err := c.AddFunc("@daily", func() {
		count, err := a.SendMaintenanceDueReminders()
		if err != nil {
			log.ErrorWrap(err, "sending maintenance reminders")
			return
		}
		log.WithFields(log.Fields{"count": count}).Info("maintenance reminders sent")
	}); err != nil {
		panic(errors.Wrap(err, "scheduling maintenance reminders"))
	}

	c.Start()

	return c.Stop
}
