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

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// newRemindCmd returns a command that runs the reminder jobs once. It
// exists for operators who drive scheduling externally, e.g. with
// system cron.
func newRemindCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send due license and maintenance reminder emails",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup := setupAppWithDB(dbPath)
			defer cleanup()

			licenses, err := a.SendLicenseExpiryReminders()
			if err != nil {
				return errors.Wrap(err, "sending license expiry reminders")
			}

			maintenance, err := a.SendMaintenanceDueReminders()
			if err != nil {
				return errors.Wrap(err, "sending maintenance reminders")
			}

			fmt.Printf("Sent %d license and %d maintenance reminders\n", licenses, maintenance)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "dbPath", "", "path to SQLite database file (env: DBPath)")

	return cmd
}
