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

// Package cmd provides the commands for the UAVLog server binary
package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/uavlog/uavlog/pkg/server/buildinfo"
)

var root = &cobra.Command{
	Use:           "uavlog-server",
	Short:         "UAVLog server - drone operator record keeping",
	SilenceErrors: true,
	SilenceUsage:  true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// optional; absence of a .env file is not an error
		godotenv.Load()
	},
}

func init() {
	root.AddCommand(newStartCmd())
	root.AddCommand(newUserCmd())
	root.AddCommand(newRemindCmd())
	root.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("uavlog-server %s\n", buildinfo.Version)
		},
	}
}

// Execute runs the main command
func Execute() error {
	return root.Execute()
}
