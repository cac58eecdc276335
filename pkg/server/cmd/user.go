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
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/uavlog/uavlog/pkg/server/app"
)

// confirm prompts for user input to confirm a choice
func confirm(r io.Reader, question string) (bool, error) {
	fmt.Printf("%s (y/N) ", question)

	reader := bufio.NewReader(r)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false, errors.Wrap(err, "reading stdin")
	}

	return strings.ToLower(strings.TrimSpace(input)) == "y", nil
}

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(newUserCreateCmd())
	cmd.AddCommand(newUserRemoveCmd())
	cmd.AddCommand(newUserResetPasswordCmd())

	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var email, password, dbPath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup := setupAppWithDB(dbPath)
			defer cleanup()

			if _, err := a.CreateUser(email, password, password); err != nil {
				return errors.Wrap(err, "creating user")
			}

			fmt.Printf("User created successfully\n")
			fmt.Printf("Email: %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "user password (required)")
	cmd.Flags().StringVar(&dbPath, "dbPath", "", "path to SQLite database file (env: DBPath)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func newUserRemoveCmd() *cobra.Command {
	var email, dbPath string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup := setupAppWithDB(dbPath)
			defer cleanup()

			if _, err := a.GetUserByEmail(email); err != nil {
				if errors.Is(err, app.ErrNotFound) {
					return errors.Errorf("user with email %s not found", email)
				}
				return errors.Wrap(err, "finding user")
			}

			ok, err := confirm(cmd.InOrStdin(), fmt.Sprintf("Remove user %s?", email))
			if err != nil {
				return errors.Wrap(err, "getting confirmation")
			}
			if !ok {
				fmt.Println("Aborted by user")
				return nil
			}

			if err := a.RemoveUser(email); err != nil {
				if errors.Is(err, app.ErrUserHasExistingResources) {
					return errors.Errorf("cannot remove %s: %s", email, err)
				}
				return errors.Wrap(err, "removing user")
			}

			fmt.Printf("User removed successfully\n")
			fmt.Printf("Email: %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email address (required)")
	cmd.Flags().StringVar(&dbPath, "dbPath", "", "path to SQLite database file (env: DBPath)")
	cmd.MarkFlagRequired("email")

	return cmd
}

func newUserResetPasswordCmd() *cobra.Command {
	var email, password, dbPath string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a user's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup := setupAppWithDB(dbPath)
			defer cleanup()

			user, err := a.GetUserByEmail(email)
			if err != nil {
				if errors.Is(err, app.ErrNotFound) {
					return errors.Errorf("user with email %s not found", email)
				}
				return errors.Wrap(err, "finding user")
			}

			if err := app.UpdateUserPassword(a.DB, user, password); err != nil {
				return errors.Wrap(err, "updating password")
			}

			fmt.Printf("Password reset successfully\n")
			fmt.Printf("Email: %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "new password (required)")
	cmd.Flags().StringVar(&dbPath, "dbPath", "", "path to SQLite database file (env: DBPath)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}
