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

package app

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/server/database"
	"github.com/uavlog/uavlog/pkg/server/log"
	"github.com/uavlog/uavlog/pkg/server/mailer"
)

func getDomainFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(err, "parsing url")
	}

	host := u.Hostname()
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return host, nil
	}
	domain := parts[len(parts)-2] + "." + parts[len(parts)-1]

	return domain, nil
}

// GetSenderEmail returns the noreply sender address for the server's
// base URL
func GetSenderEmail(baseURL string) (string, error) {
	domain, err := getDomainFromURL(baseURL)
	if err != nil {
		return "", errors.Wrap(err, "parsing base url")
	}

	return fmt.Sprintf("noreply@%s", domain), nil
}

// SendWelcomeEmail sends welcome email
func (a *App) SendWelcomeEmail(email string) error {
	from, err := GetSenderEmail(a.BaseURL)
	if err != nil {
		return errors.Wrap(err, "getting the sender email")
	}

	data := mailer.WelcomeTmplData{
		AccountEmail: email,
		BaseURL:      a.BaseURL,
	}

	if err := a.EmailBackend.SendEmail(mailer.EmailTypeWelcome, from, []string{email}, data); err != nil {
		return errors.Wrapf(err, "sending welcome email for %s", email)
	}

	return nil
}

// licenseExpiry pairs a license class with its stored expiry date
type licenseExpiry struct {
	name   string
	date   string
	toggle bool
}

// SendLicenseExpiryReminders scans all operators and emails those whose
// enabled license classes expire within their configured lead time. It
// returns the number of emails sent.
func (a *App) SendLicenseExpiryReminders() (int, error) {
	var users []database.User
	if err := a.DB.Where("is_active = ?", true).Find(&users).Error; err != nil {
		return 0, errors.Wrap(err, "finding users")
	}

	now := a.Clock.Now()
	sent := 0

	for _, user := range users {
		settings, err := a.GetUserSettings(user)
		if err != nil {
			return sent, errors.Wrapf(err, "finding settings for user %d", user.ID)
		}
		if !settings.NotificationsEnabled {
			continue
		}

		horizon := now.AddDate(0, settings.ReminderMonthsBefore, 0)
		licenses := []licenseExpiry{
			{name: "A1/A3", date: user.LicenseA1A3, toggle: settings.A1A3Reminder},
			{name: "A2", date: user.LicenseA2, toggle: settings.A2Reminder},
			{name: "STS", date: user.LicenseSTS, toggle: settings.STSReminder},
		}

		for _, license := range licenses {
			if !license.toggle || license.date == "" {
				continue
			}

			expiry, err := parseDate(license.date)
			if err != nil {
				log.WithFields(log.Fields{
					"user_id": user.ID,
					"license": license.name,
				}).ErrorWrap(err, "skipping unparsable license date")
				continue
			}
			if expiry.Before(now) || expiry.After(horizon) {
				continue
			}

			if err := a.sendLicenseExpiryEmail(user, license.name, license.date); err != nil {
				return sent, err
			}
			sent++
		}
	}

	return sent, nil
}

func (a *App) sendLicenseExpiryEmail(user database.User, licenseName, expiryDate string) error {
	from, err := GetSenderEmail(a.BaseURL)
	if err != nil {
		return errors.Wrap(err, "getting the sender email")
	}

	data := mailer.LicenseExpiryTmplData{
		AccountEmail: user.Email.String,
		LicenseName:  licenseName,
		ExpiryDate:   expiryDate,
		BaseURL:      a.BaseURL,
	}

	err = a.EmailBackend.SendEmail(mailer.EmailTypeLicenseExpiry, from, []string{user.Email.String}, data)
	if err != nil {
		return errors.Wrapf(err, "sending license expiry email for %s", user.Email.String)
	}

	return nil
}

// SendMaintenanceDueReminders emails operators whose active maintenance
// reminders have reached their next-due date. It returns the number of
// emails sent.
func (a *App) SendMaintenanceDueReminders() (int, error) {
	today := a.Clock.Now().Format(database.DateFormat)

	var reminders []database.MaintenanceReminder
	err := a.DB.
		Where("reminder_active = ? AND next_maintenance <> '' AND next_maintenance <= ?", true, today).
		Find(&reminders).Error
	if err != nil {
		return 0, errors.Wrap(err, "finding due reminders")
	}

	sent := 0
	for _, reminder := range reminders {
		var aircraft database.Aircraft
		if err := a.DB.Where("id = ?", reminder.AircraftID).First(&aircraft).Error; err != nil {
			return sent, errors.Wrapf(err, "finding aircraft %d", reminder.AircraftID)
		}

		var user database.User
		if err := a.DB.Where("id = ?", aircraft.UserID).First(&user).Error; err != nil {
			return sent, errors.Wrapf(err, "finding user %d", aircraft.UserID)
		}

		settings, err := a.GetUserSettings(user)
		if err != nil {
			return sent, err
		}
		if !settings.NotificationsEnabled {
			continue
		}

		from, err := GetSenderEmail(a.BaseURL)
		if err != nil {
			return sent, errors.Wrap(err, "getting the sender email")
		}

		data := mailer.MaintenanceDueTmplData{
			AccountEmail: user.Email.String,
			AircraftName: aircraft.Name,
			Component:    reminder.Component,
			DueDate:      reminder.NextMaintenance,
			BaseURL:      a.BaseURL,
		}

		err = a.EmailBackend.SendEmail(mailer.EmailTypeMaintenanceDue, from, []string{user.Email.String}, data)
		if err != nil {
			return sent, errors.Wrapf(err, "sending maintenance due email for %s", user.Email.String)
		}
		sent++
	}

	return sent, nil
}
