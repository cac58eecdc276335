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
	"errors"

	pkgErrors "github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/server/database"
	"github.com/uavlog/uavlog/pkg/server/helpers"
	"github.com/uavlog/uavlog/pkg/server/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is an error for a nonexistent resource
	ErrNotFound = pkgErrors.New("not found")
	// ErrLoginInvalid is an error for invalid credentials
	ErrLoginInvalid = pkgErrors.New("wrong email and password combination")
	// ErrEmailRequired is an error for missing email
	ErrEmailRequired = pkgErrors.New("email is required")
	// ErrPasswordRequired is an error for missing password
	ErrPasswordRequired = pkgErrors.New("password is required")
	// ErrPasswordTooShort is an error for a short password
	ErrPasswordTooShort = pkgErrors.New("password should be longer than 8 characters")
	// ErrPasswordConfirmationMismatch is an error for mismatched password confirmation
	ErrPasswordConfirmationMismatch = pkgErrors.New("password and its confirmation do not match")
	// ErrDuplicateEmail is an error for an already registered email
	ErrDuplicateEmail = pkgErrors.New("duplicate email")
	// ErrRegistrationDisabled is an error for registration being disabled
	ErrRegistrationDisabled = pkgErrors.New("registration is disabled")
)

// TouchLastLoginAt updates the last login timestamp
func (a *App) TouchLastLoginAt(user database.User, tx *gorm.DB) error {
	t := a.Clock.Now()
	if err := tx.Model(&user).Update("last_login_at", &t).Error; err != nil {
		return pkgErrors.Wrap(err, "updating last_login_at")
	}

	return nil
}

// CreateUser registers an operator account with default settings
func (a *App) CreateUser(email, password, passwordConfirmation string) (database.User, error) {
	if a.DisableRegistration {
		return database.User{}, ErrRegistrationDisabled
	}
	if email == "" {
		return database.User{}, ErrEmailRequired
	}
	if len(password) < 8 {
		return database.User{}, ErrPasswordTooShort
	}
	if password != passwordConfirmation {
		return database.User{}, ErrPasswordConfirmationMismatch
	}

	tx := a.DB.Begin()

	var count int64
	if err := tx.Model(&database.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "counting user")
	}
	if count > 0 {
		tx.Rollback()
		return database.User{}, ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "hashing password")
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "generating uuid")
	}

	user := database.User{
		UUID:     uuid,
		Email:    database.ToNullString(email),
		Password: database.ToNullString(string(hashedPassword)),
		IsActive: true,
	}
	if err := tx.Save(&user).Error; err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "saving user")
	}

	settings := database.UserSettings{
		UserID:               user.ID,
		NotificationsEnabled: true,
		ReminderMonthsBefore: 3,
	}
	if err := tx.Save(&settings).Error; err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "saving user settings")
	}

	if err := a.TouchLastLoginAt(user, tx); err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "updating last login")
	}

	tx.Commit()

	return user, nil
}

// Authenticate authenticates a user
func (a *App) Authenticate(email, password string) (*database.User, error) {
	var user database.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password.String), []byte(password))
	if err != nil {
		return nil, ErrLoginInvalid
	}

	return &user, nil
}

// SignIn signs in a user
func (a *App) SignIn(user *database.User) (*database.Session, error) {
	err := a.TouchLastLoginAt(*user, a.DB)
	if err != nil {
		log.ErrorWrap(err, "touching login timestamp")
	}

	session, err := a.CreateSession(user.ID)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "creating session")
	}

	return &session, nil
}

// UserProfileParams are the updatable operator profile fields
type UserProfileParams struct {
	FirstName          string
	LastName           string
	Phone              string
	Street             string
	Zip                string
	City               string
	Country            string
	Company            string
	DroneOpsNumber     string
	PilotLicenseNumber string
	LicenseA1A3        string
	LicenseA2          string
	LicenseSTS         string
}

// UpdateUserProfile updates the operator's profile fields. License
// expiry dates must be valid ISO dates when set.
func (a *App) UpdateUserProfile(user database.User, p UserProfileParams) (database.User, error) {
	for _, d := range []string{p.LicenseA1A3, p.LicenseA2, p.LicenseSTS} {
		if d == "" {
			continue
		}
		if _, err := parseDate(d); err != nil {
			return database.User{}, err
		}
	}

	user.FirstName = p.FirstName
	user.LastName = p.LastName
	user.Phone = p.Phone
	user.Street = p.Street
	user.Zip = p.Zip
	user.City = p.City
	user.Country = p.Country
	user.Company = p.Company
	user.DroneOpsNumber = p.DroneOpsNumber
	user.PilotLicenseNumber = p.PilotLicenseNumber
	user.LicenseA1A3 = p.LicenseA1A3
	user.LicenseA2 = p.LicenseA2
	user.LicenseSTS = p.LicenseSTS

	if err := a.DB.Save(&user).Error; err != nil {
		return database.User{}, pkgErrors.Wrap(err, "saving user")
	}

	return user, nil
}

// ErrUserHasExistingResources is an error for removing a user that still owns records
var ErrUserHasExistingResources = pkgErrors.New("user still has aircraft or flight records")

// GetUserByEmail finds a user by email
func (a *App) GetUserByEmail(email string) (database.User, error) {
	var user database.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.User{}, ErrNotFound
	} else if err != nil {
		return database.User{}, pkgErrors.Wrap(err, "finding user")
	}

	return user, nil
}

// RemoveUser removes a user account. It refuses to remove a user that
// still owns aircraft or flight sessions.
func (a *App) RemoveUser(email string) error {
	user, err := a.GetUserByEmail(email)
	if err != nil {
		return err
	}

	var aircraftCount, sessionCount int64
	if err := a.DB.Model(&database.Aircraft{}).Where("user_id = ?", user.ID).Count(&aircraftCount).Error; err != nil {
		return pkgErrors.Wrap(err, "counting aircraft")
	}
	if err := a.DB.Model(&database.FlightSession{}).Where("user_id = ?", user.ID).Count(&sessionCount).Error; err != nil {
		return pkgErrors.Wrap(err, "counting flight sessions")
	}
	if aircraftCount > 0 || sessionCount > 0 {
		return ErrUserHasExistingResources
	}

	return a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&database.Session{}).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting sessions")
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&database.Token{}).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting tokens")
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&database.UserSettings{}).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting settings")
		}
		if err := tx.Delete(&user).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting user")
		}

		return nil
	})
}

// UpdateUserPassword sets a new password for the given user
func UpdateUserPassword(db *gorm.DB, user database.User, password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return pkgErrors.Wrap(err, "hashing password")
	}

	if err := db.Model(&user).Update("password", database.ToNullString(string(hashed))).Error; err != nil {
		return pkgErrors.Wrap(err, "updating password")
	}

	return nil
}
