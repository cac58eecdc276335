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
	"gorm.io/gorm"
)

// aircraftRef carries the identifying fields an imported record may use
// to point at an aircraft. Archives are not guaranteed to carry stable
// primary keys across systems, so identity falls back through natural
// keys of decreasing specificity.
type aircraftRef struct {
	OldID        int
	SerialNumber string
	Name         string
	Manufacturer string
}

// resolveAircraft maps an imported record's aircraft reference to an
// aircraft id owned by the given user. It checks, in order: the old-id
// map built so far in this import run, the serial number, the display
// name (narrowed by manufacturer when present), and finally the user's
// first aircraft unless strict matching is enabled. It returns 0 when
// no aircraft can be found.
func (a *App) resolveAircraft(tx *gorm.DB, user database.User, ref aircraftRef, idMap map[int]int) (int, error) {
	if ref.OldID != 0 {
		if newID, ok := idMap[ref.OldID]; ok {
			return newID, nil
		}
	}

	if ref.SerialNumber != "" {
		var aircraft database.Aircraft
		err := tx.Where("user_id = ? AND serial_number = ?", user.ID, ref.SerialNumber).First(&aircraft).Error
		if err == nil {
			return aircraft.ID, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgErrors.Wrap(err, "finding aircraft by serial number")
		}
	}

	if ref.Name != "" {
		conn := tx.Where("user_id = ? AND name = ?", user.ID, ref.Name)
		if ref.Manufacturer != "" {
			conn = conn.Where("manufacturer = ?", ref.Manufacturer)
		}

		var aircraft database.Aircraft
		err := conn.First(&aircraft).Error
		if err == nil {
			return aircraft.ID, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgErrors.Wrap(err, "finding aircraft by name")
		}
	}

	if !a.StrictImportMatching {
		// Last resort: attach orphaned records to the user's first
		// aircraft rather than silently dropping them
		var aircraft database.Aircraft
		err := tx.Where("user_id = ?", user.ID).Order("id").First(&aircraft).Error
		if err == nil {
			return aircraft.ID, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgErrors.Wrap(err, "finding fallback aircraft")
		}
	}

	return 0, nil
}
