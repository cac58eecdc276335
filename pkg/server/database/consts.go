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

package database

const (
	// TokenTypeResetPassword is a type of a token for reseting password
	TokenTypeResetPassword = "reset_password"
)

const (
	// LightConditionDay indicates a daytime flight
	LightConditionDay = "Day"
	// LightConditionNight indicates a nighttime flight
	LightConditionNight = "Night"
)

const (
	// OpsConditionVLOS indicates a flight within visual line of sight
	OpsConditionVLOS = "VLOS"
	// OpsConditionBLOS indicates a flight beyond visual line of sight
	OpsConditionBLOS = "BLOS"
)

const (
	// PilotTypePIC indicates the pilot acted as pilot in command
	PilotTypePIC = "PIC"
	// PilotTypeDual indicates a dual-control flight
	PilotTypeDual = "Dual"
	// PilotTypeInstruction indicates an instruction flight
	PilotTypeInstruction = "Instruction"
)

// DateFormat is the layout for date fields stored as strings
const DateFormat = "2006-01-02"

// TimeFormat is the layout for time-of-day fields stored as strings
const TimeFormat = "15:04:05"

// ValidLightConditions reports whether the given value is an allowed
// light condition
func ValidLightConditions(v string) bool {
	return v == LightConditionDay || v == LightConditionNight
}

// ValidOpsConditions reports whether the given value is an allowed
// operation condition
func ValidOpsConditions(v string) bool {
	return v == OpsConditionVLOS || v == OpsConditionBLOS
}

// ValidPilotType reports whether the given value is an allowed pilot role
func ValidPilotType(v string) bool {
	return v == PilotTypePIC || v == PilotTypeDual || v == PilotTypeInstruction
}
