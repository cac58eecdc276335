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
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/assert"
	"github.com/uavlog/uavlog/pkg/server/database"
	"github.com/uavlog/uavlog/pkg/server/testutils"
)

func TestCreateConfigurationFile(t *testing.T) {
	t.Run("with document", func(t *testing.T) {
		a := NewTest(t)
		user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
		aircraft := testutils.SetupAircraftData(a.DB, user, "Quad X", "SN-001")

		config, err := a.CreateConfigurationFile(user, ConfigurationFileParams{
			AircraftID: aircraft.ID,
			Name:       "betaflight diff",
			UploadDate: "2024-05-10",
		}, &Attachment{
			Filename: "diff.txt",
			Content:  strings.NewReader("diff all"),
		})
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating configuration file"))
		}

		assert.Equal(t, config.Name, "betaflight diff", "name mismatch")
		assert.Equal(t, config.UploadDate, "2024-05-10", "upload date mismatch")
		assert.NotEqual(t, config.File, "", "document path should be set")
		assert.Equal(t, readStored(t, &a, config.File), "diff all", "document content mismatch")
	})

	t.Run("aircraft of another user", func(t *testing.T) {
		a := NewTest(t)
		alice := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
		bob := testutils.SetupUserData(a.DB, "bob@example.com", "pass1234")
		bobAircraft := testutils.SetupAircraftData(a.DB, bob, "Hex Y", "SN-002")

		_, err := a.CreateConfigurationFile(alice, ConfigurationFileParams{
			AircraftID: bobAircraft.ID,
			Name:       "betaflight diff",
		}, nil)
		assert.Equal(t, errors.Cause(err), ErrAircraftNotFound, "error mismatch")
	})
}

func TestUpdateConfigurationFile(t *testing.T) {
	a := NewTest(t)
	user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
	aircraft := testutils.SetupAircraftData(a.DB, user, "Quad X", "SN-001")

	config, err := a.CreateConfigurationFile(user, ConfigurationFileParams{
		AircraftID: aircraft.ID,
		Name:       "betaflight diff",
		UploadDate: "2024-05-10",
	}, &Attachment{Filename: "old.txt", Content: strings.NewReader("old dump")})
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating configuration file"))
	}
	oldPath := config.File

	updated, err := a.UpdateConfigurationFile(user, config, ConfigurationFileParams{
		AircraftID: aircraft.ID,
		Name:       "betaflight diff v2",
		UploadDate: "2024-06-01",
	}, &Attachment{Filename: "new.txt", Content: strings.NewReader("new dump")})
	if err != nil {
		t.Fatal(errors.Wrap(err, "updating configuration file"))
	}

	assert.Equal(t, updated.Name, "betaflight diff v2", "name mismatch")
	assert.Equal(t, readStored(t, &a, updated.File), "new dump", "document content mismatch")
	assert.Equal(t, a.Storage.Exists(oldPath), false, "old document should have been removed")
}

func TestDeleteConfigurationFile(t *testing.T) {
	a := NewTest(t)
	user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
	aircraft := testutils.SetupAircraftData(a.DB, user, "Quad X", "SN-001")

	config, err := a.CreateConfigurationFile(user, ConfigurationFileParams{
		AircraftID: aircraft.ID,
		Name:       "betaflight diff",
	}, &Attachment{Filename: "diff.txt", Content: strings.NewReader("diff all")})
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating configuration file"))
	}

	if err := a.DeleteConfigurationFile(user, config); err != nil {
		t.Fatal(errors.Wrap(err, "deleting configuration file"))
	}

	var count int64
	testutils.MustExec(t, a.DB.Model(&database.ConfigurationFile{}).Count(&count), "counting configuration files")
	assert.Equal(t, count, int64(0), "configuration file count mismatch")
	assert.Equal(t, a.Storage.Exists(config.File), false, "document should have been removed")
}

func TestGetConfigurationFile(t *testing.T) {
	a := NewTest(t)
	alice := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
	bob := testutils.SetupUserData(a.DB, "bob@example.com", "pass1234")
	aircraft := testutils.SetupAircraftData(a.DB, alice, "Quad X", "SN-001")

	config, err := a.CreateConfigurationFile(alice, ConfigurationFileParams{
		AircraftID: aircraft.ID,
		Name:       "betaflight diff",
	}, nil)
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating configuration file"))
	}

	found, err := a.GetConfigurationFile(alice, config.ID)
	if err != nil {
		t.Fatal(errors.Wrap(err, "finding configuration file"))
	}
	assert.Equal(t, found.Name, "betaflight diff", "name mismatch")

	_, err = a.GetConfigurationFile(bob, config.ID)
	assert.Equal(t, errors.Cause(err), ErrConfigurationFileNotFound, "error mismatch")
}

func TestListConfigurationFiles(t *testing.T) {
	a := NewTest(t)
	user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
	quad := testutils.SetupAircraftData(a.DB, user, "Quad X", "SN-001")
	hex := testutils.SetupAircraftData(a.DB, user, "Hex Y", "SN-002")

	for _, name := range []string{"quad diff", "quad backup"} {
		if _, err := a.CreateConfigurationFile(user, ConfigurationFileParams{AircraftID: quad.ID, Name: name}, nil); err != nil {
			t.Fatal(errors.Wrap(err, "preparing configuration file"))
		}
	}
	if _, err := a.CreateConfigurationFile(user, ConfigurationFileParams{AircraftID: hex.ID, Name: "hex diff"}, nil); err != nil {
		t.Fatal(errors.Wrap(err, "preparing configuration file"))
	}

	all, err := a.ListConfigurationFiles(user, 0)
	if err != nil {
		t.Fatal(errors.Wrap(err, "listing configuration files"))
	}
	assert.Equal(t, len(all), 3, "configuration file count mismatch")

	forQuad, err := a.ListConfigurationFiles(user, quad.ID)
	if err != nil {
		t.Fatal(errors.Wrap(err, "listing configuration files for aircraft"))
	}
	assert.Equal(t, len(forQuad), 2, "filtered configuration file count mismatch")
}
