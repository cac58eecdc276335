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

package dirs

import (
	"os/user"
	"path/filepath"
	"testing"

	"github.com/uavlog/uavlog/pkg/assert"
)

func TestReloadEnvOverride(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	t.Cleanup(Reload)

	Reload()

	assert.Equal(t, DataHome, "/custom/data", "DataHome mismatch")
}

func TestReloadDefault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	t.Cleanup(Reload)

	Reload()

	usr, err := user.Current()
	if err != nil {
		t.Fatalf("getting current user: %v", err)
	}

	assert.Equal(t, DataHome, filepath.Join(usr.HomeDir, ".local/share"), "DataHome mismatch")
}
