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

// Package dirs resolves the base directory for user-specific data files,
// honoring the XDG base directory specification.
package dirs

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/pkg/errors"
)

// DataHome is the directory under which the server keeps its database
// and stored documents unless configured otherwise.
var DataHome string

func init() {
	Reload()
}

// Reload recomputes DataHome from the environment. Tests use it after
// changing XDG_DATA_HOME.
func Reload() {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		DataHome = dir
		return
	}

	usr, err := user.Current()
	if err != nil {
		panic(errors.Wrap(err, "getting current user"))
	}

	DataHome = filepath.Join(usr.HomeDir, ".local/share")
}
