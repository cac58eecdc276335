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

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/uavlog/uavlog/pkg/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	mu.Lock()
	orig := output
	output = &buf
	mu.Unlock()

	t.Cleanup(func() {
		mu.Lock()
		output = orig
		mu.Unlock()
	})

	return &buf
}

func TestSetLevel(t *testing.T) {
	defer SetLevel(LevelInfo)

	testCases := []struct {
		minLevel string
		level    string
		expected bool
	}{
		{LevelDebug, LevelDebug, true},
		{LevelDebug, LevelError, true},
		{LevelInfo, LevelDebug, false},
		{LevelInfo, LevelInfo, true},
		{LevelWarn, LevelInfo, false},
		{LevelWarn, LevelError, true},
		{LevelError, LevelWarn, false},
		{LevelError, LevelError, true},
	}

	for _, tc := range testCases {
		SetLevel(tc.minLevel)

		assert.Equal(t, enabled(tc.level), tc.expected, "enabled mismatch for min "+tc.minLevel+" level "+tc.level)
	}
}

func TestSetLevelUnknown(t *testing.T) {
	defer SetLevel(LevelInfo)

	SetLevel("verbose")

	assert.Equal(t, enabled(LevelInfo), true, "unknown level should fall back to info")
	assert.Equal(t, enabled(LevelDebug), false, "unknown level should fall back to info")
}

func TestWrite(t *testing.T) {
	defer SetLevel(LevelInfo)
	buf := captureOutput(t)

	WithFields(Fields{"user_id": 8}).Info("session created")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("unmarshaling log line: %v", err)
	}

	assert.Equal(t, line["level"], "info", "level mismatch")
	assert.Equal(t, line["msg"], "session created", "msg mismatch")
	assert.Equal(t, line["user_id"], float64(8), "user_id mismatch")

	if _, ok := line["ts_unix"]; !ok {
		t.Errorf("expected ts_unix field")
	}
}

func TestWriteBelowLevel(t *testing.T) {
	defer SetLevel(LevelInfo)
	buf := captureOutput(t)

	Debug("not shown")

	assert.Equal(t, buf.Len(), 0, "debug line should have been suppressed")
}
