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

// Package log writes structured JSON log lines to standard error
package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Log levels, in increasing order of severity.
const (
	// LevelDebug represents debug log level
	LevelDebug = "debug"
	// LevelInfo represents info log level
	LevelInfo = "info"
	// LevelWarn represents warn log level
	LevelWarn = "warn"
	// LevelError represents error log level
	LevelError = "error"
)

var severities = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

var (
	mu       sync.Mutex
	minLevel = LevelInfo
	output   io.Writer = os.Stderr
)

// SetLevel sets the minimum level that gets written. Unknown level
// names fall back to info.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()

	if _, ok := severities[level]; !ok {
		level = LevelInfo
	}
	minLevel = level
}

func enabled(level string) bool {
	mu.Lock()
	defer mu.Unlock()

	return severities[level] >= severities[minLevel]
}

// Fields holds contextual values attached to a log line
type Fields map[string]interface{}

// Entry is a log line in the making
type Entry struct {
	Fields    Fields
	Timestamp time.Time
}

// WithFields starts an entry carrying the given fields
func WithFields(fields Fields) Entry {
	return Entry{
		Fields:    fields,
		Timestamp: time.Now().UTC(),
	}
}

// Debug writes the entry at debug level
func (e Entry) Debug(msg string) {
	e.write(LevelDebug, msg)
}

// Info writes the entry at info level
func (e Entry) Info(msg string) {
	e.write(LevelInfo, msg)
}

// Warn writes the entry at warn level
func (e Entry) Warn(msg string) {
	e.write(LevelWarn, msg)
}

// Error writes the entry at error level
func (e Entry) Error(msg string) {
	e.write(LevelError, msg)
}

// ErrorWrap writes the entry at error level with the error appended
// to the message
func (e Entry) ErrorWrap(err error, msg string) {
	e.Error(fmt.Sprintf("%s: %v", msg, err))
}

func (e Entry) write(level, msg string) {
	if !enabled(level) {
		return
	}

	line := make(map[string]interface{}, len(e.Fields)+4)
	line["level"] = level
	line["msg"] = msg
	line["ts"] = e.Timestamp
	line["ts_unix"] = e.Timestamp.Unix()

	for k, v := range e.Fields {
		if err, ok := v.(error); ok {
			line[k] = err.Error()
			continue
		}
		line[k] = v
	}

	serialized, err := json.Marshal(line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshaling log line: %v\n", err)
		return
	}

	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(output, string(serialized))
}

// Debug writes a debug message without fields
func Debug(msg string) {
	WithFields(nil).Debug(msg)
}

// Info writes an info message without fields
func Info(msg string) {
	WithFields(nil).Info(msg)
}

// Error writes an error message without fields
func Error(msg string) {
	WithFields(nil).Error(msg)
}

// ErrorWrap writes an error message without fields, with the error
// appended to the message
func ErrorWrap(err error, msg string) {
	WithFields(nil).ErrorWrap(err, msg)
}
