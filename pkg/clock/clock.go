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

// Package clock abstracts the system time so that time-dependent
// logic, such as reminder checks, can be tested deterministically.
package clock

import (
	"sync"
	"time"
)

// Clock tells the current time. Production code uses the real clock
// while tests substitute a Mock.
type Clock interface {
	Now() time.Time
}

type sysClock struct{}

func (c *sysClock) Now() time.Time {
	return time.Now()
}

// Mock is a manually controlled clock
type Mock struct {
	mu  sync.RWMutex
	now time.Time
}

// SetNow sets the time the mock clock reports
func (c *Mock) SetNow(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Now returns the time previously set with SetNow
func (c *Mock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// New returns a clock backed by the system time
func New() Clock {
	return &sysClock{}
}

// NewMock returns a mock clock set to a fixed point in time
func NewMock() *Mock {
	return &Mock{
		now: time.Date(2020, time.January, 1, 12, 0, 0, 0, time.UTC),
	}
}
