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

// Package middleware provides HTTP middleware for the server
package middleware

import (
	"net/http"
	"strings"

	"github.com/uavlog/uavlog/pkg/server/log"
)

// sessionCookieName is the cookie carrying the session key
const sessionCookieName = "uavlog_session"

// GetCredential extracts the session key from the Authorization header
// or, failing that, the session cookie. An empty key means the request
// is unauthenticated.
func GetCredential(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1], nil
		}
	}

	cookie, err := r.Cookie(sessionCookieName)
	if err == http.ErrNoCookie {
		return "", nil
	} else if err != nil {
		return "", err
	}

	return cookie.Value, nil
}

// RespondUnauthorized responds with 401
func RespondUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="uavlog"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

// DoError logs the error and responds with the given status
func DoError(w http.ResponseWriter, msg string, err error, statusCode int) {
	log.ErrorWrap(err, msg)
	http.Error(w, msg, statusCode)
}
