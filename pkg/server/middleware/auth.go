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

package middleware

import (
	"errors"
	"net/http"
	"time"

	pkgErrors "github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/server/context"
	"github.com/uavlog/uavlog/pkg/server/database"
	"github.com/uavlog/uavlog/pkg/server/log"
	"gorm.io/gorm"
)

// usedTokenGracePeriod is how long a consumed one-time token keeps
// authenticating requests, so that a user can retry a failed submit.
const usedTokenGracePeriod = 10 * time.Minute

// Auth guards the handler, requiring a valid session
func Auth(db *gorm.DB, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok, err := AuthWithSession(db, r)
		if err != nil {
			DoError(w, "authenticating with session", err, http.StatusInternalServerError)
			return
		}
		if !ok {
			RespondUnauthorized(w)
			return
		}

		ctx := context.WithUser(r.Context(), &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// TokenAuth guards the handler, accepting a one-time token of the
// given type or falling back to session auth.
func TokenAuth(db *gorm.DB, next http.HandlerFunc, tokenType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, token, ok, err := authWithToken(db, r, tokenType)
		if err != nil {
			// log the error and fall through to session auth
			log.ErrorWrap(err, "authenticating with token")
		}

		ctx := r.Context()

		if ok {
			ctx = context.WithToken(ctx, &token)
		} else {
			user, ok, err = AuthWithSession(db, r)
			if err != nil {
				DoError(w, "authenticating with session", err, http.StatusInternalServerError)
				return
			}
			if !ok {
				RespondUnauthorized(w)
				return
			}
		}

		ctx = context.WithUser(ctx, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func authWithToken(db *gorm.DB, r *http.Request, tokenType string) (database.User, database.Token, bool, error) {
	var user database.User
	var token database.Token

	tokenValue := r.URL.Query().Get("token")
	if tokenValue == "" {
		return user, token, false, nil
	}

	err := db.Where("value = ? AND type = ?", tokenValue, tokenType).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, token, false, nil
	} else if err != nil {
		return user, token, false, pkgErrors.Wrap(err, "finding token")
	}

	if token.UsedAt != nil && time.Since(*token.UsedAt) > usedTokenGracePeriod {
		return user, token, false, nil
	}

	if err := db.Where("id = ?", token.UserID).First(&user).Error; err != nil {
		return user, token, false, pkgErrors.Wrap(err, "finding user")
	}

	return user, token, true, nil
}

// AuthWithSession resolves the request's session credential to a user.
// A successful lookup refreshes the session's last used timestamp.
func AuthWithSession(db *gorm.DB, r *http.Request) (database.User, bool, error) {
	var user database.User

	sessionKey, err := GetCredential(r)
	if err != nil {
		return user, false, pkgErrors.Wrap(err, "getting credential")
	}
	if sessionKey == "" {
		return user, false, nil
	}

	var session database.Session
	err = db.Where("key = ?", sessionKey).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, false, nil
	} else if err != nil {
		return user, false, pkgErrors.Wrap(err, "finding session")
	}

	if session.ExpiresAt.Before(time.Now()) {
		return user, false, nil
	}

	err = db.Where("id = ?", session.UserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, false, nil
	} else if err != nil {
		return user, false, pkgErrors.Wrap(err, "finding user from session")
	}

	if err := db.Model(&session).Update("last_used_at", time.Now()).Error; err != nil {
		// not fatal, the session still authenticates
		log.ErrorWrap(err, "refreshing session last used timestamp")
	}

	return user, true, nil
}
