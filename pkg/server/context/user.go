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

// Package context carries the authenticated caller across request handlers
package context

import (
	"context"

	"github.com/uavlog/uavlog/pkg/server/database"
)

type ctxKey int

const (
	userKey ctxKey = iota
	tokenKey
)

// WithUser returns a copy of ctx carrying the authenticated user
func WithUser(ctx context.Context, user *database.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// WithToken returns a copy of ctx carrying the token the request
// authenticated with
func WithToken(ctx context.Context, tok *database.Token) context.Context {
	return context.WithValue(ctx, tokenKey, tok)
}

// User returns the authenticated user, or nil if the request is
// anonymous.
func User(ctx context.Context) *database.User {
	user, _ := ctx.Value(userKey).(*database.User)
	return user
}

// Token returns the token the request authenticated with, or nil if
// the request used a session instead.
func Token(ctx context.Context) *database.Token {
	tok, _ := ctx.Value(tokenKey).(*database.Token)
	return tok
}
