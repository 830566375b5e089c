// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package gamestate

import "context"

// User is an authenticated platform user.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
}

// UserLookup resolves the authenticated user of a request, or nil.
type UserLookup interface {
	CurrentUser(ctx context.Context) (*User, error)
}

// Navigator moves the client to a route.
type Navigator interface {
	Navigate(path string)
}

type userKey struct{}

// WithUser attaches an authenticated user to ctx.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// ContextUsers reads the user attached with WithUser.
type ContextUsers struct{}

// CurrentUser implements UserLookup.
func (ContextUsers) CurrentUser(ctx context.Context) (*User, error) {
	u, _ := ctx.Value(userKey{}).(*User)
	return u, nil
}

// NopNavigator ignores navigation.
type NopNavigator struct{}

// Navigate implements Navigator.
func (NopNavigator) Navigate(string) {}
