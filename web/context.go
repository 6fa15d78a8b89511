package web

import (
	"context"

	"github.com/artpar/showroom/domain/auth"
)

type contextKey int

const userKey contextKey = iota

func withUser(ctx context.Context, u auth.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func userFrom(ctx context.Context) (auth.User, bool) {
	u, ok := ctx.Value(userKey).(auth.User)
	return u, ok
}
