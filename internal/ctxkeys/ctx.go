package ctxkeys

import (
	"context"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	TokenKey  contextKey = "token"
	ClientKey contextKey = "client_ip"
)

// Token returns the session token sent with the request, empty if none.
func Token(ctx context.Context) string {
	token, _ := ctx.Value(TokenKey).(string)
	return token
}

func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}

func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ClientKey).(string)
	return ip
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ClientKey, ip)
}
