package auth

import "context"

type contextKey string

const userIDContextKey contextKey = "plannerUserID"

// WithUserID кладёт ID пользователя в контекст
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext достаёт ID пользователя, если запрос аутентифицирован
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDContextKey).(int64)
	return id, ok && id != 0
}
