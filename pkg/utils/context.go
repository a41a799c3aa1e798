package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ActorIDKey     contextKey = "actor_id"
	TokenKey       contextKey = "token"
	RequestInfoKey contextKey = "request_info"
)

// RequestInfo is attached by the access log before the handler chain runs.
// Inner middleware fill it in so the outer log line can report them.
type RequestInfo struct {
	ActorID uuid.UUID
}

func WithRequestInfo(ctx context.Context) (context.Context, *RequestInfo) {
	info := &RequestInfo{}
	return context.WithValue(ctx, RequestInfoKey, info), info
}

func GetRequestInfo(ctx context.Context) *RequestInfo {
	info, _ := ctx.Value(RequestInfoKey).(*RequestInfo)
	return info
}

// GetActorIDFromContext returns the caller identity set by the actor middleware.
func GetActorIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	actorVal := ctx.Value(ActorIDKey)
	if actorVal == nil {
		return uuid.Nil, false
	}

	actorID, ok := actorVal.(uuid.UUID)
	if !ok || actorID == uuid.Nil {
		return uuid.Nil, false
	}

	return actorID, true
}

func SetActorContext(ctx context.Context, actorID uuid.UUID) context.Context {
	if info := GetRequestInfo(ctx); info != nil {
		info.ActorID = actorID
	}
	return context.WithValue(ctx, ActorIDKey, actorID)
}

func GetTokenFromContext(ctx context.Context) (string, bool) {
	tokenVal := ctx.Value(TokenKey)
	if tokenVal == nil {
		return "", false
	}

	token, ok := tokenVal.(string)
	return token, ok
}

func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
