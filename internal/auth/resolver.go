package auth

import (
	"context"
	"time"

	"github.com/yourusername/kv-session-auth/internal/storage"
)

// Identity はセッションから導出したログイン済みユーザーです。
type Identity struct {
	Username string `json:"username"`
}

// SessionReader はセッション解決に必要なストア操作です。
type SessionReader interface {
	GetSession(ctx context.Context, token string) (*storage.SessionRecord, error)
	DeleteSession(ctx context.Context, token string) error
}

// ResolveSession はトークンからログイン済みユーザーを解決します。
// トークンが空ならストアを参照せずに nil を返します。
// 期限切れのセッションはその場でストアから削除してから nil を返します。
func ResolveSession(ctx context.Context, store SessionReader, token string, now time.Time) (*Identity, error) {
	if token == "" {
		return nil, nil
	}

	record, err := store.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	if record.Expired(now) {
		if err := store.DeleteSession(ctx, token); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return &Identity{Username: record.Username}, nil
}
