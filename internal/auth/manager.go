// Package auth はパスワード認証とセッションの発行・検証・破棄を提供します。
package auth

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/yourusername/kv-session-auth/internal/storage"
)

const (
	// SessionCookieName はセッショントークンを運ぶ Cookie 名です。
	SessionCookieName = "session_token"

	// DefaultSessionTTL はセッションの有効期間です。
	DefaultSessionTTL = 24 * time.Hour

	// UsernameMaxLength はユーザー名の最大文字数です。
	UsernameMaxLength = 64
)

// Store は Manager が利用するストア操作です。storage.Store が実装します。
type Store interface {
	SessionReader
	PutSession(ctx context.Context, token string, record storage.SessionRecord, ttl time.Duration) error
	GetUser(ctx context.Context, username string) (*storage.UserCredential, error)
}

// Session はログイン成功時に発行されたセッションです。
type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

// Manager はログイン・ログアウト・セッション解決をまとめた構造体です。
// リクエスト間で共有する可変状態は持ちません。
type Manager struct {
	store    Store
	ttl      time.Duration
	now      func() time.Time
	newToken func() (string, error)
}

// Option は Manager の設定を変更します。
type Option func(*Manager)

// WithSessionTTL はセッションの有効期間を設定します。storage.MinTTL 未満は無視します。
func WithSessionTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl >= storage.MinTTL {
			m.ttl = ttl
		}
	}
}

// WithClock は現在時刻の取得方法を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithTokenGenerator はトークン生成を差し替えます。
func WithTokenGenerator(gen func() (string, error)) Option {
	return func(m *Manager) {
		if gen != nil {
			m.newToken = gen
		}
	}
}

// NewManager は認証マネージャーを作成します。
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		ttl:      DefaultSessionTTL,
		now:      time.Now,
		newToken: GenerateToken,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SessionMaxAgeSeconds は Cookie の Max-Age に使う秒数を返します。
func (m *Manager) SessionMaxAgeSeconds() int {
	return int(m.ttl.Seconds())
}

// Login は認証情報を検証し、成功したら新しいセッションを保存して返します。
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	if err := ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	credential, err := m.store.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if credential == nil {
		// 存在しないユーザーでも同じ比較処理を通す
		VerifyPassword(password, unknownUserDigest)
		return nil, ErrInvalidCredentials
	}
	if !VerifyPassword(password, credential.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := m.newToken()
	if err != nil {
		return nil, err
	}

	expiresAt := m.now().Add(m.ttl)
	record := storage.SessionRecord{
		Username:  username,
		ExpiresAt: expiresAt.UnixMilli(),
	}
	if err := m.store.PutSession(ctx, token, record, m.ttl); err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		Username:  username,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout はセッションを削除します。トークンが空、または存在しない場合も成功扱いです。
func (m *Manager) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.DeleteSession(ctx, token)
}

// Resolve は現在時刻でトークンを解決します。
func (m *Manager) Resolve(ctx context.Context, token string) (*Identity, error) {
	return ResolveSession(ctx, m.store, token, m.now())
}

// ValidateCredentials はログイン入力を検証し、最初に見つかった問題を返します。
func ValidateCredentials(username, password string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	if password == "" {
		return &ValidationError{Field: "password", Message: msgCredentialsRequired}
	}
	return nil
}

// ValidateUsername はユーザー名が空でなく UsernameMaxLength 文字以内かを検証します。
func ValidateUsername(username string) error {
	if username == "" || utf8.RuneCountInString(username) > UsernameMaxLength {
		return &ValidationError{Field: "username", Message: msgCredentialsRequired}
	}
	return nil
}

var unknownUserDigest = HashPassword("")
