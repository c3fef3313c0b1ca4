// Package storage はセッションとユーザー認証情報を Redis に保存します。
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "sessions:"
	userKeyPrefix    = "users:"

	// MinTTL はセッション保存時に指定できる TTL の下限です。
	MinTTL = 60 * time.Second
)

var (
	// ErrUnavailable は Redis との通信に失敗したことを表します。
	ErrUnavailable = errors.New("storage unavailable")

	// ErrCorruptRecord は保存済みの値を JSON として解釈できなかったことを表します。
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrTTLTooShort は MinTTL 未満の TTL が指定されたことを表します。
	ErrTTLTooShort = errors.New("ttl below store minimum")
)

// Store はセッションとユーザー情報を Redis に保存します。
// リトライは行いません（必要なら redis.Options 側で設定します）。
type Store struct {
	rdb *redis.Client
}

// NewStore は Store を作成します。
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// SessionKey はセッションの保存キーを返します。
func SessionKey(token string) string {
	return sessionKeyPrefix + token
}

// UserKey はユーザー情報の保存キーを返します。
func UserKey(username string) string {
	return userKeyPrefix + username
}

// PutSession はセッションを保存します（既存の場合は上書き）。
// ttl は Redis 側の自動削除のヒントで、論理的な有効期限は record.ExpiresAt です。
func (s *Store) PutSession(ctx context.Context, token string, record SessionRecord, ttl time.Duration) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}
	if ttl < MinTTL {
		return fmt.Errorf("%w: %s < %s", ErrTTLTooShort, ttl, MinTTL)
	}
	return s.put(ctx, SessionKey(token), record, ttl)
}

// GetSession はセッションを取得します。存在しない場合は nil を返します。
func (s *Store) GetSession(ctx context.Context, token string) (*SessionRecord, error) {
	var record SessionRecord
	found, err := s.get(ctx, SessionKey(token), &record)
	if err != nil || !found {
		return nil, err
	}
	return &record, nil
}

// DeleteSession はセッションを削除します。存在しないトークンでもエラーにはなりません。
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, SessionKey(token)).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

// PutUser はユーザー情報を TTL なしで保存します。
func (s *Store) PutUser(ctx context.Context, username string, credential UserCredential) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	return s.put(ctx, UserKey(username), credential, 0)
}

// GetUser はユーザー情報を取得します。存在しない場合は nil を返します。
func (s *Store) GetUser(ctx context.Context, username string) (*UserCredential, error) {
	var credential UserCredential
	found, err := s.get(ctx, UserKey(username), &credential)
	if err != nil || !found {
		return nil, err
	}
	return &credential, nil
}

// Ping は Redis への疎通を確認します。
func (s *Store) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *Store) put(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, unavailable(err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, key, err)
	}
	return true, nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
