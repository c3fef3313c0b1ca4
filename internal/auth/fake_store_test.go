package auth

import (
	"context"
	"time"

	"github.com/yourusername/kv-session-auth/internal/storage"
)

// fakeStore は呼び出しを記録するメモリ上のストアです。
type fakeStore struct {
	sessions map[string]storage.SessionRecord
	ttls     map[string]time.Duration
	users    map[string]storage.UserCredential
	calls    []string
	err      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: make(map[string]storage.SessionRecord),
		ttls:     make(map[string]time.Duration),
		users:    make(map[string]storage.UserCredential),
	}
}

func (f *fakeStore) GetSession(ctx context.Context, token string) (*storage.SessionRecord, error) {
	f.calls = append(f.calls, "GetSession:"+token)
	if f.err != nil {
		return nil, f.err
	}
	record, ok := f.sessions[token]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (f *fakeStore) DeleteSession(ctx context.Context, token string) error {
	f.calls = append(f.calls, "DeleteSession:"+token)
	if f.err != nil {
		return f.err
	}
	delete(f.sessions, token)
	delete(f.ttls, token)
	return nil
}

func (f *fakeStore) PutSession(ctx context.Context, token string, record storage.SessionRecord, ttl time.Duration) error {
	f.calls = append(f.calls, "PutSession:"+token)
	if f.err != nil {
		return f.err
	}
	f.sessions[token] = record
	f.ttls[token] = ttl
	return nil
}

func (f *fakeStore) GetUser(ctx context.Context, username string) (*storage.UserCredential, error) {
	f.calls = append(f.calls, "GetUser:"+username)
	if f.err != nil {
		return nil, f.err
	}
	credential, ok := f.users[username]
	if !ok {
		return nil, nil
	}
	return &credential, nil
}
