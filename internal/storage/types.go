package storage

import "time"

// CreatedAtLayout は createdAt の書式です（JavaScript の toISOString と同じ形）。
const CreatedAtLayout = "2006-01-02T15:04:05.000Z"

// SessionRecord は sessions:<token> に保存されるセッション情報です。
type SessionRecord struct {
	Username  string `json:"username"`
	ExpiresAt int64  `json:"expiresAt"` // Unix エポックからのミリ秒
}

// Expired は now の時点でセッションが失効しているかを返します。
// now < expiresAt の間だけ有効です。
func (r SessionRecord) Expired(now time.Time) bool {
	return now.UnixMilli() >= r.ExpiresAt
}

// UserCredential は users:<username> に保存される認証情報です。
// createdAt は外部の登録手順が書く ISO-8601 文字列で、解釈せずにそのまま保持します。
type UserCredential struct {
	PasswordHash string `json:"passwordHash"`
	CreatedAt    string `json:"createdAt"`
}
