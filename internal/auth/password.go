package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword はパスワードの SHA-256 ダイジェストを小文字の16進文字列で返します。
// ソルトも KDF も使わない決定的な変換で、cmd/createuser も同じ関数を使います。
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword は password のダイジェストが digest と一致するかを返します。
// 比較は不一致の位置に依存しない時間で行います。
func VerifyPassword(password, digest string) bool {
	candidate := HashPassword(password)
	if len(candidate) != len(digest) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1
}
