package auth

import (
	"crypto/rand"
	"encoding/hex"
)

const tokenBytes = 32

// GenerateToken は 32 バイトの乱数を16進文字列（64文字）にしたセッショントークンを返します。
func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
