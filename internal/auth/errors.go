package auth

import "errors"

const (
	msgCredentialsRequired = "username and password are required"
	msgInvalidJSON         = "Invalid JSON"
	msgInvalidCredentials  = "ユーザー名またはパスワードが正しくありません"
	msgUnauthorized        = "Unauthorized"
	msgUnavailable         = "Service Unavailable"
	msgInternal            = "Internal Server Error"
)

var (
	// ErrInvalidInput は入力値が不正であることを表します。
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials はユーザー名またはパスワードが一致しないことを表します。
	// 存在しないユーザーと誤ったパスワードを区別しません。
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized は有効なセッションがないことを表します。
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError は入力チェックで最初に見つかった問題を表します。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
