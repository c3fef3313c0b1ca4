package auth

import (
	"github.com/gin-gonic/gin"
)

// ContextUserKey はリクエスト単位で解決済み Identity を渡すためのキーです。
const ContextUserKey = "auth.identity"

// LoadSession は Cookie のトークンを解決し、結果を gin.Context に載せるミドルウェアです。
// 未ログインでも処理は続行します。ストア障害の場合は 503 で中断します。
func (h *Handler) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := h.manager.Resolve(c.Request.Context(), sessionToken(c))
		if err != nil {
			h.respondWithError(c, err)
			return
		}
		if identity != nil {
			c.Set(ContextUserKey, *identity)
		}
		c.Next()
	}
}

// RequireLogin は LoadSession で Identity が得られなかったリクエストを 401 で中断します。
func (h *Handler) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFrom(c); !ok {
			h.respondWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// IdentityFrom は LoadSession が解決した Identity を返します。
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok
}
