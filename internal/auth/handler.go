package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/kv-session-auth/internal/storage"
)

// Handler は Manager を HTTP（gin）に公開します。
type Handler struct {
	manager *Manager
	logger  *slog.Logger
}

// NewHandler はハンドラーを作成します。logger が nil の場合は slog.Default を使います。
func NewHandler(manager *Manager, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{manager: manager, logger: logger}
}

// RegisterRoutes は /login, /logout, /me を登録します。
// グループ内のすべてのリクエストで LoadSession がセッションを解決します。
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.Use(h.LoadSession())
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.GET("/me", h.RequireLogin(), h.Me)
}

type loginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// Login は POST /api/login のハンドラーです。
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := decodeLoginRequest(c, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			h.respondWithError(c, &ValidationError{Field: typeErr.Field, Message: msgCredentialsRequired})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidJSON})
		return
	}
	if req.Username == nil || req.Password == nil {
		h.respondWithError(c, &ValidationError{Message: msgCredentialsRequired})
		return
	}

	session, err := h.manager.Login(c.Request.Context(), *req.Username, *req.Password)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	c.Header("Set-Cookie", sessionCookie(session.Token, h.manager.SessionMaxAgeSeconds()))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Logout は POST /api/logout のハンドラーです。
// セッションの有無にかかわらず Cookie を消して成功を返します。
func (h *Handler) Logout(c *gin.Context) {
	err := h.manager.Logout(c.Request.Context(), sessionToken(c))
	c.Header("Set-Cookie", sessionCookie("", 0))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me は GET /api/me のハンドラーです。LoadSession の後に置きます。
func (h *Handler) Me(c *gin.Context) {
	identity, ok := IdentityFrom(c)
	if !ok {
		h.respondWithError(c, ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": identity.Username})
}

func (h *Handler) respondWithError(c *gin.Context, err error) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.Is(err, ErrInvalidInput):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msgCredentialsRequired})
	case errors.Is(err, ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
	case errors.Is(err, ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgUnauthorized})
	case errors.Is(err, storage.ErrUnavailable), errors.Is(err, storage.ErrCorruptRecord):
		h.logger.ErrorContext(c.Request.Context(), "session store failure",
			"path", c.Request.URL.Path,
			"error", err,
		)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": msgUnavailable})
	default:
		h.logger.ErrorContext(c.Request.Context(), "auth request failed",
			"path", c.Request.URL.Path,
			"error", err,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
	}
}

// decodeLoginRequest はボディ全体を1つの JSON 値として読み込みます。
// 後ろに余分なデータが続く場合もエラーです。
func decodeLoginRequest(c *gin.Context, req *loginRequest) error {
	if c.Request.Body == nil {
		return io.EOF
	}
	dec := json.NewDecoder(c.Request.Body)
	if err := dec.Decode(req); err != nil {
		return err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return errTrailingData
	}
	return nil
}

var errTrailingData = errors.New("unexpected data after JSON body")

// sessionCookie は Set-Cookie ヘッダーの値を組み立てます。token が空なら削除用です。
func sessionCookie(token string, maxAge int) string {
	return fmt.Sprintf("%s=%s; Path=/; HttpOnly; Secure; SameSite=Strict; Max-Age=%d", SessionCookieName, token, maxAge)
}

// sessionToken は Cookie からトークンを取り出します。空の値は未指定と同じ扱いです。
func sessionToken(c *gin.Context) string {
	token, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return token
}
