package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/askage/askage-service/internal/domain"
	"github.com/askage/askage-service/internal/helper"
	"github.com/askage/askage-service/internal/log"
	"github.com/askage/askage-service/internal/metrics"
	"github.com/askage/askage-service/internal/oauth"
	"github.com/askage/askage-service/internal/queue"
	"github.com/askage/askage-service/internal/repo"
	"github.com/askage/askage-service/internal/security"
)

type Handler struct {
	Store           *repo.Store
	Google          *oauth.Google
	Redis           *repo.Redis
	RateLimitPerMin int
	Events          queue.Publisher
}

func NewHandler(store *repo.Store, google *oauth.Google, rds *repo.Redis, rlPerMin int, pub queue.Publisher) *Handler {
	if pub == nil {
		pub = queue.NewNoop()
	}
	return &Handler{
		Store:           store,
		Google:          google,
		Redis:           rds,
		RateLimitPerMin: rlPerMin,
		Events:          pub,
	}
}

// storeStatus maps the repo error taxonomy to transport codes. NotFound
// deliberately covers "not yours" too.
func storeStatus(err error) int {
	switch {
	case errors.Is(err, repo.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, repo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repo.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) Healthz(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GoogleLogin godoc
// @Summary Start Google login
// @Tags auth
// @Success 302
// @Router /api/auth/google/login [get]
func (h *Handler) GoogleLogin(c *gin.Context) {
	state := h.Google.MakeState(uuid.NewString())
	c.Redirect(http.StatusFound, h.Google.AuthURL(state))
}

// GoogleCallback godoc
// @Summary Google OAuth callback
// @Tags auth
// @Produce json
// @Param state query string true "HMAC state"
// @Param code query string true "authorization code"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/auth/google/callback [get]
func (h *Handler) GoogleCallback(c *gin.Context) {
	if !h.Google.VerifyState(c.Query("state")) {
		metrics.LoginsTotal.WithLabelValues("bad_state").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "bad state"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}

	ident, err := h.Google.Exchange(c.Request.Context(), code)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("exchange_failed").Inc()
		log.L().Warn("google exchange failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "exchange failed"})
		return
	}

	cred, err := h.Store.RegisterGoogleUser(c.Request.Context(), ident.Sub, ident.Email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("store_failed").Inc()
		log.L().Error("register google user", zap.Error(err),
			zap.String("sub", helper.Hash8(ident.Sub)))
		c.JSON(storeStatus(err), gin.H{"error": "login failed"})
		return
	}

	uid, _, _ := security.SplitCredential(cred)
	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	// detach from the request context: it is canceled as soon as the handler
	// returns, which would kill the publish mid-flight
	go h.Events.Publish(context.WithoutCancel(c.Request.Context()), queue.Exchange, queue.KeyUserLoggedIn,
		queue.UserLoggedIn{UserID: uid, Email: ident.Email},
		c.GetString(requestIDKey))

	c.JSON(http.StatusOK, gin.H{"auth_token": cred})
}

type createConversationReq struct {
	Suggestions []string `json:"suggestions"`
}

// CreateConversation godoc
// @Summary Create a conversation
// @Tags conversations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body createConversationReq true "create"
// @Success 201 {object} map[string]string
// @Router /api/conversations [post]
func (h *Handler) CreateConversation(c *gin.Context) {
	var in createConversationReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	uid := c.GetString(authUserKey)

	id, err := h.Store.NewConversation(c.Request.Context(), uid, in.Suggestions)
	if err != nil {
		log.L().Error("create conversation", zap.Error(err))
		c.JSON(storeStatus(err), gin.H{"error": "create failed"})
		return
	}

	metrics.ConversationsCreated.Inc()
	go h.Events.Publish(context.WithoutCancel(c.Request.Context()), queue.Exchange, queue.KeyConversationCreated,
		queue.ConversationCreated{UserID: uid, ConversationID: id, Suggestions: len(in.Suggestions)},
		c.GetString(requestIDKey))

	c.JSON(http.StatusCreated, gin.H{"conversation_id": id})
}

func (h *Handler) GetHistory(c *gin.Context) {
	uid := c.GetString(authUserKey)
	hist, err := h.Store.GetChatHistory(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		c.JSON(storeStatus(err), gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": hist})
}

type updateHistoryReq struct {
	History []domain.Message `json:"history"`
}

// UpdateHistory replaces the whole history. Keeping the seeded system
// message at history[0] is this caller's job, so a replacement that drops
// or displaces it is rejected before it reaches the store.
func (h *Handler) UpdateHistory(c *gin.Context) {
	var in updateHistoryReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(in.History) == 0 || in.History[0].Role != domain.RoleSystem {
		c.JSON(http.StatusBadRequest, gin.H{"error": "history must start with the system message"})
		return
	}
	for _, m := range in.History {
		if !domain.ValidRole(m.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role: " + m.Role})
			return
		}
	}

	uid := c.GetString(authUserKey)
	updated, err := h.Store.UpdateChatHistory(c.Request.Context(), uid, c.Param("id"), in.History)
	if err != nil {
		log.L().Error("update history", zap.Error(err))
		c.JSON(storeStatus(err), gin.H{"error": "update failed"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetSuggestions(c *gin.Context) {
	uid := c.GetString(authUserKey)
	sugg, err := h.Store.GetPromptSuggestions(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		c.JSON(storeStatus(err), gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prompt_suggestions": sugg})
}
