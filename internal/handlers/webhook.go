package handlers

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gitkudos/gitkudos/internal/payload"
	"github.com/gitkudos/gitkudos/internal/services"
	"github.com/gitkudos/gitkudos/pkg/config"
	"github.com/gitkudos/gitkudos/pkg/logger"
)

type eventHandler func(body []byte) error

// WebhookHandler receives GitHub webhook deliveries, verifies the signature
// and dispatches to the matching event handler.
type WebhookHandler struct {
	secret string
	routes map[string]eventHandler
}

// NewWebhookHandler creates a new WebhookHandler with its event routing
// table. Resolution tries "{event}_{action}" first and falls back to
// "{event}" alone.
func NewWebhookHandler(cfg config.GitHubConfig, webhookService *services.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		secret: cfg.WebhookSecret,
		routes: map[string]eventHandler{
			"issues":         webhookService.HandleIssues,
			"issues_labeled": webhookService.HandleIssuesLabeled,
			"pull_request":   webhookService.HandlePullRequest,
			"label":          webhookService.HandleLabel,
		},
	}
}

// Handle processes one webhook delivery
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "empty request body"})
		return
	}

	if !h.verifySignature(body, c.GetHeader("X-Hub-Signature")) {
		c.JSON(http.StatusForbidden, gin.H{"error": "signature verification failed"})
		return
	}

	event := c.GetHeader("X-GitHub-Event")
	action := payload.Action(body)

	handler, name, ok := h.resolve(event, action)
	if !ok {
		// Unknown events are expected; GitHub sends more than we score.
		logger.WithFields(map[string]interface{}{
			"event":  event,
			"action": action,
		}).Warnf("no handler registered for webhook event")
		c.JSON(http.StatusNotFound, gin.H{"error": "no handler for event"})
		return
	}

	if err := handler(body); err != nil {
		h.renderError(c, name, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *WebhookHandler) resolve(event, action string) (eventHandler, string, bool) {
	if event == "" {
		return nil, "", false
	}
	if action != "" {
		key := event + "_" + action
		if handler, ok := h.routes[key]; ok {
			return handler, key, true
		}
	}
	handler, ok := h.routes[event]
	return handler, event, ok
}

func (h *WebhookHandler) renderError(c *gin.Context, name string, err error) {
	var validationErr *payload.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.Is(err, services.ErrNotAcceptable):
		c.JSON(http.StatusNotAcceptable, gin.H{"error": err.Error()})
	default:
		logger.WithError(err).Errorf("webhook handler %s failed", name)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// verifySignature checks the X-Hub-Signature header against the HMAC-SHA1
// of the raw body under the shared secret.
func (h *WebhookHandler) verifySignature(body []byte, header string) bool {
	mac := hmac.New(sha1.New, []byte(h.secret))
	mac.Write(body)
	expected := "sha1=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(header), []byte(expected))
}
