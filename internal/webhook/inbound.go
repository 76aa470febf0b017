// Package webhook implements the C10 router: the inbound-message callback
// from the messaging gateway, the payment-provider notification, and the
// recruiter direct job-posting form.
package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartcvnaija/jobbroker/internal/conversation"
	httpPlatform "github.com/smartcvnaija/jobbroker/internal/platform/http"
	"github.com/smartcvnaija/jobbroker/internal/platform/messaging"
	"go.uber.org/zap"
)

// inboundPayload mirrors the messaging gateway's callback body (see §6).
type inboundPayload struct {
	Type                   string `json:"type"`
	WhatsappInboundMessage struct {
		ID   string `json:"id"`
		From string `json:"from"`
		Type string `json:"type"`
		Text struct {
			Body string `json:"body"`
		} `json:"text"`
		Document struct {
			Link     string `json:"link"`
			ID       string `json:"id"`
			Filename string `json:"filename"`
			MimeType string `json:"mime_type"`
		} `json:"document"`
		Interactive struct {
			Type        string `json:"type"`
			ButtonReply struct {
				ID    string `json:"id"`
				Title string `json:"title"`
			} `json:"button_reply"`
			ListReply struct {
				ID          string `json:"id"`
				Title       string `json:"title"`
				Description string `json:"description"`
			} `json:"list_reply"`
		} `json:"interactive"`
	} `json:"whatsappInboundMessage"`
}

// InboundHandler processes the messaging gateway's webhook callback.
type InboundHandler struct {
	orchestrator *conversation.Orchestrator
	session      *conversation.Session
	msgClient    *messaging.Client
	log          *zap.Logger
}

func NewInboundHandler(orch *conversation.Orchestrator, session *conversation.Session, msgClient *messaging.Client, log *zap.Logger) *InboundHandler {
	return &InboundHandler{orchestrator: orch, session: session, msgClient: msgClient, log: log}
}

// Handle responds 200 immediately — before any processing — so the gateway
// never retries a slow handler, then dispatches the rest of the work on a
// detached goroutine.
//
// @Summary Messaging gateway inbound callback
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /webhook/ycloud [post]
func (h *InboundHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "BAD_BODY", "could not read request body")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "received"})

	go h.process(context.WithoutCancel(c.Request.Context()), body)
}

func (h *InboundHandler) process(ctx context.Context, body []byte) {
	var payload inboundPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.log.Warn("webhook: inbound payload decode failed", zap.Error(err))
		return
	}

	msg := payload.WhatsappInboundMessage
	if msg.ID == "" || msg.From == "" {
		return
	}

	dup, err := h.session.AlreadyProcessed(ctx, msg.ID)
	if err != nil {
		h.log.Warn("webhook: dedup check failed, processing anyway", zap.Error(err))
	} else if dup {
		return
	}

	identifier := messaging.NormalizePhone(msg.From)

	switch msg.Type {
	case "text":
		text := msg.Text.Body
		if msg.Interactive.ButtonReply.ID != "" {
			text = msg.Interactive.ButtonReply.ID
		} else if msg.Interactive.ListReply.ID != "" {
			text = msg.Interactive.ListReply.ID
		}
		h.orchestrator.HandleInboundText(ctx, identifier, msg.ID, text)

	case "document":
		data, err := h.msgClient.DownloadDocument(ctx, msg.Document.ID, msg.Document.Link)
		if err != nil {
			h.log.Warn("webhook: document download failed", zap.Error(err))
			_ = h.msgClient.SendText(ctx, identifier, "I couldn't download that file. Please try uploading it again.")
			return
		}
		h.orchestrator.HandleInboundDocument(ctx, identifier, msg.ID, data, msg.Document.Filename)

	case "image", "video", "audio":
		_ = h.msgClient.SendText(ctx, identifier, "Please send your CV as a PDF or DOCX document.")

	default:
		h.log.Debug("webhook: unhandled inbound type", zap.String("type", msg.Type))
	}
}
