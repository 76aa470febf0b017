package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartcvnaija/jobbroker/internal/config"
	"github.com/smartcvnaija/jobbroker/internal/conversation"
	httpPlatform "github.com/smartcvnaija/jobbroker/internal/platform/http"
	"github.com/smartcvnaija/jobbroker/internal/platform/mailer"
	"github.com/smartcvnaija/jobbroker/internal/platform/messaging"
	"github.com/smartcvnaija/jobbroker/modules/dailyusage/service"
	"go.uber.org/zap"
)

// tierByPrefix maps a payment reference's prefix to the quota tier it
// unlocks; the legacy daily_ prefix predates the quick/auto split but still
// arrives from older payment links still in circulation.
var tierByPrefix = map[string]string{
	"auto":  "UNLIM",
	"quick": "PLUS",
	"daily": "BASIC",
}

type chargeEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Status    string `json:"status"`
		Customer  struct {
			Email string `json:"email"`
		} `json:"customer"`
	} `json:"data"`
}

// PaymentHandler verifies and processes payment-provider webhook callbacks.
type PaymentHandler struct {
	cfg          config.PaymentConfig
	usage        *service.DailyUsageService
	session      *conversation.Session
	orchestrator *conversation.Orchestrator
	msgClient    *messaging.Client
	alerts       *mailer.AlertChannel
	httpClient   *http.Client
	log          *zap.Logger
}

func NewPaymentHandler(
	cfg config.PaymentConfig,
	usage *service.DailyUsageService,
	session *conversation.Session,
	orch *conversation.Orchestrator,
	msgClient *messaging.Client,
	alerts *mailer.AlertChannel,
	log *zap.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		cfg:          cfg,
		usage:        usage,
		session:      session,
		orchestrator: orch,
		msgClient:    msgClient,
		alerts:       alerts,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		log:          log,
	}
}

// Handle verifies the provider's HMAC signature, filters to charge.success
// events, and routes by the reference prefix.
//
// @Summary Payment provider webhook
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Router /webhook/paystack [post]
func (h *PaymentHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "BAD_BODY", "could not read request body")
		return
	}

	signature := c.GetHeader(h.cfg.SignatureHead)
	if signature == "" || !h.validSignature(body, signature) {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "BAD_SIGNATURE", "signature verification failed")
		return
	}

	var event chargeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "BAD_PAYLOAD", "could not parse event payload")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})

	if event.Event != "charge.success" {
		return
	}

	go h.process(context.WithoutCancel(c.Request.Context()), event)
}

func (h *PaymentHandler) validSignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(h.cfg.Secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

func (h *PaymentHandler) process(ctx context.Context, event chargeEvent) {
	reference := event.Data.Reference
	tier, identifier, err := parseReference(reference)
	if err != nil {
		h.log.Warn("webhook: unrecognized payment reference", zap.String("reference", reference), zap.Error(err))
		h.notifyAlert(ctx, "unrecognized payment reference", fmt.Sprintf("reference=%s amount=%d", reference, event.Data.Amount))
		return
	}

	if ok, err := h.verifyWithProvider(ctx, reference); err != nil || !ok {
		h.log.Warn("webhook: provider verification failed", zap.String("reference", reference), zap.Error(err))
		h.notifyAlert(ctx, "payment provider verification failed", fmt.Sprintf("reference=%s err=%v", reference, err))
		return
	}

	if err := h.usage.GrantTier(ctx, identifier, tier, reference); err != nil {
		h.log.Error("webhook: failed to grant quota tier", zap.String("identifier", identifier), zap.Error(err))
		h.notifyAlert(ctx, "quota grant failed", fmt.Sprintf("identifier=%s reference=%s err=%v", identifier, reference, err))
		return
	}

	pending, err := h.session.PendingJobs(ctx, identifier)
	if err != nil {
		h.log.Warn("webhook: failed to read pending jobs", zap.Error(err))
	}
	if len(pending) > 0 {
		time.Sleep(2 * time.Second)
		h.orchestrator.HandlePaymentCompleted(ctx, identifier)
		return
	}

	if err := h.msgClient.SendText(ctx, identifier, "Payment received! You're all set to keep applying."); err != nil {
		h.log.Warn("webhook: payment confirmation send failed", zap.Error(err))
	}
}

// parseReference splits a reference of the form "{prefix}_{uuid}_{phone}"
// into its tier and the target phone identifier.
func parseReference(reference string) (tier, identifier string, err error) {
	parts := strings.Split(reference, "_")
	if len(parts) < 3 {
		return "", "", fmt.Errorf("malformed reference %q", reference)
	}
	tier, ok := tierByPrefix[parts[0]]
	if !ok {
		return "", "", fmt.Errorf("unknown reference prefix %q", parts[0])
	}
	identifier = messaging.NormalizePhone(parts[len(parts)-1])
	return tier, identifier, nil
}

func (h *PaymentHandler) verifyWithProvider(ctx context.Context, reference string) (bool, error) {
	if h.cfg.VerifyURL == "" {
		return true, nil
	}
	url := strings.TrimSuffix(h.cfg.VerifyURL, "/") + "/" + reference
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+h.cfg.Secret)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("verify endpoint returned %d", resp.StatusCode)
	}

	var body struct {
		Status bool `json:"status"`
		Data   struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}
	return body.Status && body.Data.Status == "success", nil
}

func (h *PaymentHandler) notifyAlert(ctx context.Context, subject, body string) {
	if err := h.alerts.Notify(ctx, subject, body); err != nil {
		h.log.Warn("webhook: failed to send operator alert", zap.Error(err))
	}
}
