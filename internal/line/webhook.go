package line

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/weihant/linetodo/internal/conversation"
)

// EventHandler consumes one inbound text event and produces reply intents.
type EventHandler interface {
	Handle(ctx context.Context, userID, text string) ([]conversation.Reply, error)
}

// ReplySender delivers rendered messages back to LINE.
type ReplySender interface {
	ReplyMessage(request *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
}

// Webhook is the HTTP handler for LINE webhook deliveries. Events within
// one delivery are processed sequentially; there is no ordering guarantee
// across concurrent deliveries.
type Webhook struct {
	engine        EventHandler
	sender        ReplySender
	logger        *slog.Logger
	channelSecret string
}

// WebhookOption configures the webhook handler.
type WebhookOption func(*Webhook)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) WebhookOption {
	return func(w *Webhook) {
		w.logger = logger
	}
}

// NewWebhook creates a webhook handler.
func NewWebhook(engine EventHandler, sender ReplySender, channelSecret string, opts ...WebhookOption) (*Webhook, error) {
	if engine == nil {
		return nil, errors.New("event handler is required")
	}
	if sender == nil {
		return nil, errors.New("reply sender is required")
	}
	if channelSecret == "" {
		return nil, errors.New("channel secret is required")
	}

	w := &Webhook{
		engine:        engine,
		sender:        sender,
		channelSecret: channelSecret,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// ServeHTTP parses a webhook delivery and dispatches its events. Delivery
// failures toward LINE are logged, never surfaced to the caller; LINE only
// needs a 200 to stop retrying the delivery.
func (h *Webhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	callback, err := webhook.ParseRequest(h.channelSecret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.WarnContext(r.Context(), "rejected delivery with invalid signature")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to parse webhook request",
			slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	logger := h.logger.With(slog.String("delivery_id", uuid.NewString()))

	for _, event := range callback.Events {
		h.dispatchEvent(r.Context(), logger, event)
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"message":"Hello"}`))
}

// dispatchEvent handles a single event, recovering from panics so one bad
// event cannot take down the rest of the batch.
func (h *Webhook) dispatchEvent(ctx context.Context, logger *slog.Logger, event webhook.EventInterface) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "PANIC while handling event",
				slog.Any("panic", r),
				slog.String("stack_trace", string(debug.Stack())))
		}
	}()

	messageEvent, ok := event.(webhook.MessageEvent)
	if !ok {
		logger.DebugContext(ctx, "ignoring non-message event")
		return
	}

	source, ok := messageEvent.Source.(webhook.UserSource)
	if !ok {
		logger.DebugContext(ctx, "ignoring message from non-user source")
		return
	}

	message, ok := messageEvent.Message.(webhook.TextMessageContent)
	if !ok {
		logger.DebugContext(ctx, "ignoring non-text message",
			slog.String("user_id", source.UserId))
		return
	}

	replies, err := h.engine.Handle(ctx, source.UserId, message.Text)
	if err != nil {
		logger.ErrorContext(ctx, "failed to handle message",
			slog.String("user_id", source.UserId),
			slog.Any("error", err))
		return
	}

	if len(replies) == 0 {
		return
	}

	if err := h.reply(messageEvent.ReplyToken, replies); err != nil {
		logger.ErrorContext(ctx, "failed to reply",
			slog.String("user_id", source.UserId),
			slog.Any("error", err))
	}
}

func (h *Webhook) reply(replyToken string, replies []conversation.Reply) error {
	_, err := h.sender.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   Render(replies),
	})
	if err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// HealthHandler answers liveness probes.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Hello"})
}
