package notifier

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	pollTimeout = 30 * time.Second
	pollBackoff = 5 * time.Second
)

// CommandHandler is called when a user command is received.
type CommandHandler func(command string) string

type telegramUpdate struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// StartPolling long-polls for operator commands until ctx ends. Only slash
// commands from the configured chat reach handler; replies are sent through
// Notify and its retry budget.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	client := &http.Client{Timeout: pollTimeout + 5*time.Second, Transport: t.Client.Transport}
	var offset int64

	for ctx.Err() == nil {
		var updates []telegramUpdate
		payload := map[string]any{
			"offset":          offset,
			"timeout":         int(pollTimeout / time.Second),
			"allowed_updates": []string{"message"},
		}
		if err := t.call(ctx, client, "getUpdates", payload, &updates); err != nil {
			if ctx.Err() != nil {
				break
			}
			t.logger.Warn("poll updates", zap.Error(err))
			sleepCtx(ctx, pollBackoff)
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			cmd, ok := t.command(u)
			if !ok {
				continue
			}
			t.logger.Info("operator command", zap.String("command", cmd))
			if reply := handler(cmd); reply != "" {
				if err := t.Notify(ctx, reply); err != nil {
					t.logger.Error("send command reply", zap.String("command", cmd), zap.Error(err))
				}
			}
		}
	}
	t.logger.Info("telegram polling stopped")
}

// command extracts a slash command sent from the operator chat. A trailing
// @botname on the command word is dropped.
func (t *TelegramNotifier) command(u telegramUpdate) (string, bool) {
	if u.Message == nil {
		return "", false
	}
	if strconv.FormatInt(u.Message.Chat.ID, 10) != t.ChatID {
		t.logger.Warn("ignoring message from another chat", zap.Int64("chat_id", u.Message.Chat.ID))
		return "", false
	}
	fields := strings.Fields(u.Message.Text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", false
	}
	if at := strings.IndexByte(fields[0], '@'); at > 0 {
		fields[0] = fields[0][:at]
	}
	return strings.Join(fields, " "), true
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
