package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client клиент для отправки уведомлений мастерам через Telegram Bot API.
// Уведомления не критичны для бизнес-операций: вызывающий слой шлёт их
// в фоне и не откатывает запись при ошибке доставки.
type Client struct {
	apiURL     string
	botToken   string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента уведомлений
func NewClient(apiURL, botToken string, timeout time.Duration, log Logger) *Client {
	return &Client{
		apiURL:   apiURL,
		botToken: botToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendMessage отправляет текстовое сообщение в чат
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, c.botToken)

	payload, err := json.Marshal(sendMessageRequest{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	var result sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if !result.OK {
		return fmt.Errorf("%w: telegram error %d: %s", ErrInvalidResponse, result.ErrorCode, result.Description)
	}

	return nil
}

// NotifyAsync отправляет сообщение в фоне, не блокируя вызывающего.
// Ошибка доставки только логируется.
func (c *Client) NotifyAsync(chatID int64, text string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.httpClient.Timeout)
		defer cancel()

		if err := c.SendMessage(ctx, chatID, text); err != nil {
			c.log.Error("Failed to send notification to chat_id=%d: %v", chatID, err)
			return
		}
		c.log.Info("Notification sent to chat_id=%d", chatID)
	}()
}
