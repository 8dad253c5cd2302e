package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Mailer はメール送信の約束。checkoutからはベストエフォートで使う。
type Mailer interface {
	Send(ctx context.Context, to string, subject string, body string) error
}

// HTTPMailer は外部のメール配信サービスにPOSTする実装。
type HTTPMailer struct {
	baseURL string
	from    string
	client  *http.Client
	logger  *zap.Logger
}

func NewHTTPMailer(baseURL string, from string, logger *zap.Logger) *HTTPMailer {
	return &HTTPMailer{
		baseURL: baseURL,
		from:    from,
		client:  &http.Client{Timeout: 5 * time.Second},
		logger:  logger,
	}
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (m *HTTPMailer) Send(ctx context.Context, to string, subject string, body string) error {
	payload, err := json.Marshal(sendRequest{
		From:    m.from,
		To:      to,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/send", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return fmt.Errorf("mail service returned %d", res.StatusCode)
	}
	return nil
}

// NopMailer はメールサービス未設定のとき用。ログだけ出して成功扱い。
type NopMailer struct {
	logger *zap.Logger
}

func NewNopMailer(logger *zap.Logger) *NopMailer {
	return &NopMailer{logger: logger}
}

func (m *NopMailer) Send(ctx context.Context, to string, subject string, body string) error {
	m.logger.Info("mail skipped (no mail service configured)",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
