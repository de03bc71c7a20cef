package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"kidsweek-go/internal/config"
	"kidsweek-go/internal/domain/notification"
	"kidsweek-go/pkg/logger"
)

const chunkSize = 100

// Expo sends batched push notifications through the Expo push HTTP API.
// Invalid tokens are filtered client-side and rejected tickets are reported
// per token, so a bad device registration never fails the batch.
type Expo struct {
	url    string
	client *http.Client
	log    logger.Logger
}

func NewExpo(cfg config.PushConfig, log logger.Logger) *Expo {
	return &Expo{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

type expoMessage struct {
	To    string            `json:"to"`
	Sound string            `json:"sound"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Badge int               `json:"badge"`
}

type expoTicket struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type expoResponse struct {
	Data []expoTicket `json:"data"`
}

func (e *Expo) SendBatch(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]notification.PushResult, error) {
	valid := make([]string, 0, len(tokens))
	results := make([]notification.PushResult, 0, len(tokens))
	for _, token := range tokens {
		if !isExpoToken(token) {
			results = append(results, notification.PushResult{Token: token, OK: false, Detail: "not an Expo push token"})
			continue
		}
		valid = append(valid, token)
	}
	if len(valid) == 0 {
		return results, nil
	}

	for start := 0; start < len(valid); start += chunkSize {
		end := start + chunkSize
		if end > len(valid) {
			end = len(valid)
		}
		chunk := valid[start:end]

		tickets, err := e.sendChunk(ctx, chunk, title, body, data)
		if err != nil {
			// One failed chunk must not block sibling chunks.
			e.log.InternalError("push: chunk send failed", err, "size", len(chunk))
			for _, token := range chunk {
				results = append(results, notification.PushResult{Token: token, OK: false, Detail: err.Error()})
			}
			continue
		}

		for i, token := range chunk {
			result := notification.PushResult{Token: token, OK: true}
			if i < len(tickets) && tickets[i].Status == "error" {
				result.OK = false
				result.Detail = tickets[i].Message
			}
			results = append(results, result)
		}
	}

	return results, nil
}

func (e *Expo) sendChunk(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]expoTicket, error) {
	messages := make([]expoMessage, 0, len(tokens))
	for _, token := range tokens {
		messages = append(messages, expoMessage{
			To:    token,
			Sound: "default",
			Title: title,
			Body:  body,
			Data:  data,
			Badge: 1,
		})
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("expo push returned %d", resp.StatusCode)
	}

	var decoded expoResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	return decoded.Data, nil
}

func isExpoToken(token string) bool {
	return (strings.HasPrefix(token, "ExponentPushToken[") || strings.HasPrefix(token, "ExpoPushToken[")) &&
		strings.HasSuffix(token, "]")
}
