package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iudanet/fieldlink/pkg/api"
)

// DefaultTimeout ограничение на один обмен с удаленной стороной
const DefaultTimeout = 10 * time.Second

// maxResponseSize ограничение на размер тела ответа
const maxResponseSize = 1 << 20

//go:generate moq -out client_mock.go . ClientAPI

// ClientAPI транспорт узла до удаленной стороны
type ClientAPI interface {
	// PushSample отправляет семпл и возвращает код статуса и сырое тело ответа.
	// Ошибка возвращается только если ответ не получен.
	PushSample(ctx context.Context, req api.SampleRequest) (int, []byte, error)
}

// Client представляет HTTP клиент узла
type Client struct {
	httpClient *http.Client
	url        string
}

// NewClient создает новый API клиент.
// url полный адрес приема семплов (например, "http://host:5000/").
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
			// Повторов нет: редирект считается ответом
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// PushSample выполняет один POST без повторов
func (c *Client) PushSample(ctx context.Context, req api.SampleRequest) (int, []byte, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonData))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
