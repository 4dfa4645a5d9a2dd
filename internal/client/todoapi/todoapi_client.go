package todoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/TWRT/todos/internal/models"
)

const DefaultTimeout = 10 * time.Second

type Client struct {
	baseUrl    string
	httpClient *http.Client
}

// NewClient builds a client for an API rooted at baseUrl, e.g.
// http://localhost:3001/api.
func NewClient(baseUrl string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseUrl:    strings.TrimRight(baseUrl, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) List(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	if _, err := c.do(ctx, http.MethodGet, c.baseUrl+"/todos", nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, nil
}

func (c *Client) Get(ctx context.Context, id int64) (models.Todo, error) {
	var todo models.Todo
	_, err := c.do(ctx, http.MethodGet, c.todoURL(id), nil, &todo)
	return todo, err
}

func (c *Client) Create(ctx context.Context, req CreateTodoRequest) (models.Todo, error) {
	var todo models.Todo
	_, err := c.do(ctx, http.MethodPost, c.baseUrl+"/todos", req, &todo)
	return todo, err
}

func (c *Client) Update(ctx context.Context, id int64, req UpdateTodoRequest) (models.Todo, error) {
	var todo models.Todo
	_, err := c.do(ctx, http.MethodPut, c.todoURL(id), req, &todo)
	return todo, err
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, c.todoURL(id), nil, nil)
	return err
}

// DeleteAll clears the list and returns how many todos were removed.
func (c *Client) DeleteAll(ctx context.Context) (int64, error) {
	env, err := c.do(ctx, http.MethodDelete, c.baseUrl+"/todos", nil, nil)
	if err != nil {
		return 0, err
	}
	if env.Count == nil {
		return 0, nil
	}
	return *env.Count, nil
}

// Health calls /health, which lives beside the /api prefix.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	url := strings.TrimSuffix(c.baseUrl, "/api") + "/health"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return HealthStatus{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return HealthStatus{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return HealthStatus{}, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return HealthStatus{}, fmt.Errorf("decode health: %w", err)
	}
	return status, nil
}

func (c *Client) todoURL(id int64) string {
	return c.baseUrl + "/todos/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, url string, in, out any) (envelope, error) {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return envelope{}, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return envelope{}, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return envelope{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope{}, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return envelope{}, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return envelope{}, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 300 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return env, &APIError{StatusCode: resp.StatusCode, Message: msg, Details: env.Details}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env, fmt.Errorf("decode data: %w", err)
		}
	}
	return env, nil
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
