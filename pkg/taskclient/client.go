// Package taskclient เป็น Go client ของ Todo API
// ทุก method ที่ต้อง auth รับ Session โดยตรง ไม่มี state ของ user ซ่อนอยู่ใน Client
package taskclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"todo-api/domain/dto"
)

// Session credential ที่ได้จาก Login
type Session struct {
	Token  string
	UserID uuid.UUID
}

// APIError error ที่ server ตอบกลับมาใน envelope
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New baseURL คือ root ของ API เช่น http://localhost:8009/api
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ========== Auth ==========

func (c *Client) Register(ctx context.Context, name, email, password string) (*dto.UserResponse, error) {
	var out dto.RegisterResponse
	err := c.do(ctx, nil, http.MethodPost, "/auth/register", dto.RegisterRequest{
		Name: name, Email: email, Password: password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out dto.LoginResponse
	err := c.do(ctx, nil, http.MethodPost, "/auth/login", dto.LoginRequest{
		Email: email, Password: password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &Session{Token: out.Token, UserID: out.User.ID}, nil
}

func (c *Client) Logout(ctx context.Context, s *Session) error {
	return c.do(ctx, s, http.MethodPost, "/auth/logout", nil, nil)
}

// ========== Tasks ==========

func (c *Client) ListTasks(ctx context.Context, s *Session) ([]dto.TaskResponse, error) {
	var out []dto.TaskResponse
	if err := c.do(ctx, s, http.MethodGet, "/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTask(ctx context.Context, s *Session, title string) (*dto.TaskResponse, error) {
	return c.taskCall(ctx, s, http.MethodPost, "/tasks", dto.CreateTaskRequest{Title: title})
}

func (c *Client) UpdateTask(ctx context.Context, s *Session, taskID uuid.UUID, req dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	return c.taskCall(ctx, s, http.MethodPut, taskPath(taskID), req)
}

func (c *Client) DeleteTask(ctx context.Context, s *Session, taskID uuid.UUID) error {
	return c.do(ctx, s, http.MethodDelete, taskPath(taskID), nil, nil)
}

func (c *Client) AddSubtask(ctx context.Context, s *Session, taskID uuid.UUID, title string) (*dto.TaskResponse, error) {
	return c.taskCall(ctx, s, http.MethodPost, taskPath(taskID)+"/subtasks", dto.CreateSubtaskRequest{Title: title})
}

func (c *Client) UpdateSubtask(ctx context.Context, s *Session, taskID, subtaskID uuid.UUID, req dto.UpdateSubtaskRequest) (*dto.TaskResponse, error) {
	return c.taskCall(ctx, s, http.MethodPut, taskPath(taskID)+"/subtasks/"+subtaskID.String(), req)
}

func (c *Client) DeleteSubtask(ctx context.Context, s *Session, taskID, subtaskID uuid.UUID) (*dto.TaskResponse, error) {
	return c.taskCall(ctx, s, http.MethodDelete, taskPath(taskID)+"/subtasks/"+subtaskID.String(), nil)
}

func (c *Client) AddComment(ctx context.Context, s *Session, taskID uuid.UUID, text string) (*dto.TaskResponse, error) {
	return c.taskCall(ctx, s, http.MethodPost, taskPath(taskID)+"/comments", dto.CommentRequest{Text: text})
}

func (c *Client) UpdateComment(ctx context.Context, s *Session, taskID, commentID uuid.UUID, text string) (*dto.TaskResponse, error) {
	return c.taskCall(ctx, s, http.MethodPut, taskPath(taskID)+"/comments/"+commentID.String(), dto.CommentRequest{Text: text})
}

func (c *Client) DeleteComment(ctx context.Context, s *Session, taskID, commentID uuid.UUID) (*dto.TaskResponse, error) {
	return c.taskCall(ctx, s, http.MethodDelete, taskPath(taskID)+"/comments/"+commentID.String(), nil)
}

// ========== Transport ==========

func taskPath(taskID uuid.UUID) string {
	return "/tasks/" + taskID.String()
}

func (c *Client) taskCall(ctx context.Context, s *Session, method, path string, body interface{}) (*dto.TaskResponse, error) {
	var out dto.TaskResponse
	if err := c.do(ctx, s, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, s *Session, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s != nil && s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Code: "INVALID_RESPONSE", Message: strings.TrimSpace(string(raw))}
	}

	if resp.StatusCode >= 400 || !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
