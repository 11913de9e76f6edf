// Package feedbackapi talks to the question/feedback/scoring server.
package feedbackapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aliskhannn/feedback-quiz-bot/internal/domain/entities"
)

const (
	pathGetQuestions     = "/get-questions"
	pathGenerateFeedback = "/generate-feedback"
	pathCalculateScore   = "/calculate-score"
	pathHealth           = "/health"

	maxErrorBody = 4 << 10
)

// APIError is returned for non-2xx responses.
type APIError struct {
	Op         string
	StatusCode int
	Message    string // "error" field of the response body, if any
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(cfg Config) *Client {
	h := &http.Client{}
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	return &Client{baseURL: cfg.BaseURL, http: h}
}

type getQuestionsRequest struct {
	Username string `json:"username"`
}

type getQuestionsResponse struct {
	Questions []entities.Question `json:"questions"`
}

type feedbackRequest struct {
	Question      string `json:"question"`
	IdealAnswer   string `json:"ideal_answer"`
	StudentAnswer string `json:"student_answer"`
}

type feedbackResponse struct {
	Feedback string `json:"feedback"`
}

type scoreRequest struct {
	Questions []entities.Question `json:"questions"`
	Answers   []string            `json:"answers"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GetQuestions fetches the question set for username. An empty set is not an error.
func (c *Client) GetQuestions(ctx context.Context, username string) ([]entities.Question, error) {
	var out getQuestionsResponse
	if err := c.post(ctx, "get questions", pathGetQuestions, getQuestionsRequest{Username: username}, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

// GenerateFeedback returns feedback text for a student answer. An empty string
// is a valid response.
func (c *Client) GenerateFeedback(ctx context.Context, q entities.Question, studentAnswer string) (string, error) {
	req := feedbackRequest{
		Question:      q.Question,
		IdealAnswer:   q.Answer,
		StudentAnswer: studentAnswer,
	}

	var out feedbackResponse
	if err := c.post(ctx, "generate feedback", pathGenerateFeedback, req, &out); err != nil {
		return "", err
	}
	return out.Feedback, nil
}

// CalculateScore sends the full question set with one answer per question.
func (c *Client) CalculateScore(ctx context.Context, questions []entities.Question, answers []string) (*entities.ScoreResult, error) {
	var out entities.ScoreResult
	if err := c.post(ctx, "calculate score", pathCalculateScore, scoreRequest{Questions: questions, Answers: answers}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health checks that the server answers GET /health with 2xx.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathHealth, nil)
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxErrorBody))

	if res.StatusCode/100 != 2 {
		return &APIError{Op: "health", StatusCode: res.StatusCode}
	}
	return nil
}

func (c *Client) post(ctx context.Context, op, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		apiErr := &APIError{Op: op, StatusCode: res.StatusCode}

		var e errorResponse
		if json.NewDecoder(io.LimitReader(res.Body, maxErrorBody)).Decode(&e) == nil {
			apiErr.Message = e.Error
		}
		return apiErr
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
