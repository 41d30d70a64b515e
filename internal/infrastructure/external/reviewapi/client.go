// Package reviewapi is the HTTP client for the review backend: comments,
// media catalog, transcripts, the automated reviewer and notifications.
package reviewapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/johnquangdev/media-review/errors"
	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/domain/repositories"
	"github.com/johnquangdev/media-review/pkg/config"

	"go.uber.org/zap"
)

// maxErrorBody caps how much of a failed response is kept in the error
const maxErrorBody = 512

// StatusError is a non-2xx response from the backend
type StatusError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// Client talks to the review backend
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a client using values from the provided config
func NewClient(cfg config.ReviewAPIConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// BaseURL returns the backend root without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ExportURL is where the backend serves the comment export of an asset
func (c *Client) ExportURL(assetID string) string {
	return c.baseURL + "/export/" + url.PathEscape(assetID)
}

// do sends a request and decodes a JSON response into out when out is non-nil.
// Transport failures and non-2xx statuses come back as errors.ErrNetwork.
func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}, auth bool) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.ErrInternal(err)
		}
		reader = bytes.NewReader(b)
	}

	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return errors.ErrInternal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if auth && c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return errors.ErrNetwork(op, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("reviewapi.request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.ErrNetwork(op, &StatusError{
			Method: method,
			URL:    endpoint,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.ErrNetwork(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// ListComments fetches every comment of an asset
func (c *Client) ListComments(ctx context.Context, assetID string) ([]entities.Comment, error) {
	var comments []entities.Comment
	if err := c.do(ctx, "comments.list", http.MethodGet, "/comments/"+url.PathEscape(assetID), nil, &comments, false); err != nil {
		return nil, err
	}
	for i := range comments {
		if comments[i].AssetID == "" {
			comments[i].AssetID = assetID
		}
	}
	return comments, nil
}

// CreateComment submits a new comment
func (c *Client) CreateComment(ctx context.Context, draft entities.CommentDraft) error {
	return c.do(ctx, "comments.create", http.MethodPost, "/comments", draft, nil, true)
}

// ReplaceComment overwrites the text of a comment
func (c *Client) ReplaceComment(ctx context.Context, id int64, text string) error {
	body := map[string]string{"comment": text}
	return c.do(ctx, "comments.replace", http.MethodPut, "/comments/"+strconv.FormatInt(id, 10), body, nil, true)
}

// ReactToComment sends a +1 for symbol. The backend keys users by token and
// deduplicates, currently by undoing a repeated reaction.
func (c *Client) ReactToComment(ctx context.Context, id int64, symbol string) error {
	body := map[string]int{symbol: 1}
	return c.do(ctx, "comments.react", http.MethodPatch, "/comments/"+strconv.FormatInt(id, 10)+"/reactions", body, nil, true)
}

// DeleteComment removes a comment
func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	return c.do(ctx, "comments.delete", http.MethodDelete, "/comments/"+strconv.FormatInt(id, 10), nil, nil, true)
}

// ListCommentedAssets returns the distinct asset ids that have comments
func (c *Client) ListCommentedAssets(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.do(ctx, "comments.asset_ids", http.MethodGet, "/comments/unique_video_ids", nil, &ids, false); err != nil {
		return nil, err
	}
	return ids, nil
}

// ListMedia fetches the catalog for a category
func (c *Client) ListMedia(ctx context.Context, mediaType entities.MediaType) ([]entities.MediaFile, error) {
	var files []entities.MediaFile
	path := "/media?type=" + url.QueryEscape(mediaType.Category())
	if err := c.do(ctx, "media.list", http.MethodGet, path, nil, &files, false); err != nil {
		return nil, err
	}
	return files, nil
}

// Transcript fetches the transcript of an asset, generating it when missing
func (c *Client) Transcript(ctx context.Context, assetID string) ([]entities.TranscriptLine, error) {
	var lines []entities.TranscriptLine
	if err := c.do(ctx, "transcript.get", http.MethodGet, "/transcript_on_demand/"+url.PathEscape(assetID), nil, &lines, false); err != nil {
		return nil, err
	}
	return lines, nil
}

// Review triggers the automated reviewer at endpoint
func (c *Client) Review(ctx context.Context, endpoint string, req repositories.ReviewRequest) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, "assistant.review", http.MethodPost, endpoint, req, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

type chatResponse struct {
	Response string `json:"response"`
}

// Chat sends a message to the automated reviewer
func (c *Client) Chat(ctx context.Context, req repositories.ChatRequest) (string, error) {
	var out chatResponse
	if err := c.do(ctx, "assistant.chat", http.MethodPost, "/silas/chat", req, &out, true); err != nil {
		return "", err
	}
	return out.Response, nil
}

// NotifyTeam emails teammates about a review
func (c *Client) NotifyTeam(ctx context.Context, n repositories.TeamNotification) error {
	return c.do(ctx, "notify.team", http.MethodPost, "/notify_team", n, nil, true)
}

// NotifyComment emails one teammate about a comment
func (c *Client) NotifyComment(ctx context.Context, n repositories.CommentNotification) error {
	return c.do(ctx, "notify.comment", http.MethodPost, "/notify_comment", n, nil, true)
}
