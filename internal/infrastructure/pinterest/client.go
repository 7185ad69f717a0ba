package pinterest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"PinFlow/internal/config"
	"PinFlow/internal/domain"
	"PinFlow/internal/ports"
)

const boardCacheTTL = time.Hour

// Board is a platform board as returned by the v5 API.
type Board struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Privacy     string `json:"privacy,omitempty"`
}

// Client talks to the Pinterest v5 API for pins and boards.
type Client struct {
	baseURL       string
	accessToken   string
	defaultBoards []config.BoardConfig
	httpClient    *http.Client
	limiter       *rate.Limiter
	log           *slog.Logger

	boardsByName map[string]Board
	cacheExpiry  time.Time
}

var _ ports.PostingClient = (*Client)(nil)

// NewClient builds a client from configuration. Outbound calls share one
// limiter sized from the hourly API budget; pacing is policy, not
// concurrency control.
func NewClient(cfg config.PinterestConfig, defaultBoards []config.BoardConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	perHour := cfg.RatePerHour
	if perHour <= 0 {
		perHour = 200
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		accessToken:   cfg.AccessToken,
		defaultBoards: defaultBoards,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		limiter:       rate.NewLimiter(rate.Every(time.Hour/time.Duration(perHour)), 5),
		log:           logger,
	}
}

// Publish uploads the image and creates a pin from the strategy's
// publishable fields.
func (c *Client) Publish(ctx context.Context, imagePath, boardID string, s domain.Strategy) (domain.PinResult, error) {
	if c.accessToken == "" {
		return domain.PinResult{}, fmt.Errorf("pinterest client misconfigured")
	}
	if boardID == "" {
		return domain.PinResult{}, fmt.Errorf("no board id for board %q", s.BoardName)
	}

	mediaID, err := c.uploadImage(ctx, imagePath)
	if err != nil {
		return domain.PinResult{}, fmt.Errorf("upload image: %w", err)
	}

	payload := map[string]any{
		"board_id":    boardID,
		"title":       truncate(s.Title, 100),
		"description": truncate(s.Description, 500),
		"media_source": map[string]string{
			"source_type": "image_upload",
			"media_id":    mediaID,
		},
		"link": s.WebsiteLink,
	}
	if s.AltText != "" {
		payload["alt_text"] = truncate(s.AltText, 500)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := c.postJSON(ctx, "/pins", payload, &result, http.StatusCreated); err != nil {
		return domain.PinResult{}, fmt.Errorf("create pin: %w", err)
	}

	c.log.Info("pin created", "pin_id", result.ID, "board", s.BoardName)
	return domain.PinResult{
		ID:      result.ID,
		URL:     "https://pinterest.com/pin/" + result.ID,
		BoardID: boardID,
	}, nil
}

// ResolveBoardID returns the identifier for a board name, or an empty
// string when the board does not exist. Matching is case-insensitive.
func (c *Client) ResolveBoardID(ctx context.Context, boardName string) (string, error) {
	boards, err := c.boards(ctx, false)
	if err != nil {
		return "", err
	}
	if board, ok := boards[strings.ToLower(boardName)]; ok {
		return board.ID, nil
	}
	return "", nil
}

// EnsureBoards makes sure every configured default board exists, creating
// missing ones, and returns name → id.
func (c *Client) EnsureBoards(ctx context.Context) (map[string]string, error) {
	ids := make(map[string]string, len(c.defaultBoards))

	for _, board := range c.defaultBoards {
		id, err := c.ResolveBoardID(ctx, board.Name)
		if err != nil {
			return ids, fmt.Errorf("resolve board %q: %w", board.Name, err)
		}
		if id == "" {
			id, err = c.createBoard(ctx, board.Name, board.Description)
			if err != nil {
				return ids, fmt.Errorf("create board %q: %w", board.Name, err)
			}
			c.log.Info("board created", "name", board.Name, "board_id", id)
		}
		ids[board.Name] = id
	}

	return ids, nil
}

func (c *Client) boards(ctx context.Context, forceRefresh bool) (map[string]Board, error) {
	if !forceRefresh && c.boardsByName != nil && time.Now().Before(c.cacheExpiry) {
		return c.boardsByName, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/boards?page_size=100", nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list boards: %s", resp.Status)
	}

	var result struct {
		Items []Board `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode boards: %w", err)
	}

	byName := make(map[string]Board, len(result.Items))
	for _, board := range result.Items {
		byName[strings.ToLower(board.Name)] = board
	}
	c.boardsByName = byName
	c.cacheExpiry = time.Now().Add(boardCacheTTL)

	return byName, nil
}

func (c *Client) createBoard(ctx context.Context, name, description string) (string, error) {
	payload := map[string]string{
		"name":        name,
		"description": description,
		"privacy":     "PUBLIC",
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := c.postJSON(ctx, "/boards", payload, &result, http.StatusCreated); err != nil {
		return "", err
	}

	// Drop the cache so the new board is visible on the next lookup.
	c.boardsByName = nil

	return result.ID, nil
}

func (c *Client) uploadImage(ctx context.Context, imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(imagePath))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/media", &buf)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("media upload %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var result struct {
		MediaID string `json:"media_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode media response: %w", err)
	}

	return result.MediaID, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, v any, wantStatus int) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("pinterest error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "PinFlow/1.0")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
