package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"chessrelay/internal/client/display"
	"chessrelay/internal/server/core"
)

const (
	requestTimeout = 30 * time.Second
	// Long-poll requests outlive the server's 25s wait window
	pollTimeout = 35 * time.Second
)

// Error is a non-2xx response decoded from the server's error body
type Error struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s (%s)", e.Message, e.Code)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

// IsCode reports whether err is an API error carrying the given code
func IsCode(err error, code string) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Verbose    bool
	Out        io.Writer
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: requestTimeout,
		},
		Out: os.Stdout,
	}
}

func (c *Client) SetVerbose(v bool) {
	c.Verbose = v
}

// SetBaseURL updates the API base URL for the client
func (c *Client) SetBaseURL(url string) {
	c.BaseURL = strings.TrimRight(url, "/")
}

func (c *Client) doRequest(method, path string, body any, result any) error {
	return c.do(c.HTTPClient, method, path, body, result)
}

func (c *Client) do(hc *http.Client, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.Verbose {
		fmt.Fprintln(c.Out, display.Blue(fmt.Sprintf("[API] %s %s", method, path)))
		if body != nil {
			fmt.Fprintln(c.Out, display.Cyan("Request Body:"))
			display.PrettyPrintJSON(c.Out, body)
		}
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if c.Verbose {
		status := fmt.Sprintf("[%d %s]", resp.StatusCode, http.StatusText(resp.StatusCode))
		if resp.StatusCode >= 400 {
			fmt.Fprintln(c.Out, display.Red(status))
		} else {
			fmt.Fprintln(c.Out, display.Green(status))
		}
		if len(respBody) > 0 {
			var pretty any
			if json.Unmarshal(respBody, &pretty) == nil {
				fmt.Fprintln(c.Out, display.Cyan("Response Body:"))
				display.PrettyPrintJSON(c.Out, pretty)
			} else {
				fmt.Fprintln(c.Out, string(respBody))
			}
		}
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errResp core.ErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
			apiErr.Code = errResp.Code
			apiErr.Details = errResp.Details
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// API Methods

func (c *Client) Health() (*core.HealthResponse, error) {
	var resp core.HealthResponse
	err := c.doRequest(http.MethodGet, "/health", nil, &resp)
	return &resp, err
}

// CreateGame starts a server game; an empty fen means the standard position
func (c *Client) CreateGame(fen string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games", &core.CreateGameRequest{FEN: fen}, &resp)
	return &resp, err
}

func (c *Client) ListGames() (*core.GameListResponse, error) {
	var resp core.GameListResponse
	err := c.doRequest(http.MethodGet, "/api/v1/games", nil, &resp)
	return &resp, err
}

func (c *Client) GetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodGet, "/api/v1/games/"+gameID, nil, &resp)
	return &resp, err
}

// WaitGame long-polls until the game's version moves past version or the
// server's wait window closes
func (c *Client) WaitGame(gameID string, version int) (*core.GameResponse, error) {
	hc := *c.HTTPClient
	hc.Timeout = pollTimeout

	var resp core.GameResponse
	path := fmt.Sprintf("/api/v1/games/%s?wait=true&version=%d", gameID, version)
	err := c.do(&hc, http.MethodGet, path, nil, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(gameID string) error {
	return c.doRequest(http.MethodDelete, "/api/v1/games/"+gameID, nil, nil)
}

func (c *Client) MakeMove(gameID string, m core.Move) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games/"+gameID+"/moves", moveRequest(m), &resp)
	return &resp, err
}

func (c *Client) ValidateMove(gameID string, m core.Move) (*core.ValidateResponse, error) {
	var resp core.ValidateResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games/"+gameID+"/validate", moveRequest(m), &resp)
	return &resp, err
}

func (c *Client) ResetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games/"+gameID+"/reset", nil, &resp)
	return &resp, err
}

func (c *Client) GetBoard(gameID string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.doRequest(http.MethodGet, "/api/v1/games/"+gameID+"/board", nil, &resp)
	return &resp, err
}

func (c *Client) GetSquare(gameID string, file, rank int) (*core.SquareResponse, error) {
	var resp core.SquareResponse
	path := fmt.Sprintf("/api/v1/games/%s/squares/%d/%d", gameID, file, rank)
	err := c.doRequest(http.MethodGet, path, nil, &resp)
	return &resp, err
}

func (c *Client) GetTargets(gameID string, file, rank int) (*core.TargetsResponse, error) {
	var resp core.TargetsResponse
	path := fmt.Sprintf("/api/v1/games/%s/targets/%d/%d", gameID, file, rank)
	err := c.doRequest(http.MethodGet, path, nil, &resp)
	return &resp, err
}

// RawRequest performs a raw HTTP request for debugging purposes and prints
// the response body
func (c *Client) RawRequest(method, path string, body string) error {
	var bodyData any
	if body != "" {
		if err := json.Unmarshal([]byte(body), &bodyData); err != nil {
			// Try as raw string
			bodyData = body
		}
	}

	var result any
	if err := c.doRequest(method, path, bodyData, &result); err != nil {
		return err
	}
	if result != nil && !c.Verbose {
		display.PrettyPrintJSON(c.Out, result)
	}
	return nil
}

func moveRequest(m core.Move) *core.MoveRequest {
	return &core.MoveRequest{
		FromFile: &m.FromFile,
		FromRank: &m.FromRank,
		ToFile:   &m.ToFile,
		ToRank:   &m.ToRank,
	}
}
