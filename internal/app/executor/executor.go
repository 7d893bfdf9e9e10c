/*
Package executor provides a thin client for the remote sandboxed code execution service.

The service speaks the Piston API. The coordinator treats it as an opaque black box:
no retries, no backoff, no interpretation of results beyond mapping the wire shape
into the response served to clients.
*/
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"codesync/internal/pkg/logx"
)

// ErrUnsupportedLanguage is returned when the requested language has no known runtime.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Request describes one code execution.
type Request struct {
	Code     string
	Language string
	Stdin    string
	Version  string
}

// Result is the client-facing outcome of an execution.
type Result struct {
	Success  bool   `json:"success"`
	Output   string `json:"output"`
	Error    string `json:"error,omitempty"`
	Language string `json:"language"`
	Stage    string `json:"stage,omitempty"`
	ExitCode *int   `json:"exit_code,omitempty"`
	Version  string `json:"version,omitempty"`
}

// Client talks to one Piston-compatible execution endpoint.
type Client struct {
	// baseURL is the service root, e.g. https://emkc.org/api/v2/piston.
	baseURL string

	// httpClient carries the configured request timeout.
	httpClient *http.Client

	// structured logger with executor context.
	logger zerolog.Logger
}

// NewClient constructs an execution service client for the given base URL and
// per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	executorLogger := logx.Logger().With().
		Str("component", "Executor").
		Str("base_url", baseURL).
		Logger()

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     executorLogger,
	}
}

// pistonFile is one source file in a Piston execute request.
type pistonFile struct {
	Content string `json:"content"`
}

// pistonRequest is the wire shape of a Piston /execute call.
type pistonRequest struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Files    []pistonFile `json:"files"`
	Stdin    string       `json:"stdin,omitempty"`
}

// pistonStage is the result of one execution stage (compile or run).
type pistonStage struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Output string `json:"output"`
	Code   int    `json:"code"`
}

// pistonResponse is the wire shape of a Piston /execute response.
type pistonResponse struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Run      pistonStage  `json:"run"`
	Compile  *pistonStage `json:"compile,omitempty"`
	Message  string       `json:"message,omitempty"`
}

// Execute runs the given code remotely and maps the service response into a
// Result. Compile failures surface with stage "compile"; everything else
// reports the run stage with its exit code.
func (c *Client) Execute(ctx context.Context, req Request) (*Result, error) {
	runtimeName, ok := RuntimeName(req.Language)
	if !ok {
		return nil, ErrUnsupportedLanguage
	}

	version := req.Version
	if version == "" {
		version = "*"
	}

	body, err := json.Marshal(pistonRequest{
		Language: runtimeName,
		Version:  version,
		Files:    []pistonFile{{Content: req.Code}},
		Stdin:    req.Stdin,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode execute request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build execute request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execution service unreachable: %w", err)
	}
	defer httpResp.Body.Close()

	var decoded pistonResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode execution response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		c.logger.Warn().
			Int("status", httpResp.StatusCode).
			Str("message", decoded.Message).
			Msg("Execution service returned an error status.")
		return nil, fmt.Errorf("execution service error: %s", decoded.Message)
	}

	if decoded.Compile != nil && decoded.Compile.Code != 0 {
		exitCode := decoded.Compile.Code
		return &Result{
			Success:  false,
			Output:   decoded.Compile.Output,
			Error:    decoded.Compile.Stderr,
			Language: req.Language,
			Stage:    "compile",
			ExitCode: &exitCode,
			Version:  decoded.Version,
		}, nil
	}

	exitCode := decoded.Run.Code
	result := &Result{
		Success:  decoded.Run.Code == 0,
		Output:   decoded.Run.Output,
		Language: req.Language,
		Stage:    "run",
		ExitCode: &exitCode,
		Version:  decoded.Version,
	}
	if decoded.Run.Code != 0 {
		result.Error = decoded.Run.Stderr
	}

	return result, nil
}

// Runtimes returns the raw runtime inventory of the execution service.
func (c *Client) Runtimes(ctx context.Context) (json.RawMessage, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/runtimes", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build runtimes request: %w", err)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execution service unreachable: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("execution service returned status %d", httpResp.StatusCode)
	}

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read runtimes response: %w", err)
	}

	return json.RawMessage(raw), nil
}

// Ping reports whether the execution service is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Runtimes(ctx)
	return err
}
