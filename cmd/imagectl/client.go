package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/notedwin-dev/storyforge-ai/pkg/types"
)

// client is a thin wrapper over the imaged HTTP API.
type client struct {
	base    string
	timeout time.Duration
	http    *http.Client
}

func newClient(base string, timeout time.Duration) *client {
	return &client{base: base, timeout: timeout, http: &http.Client{Timeout: timeout}}
}

func (c *client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError extracts the error message from a non-200 response body.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e types.ErrorResponse
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return fmt.Errorf("%s (status %d)", e.Error, resp.StatusCode)
	}
	var g types.GenerateResponse
	if json.Unmarshal(body, &g) == nil && g.Error != "" {
		return fmt.Errorf("%s (status %d)", g.Error, resp.StatusCode)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}

func (c *client) status(ctx context.Context) (types.StatusResponse, error) {
	var st types.StatusResponse
	err := c.getJSON(ctx, "/status", &st)
	return st, err
}

func (c *client) models(ctx context.Context) (types.ModelsResponse, error) {
	var m types.ModelsResponse
	err := c.getJSON(ctx, "/models", &m)
	return m, err
}

func (c *client) switchModel(ctx context.Context, modelID string) (types.SwitchModelResponse, error) {
	var out types.SwitchModelResponse
	err := c.postJSON(ctx, "/switch-model", types.SwitchModelRequest{ModelID: modelID}, &out)
	if err == nil && !out.Success {
		err = fmt.Errorf("switch failed: %s", out.Error)
	}
	return out, err
}

func (c *client) generate(ctx context.Context, req types.GenerateRequest) (types.GenerateResponse, error) {
	var out types.GenerateResponse
	err := c.postJSON(ctx, "/generate", req, &out)
	if err == nil && !out.Success {
		err = fmt.Errorf("generation failed: %s", out.Error)
	}
	return out, err
}

func (c *client) generateScene(ctx context.Context, req types.SceneRequest) (types.GenerateResponse, error) {
	var out types.GenerateResponse
	err := c.postJSON(ctx, "/generate-scene", req, &out)
	if err == nil && !out.Success {
		err = fmt.Errorf("generation failed: %s", out.Error)
	}
	return out, err
}

// saveImage decodes the base64 payload from a generation response and writes
// it to path.
func saveImage(resp types.GenerateResponse, path string) error {
	raw, err := base64.StdEncoding.DecodeString(resp.Image)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// loadImageBase64 reads an image file and encodes it for a scene request.
func loadImageBase64(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
