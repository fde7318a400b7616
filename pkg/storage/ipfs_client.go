package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// IPFSClient pins pledge supporting documents (appraisals, title deeds,
// invoices) to content-addressed storage.
type IPFSClient interface {
	PinFile(ctx context.Context, name string, body io.Reader) (string, error)
	UnpinFile(ctx context.Context, cid string) error
}

// HTTPIPFSClient talks to an IPFS node's HTTP API
type HTTPIPFSClient struct {
	apiURL string
	client *http.Client
}

// NewIPFSClient creates a client against an IPFS node API endpoint,
// e.g. "http://localhost:5001".
func NewIPFSClient(apiURL string) *HTTPIPFSClient {
	return &HTTPIPFSClient{
		apiURL: apiURL,
		client: http.DefaultClient,
	}
}

func (c *HTTPIPFSClient) PinFile(ctx context.Context, name string, body io.Reader) (string, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("file", name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, body); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/api/v0/add?pin=true", pr)
	if err != nil {
		return "", fmt.Errorf("failed to build add request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to add file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ipfs add returned status %d", resp.StatusCode)
	}

	var result struct {
		Hash string `json:"Hash"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode add response: %w", err)
	}
	return result.Hash, nil
}

func (c *HTTPIPFSClient) UnpinFile(ctx context.Context, cid string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/api/v0/pin/rm?arg="+cid, nil)
	if err != nil {
		return fmt.Errorf("failed to build unpin request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to unpin file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ipfs unpin returned status %d", resp.StatusCode)
	}
	return nil
}
