// Package nominatesdk is a Go client for the nomination service.
//
//	client, _ := nominatesdk.NewClient("http://localhost:8080")
//	id, err := client.Submit(ctx, fields, &nominatesdk.File{Name: "cv.pdf", Data: b})
//
//	ok, err := client.Login(ctx, "admin", "secret")
//	list, err := client.ListNominations(ctx)
//	pdf, err := client.FinalPDF(ctx, id)
package nominatesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

// Client talks to one nomination service. Admin calls reuse the session
// cookie set by Login, so a Client is one admin at a time.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}, nil
}

// File is an attachment for Submit.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Submit posts a nomination and returns its id.
func (c *Client) Submit(ctx context.Context, fields map[string]string, cv *File) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return "", err
		}
	}
	if cv != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="cv"; filename=%q`, cv.Name))
		ct := cv.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return "", err
		}
		if _, err := part.Write(cv.Data); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	resp, err := c.do(ctx, http.MethodPost, "/submit", &body, mw.FormDataContentType())
	if err != nil {
		return "", err
	}
	var out SubmitResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return "", err
	}
	return out.ID, nil
}

// Login opens an admin session. Wrong credentials return false, nil.
func (c *Client) Login(ctx context.Context, name, password string) (bool, error) {
	b, err := json.Marshal(LoginRequest{Name: name, Password: password})
	if err != nil {
		return false, err
	}
	resp, err := c.do(ctx, http.MethodPost, "/admin/login", bytes.NewReader(b), "application/json")
	if err != nil {
		return false, err
	}
	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return false, err
	}
	return out.Success, nil
}

func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/admin/logout", nil, "")
	if err != nil {
		return err
	}
	var out LogoutResponse
	return decodeJSON(resp, &out, http.StatusOK)
}

func (c *Client) ListNominations(ctx context.Context) ([]NominationSummary, error) {
	resp, err := c.do(ctx, http.MethodGet, "/admin/nominations", nil, "")
	if err != nil {
		return nil, err
	}
	var out []NominationSummary
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// Download is a fetched binary response.
type Download struct {
	ContentType string
	Filename    string
	Data        []byte
}

func (c *Client) DownloadCV(ctx context.Context, id string) (*Download, error) {
	return c.download(ctx, "/admin/download/"+url.PathEscape(id))
}

func (c *Client) FinalPDF(ctx context.Context, id string) (*Download, error) {
	return c.download(ctx, "/admin/finalpdf/"+url.PathEscape(id))
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/livez", nil, "")
	if err != nil {
		return nil, err
	}
	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness checks if the service is ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/readyz", nil, "")
	if err != nil {
		return nil, err
	}
	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

func (c *Client) download(ctx context.Context, path string) (*Download, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp, data)
	}

	d := &Download{ContentType: resp.Header.Get("Content-Type"), Data: data}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			d.Filename = params["filename"]
		}
	}
	return d, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// decodeJSON reads resp and decodes it into target, or returns an *APIError.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}
	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
