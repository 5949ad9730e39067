package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model answered without any text part
var ErrEmptyResponse = errors.New("gemini: response contained no text")

// ErrNotConfigured is returned by a client built without an API key
var ErrNotConfigured = errors.New("gemini: API key not configured")

// InlineData carries base64 encoded binary content such as an image
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Part is one piece of a content block
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// Content is an ordered list of parts
type Content struct {
	Parts []Part `json:"parts"`
}

// GenerateRequest is a single-turn prompt with an optional system instruction
type GenerateRequest struct {
	SystemInstruction *Content  `json:"systemInstruction,omitempty"`
	Contents          []Content `json:"contents"`
}

// Client calls generateContent through the genai SDK
type Client struct {
	model string
	sdk   *genai.Client
}

// NewClient creates a client whose requests are bounded by timeout. An empty
// baseURL keeps the SDK default endpoint. Without an API key the client is
// created but every call fails with ErrNotConfigured.
func NewClient(ctx context.Context, baseURL, apiKey, model string, timeout time.Duration) (*Client, error) {
	c := &Client{model: model}
	if apiKey == "" {
		return c, nil
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	c.sdk = gc
	return c, nil
}

// GenerateContent sends the request and returns the text of the first
// candidate.
func (c *Client) GenerateContent(ctx context.Context, req *GenerateRequest) (string, error) {
	if c.sdk == nil {
		return "", ErrNotConfigured
	}

	contents := make([]*genai.Content, 0, len(req.Contents))
	for _, content := range req.Contents {
		gc, err := toGenai(content)
		if err != nil {
			return "", err
		}
		contents = append(contents, gc)
	}

	var config *genai.GenerateContentConfig
	if req.SystemInstruction != nil {
		si, err := toGenai(*req.SystemInstruction)
		if err != nil {
			return "", err
		}
		config = &genai.GenerateContentConfig{SystemInstruction: si}
	}

	resp, err := c.sdk.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func toGenai(content Content) (*genai.Content, error) {
	parts := make([]*genai.Part, 0, len(content.Parts))
	for _, p := range content.Parts {
		if p.InlineData != nil {
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("gemini: inline data is not base64: %w", err)
			}
			parts = append(parts, genai.NewPartFromBytes(data, p.InlineData.MimeType))
			continue
		}
		parts = append(parts, genai.NewPartFromText(p.Text))
	}
	return genai.NewContentFromParts(parts, genai.RoleUser), nil
}
