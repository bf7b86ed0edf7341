package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client wraps Gemini as a plain OCR engine: a screenshot goes in, the raw
// transcribed text comes out. All interpretation of that text happens in the
// scan pipeline, not here.
type Client struct {
	model *genai.GenerativeModel
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	model := client.GenerativeModel("gemini-2.0-flash-001")
	model.ResponseMIMEType = "text/plain"
	return &Client{model: model}, nil
}

const ocrPrompt = `Transcribe every piece of visible text in this game screenshot.
Output plain text only, one UI element per line, top to bottom.
Keep numbers and Traditional Chinese exactly as shown. Do not translate,
summarize, or add commentary.`

// Recognize runs OCR over a single image and returns the text blob.
func (c *Client) Recognize(ctx context.Context, image []byte, mimeType string) (string, error) {
	format := "png"
	switch mimeType {
	case "image/jpeg", "image/jpg":
		format = "jpeg"
	case "image/webp":
		format = "webp"
	}

	resp, err := c.model.GenerateContent(ctx, genai.ImageData(format, image), genai.Text(ocrPrompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	part := resp.Candidates[0].Content.Parts[0]
	txt, ok := part.(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type")
	}
	return string(txt), nil
}
