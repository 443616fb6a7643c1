package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"deal-detector/pkg/logger"
)

// ocrPrompt asks for a plain transcription. Anything else the model
// volunteers gets scrubbed downstream.
const ocrPrompt = "Extract all text visible in this promotional image. " +
	"Return only the extracted text with no commentary or formatting."

// Client wraps the Gemini API for the two model calls the pipeline
// makes: image transcription and offer extraction. Cheap model for OCR,
// stronger model for extraction.
type Client struct {
	client        *genai.Client
	ocrModel      string
	classifyModel string
	log           logger.Logger
}

// NewClient creates a Gemini client. Model names come from config so
// they can be bumped without a release.
func NewClient(ctx context.Context, apiKey, ocrModel, classifyModel string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{
		client:        client,
		ocrModel:      ocrModel,
		classifyModel: classifyModel,
		log:           logger.Get().WithComponent("gemini"),
	}, nil
}

// Close releases the underlying API connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// ExtractText transcribes the text in one image. format is the image
// subtype ("png", "jpeg", "gif").
func (c *Client) ExtractText(ctx context.Context, data []byte, format string) (string, error) {
	model := c.client.GenerativeModel(c.ocrModel)
	resp, err := model.GenerateContent(ctx, genai.ImageData(format, data), genai.Text(ocrPrompt))
	if err != nil {
		return "", fmt.Errorf("ocr request failed: %w", err)
	}
	return firstText(resp)
}

// Classify sends the offer extraction prompt and returns the model's
// raw text response.
func (c *Client) Classify(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.classifyModel)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("extraction request failed: %w", err)
	}
	return firstText(resp)
}

// firstText concatenates the text parts of the first candidate.
func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("empty model response")
	}

	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out += string(text)
		}
	}
	if out == "" {
		return "", errors.New("model response contained no text")
	}
	return out, nil
}
