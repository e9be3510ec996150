package story

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/foxseedlab/monogatarun/internal/story"
)

const (
	chatCompletionsPath = "/v1/chat/completions"
	generationTimeout   = 120 * time.Second
)

type MistralConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

type MistralGenerator struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewMistralGenerator(cfg MistralConfig) story.Generator {
	return &MistralGenerator{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: generationTimeout},
	}
}

func (g *MistralGenerator) OpeningChapter(ctx context.Context, input story.OpeningChapterInput) (string, error) {
	prompt := fmt.Sprintf(`You are a story writer who specializes in the %s genre. This is the beginning of the story.

Craft the opening chapter of the story with a compelling narrative, tailored to the user's activity: %s. The chapter should be a long chapter (at least 20 paragraphs). Write in second person.
Plot: %s

You MUST respond with a JSON object with a single key "storyChapter" which contains the generated story chapter, a string.`,
		input.Genre, input.SpeedDescription, input.Plot)

	return g.generate(ctx, prompt, "storyChapter")
}

func (g *MistralGenerator) ContinuationChapter(ctx context.Context, input story.ContinuationChapterInput) (string, error) {
	plot := input.Plot
	if plot == "" {
		plot = "No custom plot provided."
	}
	prompt := fmt.Sprintf(`You are a story writer specializing in writing immersive, second-person narratives.

The user is on a fitness journey, and you will generate the next chapter of their story based on their workout intensity.
Maintain strict second-person immersion and avoid any meta-references to exercise or metrics.

The story should adapt to the user's speed:
- If the speed is low (walking), focus on atmospheric descriptions and world-building.
- If the speed is high (sprinting), focus on punchy, high-tension action.

Here's the current story context: %s

The genre of the story is: %s.

Current speed: %.1f MPH
Total distance: %.2f miles
Elapsed time: %.1f minutes
Carpool mode: %t
Plot: %s

Write a 5-7 paragraph chapter that continues the story. The story is in second person.
The story should be unique and creative, and not repeat previous content.

You MUST respond with a JSON object with a single key "chapterText" which contains the generated chapter text.`,
		input.StoryContext, input.Genre, input.SpeedMPH, input.DistanceMiles, input.ElapsedMinutes, input.Carpool, plot)

	return g.generate(ctx, prompt, "chapterText")
}

func (g *MistralGenerator) SessionSummary(ctx context.Context, input story.SessionSummaryInput) (string, error) {
	prompt := fmt.Sprintf(`Summarize the following workout session stats in a concise and informative way for a user dashboard:

Speed: %.1f MPH
Distance: %.2f miles
CO2 Emissions Saved: %.2f kg

You MUST respond with a JSON object with one key: "summary", containing the concise summary.`,
		input.AvgSpeedMPH, input.DistanceMiles, input.CO2SavedKg)

	return g.generate(ctx, prompt, "summary")
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// generate sends a single-turn chat completion and extracts the named key
// from the model's JSON reply.
func (g *MistralGenerator) generate(ctx context.Context, prompt, responseKey string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:          g.model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+chatCompletionsPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("mistral API error %d: %s", resp.StatusCode, string(data))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("mistral response has no choices")
	}

	var content map[string]string
	if err := json.Unmarshal([]byte(parsed.Choices[0].Message.Content), &content); err != nil {
		return "", fmt.Errorf("unmarshal model output: %w", err)
	}
	text := strings.TrimSpace(content[responseKey])
	if text == "" {
		return "", fmt.Errorf("model output is missing %q", responseKey)
	}
	return text, nil
}
