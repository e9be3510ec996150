package story

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foxseedlab/monogatarun/internal/story"
)

func chatServer(t *testing.T, content string, status int, gotBody *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected authorization header: %s", got)
		}
		if gotBody != nil {
			if err := json.NewDecoder(r.Body).Decode(gotBody); err != nil {
				t.Fatalf("failed to decode request body: %v", err)
			}
		}
		w.WriteHeader(status)
		if status < 400 {
			resp := map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": content}},
				},
			}
			_ = json.NewEncoder(w).Encode(resp)
		}
	}))
}

func newTestGenerator(baseURL string) story.Generator {
	return NewMistralGenerator(MistralConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "mistral-large-latest",
	})
}

func TestOpeningChapter_Success(t *testing.T) {
	var gotBody map[string]any
	server := chatServer(t, `{"storyChapter":"You take your first step."}`, http.StatusOK, &gotBody)
	defer server.Close()

	g := newTestGenerator(server.URL)
	text, err := g.OpeningChapter(context.Background(), story.OpeningChapterInput{
		Genre:            "Cyberpunk",
		Plot:             "A heist",
		SpeedDescription: "The user is starting their journey at 3.0 MPH.",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if text != "You take your first step." {
		t.Fatalf("unexpected chapter text: %q", text)
	}
	if gotBody["model"] != "mistral-large-latest" {
		t.Fatalf("unexpected model: %v", gotBody["model"])
	}
	format, ok := gotBody["response_format"].(map[string]any)
	if !ok || format["type"] != "json_object" {
		t.Fatalf("unexpected response_format: %v", gotBody["response_format"])
	}
	messages, ok := gotBody["messages"].([]any)
	if !ok || len(messages) != 1 {
		t.Fatalf("unexpected messages: %v", gotBody["messages"])
	}
	prompt := messages[0].(map[string]any)["content"].(string)
	if !strings.Contains(prompt, "Cyberpunk") || !strings.Contains(prompt, "second person") {
		t.Fatalf("prompt is missing genre or voice instruction: %q", prompt)
	}
}

func TestContinuationChapter_PromptCarriesMetrics(t *testing.T) {
	var gotBody map[string]any
	server := chatServer(t, `{"chapterText":"You run faster."}`, http.StatusOK, &gotBody)
	defer server.Close()

	g := newTestGenerator(server.URL)
	text, err := g.ContinuationChapter(context.Background(), story.ContinuationChapterInput{
		SpeedMPH:       8.5,
		DistanceMiles:  2.25,
		ElapsedMinutes: 15.5,
		StoryContext:   "You began in the rain.",
		Genre:          "Fantasy",
		Carpool:        true,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if text != "You run faster." {
		t.Fatalf("unexpected chapter text: %q", text)
	}
	prompt := gotBody["messages"].([]any)[0].(map[string]any)["content"].(string)
	for _, want := range []string{"8.5 MPH", "2.25 miles", "15.5 minutes", "Carpool mode: true", "You began in the rain.", "No custom plot provided."} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt is missing %q: %q", want, prompt)
		}
	}
}

func TestSessionSummary_Success(t *testing.T) {
	server := chatServer(t, `{"summary":"A steady 3 mile jog."}`, http.StatusOK, nil)
	defer server.Close()

	g := newTestGenerator(server.URL)
	summary, err := g.SessionSummary(context.Background(), story.SessionSummaryInput{
		AvgSpeedMPH:   6,
		DistanceMiles: 3,
		CO2SavedKg:    1.2,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary != "A steady 3 mile jog." {
		t.Fatalf("unexpected summary: %q", summary)
	}
}

func TestGenerate_APIError(t *testing.T) {
	server := chatServer(t, "", http.StatusTooManyRequests, nil)
	defer server.Close()

	g := newTestGenerator(server.URL)
	if _, err := g.OpeningChapter(context.Background(), story.OpeningChapterInput{Genre: "Horror"}); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestGenerate_MalformedModelOutput(t *testing.T) {
	server := chatServer(t, `not json at all`, http.StatusOK, nil)
	defer server.Close()

	g := newTestGenerator(server.URL)
	if _, err := g.OpeningChapter(context.Background(), story.OpeningChapterInput{Genre: "Horror"}); err == nil {
		t.Fatal("expected error for malformed model output")
	}
}

func TestGenerate_MissingResponseKey(t *testing.T) {
	server := chatServer(t, `{"somethingElse":"text"}`, http.StatusOK, nil)
	defer server.Close()

	g := newTestGenerator(server.URL)
	if _, err := g.OpeningChapter(context.Background(), story.OpeningChapterInput{Genre: "Horror"}); err == nil {
		t.Fatal("expected error when the expected key is absent")
	}
}
