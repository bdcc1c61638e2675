package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientGenerate_SendsExpectedPayloadAndParsesResponse(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response": "generated text", "done": true}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL}, srv.Client())
	out, err := client.Generate(context.Background(), GenerateRequest{
		Model:       "llama3",
		Prompt:      "Say hello.",
		System:      "Be brief.",
		Temperature: 0.7,
		MaxTokens:   128,
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if out != "generated text" {
		t.Fatalf("output = %q, want %q", out, "generated text")
	}

	if gotPath != "/api/generate" {
		t.Fatalf("path = %q, want %q", gotPath, "/api/generate")
	}
	if gotBody["model"] != "llama3" {
		t.Fatalf("model = %v, want %q", gotBody["model"], "llama3")
	}
	if gotBody["system"] != "Be brief." {
		t.Fatalf("system = %v, want %q", gotBody["system"], "Be brief.")
	}
	if gotBody["stream"] != false {
		t.Fatalf("stream = %v, want false", gotBody["stream"])
	}
	opts, ok := gotBody["options"].(map[string]any)
	if !ok {
		t.Fatalf("options missing from payload: %v", gotBody)
	}
	if opts["temperature"] != 0.7 {
		t.Fatalf("temperature = %v, want 0.7", opts["temperature"])
	}
	if opts["num_predict"] != 128.0 {
		t.Fatalf("num_predict = %v, want 128", opts["num_predict"])
	}
}

func TestClientGenerate_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL}, srv.Client())
	_, err := client.Generate(context.Background(), GenerateRequest{Model: "missing"})
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Fatalf("error = %v, want status code in message", err)
	}
}

func TestClientGenerateStream_ForwardsFragmentsUntilDone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["stream"] != true {
			t.Errorf("stream = %v, want true", body["stream"])
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		lines := []string{
			`{"response": "Hello", "done": false}`,
			`not json noise`,
			`{"response": ", ", "done": false}`,
			`{"response": "world", "done": false}`,
			`{"response": "", "done": true}`,
			`{"response": "after done", "done": false}`,
		}
		for _, line := range lines {
			_, _ = io.WriteString(w, line+"\n")
		}
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL}, srv.Client())
	var fragments []string
	err := client.GenerateStream(context.Background(), GenerateRequest{Model: "llama3"}, func(fragment string) error {
		fragments = append(fragments, fragment)
		return nil
	})
	if err != nil {
		t.Fatalf("GenerateStream returned error: %v", err)
	}

	got := strings.Join(fragments, "")
	if got != "Hello, world" {
		t.Fatalf("streamed content = %q, want %q", got, "Hello, world")
	}
	if len(fragments) != 3 {
		t.Fatalf("fragment count = %d, want 3", len(fragments))
	}
}

func TestClientGenerateStream_CallbackErrorStopsStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"response": "x", "done": false}`+"\n")
		_, _ = io.WriteString(w, `{"response": "y", "done": true}`+"\n")
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL}, srv.Client())
	wantErr := io.ErrClosedPipe
	err := client.GenerateStream(context.Background(), GenerateRequest{Model: "llama3"}, func(string) error {
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("error = %v, want %v", err, wantErr)
	}
}

func TestClientListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %q, want /api/tags", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"models": [{"name": "llama3"}, {"name": "mistral"}]}`)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL}, srv.Client())
	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels returned error: %v", err)
	}
	if len(models) != 2 || models[0].Name != "llama3" {
		t.Fatalf("models = %+v, want llama3 and mistral", models)
	}
}

func TestClientTrimsTrailingSlashFromBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %q, want /api/tags", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"models": []}`)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL + "/"}, srv.Client())
	if _, err := client.ListModels(context.Background()); err != nil {
		t.Fatalf("ListModels returned error: %v", err)
	}
}
