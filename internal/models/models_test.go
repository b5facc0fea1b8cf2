package models

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

func testRegistry() *Registry {
	return NewRegistry("es", map[string]config.ModelPair{
		"ca": {Reverse: "Helsinki-NLP/opus-mt-ca-es", Forward: "Helsinki-NLP/opus-mt-es-ca"},
		"en": {Reverse: "Helsinki-NLP/opus-mt-en-es", Forward: "Helsinki-NLP/opus-mt-es-en"},
	})
}

func TestRegistryLookup(t *testing.T) {
	r := testRegistry()

	tests := []struct {
		name    string
		lang    string
		dir     Direction
		want    Route
		wantErr bool
	}{
		{"to pivot", "ca", ToPivot, Route{Model: "Helsinki-NLP/opus-mt-ca-es", Source: "ca", Target: "es"}, false},
		{"from pivot", "en", FromPivot, Route{Model: "Helsinki-NLP/opus-mt-es-en", Source: "es", Target: "en"}, false},
		{"unknown", "xx", ToPivot, Route{}, true},
		{"empty", "", FromPivot, Route{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Lookup(tt.lang, tt.dir)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnsupportedLanguage) {
				t.Errorf("Lookup() error = %v, want ErrUnsupportedLanguage", err)
			}
			if got != tt.want {
				t.Errorf("Lookup() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if got := r.Languages(); len(got) != 2 || got[0] != "ca" || got[1] != "en" {
		t.Errorf("Languages() = %v", got)
	}
}

type countingFactory struct {
	loads  atomic.Int32
	delay  time.Duration
	fail   atomic.Bool
	panics atomic.Bool
}

type nopSummarizer struct{}

func (nopSummarizer) Summarize(context.Context, string, SummaryOptions) (string, error) {
	return "ok", nil
}

type nopTranslator struct{}

func (nopTranslator) Translate(context.Context, string, int) (string, error) {
	return "ok", nil
}

func (f *countingFactory) NewSummarizer(context.Context, string) (Summarizer, error) {
	f.loads.Add(1)
	time.Sleep(f.delay)
	if f.panics.Load() {
		panic("model file corrupted")
	}
	if f.fail.Load() {
		return nil, errors.New("download failed")
	}
	return nopSummarizer{}, nil
}

func (f *countingFactory) NewTranslator(context.Context, string, string, string) (Translator, error) {
	f.loads.Add(1)
	return nopTranslator{}, nil
}

func TestCacheLoadsOnceConcurrently(t *testing.T) {
	f := &countingFactory{delay: 20 * time.Millisecond}
	c := NewCache(f, logger.Nop())

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Summarizer(context.Background(), "bart"); err != nil {
				t.Errorf("Summarizer() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := f.loads.Load(); got != 1 {
		t.Errorf("loads = %d, want 1", got)
	}
}

func TestCacheKeys(t *testing.T) {
	f := &countingFactory{}
	c := NewCache(f, logger.Nop())
	ctx := context.Background()
	r := testRegistry()

	to, _ := r.Lookup("ca", ToPivot)
	from, _ := r.Lookup("ca", FromPivot)
	for _, route := range []Route{to, from, to} {
		if _, err := c.Translator(ctx, route); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := c.Summarizer(ctx, "bart"); err != nil {
		t.Fatal(err)
	}

	if got := f.loads.Load(); got != 3 {
		t.Errorf("loads = %d, want 3", got)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestCacheRetriesFailedLoad(t *testing.T) {
	f := &countingFactory{}
	f.fail.Store(true)
	c := NewCache(f, logger.Nop())

	if _, err := c.Summarizer(context.Background(), "bart"); err == nil {
		t.Fatal("Summarizer() should fail")
	}
	if c.Len() != 0 {
		t.Errorf("failed load should not be cached")
	}

	f.fail.Store(false)
	if _, err := c.Summarizer(context.Background(), "bart"); err != nil {
		t.Fatalf("Summarizer() retry error = %v", err)
	}
	if got := f.loads.Load(); got != 2 {
		t.Errorf("loads = %d, want 2", got)
	}
}

func TestCacheRecoversLoaderPanic(t *testing.T) {
	f := &countingFactory{}
	f.panics.Store(true)
	c := NewCache(f, logger.Nop())

	if _, err := c.Summarizer(context.Background(), "bart"); err == nil {
		t.Fatal("Summarizer() should report the panic as an error")
	}
	if c.Len() != 0 {
		t.Errorf("panicked load should not be cached")
	}

	f.panics.Store(false)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := c.Summarizer(ctx, "bart"); err != nil {
		t.Fatalf("Summarizer() after panic error = %v", err)
	}
	if got := f.loads.Load(); got != 2 {
		t.Errorf("loads = %d, want 2", got)
	}
}

func TestHuggingFaceSummarizer(t *testing.T) {
	var got inferenceRequest
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`[{"summary_text":" Short summary. "}]`))
	}))
	defer srv.Close()

	hf := NewHuggingFace(HuggingFaceConfig{APIURL: srv.URL + "/models/", Token: "secret"})
	s, err := hf.NewSummarizer(context.Background(), "facebook/bart-large-cnn")
	if err != nil {
		t.Fatal(err)
	}

	out, err := s.Summarize(context.Background(), "long text", SummaryOptions{MinLength: 30, MaxLength: 100})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if out != "Short summary." {
		t.Errorf("Summarize() = %q", out)
	}
	if path != "/models/facebook/bart-large-cnn" {
		t.Errorf("path = %q", path)
	}
	if auth != "Bearer secret" {
		t.Errorf("Authorization = %q", auth)
	}
	if got.Inputs != "long text" {
		t.Errorf("inputs = %q", got.Inputs)
	}
	if got.Parameters["min_length"] != float64(30) || got.Parameters["max_length"] != float64(100) || got.Parameters["do_sample"] != false {
		t.Errorf("parameters = %v", got.Parameters)
	}
}

func TestHuggingFaceTranslatorErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		want      string
		wantErr   bool
		malformed bool
	}{
		{"ok", http.StatusOK, `[{"translation_text":"Hola"}]`, "Hola", false, false},
		{"empty list", http.StatusOK, `[]`, "", true, true},
		{"missing field", http.StatusOK, `[{"generated_text":"x"}]`, "", true, true},
		{"not json", http.StatusOK, `oops`, "", true, true},
		{"server error", http.StatusServiceUnavailable, `{"error":"loading"}`, "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var params map[string]any
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req inferenceRequest
				json.NewDecoder(r.Body).Decode(&req)
				params = req.Parameters
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			tr, _ := NewHuggingFace(HuggingFaceConfig{APIURL: srv.URL}).NewTranslator(context.Background(), "Helsinki-NLP/opus-mt-ca-es", "ca", "es")
			got, err := tr.Translate(context.Background(), "Hola", 512)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Translate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.malformed && !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("Translate() error = %v, want ErrMalformedResponse", err)
			}
			if got != tt.want {
				t.Errorf("Translate() = %q, want %q", got, tt.want)
			}
			if params["max_length"] != float64(512) {
				t.Errorf("max_length = %v, want 512", params["max_length"])
			}
		})
	}
}

func TestNewFactory(t *testing.T) {
	cfg := &config.Config{}
	if _, err := NewFactory(config.BackendHuggingFace, cfg, logger.Nop()); err != nil {
		t.Errorf("NewFactory(huggingface) error = %v", err)
	}
	if _, err := NewFactory(config.BackendGemini, cfg, logger.Nop()); err == nil {
		t.Error("NewFactory(gemini) without keys should fail")
	}
	cfg.Gemini.APIKeys = []string{"k1"}
	if _, err := NewFactory(config.BackendGemini, cfg, logger.Nop()); err != nil {
		t.Errorf("NewFactory(gemini) error = %v", err)
	}
	if _, err := NewFactory("local", cfg, logger.Nop()); err == nil {
		t.Error("NewFactory() should reject unknown backends")
	}
}

func TestGeminiKeyRotation(t *testing.T) {
	g, err := NewGemini("", []string{"a", "b", "c"}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}

	idx, key := g.key()
	if idx != 0 || key != "a" {
		t.Fatalf("key() = %d, %q", idx, key)
	}
	g.rotateKey(0)
	g.rotateKey(0) // stale rotation is ignored
	if idx, key = g.key(); idx != 1 || key != "b" {
		t.Errorf("key() = %d, %q, want 1, b", idx, key)
	}
	g.rotateKey(1)
	g.rotateKey(2)
	if idx, _ = g.key(); idx != 0 {
		t.Errorf("rotation should wrap, got %d", idx)
	}
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("Error 429: Too Many Requests"), true},
		{errors.New("RESOURCE_EXHAUSTED"), true},
		{errors.New("quota exceeded"), true},
		{errors.New("invalid argument"), false},
	}
	for _, tt := range tests {
		if got := isRateLimited(tt.err); got != tt.want {
			t.Errorf("isRateLimited(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestLanguageName(t *testing.T) {
	if languageName("ca") != "Catalan" || languageName("xx") != "xx" {
		t.Error("languageName() mismatch")
	}
}
