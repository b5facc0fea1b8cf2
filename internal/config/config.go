package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by summary.backend and translation.backend
const (
	BackendHuggingFace = "huggingface"
	BackendGemini      = "gemini"
)

// Segmentation methods accepted by vad.method
const (
	VADEnergy = "energy"
	VADWebRTC = "webrtc"
)

// DefaultLanguages are the transcription languages with registered translation models.
var DefaultLanguages = []string{"ca", "en", "fr", "de", "ar", "zh"}

type Config struct {
	Whisper     WhisperConfig     `yaml:"whisper"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	VAD         VADConfig         `yaml:"vad"`
	Summary     SummaryConfig     `yaml:"summary"`
	Translation TranslationConfig `yaml:"translation"`
	HuggingFace HuggingFaceConfig `yaml:"huggingface"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type WhisperConfig struct {
	ModelPath  string        `yaml:"model_path"`
	BinaryPath string        `yaml:"binary_path"`
	Language   string        `yaml:"language"`
	Threads    int           `yaml:"threads"`
	Timeout    time.Duration `yaml:"timeout"` // per segment, 0 = unbounded
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	SampleRate int    `yaml:"sample_rate"`
}

type VADConfig struct {
	Method             string  `yaml:"method"`
	TopDB              float64 `yaml:"top_db"`
	MaxSegmentDuration float64 `yaml:"max_segment_duration"` // seconds, unset = 60, negative = no split
	WebRTCMode         int     `yaml:"webrtc_mode"`
	MinSilence         float64 `yaml:"min_silence"` // seconds, webrtc only
}

type SummaryConfig struct {
	Backend   string `yaml:"backend"`
	Model     string `yaml:"model"`
	ChunkSize int    `yaml:"chunk_size"`
	MinLength int    `yaml:"min_length"`
	MaxLength int    `yaml:"max_length"`
	Docx      bool   `yaml:"docx"`
	Auto      bool   `yaml:"auto"` // summarize right after transcription in watch mode
}

type ModelPair struct {
	Reverse string `yaml:"reverse"` // language -> pivot
	Forward string `yaml:"forward"` // pivot -> language
}

type TranslationConfig struct {
	Backend   string               `yaml:"backend"`
	Pivot     string               `yaml:"pivot"`
	ChunkSize int                  `yaml:"chunk_size"`
	MaxLength int                  `yaml:"max_length"`
	Models    map[string]ModelPair `yaml:"models"`
}

type HuggingFaceConfig struct {
	APIURL   string        `yaml:"api_url"`
	APIToken string        `yaml:"api_token"`
	Timeout  time.Duration `yaml:"timeout"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"api_keys"`
}

type PathsConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Temp   string `yaml:"temp"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Load reads a YAML config file, applies environment overrides and validates it
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if c.HuggingFace.APIToken == "" {
		c.HuggingFace.APIToken = os.Getenv("HF_API_TOKEN")
	}
	if len(c.Gemini.APIKeys) == 0 {
		for _, k := range strings.Split(os.Getenv("GEMINI_API_KEYS"), ",") {
			if k = strings.TrimSpace(k); k != "" {
				c.Gemini.APIKeys = append(c.Gemini.APIKeys, k)
			}
		}
	}
}

// HelsinkiModel returns the opus-mt model identifier for a language pair
func HelsinkiModel(src, dst string) string {
	return fmt.Sprintf("Helsinki-NLP/opus-mt-%s-%s", src, dst)
}

func (c *Config) Validate() error {
	if c.Whisper.ModelPath == "" {
		return fmt.Errorf("whisper.model_path is required")
	}

	if c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = "whisper-cli"
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "ca"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}
	if c.Whisper.Timeout < 0 {
		return fmt.Errorf("whisper.timeout must not be negative")
	}

	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}

	if c.VAD.Method == "" {
		c.VAD.Method = VADEnergy
	}
	if c.VAD.Method != VADEnergy && c.VAD.Method != VADWebRTC {
		return fmt.Errorf("vad.method must be %q or %q", VADEnergy, VADWebRTC)
	}
	if c.VAD.TopDB == 0 {
		c.VAD.TopDB = 25
	}
	if c.VAD.TopDB < 0 {
		return fmt.Errorf("vad.top_db must be positive")
	}
	if c.VAD.MaxSegmentDuration == 0 {
		c.VAD.MaxSegmentDuration = 60
	}
	if c.VAD.WebRTCMode < 0 || c.VAD.WebRTCMode > 3 {
		return fmt.Errorf("vad.webrtc_mode must be between 0 and 3")
	}
	if c.VAD.MinSilence == 0 {
		c.VAD.MinSilence = 0.3
	}

	if c.Summary.Backend == "" {
		c.Summary.Backend = BackendHuggingFace
	}
	if c.Summary.Model == "" {
		c.Summary.Model = "facebook/bart-large-cnn"
	}
	if c.Summary.ChunkSize == 0 {
		c.Summary.ChunkSize = 250
	}
	if c.Summary.MinLength == 0 {
		c.Summary.MinLength = 30
	}
	if c.Summary.MaxLength == 0 {
		c.Summary.MaxLength = 100
	}
	if c.Summary.MinLength > c.Summary.MaxLength {
		return fmt.Errorf("summary.min_length must not exceed summary.max_length")
	}

	if c.Translation.Backend == "" {
		c.Translation.Backend = BackendHuggingFace
	}
	if c.Translation.Pivot == "" {
		c.Translation.Pivot = "es"
	}
	if c.Translation.ChunkSize == 0 {
		c.Translation.ChunkSize = 100
	}
	if c.Translation.MaxLength == 0 {
		c.Translation.MaxLength = 512
	}
	if len(c.Translation.Models) == 0 {
		c.Translation.Models = make(map[string]ModelPair, len(DefaultLanguages))
		for _, lang := range DefaultLanguages {
			c.Translation.Models[lang] = ModelPair{
				Reverse: HelsinkiModel(lang, c.Translation.Pivot),
				Forward: HelsinkiModel(c.Translation.Pivot, lang),
			}
		}
	}

	for _, b := range []struct{ key, value string }{
		{"summary.backend", c.Summary.Backend},
		{"translation.backend", c.Translation.Backend},
	} {
		switch b.value {
		case BackendHuggingFace:
		case BackendGemini:
			if len(c.Gemini.APIKeys) == 0 {
				return fmt.Errorf("gemini.api_keys is required when %s is %q", b.key, BackendGemini)
			}
		default:
			return fmt.Errorf("%s must be %q or %q", b.key, BackendHuggingFace, BackendGemini)
		}
	}
	if c.Summary.ChunkSize < 0 || c.Translation.ChunkSize < 0 {
		return fmt.Errorf("chunk sizes must be positive")
	}

	if c.HuggingFace.APIURL == "" {
		c.HuggingFace.APIURL = "https://api-inference.huggingface.co/models"
	}
	if c.HuggingFace.Timeout == 0 {
		c.HuggingFace.Timeout = 2 * time.Minute
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}

	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 1
	}

	if err := c.CheckLanguage(c.Whisper.Language); err != nil {
		return fmt.Errorf("whisper.language: %w", err)
	}

	return nil
}

// CheckLanguage reports whether lang is the pivot or has a translation model pair
func (c *Config) CheckLanguage(lang string) error {
	if lang == c.Translation.Pivot {
		return nil
	}
	if _, ok := c.Translation.Models[lang]; ok {
		return nil
	}

	known := make([]string, 0, len(c.Translation.Models)+1)
	known = append(known, c.Translation.Pivot)
	for l := range c.Translation.Models {
		known = append(known, l)
	}
	sort.Strings(known)
	return fmt.Errorf("unsupported language %q (want one of %s)", lang, strings.Join(known, ", "))
}
