// Package audio fetches and caches spoken German numbers as MP3 files.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

const (
	defaultTTSURL     = "https://translate.google.com/translate_tts"
	ttsRequestTimeout = 10 * time.Second
	userAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// audioNamespace scopes the name-based UUIDs used as cache file names
var audioNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("zahlentrainer/audio"))

// ErrEmptyText is returned when there is nothing to speak
var ErrEmptyText = errors.New("no text to speak")

// TTSService provides text-to-speech functionality
type TTSService struct {
	audioDir string
	lang     string
	baseURL  string
	client   *http.Client
}

// Option configures a TTSService
type Option func(*TTSService)

// WithBaseURL points the service at a different TTS endpoint
func WithBaseURL(u string) Option {
	return func(s *TTSService) { s.baseURL = u }
}

// WithHTTPClient replaces the HTTP client used for TTS requests
func WithHTTPClient(c *http.Client) Option {
	return func(s *TTSService) { s.client = c }
}

// NewTTSService creates a new TTS service storing files in audioDir.
// tag is a BCP 47 language tag such as "de-DE"; only its base language is sent.
func NewTTSService(audioDir, tag string, opts ...Option) (*TTSService, error) {
	parsed, err := language.Parse(tag)
	if err != nil {
		return nil, fmt.Errorf("invalid TTS language %q: %w", tag, err)
	}
	base, _ := parsed.Base()

	s := &TTSService{
		audioDir: audioDir,
		lang:     base.String(),
		baseURL:  defaultTTSURL,
		client:   &http.Client{Timeout: ttsRequestTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Language returns the language code sent to the TTS endpoint
func (s *TTSService) Language() string {
	return s.lang
}

// Filename returns the cache file name for text
func (s *TTSService) Filename(text string) string {
	key := s.lang + ":" + strings.TrimSpace(text)
	return fmt.Sprintf("num_%s.mp3", uuid.NewSHA1(audioNamespace, []byte(key)))
}

// Path returns the location of a cached file inside the audio directory
func (s *TTSService) Path(filename string) string {
	return filepath.Join(s.audioDir, filepath.Base(filename))
}

// AudioFor returns the file name of an MP3 speaking text, fetching it when it
// is not cached yet.
func (s *TTSService) AudioFor(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}

	filename := s.Filename(text)
	path := s.Path(filename)

	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	if err := os.MkdirAll(s.audioDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}

	if err := s.fetch(ctx, text, path); err != nil {
		return "", fmt.Errorf("failed to generate audio: %w", err)
	}

	slog.Debug("audio cached", slog.String("file", filename), slog.String("text", text))
	return filename, nil
}

// fetch downloads speech for text from the TTS endpoint into outputPath
func (s *TTSService) fetch(ctx context.Context, text, outputPath string) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", s.lang)
	params.Set("client", "tw-ob")
	params.Set("textlen", strconv.Itoa(len([]rune(text))))

	ctx, cancel := context.WithTimeout(ctx, ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// Only complete downloads are renamed into the cache
	tmp, err := os.CreateTemp(s.audioDir, "tts-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	return os.Rename(tmp.Name(), outputPath)
}
