// Package tts renders practice sentences to speech through the Google
// Translate TTS endpoint and caches the result on disk. Synthesis is
// idempotent per (item identity, language): an identity already rendered
// is served from the cache without another upstream call.
package tts

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Synthesizer generates and caches audio files
type Synthesizer struct {
	cacheDir string
	apiURL   string
	http     *http.Client
}

// New creates a synthesizer caching into cacheDir
func New(cacheDir string) *Synthesizer {
	return &Synthesizer{
		cacheDir: cacheDir,
		apiURL:   "https://translate.google.com/translate_tts",
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Generate returns the path of an mp3 rendering of text. itemID keys the
// cache; a cached file is returned without calling upstream.
func (s *Synthesizer) Generate(text, lang string, itemID int64) (string, error) {
	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audio cache directory: %v", err)
	}

	path := filepath.Join(s.cacheDir, fmt.Sprintf("item_%d_%s.mp3", itemID, lang))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", lang)
	query.Set("q", text)

	resp, err := s.http.Get(s.apiURL + "?" + query.Encode())
	if err != nil {
		return "", fmt.Errorf("failed to fetch audio: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("audio service returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read audio: %v", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to cache audio: %v", err)
	}

	return path, nil
}
