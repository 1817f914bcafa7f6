// Package bulletin orchestrates one forecast-to-audio cycle: fetch the feed,
// aggregate it, compose the bulletin for the current window, synthesize it,
// and record the result.
package bulletin

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/avonside/weather-bulletin/internal/forecast"
)

// Record is one generated bulletin.
type Record struct {
	Text        string    `json:"text"`
	Window      string    `json:"window"`
	GeneratedAt time.Time `json:"generatedAt"` // always UTC
	AudioFile   string    `json:"audioFile,omitempty"`
	Conditions  []string  `json:"conditions,omitempty"`
}

// FeedClient fetches one forecast snapshot. Retry/backoff lives behind this
// interface; the service never retries aggregation or composition.
type FeedClient interface {
	Fetch(ctx context.Context) ([]forecast.Observation, error)
}

// Synthesizer converts bulletin text to audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Store is the contract the in-memory store (and any future persistent
// store) must satisfy.
type Store interface {
	Save(rec Record)
	Latest() (Record, error)
	Range(from, to time.Time) ([]Record, error)
}

// Service wires the collaborators around the pure forecast core.
type Service struct {
	feed     FeedClient
	tts      Synthesizer
	store    Store
	composer *forecast.Composer

	outputFile string

	// Now is the clock used for template selection; tests override it.
	Now func() time.Time
}

// NewService creates a Service. tts may be nil, in which case bulletins are
// composed and stored but no audio artifact is produced.
func NewService(feed FeedClient, tts Synthesizer, store Store, composer *forecast.Composer, outputFile string) *Service {
	return &Service{
		feed:       feed,
		tts:        tts,
		store:      store,
		composer:   composer,
		outputFile: outputFile,
		Now:        time.Now,
	}
}

// Generate runs one full cycle and returns the stored record. Any failure in
// the core aborts the cycle; a partial bulletin is never stored or spoken.
func (s *Service) Generate(ctx context.Context) (Record, error) {
	observations, err := s.feed.Fetch(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("fetch forecast: %w", err)
	}

	index, err := forecast.Aggregate(observations)
	if err != nil {
		return Record{}, fmt.Errorf("aggregate forecast: %w", err)
	}

	now := s.Now()
	window := forecast.WindowFor(now.Hour())
	log.Printf("generating %s bulletin", window)

	text, err := s.composer.Compose(index, now)
	if err != nil {
		return Record{}, fmt.Errorf("compose bulletin: %w", err)
	}

	rec := Record{
		Text:        text,
		Window:      window.String(),
		GeneratedAt: now.UTC(),
		Conditions:  forecast.DistinctDescriptions(observations),
	}

	if s.tts != nil {
		audio, err := s.tts.Synthesize(ctx, text)
		if err != nil {
			return Record{}, fmt.Errorf("synthesize bulletin: %w", err)
		}
		if s.outputFile != "" {
			if err := os.WriteFile(s.outputFile, audio, 0o644); err != nil {
				return Record{}, fmt.Errorf("write audio artifact: %w", err)
			}
			log.Printf("audio content written to %s", s.outputFile)
			rec.AudioFile = s.outputFile
		}
	}

	s.store.Save(rec)
	return rec, nil
}

// Latest delegates to the underlying store.
func (s *Service) Latest() (Record, error) {
	return s.store.Latest()
}

// Range delegates to the underlying store.
func (s *Service) Range(from, to time.Time) ([]Record, error) {
	return s.store.Range(from, to)
}
