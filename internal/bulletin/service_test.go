package bulletin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/avonside/weather-bulletin/internal/forecast"
)

type stubFeed struct {
	observations []forecast.Observation
	err          error
}

func (s stubFeed) Fetch(ctx context.Context) ([]forecast.Observation, error) {
	return s.observations, s.err
}

type stubTTS struct {
	texts []string
}

func (s *stubTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	s.texts = append(s.texts, text)
	return []byte("audio-bytes"), nil
}

type stubStore struct {
	records []Record
}

func (s *stubStore) Save(rec Record) {
	s.records = append(s.records, rec)
}

func (s *stubStore) Latest() (Record, error) {
	if len(s.records) == 0 {
		return Record{}, errors.New("empty")
	}
	return s.records[len(s.records)-1], nil
}

func (s *stubStore) Range(from, to time.Time) ([]Record, error) {
	return s.records, nil
}

func testObservation(t *testing.T, stamp string, code forecast.Code) forecast.Observation {
	t.Helper()
	ts, err := time.Parse("2006-01-02T15:04Z07:00", stamp)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", stamp, err)
	}
	return forecast.Observation{
		Time:                   ts,
		MaxScreenAirTemp:       12.4,
		MinScreenAirTemp:       7.1,
		SignificantWeatherCode: code,
		UVIndex:                2,
		ProbOfRain:             10,
	}
}

func TestGenerateFullCycle(t *testing.T) {
	feed := stubFeed{observations: []forecast.Observation{
		testObservation(t, "2024-03-01T09:00Z", 3),
		testObservation(t, "2024-03-01T13:00Z", 3),
	}}
	tts := &stubTTS{}
	st := &stubStore{}
	outFile := filepath.Join(t.TempDir(), "bulletin.wav")

	svc := NewService(feed, tts, st, &forecast.Composer{Place: "North East Somerset"}, outFile)
	svc.Now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }

	rec, err := svc.Generate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Window != "morning" {
		t.Errorf("window = %q, want %q", rec.Window, "morning")
	}
	if rec.Text == "" {
		t.Error("expected non-empty bulletin text")
	}
	if len(tts.texts) != 1 || tts.texts[0] != rec.Text {
		t.Errorf("synthesizer received %v, want the bulletin text", tts.texts)
	}
	if len(st.records) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(st.records))
	}
	if rec.AudioFile != outFile {
		t.Errorf("audio file = %q, want %q", rec.AudioFile, outFile)
	}

	audio, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("audio artifact not written: %v", err)
	}
	if string(audio) != "audio-bytes" {
		t.Errorf("audio artifact content = %q", audio)
	}
}

func TestGenerateWithoutSynthesizer(t *testing.T) {
	feed := stubFeed{observations: []forecast.Observation{
		testObservation(t, "2024-03-01T09:00Z", 3),
		testObservation(t, "2024-03-01T13:00Z", 3),
	}}
	st := &stubStore{}

	svc := NewService(feed, nil, st, &forecast.Composer{Place: "Bath"}, "")
	svc.Now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }

	rec, err := svc.Generate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.AudioFile != "" {
		t.Errorf("expected no audio file, got %q", rec.AudioFile)
	}
}

func TestGenerateFeedFailure(t *testing.T) {
	feed := stubFeed{err: errors.New("upstream down")}
	st := &stubStore{}

	svc := NewService(feed, nil, st, &forecast.Composer{Place: "Bath"}, "")

	if _, err := svc.Generate(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(st.records) != 0 {
		t.Errorf("no record should be stored on failure, got %d", len(st.records))
	}
}

func TestGenerateMissingPeriodAborts(t *testing.T) {
	// Morning window needs today's afternoon; only morning data is present.
	feed := stubFeed{observations: []forecast.Observation{
		testObservation(t, "2024-03-01T09:00Z", 3),
	}}
	st := &stubStore{}

	svc := NewService(feed, nil, st, &forecast.Composer{Place: "Bath"}, "")
	svc.Now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }

	_, err := svc.Generate(context.Background())
	var missing *forecast.MissingPeriodError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingPeriodError, got %v", err)
	}
	if len(st.records) != 0 {
		t.Errorf("partial bulletin must not be stored, got %d records", len(st.records))
	}
}
