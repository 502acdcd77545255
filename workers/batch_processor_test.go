package workers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rowan-dale/facesysbackend/media"
	"github.com/rowan-dale/facesysbackend/services"
)

// stubRecognizer drives the processor without touching real images.
type stubRecognizer struct {
	failOn  string
	panicOn string
	matches int

	// when set, each call signals started and blocks until release is closed
	started chan string
	release chan struct{}

	delay time.Duration
}

func (s *stubRecognizer) RecognizeFileAgainst(path string, gallery []media.KnownEncoding) (*services.ProbeResult, error) {
	if s.started != nil {
		s.started <- path
		<-s.release
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.panicOn == path {
		panic("recognizer exploded")
	}
	if s.failOn == path {
		return nil, errors.New("could not read image")
	}

	matches := make([]media.MatchResult, s.matches)
	for i := range matches {
		matches[i] = media.MatchResult{Matched: true, Name: fmt.Sprintf("match-%d", i), Similarity: 75}
	}
	best := media.NoMatch()
	if len(matches) > 0 {
		best = matches[0]
	}
	return &services.ProbeResult{ImagePath: path, FaceFound: true, Best: best, Matches: matches}, nil
}

type stubGallery struct {
	gallery []media.KnownEncoding
	err     error
}

func (s *stubGallery) GallerySnapshot() ([]media.KnownEncoding, error) {
	return s.gallery, s.err
}

func paths(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("/probes/img%d.jpg", i+1)
	}
	return out
}

func TestBatchRun(t *testing.T) {
	recognizer := &stubRecognizer{failOn: "/probes/img3.jpg", matches: 2}
	bp := NewBatchProcessor(recognizer, &stubGallery{}, 4, time.Minute)

	summary, err := bp.Run(context.Background(), paths(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.State != StateCompleted {
		t.Errorf("state = %s, want %s", summary.State, StateCompleted)
	}
	if summary.Total != 5 || summary.Processed != 5 {
		t.Errorf("total/processed = %d/%d, want 5/5", summary.Total, summary.Processed)
	}
	if summary.Successful != 4 || summary.Failed != 1 {
		t.Errorf("successful/failed = %d/%d, want 4/1", summary.Successful, summary.Failed)
	}
	if summary.TotalMatches != 8 {
		t.Errorf("total matches = %d, want 8", summary.TotalMatches)
	}

	if len(summary.Results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(summary.Results))
	}
	for i, item := range summary.Results {
		want := fmt.Sprintf("/probes/img%d.jpg", i+1)
		if item.ImagePath != want {
			t.Errorf("result %d out of submission order: got %s, want %s", i, item.ImagePath, want)
		}
		if !item.Processed {
			t.Errorf("result %d should be processed", i)
		}
	}

	failed := summary.Results[2]
	if failed.Success || failed.Error == "" {
		t.Errorf("the failing image should carry its error: %+v", failed)
	}
	if summary.Results[0].MatchCount != 2 {
		t.Errorf("match count = %d, want 2", summary.Results[0].MatchCount)
	}
}

func TestBatchPanicIsolation(t *testing.T) {
	recognizer := &stubRecognizer{panicOn: "/probes/img2.jpg", matches: 1}
	bp := NewBatchProcessor(recognizer, &stubGallery{}, 2, time.Minute)

	summary, err := bp.Run(context.Background(), paths(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.State != StateCompleted {
		t.Errorf("a per-image panic must not abort the run, state = %s", summary.State)
	}
	if summary.Failed != 1 || summary.Successful != 2 {
		t.Errorf("successful/failed = %d/%d, want 2/1", summary.Successful, summary.Failed)
	}
	panicked := summary.Results[1]
	if panicked.Success || !strings.Contains(panicked.Error, "panic") {
		t.Errorf("panicking image should fail with a panic error, got %+v", panicked)
	}
}

func TestBatchGalleryFailure(t *testing.T) {
	bp := NewBatchProcessor(&stubRecognizer{}, &stubGallery{err: errors.New("db down")}, 2, time.Minute)

	_, err := bp.Run(context.Background(), paths(3))
	if err == nil {
		t.Fatal("expected the snapshot error to abort the run")
	}
	if bp.State() != StateIdle {
		t.Errorf("a run that never started should return to %s, got %s", StateIdle, bp.State())
	}
}

func TestBatchCancel(t *testing.T) {
	recognizer := &stubRecognizer{
		matches: 1,
		started: make(chan string, 8),
		release: make(chan struct{}),
	}
	bp := NewBatchProcessor(recognizer, &stubGallery{}, 1, time.Minute)

	done := make(chan *BatchSummary, 1)
	go func() {
		summary, err := bp.Run(context.Background(), paths(4))
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		done <- summary
	}()

	// wait for the single worker to pick up the first image, then cancel
	<-recognizer.started
	bp.Cancel()
	close(recognizer.release)

	summary := <-done
	if summary.State != StateCancelled {
		t.Errorf("state = %s, want %s", summary.State, StateCancelled)
	}
	// the in-flight image finishes; at most one more could have been handed
	// off before the cancel was observed
	if summary.Processed < 1 || summary.Processed > 2 {
		t.Errorf("processed = %d, want 1 or 2", summary.Processed)
	}
	skipped := 0
	for _, item := range summary.Results {
		if !item.Processed {
			skipped++
		}
	}
	if skipped == 0 {
		t.Error("cancel should leave undispatched images unprocessed")
	}
}

func TestBatchTimeout(t *testing.T) {
	recognizer := &stubRecognizer{matches: 1, delay: 300 * time.Millisecond}
	bp := NewBatchProcessor(recognizer, &stubGallery{}, 1, 50*time.Millisecond)

	start := time.Now()
	summary, err := bp.Run(context.Background(), paths(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("run should stop near the budget, took %s", elapsed)
	}
	if summary.Processed >= 5 {
		t.Errorf("a timed-out run should not process everything, processed %d", summary.Processed)
	}
	if summary.State != StateCompleted {
		t.Errorf("timeout is not a cancellation, state = %s", summary.State)
	}
}

func TestBatchContextCancellation(t *testing.T) {
	recognizer := &stubRecognizer{
		matches: 1,
		started: make(chan string, 8),
		release: make(chan struct{}),
	}
	bp := NewBatchProcessor(recognizer, &stubGallery{}, 1, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan *BatchSummary, 1)
	go func() {
		summary, err := bp.Run(ctx, paths(3))
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		done <- summary
	}()

	<-recognizer.started
	cancel()
	close(recognizer.release)

	summary := <-done
	if summary.State != StateCancelled {
		t.Errorf("state = %s, want %s", summary.State, StateCancelled)
	}
}

func TestBatchProgress(t *testing.T) {
	recognizer := &stubRecognizer{matches: 1}
	bp := NewBatchProcessor(recognizer, &stubGallery{}, 2, time.Minute)

	var mu sync.Mutex
	var calls []string
	var lastProcessed, lastTotal int
	bp.OnProgress(func(processed, total int, message string) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, message)
		lastProcessed, lastTotal = processed, total
	})

	if _, err := bp.Run(context.Background(), paths(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 3 {
		t.Fatalf("expected 3 progress calls, got %d", len(calls))
	}
	if lastProcessed != 3 || lastTotal != 3 {
		t.Errorf("final progress = %d/%d, want 3/3", lastProcessed, lastTotal)
	}
	for _, message := range calls {
		if !strings.Contains(message, "Processed:") {
			t.Errorf("unexpected progress message %q", message)
		}
	}
}

func TestBatchReuseRejected(t *testing.T) {
	bp := NewBatchProcessor(&stubRecognizer{matches: 1}, &stubGallery{}, 1, time.Minute)
	if _, err := bp.Run(context.Background(), paths(1)); err != nil {
		t.Fatal(err)
	}
	if _, err := bp.Run(context.Background(), paths(1)); err == nil {
		t.Error("a processor must reject a second run")
	}
}
