package workers

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rowan-dale/facesysbackend/media"
	"github.com/rowan-dale/facesysbackend/services"
)

// RunState describes the lifecycle of one batch run.
type RunState string

const (
	StateIdle      RunState = "idle"
	StateRunning   RunState = "running"
	StateCompleted RunState = "completed"
	StateCancelled RunState = "cancelled"
)

const (
	DefaultWorkerCount = 4
	DefaultTimeout     = 300 * time.Second
)

// Recognizer recognizes one probe against a caller-held gallery snapshot.
// Satisfied by services.RecognitionService.
type Recognizer interface {
	RecognizeFileAgainst(path string, gallery []media.KnownEncoding) (*services.ProbeResult, error)
}

// GallerySource supplies the gallery snapshot a run holds for its duration.
type GallerySource interface {
	GallerySnapshot() ([]media.KnownEncoding, error)
}

// ProgressFunc receives (processed, total, message) after each finished item.
type ProgressFunc func(processed, total int, message string)

// BatchItemResult is the per-image outcome within a run. Images never
// dispatched (cancelled or timed out first) appear with Processed false.
type BatchItemResult struct {
	ImagePath  string              `json:"image_path"`
	Processed  bool                `json:"processed"`
	Success    bool                `json:"success"`
	FaceFound  bool                `json:"face_found"`
	MatchCount int                 `json:"match_count"`
	Matches    []media.MatchResult `json:"matches,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// BatchSummary aggregates a finished run. Results are in submission order.
type BatchSummary struct {
	Total        int               `json:"total"`
	Processed    int               `json:"processed"`
	Successful   int               `json:"successful"`
	Failed       int               `json:"failed"`
	TotalMatches int               `json:"total_matches"`
	State        RunState          `json:"state"`
	Results      []BatchItemResult `json:"results"`
	CompletedAt  time.Time         `json:"completed_at"`
}

type batchJob struct {
	index int
	path  string
}

// BatchProcessor fans a list of probe images out over a fixed worker pool,
// recognizing each against a single gallery snapshot. One processor runs one
// batch; Run returns an error if called again.
type BatchProcessor struct {
	recognizer Recognizer
	gallery    GallerySource
	numWorkers int
	timeout    time.Duration
	progress   ProgressFunc

	cancelled  atomic.Bool
	cancelOnce sync.Once
	cancelCh   chan struct{}

	mu             sync.Mutex
	state          RunState
	items          map[int]BatchItemResult
	processedCount int
}

// NewBatchProcessor creates a new batch processor. Non-positive numWorkers or
// timeout fall back to the defaults.
func NewBatchProcessor(recognizer Recognizer, gallery GallerySource, numWorkers int, timeout time.Duration) *BatchProcessor {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &BatchProcessor{
		recognizer: recognizer,
		gallery:    gallery,
		numWorkers: numWorkers,
		timeout:    timeout,
		cancelCh:   make(chan struct{}),
		state:      StateIdle,
		items:      make(map[int]BatchItemResult),
	}
}

// OnProgress registers the progress callback. Must be called before Run.
func (bp *BatchProcessor) OnProgress(fn ProgressFunc) {
	bp.progress = fn
}

// Cancel requests a graceful stop: no further images are dispatched, in-flight
// workers finish their current image. Safe to call from any goroutine.
func (bp *BatchProcessor) Cancel() {
	bp.cancelled.Store(true)
	bp.cancelOnce.Do(func() { close(bp.cancelCh) })
}

// State returns the current lifecycle state.
func (bp *BatchProcessor) State() RunState {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.state
}

// Progress returns how many images have finished so far.
func (bp *BatchProcessor) Progress() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.processedCount
}

// Run processes the given image paths and blocks until the batch completes,
// is cancelled, or exceeds the wall-clock budget. The gallery is snapshotted
// once up front; a snapshot failure aborts the run before any image is
// touched. Each image failure is isolated to its own result entry.
func (bp *BatchProcessor) Run(ctx context.Context, paths []string) (*BatchSummary, error) {
	bp.mu.Lock()
	if bp.state != StateIdle {
		bp.mu.Unlock()
		return nil, fmt.Errorf("batch already started (state %s)", bp.state)
	}
	bp.state = StateRunning
	bp.mu.Unlock()

	gallery, err := bp.gallery.GallerySnapshot()
	if err != nil {
		bp.mu.Lock()
		bp.state = StateIdle
		bp.mu.Unlock()
		return nil, fmt.Errorf("failed to snapshot gallery: %w", err)
	}

	log.Printf("batch: starting run of %d images with %d workers against %d gallery encodings",
		len(paths), bp.numWorkers, len(gallery))

	deadline := time.Now().Add(bp.timeout)
	timer := time.NewTimer(bp.timeout)
	defer timer.Stop()

	// Unbuffered so a cancel between hand-offs stops dispatch immediately.
	jobs := make(chan batchJob)
	var wg sync.WaitGroup
	for i := 0; i < bp.numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				item := bp.processItem(job.path, gallery)
				bp.record(job.index, item, len(paths))
			}
		}()
	}

	timedOut := false
dispatch:
	for i, path := range paths {
		if bp.cancelled.Load() {
			break
		}
		select {
		case jobs <- batchJob{index: i, path: path}:
		case <-ctx.Done():
			bp.Cancel()
			break dispatch
		case <-bp.cancelCh:
			break dispatch
		case <-timer.C:
			timedOut = true
			break dispatch
		}
	}
	close(jobs)

	// Let in-flight images finish, but never past the wall-clock budget.
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Until(deadline)):
		timedOut = true
	}

	if ctx.Err() != nil {
		bp.Cancel()
	}

	bp.mu.Lock()
	defer bp.mu.Unlock()

	summary := &BatchSummary{
		Total:       len(paths),
		Results:     make([]BatchItemResult, 0, len(paths)),
		CompletedAt: time.Now(),
	}
	for i, path := range paths {
		item, ok := bp.items[i]
		if !ok {
			item = BatchItemResult{ImagePath: path, Processed: false}
		}
		summary.Results = append(summary.Results, item)
		if !item.Processed {
			continue
		}
		summary.Processed++
		if item.Success {
			summary.Successful++
			summary.TotalMatches += item.MatchCount
		} else {
			summary.Failed++
		}
	}

	if bp.cancelled.Load() {
		bp.state = StateCancelled
	} else {
		bp.state = StateCompleted
	}
	summary.State = bp.state

	if timedOut {
		log.Printf("batch: run hit the %s budget after %d/%d images", bp.timeout, summary.Processed, summary.Total)
	}
	log.Printf("batch: run finished (%s): %d processed, %d successful, %d failed, %d total matches",
		summary.State, summary.Processed, summary.Successful, summary.Failed, summary.TotalMatches)
	return summary, nil
}

// processItem recognizes one image. A panic inside the recognizer is
// converted into a failed item so one bad image cannot take down the run.
func (bp *BatchProcessor) processItem(path string, gallery []media.KnownEncoding) (item BatchItemResult) {
	item = BatchItemResult{ImagePath: path, Processed: true}
	defer func() {
		if r := recover(); r != nil {
			item.Success = false
			item.Matches = nil
			item.MatchCount = 0
			item.Error = fmt.Sprintf("panic while processing image: %v", r)
		}
	}()

	result, err := bp.recognizer.RecognizeFileAgainst(path, gallery)
	if err != nil {
		item.Error = err.Error()
		return item
	}

	item.Success = true
	item.FaceFound = result.FaceFound
	item.Matches = result.Matches
	item.MatchCount = len(result.Matches)
	return item
}

func (bp *BatchProcessor) record(index int, item BatchItemResult, total int) {
	bp.mu.Lock()
	bp.items[index] = item
	bp.processedCount++
	processed := bp.processedCount
	bp.mu.Unlock()

	if bp.progress == nil {
		return
	}
	name := filepath.Base(item.ImagePath)
	var message string
	switch {
	case !item.Success:
		message = fmt.Sprintf("Failed: %s - %s", name, item.Error)
	case !item.FaceFound:
		message = fmt.Sprintf("Processed: %s - no face detected", name)
	default:
		message = fmt.Sprintf("Processed: %s - %d matches found", name, item.MatchCount)
	}
	bp.progress(processed, total, message)
}
