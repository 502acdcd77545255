package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/facette/natsort"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rowan-dale/facesysbackend/media"
	"github.com/rowan-dale/facesysbackend/services"
	"github.com/rowan-dale/facesysbackend/workers"
)

// batchRun tracks one in-flight or finished batch.
type batchRun struct {
	mu          sync.Mutex
	processor   *workers.BatchProcessor
	total       int
	startedAt   time.Time
	lastMessage string
	summary     *workers.BatchSummary
	runErr      error
}

type BatchHandler struct {
	Service   *services.RecognitionService
	Workers   int
	Timeout   time.Duration
	MaxImages int

	mu   sync.RWMutex
	runs map[string]*batchRun
}

func NewBatchHandler(service *services.RecognitionService, numWorkers int, timeout time.Duration, maxImages int) *BatchHandler {
	return &BatchHandler{
		Service:   service,
		Workers:   numWorkers,
		Timeout:   timeout,
		MaxImages: maxImages,
		runs:      make(map[string]*batchRun),
	}
}

type batchStartRequest struct {
	Paths     []string `json:"paths"`
	Directory string   `json:"directory"`
}

// StartBatch launches an asynchronous batch run over an explicit path list or
// a directory of images, returning the run ID for polling.
func (bh *BatchHandler) StartBatch(w http.ResponseWriter, r *http.Request) {
	var req batchStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	paths := req.Paths
	if len(paths) == 0 && req.Directory != "" {
		listed, err := listImageFiles(req.Directory)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		paths = listed
	}

	if len(paths) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No images to process: provide paths or a directory"})
		return
	}
	if bh.MaxImages > 0 && len(paths) > bh.MaxImages {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("Batch of %d images exceeds the limit of %d", len(paths), bh.MaxImages),
		})
		return
	}

	processor := workers.NewBatchProcessor(bh.Service, bh.Service, bh.Workers, bh.Timeout)
	run := &batchRun{
		processor: processor,
		total:     len(paths),
		startedAt: time.Now(),
	}
	processor.OnProgress(func(processed, total int, message string) {
		run.mu.Lock()
		run.lastMessage = message
		run.mu.Unlock()
	})

	batchID := uuid.New().String()
	bh.mu.Lock()
	bh.runs[batchID] = run
	bh.mu.Unlock()

	go func() {
		summary, err := processor.Run(context.Background(), paths)
		run.mu.Lock()
		run.summary = summary
		run.runErr = err
		run.mu.Unlock()
		if err != nil {
			log.Printf("batch: run %s failed: %v", batchID, err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"batch_id": batchID,
		"total":    len(paths),
		"state":    workers.StateRunning,
	})
}

// GetBatch reports run progress, including the full summary once finished.
func (bh *BatchHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	run, ok := bh.lookup(w, r)
	if !ok {
		return
	}

	run.mu.Lock()
	summary := run.summary
	runErr := run.runErr
	lastMessage := run.lastMessage
	run.mu.Unlock()

	resp := map[string]interface{}{
		"state":        run.processor.State(),
		"total":        run.total,
		"processed":    run.processor.Progress(),
		"started_at":   run.startedAt,
		"last_message": lastMessage,
	}
	if runErr != nil {
		resp["error"] = runErr.Error()
	}
	if summary != nil {
		resp["summary"] = summary
	}
	writeJSON(w, http.StatusOK, resp)
}

// CancelBatch requests a graceful stop; images already dispatched finish.
func (bh *BatchHandler) CancelBatch(w http.ResponseWriter, r *http.Request) {
	run, ok := bh.lookup(w, r)
	if !ok {
		return
	}

	run.processor.Cancel()
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"state":     run.processor.State(),
		"processed": run.processor.Progress(),
		"total":     run.total,
	})
}

func (bh *BatchHandler) lookup(w http.ResponseWriter, r *http.Request) (*batchRun, bool) {
	batchID := chi.URLParam(r, "batch_id")
	bh.mu.RLock()
	run, ok := bh.runs[batchID]
	bh.mu.RUnlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Batch not found"})
		return nil, false
	}
	return run, true
}

// listImageFiles returns the raster images directly inside dir in natural
// sort order, so frame_2.jpg precedes frame_10.jpg.
func listImageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if media.IsRasterImage(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	natsort.Sort(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}
