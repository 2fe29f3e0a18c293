package renderer

import (
	"runtime"
	"sync"

	"github.com/df07/go-distribution-raytracer/pkg/geometry"
	"github.com/df07/go-distribution-raytracer/pkg/scene"
)

// RowTask represents a logical row rendering task for the worker pool
type RowTask struct {
	Y          int // Logical row to render
	PassNumber int
	TaskID     int // For deterministic ordering
}

// RowTaskResult contains the result from rendering a row
type RowTaskResult struct {
	TaskID int
	Y      int
	Pixels []PixelStats
}

// WorkerPool manages parallel row rendering
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowTaskResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual row rendering tasks with its own raytracer,
// so no two workers share a random source
type Worker struct {
	ID          int
	raytracer   *Raytracer
	taskQueue   chan RowTask
	resultQueue chan RowTaskResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// Worker i seeds its sampler with seed+i.
func NewWorkerPool(s *scene.Scene, viewport geometry.Viewport, numWorkers int, seed int64) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	// One frame never has more tasks in flight than rows
	maxRows := max(viewport.ScreenHeight, 1)

	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, maxRows),
		resultQueue: make(chan RowTaskResult, maxRows),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			raytracer:   NewRaytracer(s, viewport, WithSeed(seed+int64(i))),
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed row result
func (wp *WorkerPool) GetResult() (RowTaskResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		w.resultQueue <- RowTaskResult{
			TaskID: task.TaskID,
			Y:      task.Y,
			Pixels: w.raytracer.RenderRow(task.Y),
		}
	}
}
