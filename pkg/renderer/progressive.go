package renderer

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"time"

	"github.com/df07/go-distribution-raytracer/pkg/core"
	"github.com/df07/go-distribution-raytracer/pkg/geometry"
	"github.com/df07/go-distribution-raytracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	RowsPerPass int   // Logical rows rendered per pass
	NumWorkers  int   // Number of parallel workers (0 = use CPU count)
	Seed        int64 // Base seed for the workers' jitter samplers
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		RowsPerPass: 16,
		NumWorkers:  0, // Auto-detect CPU count
		Seed:        DefaultSeed,
	}
}

// ProgressiveRaytracer renders a frame a batch of rows at a time, publishing
// each finished row and the partial image after every batch
type ProgressiveRaytracer struct {
	scene       *scene.Scene
	viewport    geometry.Viewport
	config      ProgressiveConfig
	currentPass int
	nextRow     int         // First logical row not yet submitted
	image       *image.RGBA // Physical-size frame, filled as rows complete
	stats       RenderStats // Statistics over completed rows
	workerPool  *WorkerPool
	logger      core.Logger
}

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(s *scene.Scene, viewport geometry.Viewport, config ProgressiveConfig, logger core.Logger) *ProgressiveRaytracer {
	if config.RowsPerPass <= 0 {
		config.RowsPerPass = DefaultProgressiveConfig().RowsPerPass
	}

	samplesPerAxis := max(s.Config.Samples, 1)

	return &ProgressiveRaytracer{
		scene:      s,
		viewport:   viewport,
		config:     config,
		image:      NewImage(viewport),
		stats:      NewRenderStats(samplesPerAxis),
		workerPool: NewWorkerPool(s, viewport, config.NumWorkers, config.Seed),
		logger:     logger,
	}
}

// TotalPasses returns the number of passes needed to cover every row
func (pr *ProgressiveRaytracer) TotalPasses() int {
	return (pr.viewport.ScreenHeight + pr.config.RowsPerPass - 1) / pr.config.RowsPerPass
}

// RenderPass renders the next batch of rows using parallel processing
func (pr *ProgressiveRaytracer) RenderPass(passNumber int, rowCallback func(RowResult)) (*image.RGBA, RenderStats, error) {
	pr.currentPass = passNumber

	start := pr.nextRow
	end := min(start+pr.config.RowsPerPass, pr.viewport.ScreenHeight)

	pr.logger.Printf("Pass %d: rows %d-%d (using %d workers)...\n",
		passNumber, start, end-1, pr.workerPool.GetNumWorkers())

	// Start worker pool if not already started
	if passNumber == 1 {
		pr.workerPool.Start()
	}

	taskID := 0
	for y := start; y < end; y++ {
		pr.workerPool.SubmitTask(RowTask{
			Y:          y,
			PassNumber: passNumber,
			TaskID:     taskID,
		})
		taskID++
	}
	pr.nextRow = end

	// Rows are painted here, on a single goroutine, as results arrive
	for i := 0; i < end-start; i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}

		PaintRow(pr.image, pr.viewport, result.Y, result.Pixels)
		pr.stats.AddRow(result.Pixels)

		if rowCallback != nil {
			rowCallback(RowResult{
				Y:          result.Y,
				RowImage:   pr.extractRowImage(result.Y),
				PassNumber: passNumber,

				RowNumber:   pr.stats.RowsCompleted,
				TotalRows:   pr.viewport.ScreenHeight,
				TotalPasses: pr.TotalPasses(),
			})
		}
	}

	stats := pr.stats
	stats.Finalize()
	return cloneImage(pr.image), stats, nil
}

// extractRowImage copies the physical pixels covered by logical row y
func (pr *ProgressiveRaytracer) extractRowImage(y int) *image.RGBA {
	bounds := image.Rect(0, PixelRect(pr.viewport, 0, y).Min.Y, pr.viewport.Width, PixelRect(pr.viewport, 0, y).Max.Y)
	rowImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rowImage, rowImage.Bounds(), pr.image, bounds.Min, draw.Src)
	return rowImage
}

func cloneImage(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA // Frame so far; rows not yet rendered are transparent black
	Stats      RenderStats
	IsLast     bool
}

// RowResult contains information about a completed row for callbacks
type RowResult struct {
	Y          int         // Logical row
	RowImage   *image.RGBA // Physical pixels of just this row
	PassNumber int         // Which pass this row was rendered in

	// Progress information
	RowNumber   int // Rows completed so far, including this one (1-based)
	TotalRows   int
	TotalPasses int
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	RowUpdates bool // Whether to generate row completion events
}

// RenderProgressive renders with channel-based communication.
// Returns channels for events. The caller should read from these channels in separate goroutines.
// If options.RowUpdates is false, the row channel will be closed immediately and no row events will be generated.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan RowResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	rowChan := make(chan RowResult, 100)
	errChan := make(chan error, 1)

	if !options.RowUpdates {
		close(rowChan)
	}

	go func() {
		defer close(passChan)
		if options.RowUpdates {
			defer close(rowChan)
		}
		defer close(errChan)
		defer pr.workerPool.Stop()

		totalPasses := pr.TotalPasses()
		pr.logger.Printf("Starting progressive rendering with %d passes...\n", totalPasses)

		for pass := 1; pass <= totalPasses; pass++ {
			// Check if client disconnected before starting this pass
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			startTime := time.Now()

			var rowCallback func(RowResult)
			if options.RowUpdates {
				rowCallback = func(result RowResult) {
					select {
					case rowChan <- result:
					case <-ctx.Done():
					}
				}
			}

			img, stats, err := pr.RenderPass(pass, rowCallback)
			if err != nil {
				errChan <- err
				return
			}

			pr.logger.Printf("Pass %d completed in %v (%d/%d rows)\n",
				pass, time.Since(startTime), stats.RowsCompleted, pr.viewport.ScreenHeight)

			result := PassResult{
				PassNumber: pass,
				Image:      img,
				Stats:      stats,
				IsLast:     pass == totalPasses,
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return passChan, rowChan, errChan
}

// Render runs every pass and returns the finished frame
func (pr *ProgressiveRaytracer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	passChan, _, errChan := pr.RenderProgressive(ctx, RenderOptions{})

	var last PassResult
	for result := range passChan {
		last = result
	}
	if err := <-errChan; err != nil {
		return nil, RenderStats{}, err
	}
	if last.Image == nil {
		// Zero-height viewport: nothing to render
		stats := pr.stats
		stats.Finalize()
		return cloneImage(pr.image), stats, nil
	}
	return last.Image, last.Stats, nil
}
