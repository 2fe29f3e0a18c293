package renderer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/df07/go-distribution-raytracer/pkg/core"
	"github.com/df07/go-distribution-raytracer/pkg/geometry"
	"github.com/df07/go-distribution-raytracer/pkg/scene"
)

// silentLogger discards progress output in tests
type silentLogger struct{}

func (silentLogger) Printf(format string, args ...interface{}) {}

var _ core.Logger = silentLogger{}

func TestProgressiveConfig(t *testing.T) {
	config := DefaultProgressiveConfig()

	if config.RowsPerPass != 16 {
		t.Errorf("Expected default rows per pass 16, got %d", config.RowsPerPass)
	}
	if config.NumWorkers != 0 {
		t.Errorf("Expected auto-detected workers by default, got %d", config.NumWorkers)
	}
	if config.Seed != DefaultSeed {
		t.Errorf("Expected default seed %d, got %d", DefaultSeed, config.Seed)
	}
}

func TestProgressiveTotalPasses(t *testing.T) {
	tests := []struct {
		height, rowsPerPass, expected int
	}{
		{16, 4, 4},
		{17, 4, 5},
		{3, 16, 1},
		{0, 16, 0},
	}

	for _, tt := range tests {
		pr := &ProgressiveRaytracer{
			viewport: geometry.NewViewport(8, tt.height),
			config:   ProgressiveConfig{RowsPerPass: tt.rowsPerPass},
		}
		if got := pr.TotalPasses(); got != tt.expected {
			t.Errorf("Height %d, %d rows/pass: expected %d passes, got %d", tt.height, tt.rowsPerPass, tt.expected, got)
		}
	}
}

func TestRenderProgressive_MatchesSingleThreaded(t *testing.T) {
	s := scene.NewDefaultScene()
	s.SetSampleLevel(2)
	viewport := geometry.Viewport{ScreenWidth: 20, ScreenHeight: 14, Width: 40, Height: 28}

	expected, _ := NewRaytracer(s, viewport).RenderPass()

	config := ProgressiveConfig{RowsPerPass: 4, NumWorkers: 3, Seed: DefaultSeed}
	pr := NewProgressiveRaytracer(s, viewport, config, silentLogger{})
	passChan, rowChan, errChan := pr.RenderProgressive(context.Background(), RenderOptions{RowUpdates: true})

	var passes []PassResult
	seenRows := make(map[int]bool)
	for passChan != nil || rowChan != nil {
		select {
		case result, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			passes = append(passes, result)
		case row, ok := <-rowChan:
			if !ok {
				rowChan = nil
				continue
			}
			if seenRows[row.Y] {
				t.Errorf("Row %d reported twice", row.Y)
			}
			seenRows[row.Y] = true
			if row.RowImage.Bounds().Dx() != 40 || row.RowImage.Bounds().Dy() != 2 {
				t.Errorf("Row %d: expected 40x2 row image, got %v", row.Y, row.RowImage.Bounds())
			}
			if row.TotalRows != 14 || row.TotalPasses != 4 {
				t.Errorf("Row %d: unexpected progress info %+v", row.Y, row)
			}
		}
	}
	if err := <-errChan; err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(passes) != 4 {
		t.Fatalf("Expected 4 passes, got %d", len(passes))
	}
	if len(seenRows) != 14 {
		t.Errorf("Expected 14 row events, got %d", len(seenRows))
	}
	for i, pass := range passes {
		if pass.PassNumber != i+1 {
			t.Errorf("Expected pass %d, got %d", i+1, pass.PassNumber)
		}
		if pass.IsLast != (i == len(passes)-1) {
			t.Errorf("Pass %d: unexpected IsLast %v", pass.PassNumber, pass.IsLast)
		}
	}
	if got := passes[0].Stats.RowsCompleted; got != 4 {
		t.Errorf("Expected 4 rows after first pass, got %d", got)
	}

	last := passes[len(passes)-1]
	if last.Stats.TotalPixels != 20*14 || last.Stats.AverageSamples != 4 {
		t.Errorf("Unexpected final stats: %+v", last.Stats)
	}
	if !bytes.Equal(last.Image.Pix, expected.Pix) {
		t.Error("Progressive output differs from single-threaded render")
	}
}

func TestRenderProgressive_Cancelled(t *testing.T) {
	s := scene.NewSingleSphereScene()
	pr := NewProgressiveRaytracer(s, geometry.NewViewport(16, 16), DefaultProgressiveConfig(), silentLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	passChan, rowChan, errChan := pr.RenderProgressive(ctx, RenderOptions{})

	for range passChan {
		t.Error("Expected no passes after cancellation")
	}
	if _, ok := <-rowChan; ok {
		t.Error("Expected row channel closed when row updates are disabled")
	}
	if err := <-errChan; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestProgressiveRender(t *testing.T) {
	s := scene.NewSingleSphereScene()
	viewport := geometry.NewViewport(24, 24)
	pr := NewProgressiveRaytracer(s, viewport, ProgressiveConfig{RowsPerPass: 5, NumWorkers: 2}, silentLogger{})

	img, stats, err := pr.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if stats.RowsCompleted != 24 {
		t.Errorf("Expected 24 rows, got %d", stats.RowsCompleted)
	}

	expected, _ := NewRaytracer(s, viewport).RenderPass()
	if !bytes.Equal(img.Pix, expected.Pix) {
		t.Error("Render output differs from single-threaded render")
	}
}

func TestWorkerPool_RendersEveryRow(t *testing.T) {
	s := scene.NewSingleSphereScene()
	viewport := geometry.NewViewport(10, 6)
	wp := NewWorkerPool(s, viewport, 2, 1)

	if wp.GetNumWorkers() != 2 {
		t.Errorf("Expected 2 workers, got %d", wp.GetNumWorkers())
	}

	wp.Start()
	for y := 0; y < viewport.ScreenHeight; y++ {
		wp.SubmitTask(RowTask{Y: y, PassNumber: 1, TaskID: y})
	}

	rows := make(map[int][]PixelStats)
	for i := 0; i < viewport.ScreenHeight; i++ {
		result, ok := wp.GetResult()
		if !ok {
			t.Fatal("Result queue closed early")
		}
		if result.TaskID != result.Y {
			t.Errorf("Task %d returned row %d", result.TaskID, result.Y)
		}
		rows[result.Y] = result.Pixels
	}
	wp.Stop()

	if len(rows) != viewport.ScreenHeight {
		t.Fatalf("Expected %d rows, got %d", viewport.ScreenHeight, len(rows))
	}
	for y, row := range rows {
		if len(row) != viewport.ScreenWidth {
			t.Errorf("Row %d: expected %d pixels, got %d", y, viewport.ScreenWidth, len(row))
		}
	}
}

func TestWorkerPool_DefaultWorkerCount(t *testing.T) {
	wp := NewWorkerPool(scene.NewScene(), geometry.NewViewport(4, 4), 0, 1)
	if wp.GetNumWorkers() < 1 {
		t.Errorf("Expected at least one worker, got %d", wp.GetNumWorkers())
	}
}
