package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-distribution-raytracer/pkg/geometry"
	"github.com/df07/go-distribution-raytracer/pkg/loaders"
	"github.com/df07/go-distribution-raytracer/pkg/renderer"
	"github.com/df07/go-distribution-raytracer/pkg/scene"
)

// Config holds the command line settings
type Config struct {
	SceneType    string
	Width        int
	Height       int
	ScreenWidth  int
	ScreenHeight int
	Samples      int
	Jitter       bool
	Reflections  bool
	MaxDepth     int
	Workers      int
	Seed         int64
	Compare      string
	Help         bool
}

func main() {
	config, setFlags := parseFlags()

	if config.Help {
		showHelp()
		return
	}

	fmt.Println("Starting Distribution Raytracer...")

	selectedScene, err := createScene(config.SceneType)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	applyRenderFlags(selectedScene, config, setFlags)

	viewport, err := createViewport(config)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	outputDir := createOutputDir(config.SceneType)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Scene: %s (%d primitives, %d lights)\n",
		config.SceneType, selectedScene.GetPrimitiveCount(), len(selectedScene.Lights))
	fmt.Printf("Resolution: %dx%d logical, %dx%d output, %d samples per axis\n",
		viewport.ScreenWidth, viewport.ScreenHeight, viewport.Width, viewport.Height, selectedScene.Config.Samples)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	progressiveConfig := renderer.DefaultProgressiveConfig()
	progressiveConfig.NumWorkers = config.Workers
	progressiveConfig.Seed = config.Seed

	raytracer := renderer.NewProgressiveRaytracer(selectedScene, viewport, progressiveConfig, renderer.NewDefaultLogger())

	startTime := time.Now()
	img, stats, err := raytracer.Render(ctx)
	if err != nil {
		fmt.Printf("Render failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render completed in %v\n", time.Since(startTime))
	fmt.Printf("Primary rays: %d (%.1f per pixel), average lightness %.3f\n",
		stats.TotalSamples, stats.AverageSamples, stats.AverageLightness)

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		fmt.Printf("Error creating file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		fmt.Printf("Error saving PNG: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render saved as %s\n", filename)

	if config.Compare != "" {
		diff, err := compareWithReference(loaders.FromImage(img), config.Compare)
		if err != nil {
			fmt.Printf("Error comparing with %s: %v\n", config.Compare, err)
			os.Exit(1)
		}
		fmt.Printf("Max channel difference from %s: %.4f\n", config.Compare, diff)
	}
}

// parseFlags parses command line flags and reports which ones were given explicitly
func parseFlags() (Config, map[string]bool) {
	config := Config{}
	flag.StringVar(&config.SceneType, "scene", "default", "Built-in scene name, JSON scene name in scenes/, or path to a .json scene")
	flag.IntVar(&config.Width, "width", 400, "Output image width in pixels")
	flag.IntVar(&config.Height, "height", 300, "Output image height in pixels")
	flag.IntVar(&config.ScreenWidth, "screen-width", 0, "Logical render width (0 = output width)")
	flag.IntVar(&config.ScreenHeight, "screen-height", 0, "Logical render height (0 = output height)")
	flag.IntVar(&config.Samples, "samples", 1, "Samples per axis for pixels and area lights (overrides the scene)")
	flag.BoolVar(&config.Jitter, "jitter", false, "Jitter sample positions (overrides the scene)")
	flag.BoolVar(&config.Reflections, "reflections", false, "Trace mirror reflections (overrides the scene)")
	flag.IntVar(&config.MaxDepth, "max-depth", scene.DefaultMaxDepth, "Maximum reflection depth (overrides the scene)")
	flag.IntVar(&config.Workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.Int64Var(&config.Seed, "seed", renderer.DefaultSeed, "Base seed for jittered sampling")
	flag.StringVar(&config.Compare, "compare", "", "Reference PNG/JPEG to compare the render against")
	flag.BoolVar(&config.Help, "help", false, "Show help information")
	flag.Parse()

	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	return config, setFlags
}

func showHelp() {
	fmt.Println("Distribution Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Built-in scenes:")
	for _, info := range scene.ListBuiltInScenes() {
		fmt.Printf("  %-14s - %s\n", info.ID, info.Description)
	}
	fmt.Println()
	fmt.Println("JSON scenes are loaded from scenes/<name>.json or from a path ending in .json")
	fmt.Println("Output will be saved to output/<scene_name>/render_<timestamp>.png")
}

// applyRenderFlags overrides scene render settings with the flags given explicitly
func applyRenderFlags(s *scene.Scene, config Config, setFlags map[string]bool) {
	if setFlags["samples"] {
		s.SetSampleLevel(config.Samples)
	}
	if setFlags["jitter"] {
		s.SetJitter(config.Jitter)
	}
	if setFlags["reflections"] {
		s.SetReflections(config.Reflections)
	}
	if setFlags["max-depth"] {
		s.SetMaxDepth(config.MaxDepth)
	}
}

// createViewport validates the output and logical resolutions
func createViewport(config Config) (geometry.Viewport, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return geometry.Viewport{}, fmt.Errorf("output size must be positive, got %dx%d", config.Width, config.Height)
	}

	viewport := geometry.NewViewport(config.Width, config.Height)
	if config.ScreenWidth > 0 {
		viewport.ScreenWidth = config.ScreenWidth
	}
	if config.ScreenHeight > 0 {
		viewport.ScreenHeight = config.ScreenHeight
	}

	if viewport.ScreenWidth > viewport.Width || viewport.ScreenHeight > viewport.Height {
		return geometry.Viewport{}, fmt.Errorf("logical size %dx%d cannot exceed output size %dx%d",
			viewport.ScreenWidth, viewport.ScreenHeight, viewport.Width, viewport.Height)
	}

	return viewport, nil
}

// createScene creates a scene based on the scene type string
func createScene(sceneType string) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, fmt.Errorf("scene name cannot be empty")
	}

	if s, ok := scene.NewBuiltInScene(sceneType); ok {
		return s, nil
	}

	s, err := tryLoadJSONScene(sceneType)
	if err != nil {
		return nil, err
	}
	if s != nil {
		return s, nil
	}

	return nil, fmt.Errorf("unknown scene: %s", sceneType)
}

// jsonScenePath maps a scene name or path to the JSON file it refers to
func jsonScenePath(sceneType string) string {
	if strings.HasSuffix(sceneType, ".json") {
		return sceneType
	}
	return filepath.Join("scenes", sceneType+".json")
}

// tryLoadJSONScene loads a JSON scene if the file exists. A missing file
// yields a nil scene; a file that exists but cannot be parsed is an error.
func tryLoadJSONScene(sceneType string) (*scene.Scene, error) {
	path := jsonScenePath(sceneType)
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	fmt.Printf("Loading JSON scene: %s\n", path)
	s, err := loaders.LoadScene(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene %s: %w", path, err)
	}
	return s, nil
}

// createOutputDir returns the output directory for a scene
func createOutputDir(sceneType string) string {
	if _, ok := scene.NewBuiltInScene(sceneType); ok {
		return filepath.Join("output", sceneType)
	}

	if strings.HasSuffix(sceneType, ".json") {
		base := filepath.Base(sceneType)
		return filepath.Join("output", strings.TrimSuffix(base, filepath.Ext(base)))
	}

	if _, err := os.Stat(jsonScenePath(sceneType)); err == nil {
		return filepath.Join("output", sceneType)
	}

	return filepath.Join("output", "json-scene")
}

// compareWithReference returns the largest channel difference between a render and a reference image
func compareWithReference(rendered *loaders.ImageData, referencePath string) (float64, error) {
	reference, err := loaders.LoadImage(referencePath)
	if err != nil {
		return 0, err
	}
	return rendered.MaxDifference(reference)
}
