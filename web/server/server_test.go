package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewServer(0).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, target interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("Failed to decode response from %s: %v", url, err)
	}
	return resp.StatusCode
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]string
	if status := getJSON(t, ts.URL+"/api/health", &body); status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}

func TestHandleScenes(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Groups []struct {
			Name   string `json:"name"`
			Scenes []struct {
				ID string `json:"id"`
			} `json:"scenes"`
		} `json:"groups"`
	}
	if status := getJSON(t, ts.URL+"/api/scenes", &body); status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}

	found := false
	for _, group := range body.Groups {
		for _, s := range group.Scenes {
			if s.ID == "single-sphere" {
				found = true
			}
		}
	}
	if !found {
		t.Error("Expected single-sphere in the scene list")
	}
}

func TestHandleSceneConfig(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Scene    string                 `json:"scene"`
		Defaults map[string]interface{} `json:"defaults"`
	}
	if status := getJSON(t, ts.URL+"/api/scene-config?scene=single-sphere", &body); status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if body.Scene != "single-sphere" {
		t.Errorf("Expected scene single-sphere, got %q", body.Scene)
	}
	if body.Defaults["fov"] != 90.0 {
		t.Errorf("Expected fov 90, got %v", body.Defaults["fov"])
	}
	if body.Defaults["maxDepth"] != 5.0 {
		t.Errorf("Expected maxDepth 5, got %v", body.Defaults["maxDepth"])
	}

	var errBody map[string]string
	if status := getJSON(t, ts.URL+"/api/scene-config?scene=nope", &errBody); status != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown scene, got %d", status)
	}
}

func TestHandleImage(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/image?scene=single-sphere&width=32&height=32&screenWidth=16&screenHeight=16")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}

	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Errorf("Expected 32x32 image, got %dx%d", b.Dx(), b.Dy())
	}

	// Black background in the corner, lit red sphere in the middle
	if r, g, b, _ := img.At(0, 0).RGBA(); r != 0 || g != 0 || b != 0 {
		t.Errorf("Expected black corner, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
	if r, g, _, _ := img.At(16, 16).RGBA(); r>>8 == 0 || g>>8 != 0 {
		t.Errorf("Expected red center, got r=%d g=%d", r>>8, g>>8)
	}
}

func TestHandleImage_BadRequest(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{"width too small", "width=4"},
		{"screen larger than image", "width=32&height=32&screenWidth=64"},
		{"bad samples", "samples=abc"},
		{"bad jitter", "jitter=maybe"},
		{"unknown scene", "scene=does-not-exist"},
		{"json path traversal", "scene=" + url.QueryEscape("json:../secret")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/api/image?" + tt.query)
			if err != nil {
				t.Fatalf("GET failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestHandleRender_StreamsRowsAndCompletes(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/render?scene=single-sphere&width=16&height=16&rowsPerPass=8")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %q", ct)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("Failed to read stream: %v", err)
	}
	stream := buf.String()

	if got := strings.Count(stream, "event: row\n"); got != 16 {
		t.Errorf("Expected 16 row events, got %d", got)
	}
	if got := strings.Count(stream, "event: passComplete\n"); got != 2 {
		t.Errorf("Expected 2 passComplete events, got %d", got)
	}
	if !strings.Contains(stream, "event: complete\n") {
		t.Error("Expected a complete event")
	}
	if strings.Contains(stream, "event: error\n") {
		t.Errorf("Unexpected error event in stream:\n%s", stream)
	}
}

func TestHandleRender_InvalidRequest(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/render?width=abc")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "event: error\n") {
		t.Errorf("Expected an error event, got:\n%s", buf.String())
	}
}

func TestHandleInspect(t *testing.T) {
	ts := newTestServer(t)
	base := ts.URL + "/api/inspect?scene=single-sphere&width=16&height=16"

	var hit InspectResponse
	if status := getJSON(t, base+"&x=8&y=8", &hit); status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if !hit.Hit {
		t.Fatal("Expected the center pixel to hit the sphere")
	}
	if hit.GeometryType != "sphere" || hit.Index != 0 {
		t.Errorf("Expected sphere 0, got %s %d", hit.GeometryType, hit.Index)
	}
	if hit.Distance < 3.9 || hit.Distance > 4.1 {
		t.Errorf("Expected distance near 4, got %v", hit.Distance)
	}
	if hit.Properties["material"] == nil {
		t.Error("Expected material properties")
	}

	var miss InspectResponse
	if status := getJSON(t, base+"&x=0&y=0", &miss); status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if miss.Hit {
		t.Error("Expected the corner pixel to miss")
	}

	var errBody map[string]string
	if status := getJSON(t, base+"&x=16&y=0", &errBody); status != http.StatusBadRequest {
		t.Errorf("Expected 400 for out-of-bounds pixel, got %d", status)
	}
	if status := getJSON(t, base+"&x=a&y=0", &errBody); status != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid x, got %d", status)
	}
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		expected  int
		expectErr bool
	}{
		{"absent uses default", "", 7, false},
		{"in range", "12", 12, false},
		{"below min", "0", 0, true},
		{"above max", "101", 0, true},
		{"not a number", "ten", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			if tt.value != "" {
				values.Set("n", tt.value)
			}
			got, err := parseIntParam(values, "n", 7, 1, 100)
			if (err != nil) != tt.expectErr {
				t.Fatalf("Expected error %v, got %v", tt.expectErr, err)
			}
			if !tt.expectErr && got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestParseBoolParam(t *testing.T) {
	values := url.Values{"on": {"true"}, "off": {"0"}, "bad": {"yes please"}}

	if got, err := parseBoolParam(values, "on"); err != nil || got == nil || !*got {
		t.Errorf("Expected true, got %v (%v)", got, err)
	}
	if got, err := parseBoolParam(values, "off"); err != nil || got == nil || *got {
		t.Errorf("Expected false, got %v (%v)", got, err)
	}
	if got, err := parseBoolParam(values, "missing"); err != nil || got != nil {
		t.Errorf("Expected nil, got %v (%v)", got, err)
	}
	if _, err := parseBoolParam(values, "bad"); err == nil {
		t.Error("Expected error for invalid bool")
	}
}

func TestCreateConfiguredScene_AppliesOverrides(t *testing.T) {
	s := NewServer(0)
	samples, depth := 3, 2
	jitter, reflections := true, false

	sceneObj, err := s.createConfiguredScene(&RenderRequest{
		Scene:       "reflections",
		Samples:     &samples,
		Jitter:      &jitter,
		Reflections: &reflections,
		MaxDepth:    &depth,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	config := sceneObj.Config
	if config.Samples != 3 || !config.Jitter || config.Reflections || config.MaxDepth != 2 {
		t.Errorf("Overrides not applied: %+v", config)
	}
}
