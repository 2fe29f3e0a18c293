package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const builtInGroup = "Built-in Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to scene file (json type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

type builtInScene struct {
	info   SceneInfo
	create func() *Scene
}

var builtInScenes = []builtInScene{
	{
		info:   SceneInfo{ID: "default", Name: "Default Scene", Description: "Three spheres on a disc floor with two point lights"},
		create: NewDefaultScene,
	},
	{
		info:   SceneInfo{ID: "single-sphere", Name: "Single Sphere", Description: "One red sphere under a white point light"},
		create: NewSingleSphereScene,
	},
	{
		info:   SceneInfo{ID: "soft-shadows", Name: "Soft Shadows", Description: "Area light with jittered sampling"},
		create: NewSoftShadowScene,
	},
	{
		info:   SceneInfo{ID: "reflections", Name: "Reflections", Description: "Ring of mirrored spheres with recursive reflection"},
		create: NewReflectionScene,
	},
	{
		info:   SceneInfo{ID: "discs", Name: "Discs", Description: "Tilted discs under a long area light"},
		create: NewDiscScene,
	},
}

// NewBuiltInScene creates the built-in scene with the given ID
func NewBuiltInScene(id string) (*Scene, bool) {
	for _, b := range builtInScenes {
		if b.info.ID == id {
			return b.create(), true
		}
	}
	return nil, false
}

// ListBuiltInScenes returns metadata for every built-in scene
func ListBuiltInScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtInScenes))
	for _, b := range builtInScenes {
		info := b.info
		info.DisplayName = info.Name
		info.Group = builtInGroup
		info.Type = "builtin"
		scenes = append(scenes, info)
	}
	return scenes
}

// FindScenesDir returns the first scenes directory that exists, or "" if none does
func FindScenesDir() string {
	// Try different possible paths for scenes directory
	for _, path := range []string{"scenes", "../scenes"} {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}

// ListJSONScenes scans a directory and returns discovered JSON scene files
func ListJSONScenes(scenesDir string) ([]SceneInfo, error) {
	if scenesDir == "" {
		return []SceneInfo{}, nil
	}

	// Find all .json files in the scenes directory
	files, err := filepath.Glob(filepath.Join(scenesDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		sceneInfo, err := ParseJSONMetadata(filePath)
		if err != nil {
			// Log warning but continue processing other files
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseJSONMetadata reads the name, description and group fields of a scene file
func ParseJSONMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	// Fallback values
	sceneInfo := SceneInfo{
		ID:       fmt.Sprintf("json:%s", nameWithoutExt),
		Name:     titleCase(nameWithoutExt),
		Group:    "Scene Files",
		Type:     "json",
		FilePath: filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return sceneInfo, fmt.Errorf("failed to read scene file: %w", err)
	}

	var header struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Group       string `json:"group"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return sceneInfo, fmt.Errorf("failed to parse scene file: %w", err)
	}

	if header.Name != "" {
		sceneInfo.Name = header.Name
	}
	if header.Group != "" {
		sceneInfo.Group = header.Group
	}
	sceneInfo.Description = header.Description
	sceneInfo.DisplayName = sceneInfo.Name

	return sceneInfo, nil
}

// ListAllScenes returns both built-in and JSON scenes, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	jsonScenes, err := ListJSONScenes(FindScenesDir())
	if err != nil {
		return response, fmt.Errorf("failed to list JSON scenes: %w", err)
	}

	allScenes := append(ListBuiltInScenes(), jsonScenes...)

	// Group scenes by their Group field
	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Create ordered groups (Built-in first, then alphabetical)
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if group, exists := groupMap[builtInGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   builtInGroup,
			Scenes: group,
		})
	}

	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "soft-shadows" -> "Soft Shadows"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
