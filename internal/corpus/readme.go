// Package corpus indexes the ft-lab sample_usd checkout: README mappings,
// text layers and previously captured outputs.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"usdshot/internal/model"
)

const ReadmeName = "readme.md"

var (
	lineSplit = regexp.MustCompile(`\r?\n`)
	// |[spot_light.usda](samples/light/spot_light.usda)|
	sampleLink = regexp.MustCompile(`(?i)\|\s*\[[^\]]+\]\((samples/[^)]+?\.(?:usda|usd|usdc|usdz))\)\s*\|`)
	// ![spot_light](samples/light/images/spot_light.jpg)
	imageLink = regexp.MustCompile(`(?i)!\[[^\]]*\]\((samples/[^)]+?\.(?:png|jpg|jpeg|webp|gif))\)`)
)

// ExtractMappings pulls sample/reference pairs out of the corpus README.
// Only the first sample link and first image on a line are considered.
func ExtractMappings(readme string) []model.SampleMapping {
	var out []model.SampleMapping
	seen := make(map[model.SampleMapping]bool)

	for _, line := range lineSplit.Split(readme, -1) {
		fileMatch := sampleLink.FindStringSubmatch(line)
		if fileMatch == nil {
			continue
		}
		imgMatch := imageLink.FindStringSubmatch(line)
		if imgMatch == nil {
			continue
		}

		m := model.SampleMapping{SampleRel: fileMatch[1], RefImageRel: imgMatch[1]}
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// LoadMappings reads readme.md under sampleRoot and extracts its mappings.
func LoadMappings(sampleRoot string) ([]model.SampleMapping, error) {
	readmePath := filepath.Join(sampleRoot, ReadmeName)
	data, err := os.ReadFile(readmePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("missing sample_usd readme: %s: %w", readmePath, model.ErrNotFound)
		}
		return nil, err
	}

	mappings := ExtractMappings(string(data))
	if len(mappings) == 0 {
		return nil, fmt.Errorf("no mappings found in %s: %w", ReadmeName, model.ErrEmptyCorpus)
	}
	return mappings, nil
}

// Filter restricts mappings to the one whose sample path equals sampleRel.
// An empty sampleRel keeps everything.
func Filter(mappings []model.SampleMapping, sampleRel string) []model.SampleMapping {
	if sampleRel == "" {
		return mappings
	}
	var out []model.SampleMapping
	for _, m := range mappings {
		if m.SampleRel == sampleRel {
			out = append(out, m)
		}
	}
	return out
}

// IsTextLayer reports whether the viewer can load path from text.
func IsTextLayer(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".usda", ".usd", ".txt":
		return true
	}
	return false
}

// sceneExt matches the scene extensions stripped when naming captures.
var sceneExt = regexp.MustCompile(`(?i)\.(usda|usd|usdc|usdz)$`)

// CaptureName returns the file name a capture of sampleRel is written to.
func CaptureName(sampleRel string) string {
	base := sceneExt.ReplaceAllString(filepath.Base(filepath.FromSlash(sampleRel)), "")
	return base + CaptureSuffix
}
