package corpus

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"usdshot/internal/model"
)

// CaptureSuffix marks a screenshot produced by the compare command.
const CaptureSuffix = "__cinevva.png"

// RefExtensions are tried in order when guessing a capture's reference image.
var RefExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

var (
	captureSuffix = regexp.MustCompile(`(?i)__cinevva\.png$`)
	imagesDir     = regexp.MustCompile(`(?i)/images$`)
)

// DiscoverCaptures walks <sampleRoot>/samples for captured outputs and
// derives the sample and reference paths that belong to each.
func DiscoverCaptures(sampleRoot string) ([]model.GalleryEntry, error) {
	var entries []model.GalleryEntry

	err := filepath.WalkDir(filepath.Join(sampleRoot, "samples"), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), CaptureSuffix) {
			return nil
		}

		dirRel, err := filepath.Rel(sampleRoot, filepath.Dir(p))
		if err != nil {
			return err
		}
		entries = append(entries, EntryFor(sampleRoot, filepath.ToSlash(dirRel), d.Name()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SampleRel < entries[j].SampleRel
	})
	return entries, nil
}

// EntryFor builds the gallery entry for captureName inside imagesDirRel.
func EntryFor(sampleRoot, imagesDirRel, captureName string) model.GalleryEntry {
	base := captureSuffix.ReplaceAllString(captureName, "")

	var refRel string
	for _, ext := range RefExtensions {
		candidate := path.Join(imagesDirRel, base+ext)
		if isFile(filepath.Join(sampleRoot, filepath.FromSlash(candidate))) {
			refRel = candidate
			break
		}
	}
	if refRel == "" {
		refRel = path.Join(imagesDirRel, base+RefExtensions[0])
	}

	return model.GalleryEntry{
		SampleRel:    imagesDir.ReplaceAllString(imagesDirRel, "") + "/" + base + ".usda",
		ImagesDirRel: imagesDirRel,
		RefRel:       refRel,
		CaptureRel:   imagesDirRel + "/" + base + CaptureSuffix,
	}
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
