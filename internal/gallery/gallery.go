// Package gallery renders the reference vs capture comparison page.
package gallery

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"

	"usdshot/internal/model"
)

// FileName is the default output name inside the sample root.
const FileName = "gallery.html"

type card struct {
	SampleRel  string
	RefRel     string
	CaptureRel string
	SampleOK   bool
	RefOK      bool
	CaptureOK  bool
}

type page struct {
	Cards []card
}

var tmpl = template.Must(template.New("gallery").Parse(pageTemplate))

// Build renders entries into a standalone HTML document whose links are
// relative to sampleRoot. File presence is probed per entry at build time.
func Build(sampleRoot string, entries []model.GalleryEntry) ([]byte, error) {
	data := page{Cards: make([]card, 0, len(entries))}
	for _, e := range entries {
		data.Cards = append(data.Cards, card{
			SampleRel:  e.SampleRel,
			RefRel:     e.RefRel,
			CaptureRel: e.CaptureRel,
			SampleOK:   isFile(sampleRoot, e.SampleRel),
			RefOK:      isFile(sampleRoot, e.RefRel),
			CaptureOK:  isFile(sampleRoot, e.CaptureRel),
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write builds the gallery and stores it at out.
func Write(out, sampleRoot string, entries []model.GalleryEntry) error {
	html, err := Build(sampleRoot, entries)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}
	return os.WriteFile(out, html, 0644)
}

func isFile(root, rel string) bool {
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil && info.Mode().IsRegular()
}
