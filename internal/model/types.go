package model

// SampleMapping pairs a corpus sample with its reference image, both
// relative to the sample root.
type SampleMapping struct {
	SampleRel   string `json:"sampleRel"`
	RefImageRel string `json:"refImageRel"`
}

// GalleryEntry describes one captured output found on disk.
type GalleryEntry struct {
	SampleRel    string `json:"sampleRel"`
	ImagesDirRel string `json:"imagesDirRel"`
	RefRel       string `json:"refRel"`
	CaptureRel   string `json:"captureRel"`
}

// TextFile is handed to the viewer as-is, so the json tags are part of
// the viewer contract.
type TextFile struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

type Failure struct {
	SampleRel string `json:"sampleRel"`
	Error     string `json:"error"`
}

type RunReport struct {
	Total    int       `json:"total"`
	OK       int       `json:"ok"`
	Skipped  int       `json:"skipped"`
	Failures []Failure `json:"failures"`
}

type Config struct {
	UsdjsRoot  string `json:"usdjsRoot,omitempty"`
	ViewerDist string `json:"viewerDist,omitempty"`
	BrowserBin string `json:"browserBin,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
}
