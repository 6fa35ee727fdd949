package router

import (
	"path/filepath"
	"strings"
)

const (
	typeHTML   = "text/html; charset=utf-8"
	typeText   = "text/plain; charset=utf-8"
	typeXML    = "application/xml; charset=utf-8"
	typeBinary = "application/octet-stream"
)

var contentTypes = map[string]string{
	".html": typeHTML,
	".js":   "text/javascript; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	// MaterialX
	".mtlx": typeXML,
	".usda": typeText,
	".usd":  typeText,
	".usdc": typeText,
	".usdz": typeText,
	".txt":  typeText,
	".exr":  typeBinary,
	".hdr":  typeBinary,
}

// ContentType infers a response type from the extension of name.
func ContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return typeBinary
}

// corpusText lists extensions served from the corpus endpoint as UTF-8 text.
var corpusText = map[string]bool{
	".usda": true,
	".usd":  true,
	".usdc": true,
	".usdz": true,
	".txt":  true,
	".json": true,
}
