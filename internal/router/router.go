// Package router answers the viewer's requests for the virtual origin
// from the local filesystem.
package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Origin is the authority the viewer is loaded from. It never reaches DNS.
const Origin = "http://usdjs.local"

// CorpusPath is the endpoint the viewer fetches scene dependencies from.
const CorpusPath = "/__usdjs_corpus"

type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

type Config struct {
	// IndexHTML is the viewer's index document, read once up front.
	IndexHTML []byte
	// ViewerDist holds index.html and assets/.
	ViewerDist string
	// CorpusRoot bounds every ?file= lookup.
	CorpusRoot string
}

// Router is a pure function of the request URL over two directories.
type Router struct {
	index      []byte
	assetsDir  string
	corpusRoot string
}

func New(cfg Config) *Router {
	return &Router{
		index:      cfg.IndexHTML,
		assetsDir:  filepath.Join(cfg.ViewerDist, "assets"),
		corpusRoot: cfg.CorpusRoot,
	}
}

// Owns reports whether u targets the virtual origin.
func (r *Router) Owns(u *url.URL) bool {
	return u != nil && u.Scheme+"://"+u.Host == Origin
}

// Serve resolves one request. It always produces a response.
func (r *Router) Serve(u *url.URL) (resp Response) {
	if u == nil {
		return plain(http.StatusBadRequest, "missing url")
	}
	defer func() {
		if rec := recover(); rec != nil {
			resp = plain(http.StatusInternalServerError, fmt.Sprint(rec))
		}
		slog.Debug("virtual request", "url", u.RequestURI(), "status", resp.Status)
	}()

	var err error
	resp, err = r.route(u)
	if err != nil {
		return plain(http.StatusInternalServerError, err.Error())
	}
	return resp
}

func (r *Router) route(u *url.URL) (Response, error) {
	pathname := u.Path

	switch {
	case pathname == "/" || pathname == "/index.html":
		return Response{Status: http.StatusOK, ContentType: typeHTML, Body: r.index}, nil

	case strings.HasPrefix(pathname, "/assets/"):
		rel := strings.TrimPrefix(pathname, "/assets/")
		if rel == "" {
			return plain(http.StatusNotFound, "asset not found: "+pathname), nil
		}
		abs, err := SafeResolve(r.assetsDir, rel)
		if err != nil {
			return plain(http.StatusForbidden, "forbidden: "+pathname), nil
		}
		if !isFile(abs) {
			return plain(http.StatusNotFound, "asset not found: "+pathname), nil
		}
		body, err := os.ReadFile(abs)
		if err != nil {
			return Response{}, err
		}
		return Response{Status: http.StatusOK, ContentType: ContentType(abs), Body: body}, nil

	case pathname == CorpusPath:
		return r.corpus(u.Query().Get("file"))
	}

	return plain(http.StatusNotFound, "not found: "+pathname), nil
}

func (r *Router) corpus(rel string) (Response, error) {
	if rel == "" {
		return plain(http.StatusBadRequest, "missing ?file="), nil
	}

	abs, err := SafeResolve(r.corpusRoot, rel)
	if err != nil {
		return plain(http.StatusForbidden, "forbidden: "+rel), nil
	}
	if !isFile(abs) {
		return plain(http.StatusNotFound, "not found: "+rel), nil
	}

	body, err := os.ReadFile(abs)
	if err != nil {
		return Response{}, err
	}

	ext := strings.ToLower(filepath.Ext(abs))
	switch {
	case ext == ".mtlx":
		return Response{Status: http.StatusOK, ContentType: typeXML, Body: body}, nil
	case corpusText[ext]:
		return Response{Status: http.StatusOK, ContentType: typeText, Body: body}, nil
	}
	return Response{Status: http.StatusOK, ContentType: ContentType(abs), Body: body}, nil
}

// ServeHTTP exposes the router as a regular handler, which is handy for
// poking at it with a real browser or httptest.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	resp := r.Serve(req.URL)
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

func plain(status int, msg string) Response {
	return Response{Status: status, ContentType: typeText, Body: []byte(msg)}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
