package browser

import (
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"usdshot/internal/router"
)

// Route answers every request r sees with rt, passing other origins
// through. The returned router is already running; Stop it when done.
func Route(r *rod.HijackRouter, rt *router.Router) (*rod.HijackRouter, error) {
	if err := r.Add("*", "", func(h *rod.Hijack) { fulfill(h, rt) }); err != nil {
		return nil, err
	}
	go r.Run()
	return r, nil
}

func fulfill(h *rod.Hijack, rt *router.Router) {
	u := h.Request.URL()
	if !rt.Owns(u) {
		h.ContinueRequest(&proto.FetchContinueRequest{})
		return
	}

	resp := rt.Serve(u)
	h.Response.Payload().ResponseCode = resp.Status
	if resp.ContentType != "" {
		h.Response.SetHeader("Content-Type", resp.ContentType)
	}
	h.Response.SetBody(resp.Body)
}
