package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/haneulgyeol/cloud-atlas/internal/assets"
)

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	key, err := assets.CleanKey(assets.Root + "/" + r.PathValue("path"))
	if err != nil {
		s.metrics.AssetRequests.WithLabelValues("not_found").Inc()
		http.NotFound(w, r)
		return
	}

	info, body, err := s.assets.Get(r.Context(), key)
	switch {
	case errors.Is(err, assets.ErrNotFound), errors.Is(err, assets.ErrInvalidKey):
		s.metrics.AssetRequests.WithLabelValues("not_found").Inc()
		http.NotFound(w, r)
		return
	case err != nil:
		s.metrics.AssetRequests.WithLabelValues("error").Inc()
		s.logger.Error("asset read failed", "key", key, "error", err)
		http.Error(w, "asset unavailable", http.StatusBadGateway)
		return
	}
	defer body.Close()

	h := w.Header()
	if info.ContentType != "" {
		h.Set("Content-Type", info.ContentType)
	}
	if info.ETag != "" {
		etag := `"` + info.ETag + `"`
		h.Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			s.metrics.AssetRequests.WithLabelValues("not_modified").Inc()
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	if !info.LastModified.IsZero() {
		h.Set("Last-Modified", info.LastModified.UTC().Format(http.TimeFormat))
	}
	h.Set("Content-Length", strconv.FormatInt(info.Size, 10))
	h.Set("Cache-Control", "public, max-age=3600")

	s.metrics.AssetRequests.WithLabelValues("served").Inc()
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, body); err != nil {
		s.logger.Debug("asset copy interrupted", "key", key, "error", err)
	}
}
