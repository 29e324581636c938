package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/google/uuid"

	"github.com/haneulgyeol/cloud-atlas/internal/domain"
	"github.com/haneulgyeol/cloud-atlas/internal/view"
)

// SessionCookie names the cookie that ties a browser to its identify panel.
const SessionCookie = "atlas_session"

// multipartOverhead is the body allowance beyond the file itself.
const multipartOverhead = 64 << 10

var (
	errNoFile       = errors.New(`multipart field "file" is missing`)
	errBodyTooBig   = errors.New("request body too large")
	errNotMultipart = errors.New("expected multipart/form-data")
)

// panel returns the identify panel of the requesting browser. With create set,
// a new session is started when the request carries none.
func (s *Server) panel(w http.ResponseWriter, r *http.Request, create bool) (*view.IdentifyPanel, bool) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			if p, ok := s.sessions.Get(id.String()); ok {
				return p, true
			}
			if create {
				return s.sessions.GetOrPut(id.String(), s.newPanel), true
			}
		}
	}
	if !create {
		return nil, false
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s.sessions.GetOrPut(id, s.newPanel), true
}

func (s *Server) newPanel() *view.IdentifyPanel {
	return view.NewIdentifyPanel(s.classifier, s.cfg.UploadMaxBytes, s.metrics, s.logger)
}

// readUpload streams the "file" part of a multipart body. Bytes beyond the
// configured limit are kept (one extra byte) so validation can report the size.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (domain.Upload, error) {
	limit := s.cfg.UploadMaxBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		return domain.Upload{}, fmt.Errorf("%w: %w", errNotMultipart, err)
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return domain.Upload{}, errNoFile
		}
		if err != nil {
			return domain.Upload{}, classifyBodyError(err)
		}
		if part.FormName() != "file" {
			part.Close()
			continue
		}
		data, err := io.ReadAll(io.LimitReader(part, limit+1))
		part.Close()
		if err != nil {
			return domain.Upload{}, classifyBodyError(err)
		}
		return domain.Upload{
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Data:        data,
		}, nil
	}
}

func classifyBodyError(err error) error {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return errBodyTooBig
	}
	return fmt.Errorf("read upload: %w", err)
}

func uploadErrorStatus(err error) int {
	if errors.Is(err, errBodyTooBig) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// snapshotStatus maps the panel outcome to a response status.
func snapshotStatus(snap view.Snapshot) int {
	switch snap.State {
	case view.StateRejected:
		return http.StatusUnprocessableEntity
	case view.StateFailed:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		s.metrics.ClassifyRequests.WithLabelValues("throttled").Inc()
		writeError(w, http.StatusTooManyRequests, "too many uploads, try again shortly")
		return
	}
	upload, err := s.readUpload(w, r)
	if err != nil {
		writeError(w, uploadErrorStatus(err), err.Error())
		return
	}

	p, _ := s.panel(w, r, true)
	snap, err := p.Classify(r.Context(), upload)
	switch {
	case errors.Is(err, view.ErrSuperseded):
		sharedobs.WriteJSON(w, http.StatusConflict, snap)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.logger.Debug("classify request abandoned", "error", err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sharedobs.WriteJSON(w, snapshotStatus(snap), snap)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	p, ok := s.panel(w, r, false)
	if !ok {
		sharedobs.WriteJSON(w, http.StatusOK, view.Snapshot{State: view.StateIdle})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, p.Snapshot())
}

// handleIdentifyForm is the no-script path of the home page upload form. The
// outcome is stored in the session panel and shown after the redirect.
func (s *Server) handleIdentifyForm(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		s.metrics.ClassifyRequests.WithLabelValues("throttled").Inc()
		http.Redirect(w, r, "/#ai", http.StatusSeeOther)
		return
	}
	upload, err := s.readUpload(w, r)
	if err != nil {
		http.Error(w, err.Error(), uploadErrorStatus(err))
		return
	}
	p, _ := s.panel(w, r, true)
	if _, err := p.Classify(r.Context(), upload); err != nil && !errors.Is(err, view.ErrSuperseded) {
		s.logger.Debug("identify form abandoned", "error", err)
		return
	}
	http.Redirect(w, r, "/#ai", http.StatusSeeOther)
}
