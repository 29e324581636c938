package http

import (
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/haneulgyeol/cloud-atlas/internal/domain"
	"github.com/haneulgyeol/cloud-atlas/internal/view"
)

func (s *Server) render(w http.ResponseWriter, status int, page, title string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.renderer.Render(w, page, title, data); err != nil {
		s.logger.Error("render failed", "page", page, "error", err)
	}
}

// levelParam parses the level filter of an HTML request. Pages fall back to
// every tier rather than failing on a bad value.
func levelParam(r *http.Request) domain.LevelFilter {
	level, err := domain.ParseLevelFilter(r.URL.Query().Get("level"))
	if err != nil {
		return domain.LevelAll
	}
	return level
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	snap := view.Snapshot{State: view.StateIdle}
	if p, ok := s.panel(w, r, false); ok {
		snap = p.Snapshot()
	}
	page := view.BuildHomePage(s.catalog.Genera(), view.CurrentSky(), snap, humanize.Bytes(uint64(s.cfg.UploadMaxBytes)))
	s.render(w, http.StatusOK, view.PageHome, "", page)
}

func (s *Server) handleAtlas(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	level := levelParam(r)
	page := view.BuildAtlasPage(s.catalog.Genera(), q, level, s.cfg.SearchDebounce.Milliseconds())
	s.recordSearch("genera", q, level, page.Total)
	s.render(w, http.StatusOK, view.PageAtlas, "구름 도감", page)
}

func (s *Server) handleGenusPage(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	g, ok := s.catalog.Lookup(code)
	if !ok {
		if s.redirectCanonical(w, r, "/atlas/", code) {
			return
		}
		s.render(w, http.StatusNotFound, view.PageNotFound, "", view.GenusNotFound(code))
		return
	}
	page := view.BuildGenusPage(s.catalog, g, s.gallery(r.Context(), g), r.URL.Query())
	s.render(w, http.StatusOK, view.PageGenus, g.NativeName, page)
}

// redirectCanonical sends a permanent redirect when code differs from a known
// genus code only by case or surrounding space.
func (s *Server) redirectCanonical(w http.ResponseWriter, r *http.Request, prefix, code string) bool {
	canon := strings.ToLower(strings.TrimSpace(code))
	if canon == code {
		return false
	}
	if _, ok := s.catalog.Lookup(canon); !ok {
		return false
	}
	target := prefix + canon
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
	return true
}

func (s *Server) handleSubPage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	c, err := domain.ParseCategory(r.PathValue("category"))
	if err != nil {
		s.render(w, http.StatusNotFound, view.PageNotFound, "", view.SubNotFound(name))
		return
	}
	page, ok := view.BuildSubPage(s.catalog, c, name, r.URL.Query())
	if !ok {
		s.render(w, http.StatusNotFound, view.PageNotFound, "", view.SubNotFound(name))
		return
	}
	s.render(w, http.StatusOK, view.PageSub, page.Item.NativeName, page)
}

func (s *Server) handleTaxonomyPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	page := view.BuildTaxonomyPage(s.catalog, q, levelParam(r), r.URL.Query().Get("tab"), s.cfg.SearchDebounce.Milliseconds())
	s.render(w, http.StatusOK, view.PageTaxonomy, view.TaxonomyHeading, page)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusNotFound, view.PageNotFound, "", view.NotFoundPage{
		Title:     "페이지를 찾을 수 없습니다",
		Message:   "요청하신 페이지(" + r.URL.Path + ")가 존재하지 않습니다.",
		BackURL:   "/atlas",
		BackLabel: "← 구름 도감으로 돌아가기",
	})
}
