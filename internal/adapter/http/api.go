package http

import (
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/haneulgyeol/cloud-atlas/internal/domain"
)

type generaResponse struct {
	Count  int            `json:"count"`
	Genera []domain.Genus `json:"genera"`
}

func (s *Server) handleListGenera(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	level, err := domain.ParseLevelFilter(r.URL.Query().Get("level"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	genera := domain.Search(s.catalog.Genera(), q, level)
	s.recordSearch("genera", q, level, len(genera))
	sharedobs.WriteJSON(w, http.StatusOK, generaResponse{Count: len(genera), Genera: genera})
}

func (s *Server) handleGetGenus(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	g, ok := s.catalog.Lookup(code)
	if !ok {
		if s.redirectCanonical(w, r, "/api/genera/", code) {
			return
		}
		writeError(w, http.StatusNotFound, "genus not found")
		return
	}
	g.Gallery = s.gallery(r.Context(), g)
	sharedobs.WriteJSON(w, http.StatusOK, g)
}

type taxonomyResponse struct {
	Category domain.Category     `json:"category"`
	Total    int                 `json:"total"`
	Count    int                 `json:"count"`
	Entries  []domain.IndexEntry `json:"entries"`
}

func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	c, err := domain.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	q := r.URL.Query().Get("q")
	level, err := domain.ParseLevelFilter(r.URL.Query().Get("level"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	all := s.catalog.Index(c)
	entries := domain.Search(all, q, level)
	s.recordSearch(string(c), q, level, len(entries))
	sharedobs.WriteJSON(w, http.StatusOK, taxonomyResponse{Category: c, Total: len(all), Count: len(entries), Entries: entries})
}

type subItemResponse struct {
	Category    domain.Category     `json:"category"`
	Item        domain.SubItem      `json:"item"`
	Occurrences []domain.Occurrence `json:"occurrences"`
	Images      []domain.Image      `json:"images"`
}

func (s *Server) handleSubItem(w http.ResponseWriter, r *http.Request) {
	c, err := domain.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	occs := s.catalog.Occurrences(c, r.PathValue("name"))
	if len(occs) == 0 {
		writeError(w, http.StatusNotFound, "sub-item not found")
		return
	}
	images := domain.MergedGallery(occs)
	if images == nil {
		images = []domain.Image{}
	}
	sharedobs.WriteJSON(w, http.StatusOK, subItemResponse{
		Category:    c,
		Item:        occs[0].Item,
		Occurrences: occs,
		Images:      images,
	})
}
