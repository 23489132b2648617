package httpapi

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/vamazon/internal/server/models"
	"github.com/dmitrijs2005/vamazon/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type imageUploadRequest struct {
	ContentType string `json:"content_type"`
	IsPrimary   bool   `json:"is_primary"`
}

// productFilter reads the listing query. Missing page and per_page take
// their defaults; malformed numbers are rejected.
func productFilter(q url.Values) (models.ProductFilter, bool) {
	f := models.ProductFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Page:     1,
		PerPage:  services.DefaultPerPage,
	}

	ints := map[string]*int{"page": &f.Page, "per_page": &f.PerPage}
	for name, dst := range ints {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return f, false
			}
			*dst = n
		}
	}

	floats := map[string]**float64{"min_price": &f.MinPrice, "max_price": &f.MaxPrice}
	for name, dst := range floats {
		if v := q.Get(name); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return f, false
			}
			*dst = &n
		}
	}
	return f, true
}

func (s *HTTPServer) listProducts(w http.ResponseWriter, r *http.Request) {
	f, ok := productFilter(r.URL.Query())
	if !ok {
		s.respondDetail(w, r, http.StatusUnprocessableEntity, "Invalid query parameters")
		return
	}

	list, err := s.services.Catalog.ListProducts(r.Context(), f)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, list)
}

func (s *HTTPServer) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	p, err := s.services.Catalog.GetProduct(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, p)
}

func (s *HTTPServer) getProductByASIN(w http.ResponseWriter, r *http.Request) {
	p, err := s.services.Catalog.GetProductByASIN(r.Context(), chi.URLParam(r, "asin"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, p)
}

func (s *HTTPServer) requestImageUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	var req imageUploadRequest
	if r.ContentLength != 0 && !s.decode(w, r, &req) {
		return
	}

	up, err := s.services.Catalog.RequestImageUpload(r.Context(), id, req.ContentType, req.IsPrimary)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, up)
}

func (s *HTTPServer) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.services.Catalog.Categories(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, cats)
}

func (s *HTTPServer) getCategory(w http.ResponseWriter, r *http.Request) {
	c, err := s.services.Catalog.CategoryBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, c)
}
