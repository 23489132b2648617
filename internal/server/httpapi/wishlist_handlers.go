package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/vamazon/internal/server/services"
)

type wishlistAddResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

func (s *HTTPServer) listWishlist(w http.ResponseWriter, r *http.Request) {
	u, _ := userFromContext(r.Context())
	items, err := s.services.Wishlist.List(r.Context(), u.ID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, items)
}

func (s *HTTPServer) wishlistIDs(w http.ResponseWriter, r *http.Request) {
	u, _ := userFromContext(r.Context())
	ids, err := s.services.Wishlist.ProductIDs(r.Context(), u.ID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string][]int64{"product_ids": ids})
}

func (s *HTTPServer) addToWishlist(w http.ResponseWriter, r *http.Request) {
	productID, ok := s.idParam(w, r, "product_id")
	if !ok {
		return
	}
	u, _ := userFromContext(r.Context())

	id, already, err := s.services.Wishlist.Add(r.Context(), u.ID, productID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	msg := services.MessageWishlistAdded
	if already {
		msg = services.MessageWishlistAlready
	}
	s.respondJSON(w, r, http.StatusOK, wishlistAddResponse{Message: msg, ID: id})
}

func (s *HTTPServer) removeFromWishlist(w http.ResponseWriter, r *http.Request) {
	productID, ok := s.idParam(w, r, "product_id")
	if !ok {
		return
	}
	u, _ := userFromContext(r.Context())

	if err := s.services.Wishlist.Remove(r.Context(), u.ID, productID); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, messageResponse{Message: services.MessageWishlistRemoved})
}

func (s *HTTPServer) checkWishlist(w http.ResponseWriter, r *http.Request) {
	productID, ok := s.idParam(w, r, "product_id")
	if !ok {
		return
	}
	u, _ := userFromContext(r.Context())

	in, err := s.services.Wishlist.Contains(r.Context(), u.ID, productID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]bool{"in_wishlist": in})
}
