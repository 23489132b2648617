package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (s *HTTPServer) getCart(w http.ResponseWriter, r *http.Request) {
	c, err := s.services.Carts.Get(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, c)
}

func (s *HTTPServer) addCartItem(w http.ResponseWriter, r *http.Request) {
	req := addItemRequest{Quantity: 1}
	if !s.decode(w, r, &req) {
		return
	}

	c, err := s.services.Carts.AddItem(r.Context(), chi.URLParam(r, "sid"), req.ProductID, req.Quantity)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, c)
}

func (s *HTTPServer) updateCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := s.idParam(w, r, "item_id")
	if !ok {
		return
	}
	var req updateItemRequest
	if !s.decode(w, r, &req) {
		return
	}

	c, err := s.services.Carts.UpdateItem(r.Context(), chi.URLParam(r, "sid"), itemID, req.Quantity)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, c)
}

func (s *HTTPServer) removeCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := s.idParam(w, r, "item_id")
	if !ok {
		return
	}

	c, err := s.services.Carts.RemoveItem(r.Context(), chi.URLParam(r, "sid"), itemID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, c)
}

func (s *HTTPServer) clearCart(w http.ResponseWriter, r *http.Request) {
	msg, err := s.services.Carts.Clear(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, messageResponse{Message: msg})
}
