package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/vamazon/internal/server/models"
	"github.com/go-chi/chi/v5"
)

type checkoutRequest struct {
	SessionID string `json:"session_id"`
	models.ShippingDetails
}

type buyNowRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	models.ShippingDetails
}

func (s *HTTPServer) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	u, _ := userFromContext(r.Context())

	o, err := s.services.Orders.Checkout(r.Context(), u.ID, req.SessionID, req.ShippingDetails)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, o)
}

func (s *HTTPServer) buyNow(w http.ResponseWriter, r *http.Request) {
	req := buyNowRequest{Quantity: 1}
	if !s.decode(w, r, &req) {
		return
	}
	u, _ := userFromContext(r.Context())

	o, err := s.services.Orders.BuyNow(r.Context(), u.ID, req.ProductID, req.Quantity, req.ShippingDetails)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, o)
}

func (s *HTTPServer) listOrders(w http.ResponseWriter, r *http.Request) {
	u, _ := userFromContext(r.Context())

	list, err := s.services.Orders.ListMine(r.Context(), u.ID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, list)
}

func (s *HTTPServer) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.services.Orders.Get(r.Context(), chi.URLParam(r, "order_number"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, o)
}
