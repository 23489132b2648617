// Package client is the HTTP client of the storefront REST API.
//
// # Overview
//
// The API surface is split per concern (AuthAPI, CartAPI, WishlistAPI,
// CatalogAPI, OrdersAPI) so each state container depends only on what it
// calls. HTTPClient implements all of them.
//
// The bearer token is read from a TokenSource on every request, so a login
// or logout is visible to the next call without rebuilding the client.
//
// # Error Handling
//
//   - transport failures (connection refused, timeout) return an error
//     matching ErrUnavailable whose text is the generic network message;
//   - non-2xx responses return *APIError carrying the status and the
//     server's "detail" text verbatim;
//   - a 401 on an endpoint that requires a token additionally matches
//     ErrUnauthorized.
//
// No request is ever retried.
package client
