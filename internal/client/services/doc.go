// Package services holds the client-side state containers of the
// storefront: authentication, cart and wishlist, plus the catalog and
// checkout helpers built on top of them.
//
// Each container is constructed explicitly and injected where needed. State
// is read with Snapshot or observed with Subscribe; callbacks run on the
// goroutine that changed the state, after the container's lock is released.
//
// Storefront wires the containers together and owns the cross-container
// flows (start-up, sign-in, sign-out).
package services
