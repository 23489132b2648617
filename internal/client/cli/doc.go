// Package cli provides the interactive storefront command-line client.
//
// It wires configuration, the local client database, the REST client and the
// state containers, then runs a REPL on top of them. Typical flow: restore
// the previous session, show the cart badge in the prompt, execute user
// commands until "exit".
//
// Key features:
//   - Register / Login / Logout (logout also starts a fresh guest cart)
//   - Browse products and categories
//   - Cart editing: add, inc, dec, qty, rm, clear
//   - Wishlist toggling
//   - Checkout, buy-now and order history
//   - Product image upload via presigned URL
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
