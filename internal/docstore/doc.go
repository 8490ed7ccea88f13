// Package docstore is the DocStore Gateway: a small HTTP client that
// mirrors display-device datasets into an external document store, keyed
// by a generated UUID. The store's own wire protocol is out of scope for
// this ingester (spec §1) — only the put-one-document interface is
// implemented here.
package docstore
