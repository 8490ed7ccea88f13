// Package equipment defines the shared data model for the ingester:
// Equipment, its location, append-only status/display records, and the
// document-store mirror. It has no persistence or transport code of its
// own — see internal/rdb and internal/docstore for the gateways that
// read and write these types.
package equipment
