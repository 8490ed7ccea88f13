// Package dispdevice is the Display-device Handler (§4.4). It tokenises
// a pipe/newline-delimited payload into repeating 29-token chunks (one
// index number plus four 7-field datasets), applies the per-field
// transforms, and persists each dataset independently to both the RDB
// and the document store.
package dispdevice
