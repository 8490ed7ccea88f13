// Package heartbeat is the Heartbeat/Timestamp Publisher (§4.7): two
// independent periodic publishers — "timestamp" (current KST wall-clock,
// MMDDHHMM) and "beacon" ("ping") — both starting 125ms after connect
// and polling every 125ms while the broker connection is down.
package heartbeat
