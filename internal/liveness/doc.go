// Package liveness is the Liveness Monitor (§4.5): a periodic sweep over
// every active Equipment row that raises a FAULT transition when a
// device's newest telemetry is older than 1.5x its expected interval,
// and clears it back to NORMAL once fresh telemetry resumes.
package liveness
