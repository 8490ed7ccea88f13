// Package controllerstatus is the Controller-status Handler (§4.3). It
// parses the 19-field newline-separated telemetry payload published on
// "+/status/controller", classifies the device against its cached
// baseline, persists the result, and queues any fault/recovery/anomaly
// alerts.
//
// Handle itself only parses the topic and payload — both cheap,
// non-suspending operations — then detaches the classification and
// persistence work onto its own goroutine, per §5's rule that dispatch
// must never block on I/O.
package controllerstatus
