package mqtt

import "strings"

// Topic patterns the supervisor subscribes to, and topics it publishes to.
// See §4.1 and §6 of the ingest protocol: the first segment of each
// subscription topic is always the canonical device id.
const (
	// TopicControllerStatus matches controller telemetry from any device.
	TopicControllerStatus = "+/status/controller"

	// TopicDisplayDeviceStatus matches display-device telemetry from any device.
	TopicDisplayDeviceStatus = "+/status/dispDevice"

	// TopicTimestamp is published with the current KST wall-clock (MMDDHHMM).
	TopicTimestamp = "timestamp"

	// TopicBeacon is published with a fixed "ping" payload as a liveness beacon.
	TopicBeacon = "beacon"
)

// DeviceIDFromTopic extracts the canonical device id — the first
// "/"-separated segment — from a concrete (non-pattern) topic such as
// "AGL12/status/controller". Returns "" if the topic has no segments.
func DeviceIDFromTopic(topic string) string {
	idx := strings.IndexByte(topic, '/')
	if idx < 0 {
		return topic
	}
	return topic[:idx]
}
