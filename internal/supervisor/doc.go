// Package supervisor owns the single MQTT connection Dolphin Core
// runs on (§4.9). It wires every other package together, runs the
// connect/reconnect loop with a fixed backoff, and keeps the
// periodic tasks (baseline refresh, liveness sweep, heartbeat
// publish) alive across reconnects.
package supervisor
