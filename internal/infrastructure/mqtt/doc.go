// Package mqtt provides MQTT client connectivity for Dolphin Core.
//
// This package manages:
//   - A single connect attempt per call, with no internal auto-reconnect —
//     the supervisor owns the reconnect/backoff loop (§4.9)
//   - Message publishing and topic subscriptions with wildcard support
//   - Connection health monitoring
//
// # Architecture
//
// Dolphin Core subscribes to controller and display-device status topics
// published by field equipment, and publishes liveness beacons and a
// wall-clock timestamp back to the broker.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT, clientID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.TopicControllerStatus, 1,
//	    func(topic string, payload []byte) error {
//	        router.Dispatch(topic, payload)
//	        return nil
//	    })
package mqtt
