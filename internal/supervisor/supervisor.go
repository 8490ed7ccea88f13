package supervisor

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/wacker23/dolphin-core/internal/alert"
	"github.com/wacker23/dolphin-core/internal/baseline"
	"github.com/wacker23/dolphin-core/internal/controllerstatus"
	"github.com/wacker23/dolphin-core/internal/dispdevice"
	"github.com/wacker23/dolphin-core/internal/docstore"
	"github.com/wacker23/dolphin-core/internal/heartbeat"
	"github.com/wacker23/dolphin-core/internal/infrastructure/config"
	"github.com/wacker23/dolphin-core/internal/infrastructure/database"
	"github.com/wacker23/dolphin-core/internal/infrastructure/logging"
	"github.com/wacker23/dolphin-core/internal/infrastructure/mqtt"
	"github.com/wacker23/dolphin-core/internal/liveness"
	"github.com/wacker23/dolphin-core/internal/rdb"
	"github.com/wacker23/dolphin-core/internal/router"
	"github.com/wacker23/dolphin-core/internal/sms"
)

// brokerConnectedDelay is how long after a successful connect the
// "Broker connected" SMS is sent (§4.9).
const brokerConnectedDelay = 125 * time.Millisecond

// Supervisor owns configuration, the shared services built from it, and
// the MQTT connect/reconnect loop.
type Supervisor struct {
	cfg     *config.Config
	logger  *logging.Logger
	version string
}

// New constructs a Supervisor. Nothing is connected or started until
// Run is called.
func New(cfg *config.Config, logger *logging.Logger, version string) *Supervisor {
	return &Supervisor{cfg: cfg, logger: logger, version: version}
}

// Run opens the database, wires every service, starts the periodic
// tasks, and blocks on the MQTT connect/reconnect loop until ctx is
// cancelled.
func (s *Supervisor) Run(ctx context.Context) error {
	db, err := database.Open(database.Config{
		Host:         s.cfg.Database.Host,
		User:         s.cfg.Database.User,
		Password:     s.cfg.Database.Password,
		Database:     s.cfg.Database.Database,
		MaxOpenConns: s.cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	gateway := rdb.New(db)
	doc := docstore.New(s.cfg.DocStore)

	bulkSender := sms.NewBulkClient(s.cfg.SMS, s.cfg.Alerts.Numbers)
	bulkSender.SetLogger(s.logger)
	// The signed NCP path is kept available for callers that need
	// single-recipient status tracking; the Alert Coordinator only
	// ever fans out through the bulk surface (§4.8).
	_ = sms.NewNCPClient(s.cfg.SMS, s.cfg.SMS.BizFrom)

	coordinator := alert.New(bulkSender, s.cfg.Alerts.WorkerPoolSize, s.cfg.Alerts.DedupeWindow)
	coordinator.SetLogger(s.logger)

	cache := baseline.New()
	refresher := baseline.NewRefresher(gateway, cache)
	refresher.SetLogger(s.logger)

	livenessMonitor := liveness.New(gateway, coordinator)
	livenessMonitor.SetLogger(s.logger)

	csHandler := controllerstatus.New(gateway, cache, coordinator, s.cfg.Alerts.ExcludeDevices)
	csHandler.SetLogger(s.logger)

	ddHandler := dispdevice.New(gateway, doc)
	ddHandler.SetLogger(s.logger)

	rtr := router.New()
	rtr.SetLogger(s.logger)
	rtr.Subscribe(mqtt.TopicControllerStatus, csHandler.Handle)
	rtr.Subscribe(mqtt.TopicDisplayDeviceStatus, ddHandler.Handle)

	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	if err := refresher.Register(sched, s.cfg.Scheduler.BaselineInterval); err != nil {
		return fmt.Errorf("scheduling baseline refresh: %w", err)
	}
	if err := livenessMonitor.Register(sched, s.cfg.Scheduler.LivenessInterval); err != nil {
		return fmt.Errorf("scheduling liveness sweep: %w", err)
	}
	sched.Start()
	defer sched.Shutdown()

	return s.connectLoop(ctx, rtr, coordinator)
}

// connectLoop implements the connect/run/backoff cycle of §4.9: connect,
// subscribe, run the heartbeat publisher, and wait for either ctx
// cancellation or a broker disconnect before retrying.
func (s *Supervisor) connectLoop(ctx context.Context, rtr *router.Router, coordinator *alert.Coordinator) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		client, err := s.connect(rtr, coordinator)
		if err != nil {
			s.logger.Error("mqtt connect failed", "error", err)
			if !sleepOrDone(ctx, s.cfg.MQTT.ReconnectBackoff) {
				return nil
			}
			continue
		}

		disconnected := client.waitDisconnected(ctx)

		select {
		case <-ctx.Done():
			client.hbCancel()
			client.mqtt.Close()
			return nil
		case <-disconnected:
			client.hbCancel()
			client.mqtt.Close()
		}

		if !sleepOrDone(ctx, s.cfg.MQTT.ReconnectBackoff) {
			return nil
		}
	}
}

// connectedClient bundles one live MQTT connection with the heartbeat
// goroutines and disconnect signalling tied to its lifetime.
type connectedClient struct {
	mqtt         *mqtt.Client
	hbCancel     context.CancelFunc
	disconnected chan struct{}
}

func (c *connectedClient) waitDisconnected(ctx context.Context) <-chan struct{} {
	return c.disconnected
}

func (s *Supervisor) connect(rtr *router.Router, coordinator *alert.Coordinator) (*connectedClient, error) {
	clientID := "dolphin-" + randomHex()

	client, err := mqtt.Connect(s.cfg.MQTT, clientID)
	if err != nil {
		return nil, err
	}
	client.SetLogger(s.logger)

	disconnected := make(chan struct{}, 1)
	client.SetOnDisconnect(func(err error) {
		s.logger.Error("mqtt broker disconnected", "error", err)
		coordinator.Queue("", alert.KindBrokerDisconnected, alert.Data{})
		select {
		case disconnected <- struct{}{}:
		default:
		}
	})

	if err := client.Subscribe("#", 1, func(topic string, payload []byte) error {
		rtr.Dispatch(topic, payload)
		return nil
	}); err != nil {
		client.Close()
		return nil, fmt.Errorf("subscribing: %w", err)
	}

	go func() {
		time.Sleep(brokerConnectedDelay)
		coordinator.Queue("", alert.KindBrokerConnected, alert.Data{})
	}()

	hbCtx, hbCancel := context.WithCancel(context.Background())
	hb := heartbeat.New(client, s.cfg.Scheduler.StartupDelay, s.cfg.Scheduler.HeartbeatInterval)
	hb.SetLogger(s.logger)
	hb.Start(hbCtx)

	return &connectedClient{mqtt: client, hbCancel: hbCancel, disconnected: disconnected}, nil
}

// sleepOrDone waits d unless ctx is cancelled first. It reports whether
// the wait completed normally (false means ctx was cancelled).
func sleepOrDone(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func randomHex() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(buf[:])
}
