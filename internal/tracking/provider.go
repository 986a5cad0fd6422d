package tracking

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"routesync/internal/config"
	"routesync/internal/logger"
	pkgmqtt "routesync/pkg/mqtt"
)

// LocationProvider feeds the collector from an MQTT fix stream. Provider
// lifecycle is independent of trip lifecycle: the caller stops it explicitly,
// sequenced after the trip has been ended.
type LocationProvider struct {
	cfg       *config.MQTTConfig
	client    *pkgmqtt.Client
	collector *Collector

	mu      sync.Mutex
	started bool
}

func NewLocationProvider(cfg *config.MQTTConfig, collector *Collector) (*LocationProvider, error) {
	if cfg == nil || cfg.Broker == "" {
		return nil, errors.New("mqtt provider is not configured")
	}
	if collector == nil {
		return nil, errors.New("collector is required")
	}

	client := pkgmqtt.NewClient(&pkgmqtt.Config{
		Broker:         cfg.Broker,
		ClientID:       cfg.ClientID,
		Username:       cfg.Username,
		Password:       cfg.Password,
		CleanSession:   true,
		KeepAlive:      cfg.KeepAliveDuration(),
		ConnectTimeout: cfg.KeepAliveDuration(),
		AutoReconnect:  true,
	})

	return &LocationProvider{
		cfg:       cfg,
		client:    client,
		collector: collector,
	}, nil
}

// Start connects to the broker and subscribes to the fix topic.
func (p *LocationProvider) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil
	}

	if err := p.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect location provider: %w", err)
	}

	err := p.client.Subscribe(p.cfg.LocationTopic, p.cfg.QoS, func(topic string, payload []byte) {
		fix, err := ParseFix(payload)
		if err != nil {
			logger.Warn("Dropping malformed fix payload", zap.Error(err))
			return
		}
		if err := ValidateFix(fix); err != nil {
			logger.Warn("Dropping invalid fix", zap.Error(err))
			return
		}
		p.collector.Offer(fix)
	})
	if err != nil {
		p.client.Disconnect()
		return err
	}

	p.started = true
	return nil
}

// Stop tears down the subscription; no further fixes reach the collector.
func (p *LocationProvider) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return nil
	}

	err := p.client.Unsubscribe(p.cfg.LocationTopic)
	p.client.Disconnect()
	p.started = false
	return err
}
