package display

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/iudanet/fieldlink/internal/config"
	"github.com/iudanet/fieldlink/internal/validation"
)

const (
	connectTimeout    = 10 * time.Second
	publishTimeout    = 5 * time.Second
	disconnectQuiesce = 500 // milliseconds
	keepAlive         = 30 * time.Second
)

var (
	// ErrConnectionFailed не удалось подключиться к брокеру
	ErrConnectionFailed = errors.New("mqtt connection failed")
	// ErrPublishFailed брокер не подтвердил публикацию
	ErrPublishFailed = errors.New("mqtt publish failed")
)

// Broker минимальный MQTT транспорт, нужный мосту
type Broker interface {
	Publish(topic string, payload []byte, retained bool) error
	Subscribe(topic string, handler func(topic string, payload []byte)) error
	Close() error
}

// Topics темы панели для одного устройства
type Topics struct {
	Prefix string
	UID    string
}

func (t Topics) Samples() string  { return t.Prefix + "/" + t.UID + "/samples" }
func (t Topics) Targets() string  { return t.Prefix + "/" + t.UID + "/targets" }
func (t Topics) Override() string { return t.Prefix + "/" + t.UID + "/override" }
func (t Topics) Status() string   { return t.Prefix + "/" + t.UID + "/status" }

// pahoBroker реализация Broker поверх paho.mqtt.golang
type pahoBroker struct {
	client pahomqtt.Client
	status string
	qos    byte
}

// ConnectBroker подключается к брокеру панели.
// Брокер опубликует offline статус (LWT), если узел пропадет без Close.
func ConnectBroker(cfg config.DisplayConfig, topics Topics) (Broker, error) {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetKeepAlive(keepAlive)
	opts.SetWill(topics.Status(), statusPayload("offline"), byte(cfg.QoS), true)

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	b := &pahoBroker{client: client, qos: byte(cfg.QoS), status: topics.Status()}
	if err := b.Publish(b.status, []byte(statusPayload("online")), true); err != nil {
		client.Disconnect(disconnectQuiesce)
		return nil, err
	}

	return b, nil
}

func statusPayload(status string) string {
	return fmt.Sprintf(`{"status":%q,"timestamp":%q}`, status, time.Now().UTC().Format(time.RFC3339))
}

func (b *pahoBroker) Publish(topic string, payload []byte, retained bool) error {
	token := b.client.Publish(topic, b.qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

func (b *pahoBroker) Subscribe(topic string, handler func(topic string, payload []byte)) error {
	token := b.client.Subscribe(topic, b.qos, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt subscribe %s: timeout after %v", topic, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", topic, err)
	}
	return nil
}

func (b *pahoBroker) Close() error {
	if b.client.IsConnected() {
		token := b.client.Publish(b.status, b.qos, true, statusPayload("offline"))
		token.WaitTimeout(publishTimeout)
	}
	b.client.Disconnect(disconnectQuiesce)
	return nil
}

// Bridge переносит события узла в MQTT и локальные целевые значения обратно
type Bridge struct {
	broker    Broker
	overrides *Overrides
	logger    *slog.Logger
	topics    Topics
}

// NewBridge создает мост
func NewBridge(broker Broker, topics Topics, overrides *Overrides, logger *slog.Logger) *Bridge {
	return &Bridge{
		broker:    broker,
		topics:    topics,
		overrides: overrides,
		logger:    logger,
	}
}

// Start подписывается на локальные целевые значения панели
func (b *Bridge) Start() error {
	if err := b.broker.Subscribe(b.topics.Override(), b.handleOverride); err != nil {
		return fmt.Errorf("failed to subscribe to overrides: %w", err)
	}
	return nil
}

// Run публикует события, пока ctx не отменен или канал не закрыт.
// Ошибки публикации логируются: панель не влияет на синхронизацию.
func (b *Bridge) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := b.publish(ev); err != nil {
				b.logger.Warn("Display publish failed", "kind", ev.Kind, "error", err)
			}
		}
	}
}

func (b *Bridge) publish(ev Event) error {
	var topic string
	switch ev.Kind {
	case EventSampleSent:
		topic = b.topics.Samples()
	case EventTargetsApplied:
		topic = b.topics.Targets()
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// последние целевые значения нужны панели сразу после подключения
	return b.broker.Publish(topic, payload, ev.Kind == EventTargetsApplied)
}

func (b *Bridge) handleOverride(topic string, payload []byte) {
	var targets map[string]float64
	if err := json.Unmarshal(payload, &targets); err != nil {
		b.logger.Warn("Invalid override payload", "topic", topic, "error", err)
		return
	}
	if err := validation.ValidateTargets(targets); err != nil {
		b.logger.Warn("Override rejected", "topic", topic, "error", err)
		return
	}

	b.overrides.Set(targets)
	b.logger.Info("Override targets received", "count", len(targets))
}

// Close закрывает соединение с брокером
func (b *Bridge) Close() error {
	return b.broker.Close()
}
