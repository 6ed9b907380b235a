package mqtt

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const (
	publishQoS      = 1
	publishTimeout  = 5 * time.Second
	disconnectQuiet = 250
)

var connectHandler paho.OnConnectHandler = func(client paho.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler paho.ConnectionLostHandler = func(client paho.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// TenantTopic is where screens of a tenant listen for schedule changes.
func TenantTopic(tenantID string) string {
	return fmt.Sprintf("tv/tenants/%s/schedules", tenantID)
}

// Publisher pushes notices to screens through the broker.
type Publisher struct {
	client paho.Client
}

// Connect opens a client against brokerURL and waits for the connection.
func Connect(brokerURL, clientID string) (*Publisher, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &Publisher{client: client}, nil
}

func (p *Publisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, publishQoS, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	log.Debug().Str("topic", topic).Msg("published MQTT message")
	return nil
}

func (p *Publisher) Close() {
	p.client.Disconnect(disconnectQuiet)
	log.Info().Msg("MQTT client disconnected")
}
