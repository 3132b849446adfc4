package events

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// subjectPrefix is prepended to the event type to form the NATS subject.
const subjectPrefix = "devcamper."

// NATSPublisher publishes each event on subject devcamper.<type>.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to url.
func NewNATSPublisher(logger *zerolog.Logger, url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("devcamper"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	logger.Info().Str("url", url).Msg("connected to nats")
	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, event Event) error {
	if !p.conn.IsConnected() {
		return nats.ErrConnectionClosed
	}
	raw, err := event.encode()
	if err != nil {
		return err
	}
	if err := p.conn.Publish(subjectPrefix+event.Type, raw); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
