package notify

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"readtrack/internal/config"
	errs "readtrack/internal/errors"
)

const channelTimeout = 10 * time.Second

// Failure records one channel's delivery error in an aggregate result.
type Failure struct {
	Channel string `json:"channel"`
	Error   string `json:"error"`
}

// Result aggregates a broadcast: which channels succeeded, which failed, and
// a human-readable summary. Partial failure is a normal outcome, not an error.
type Result struct {
	Successful []string  `json:"successful"`
	Failed     []Failure `json:"failed"`
	Total      int       `json:"total"`
	Message    string    `json:"message"`
}

// Dispatcher resolves configured channels and fans a message out to them.
type Dispatcher struct {
	cfg       *config.Config
	connector Connector
	client    *http.Client
	log       zerolog.Logger
}

// NewDispatcher builds the dispatcher. connector may be nil when no session
// messaging is deployed.
func NewDispatcher(cfg *config.Config, connector Connector, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:       cfg,
		connector: connector,
		client:    &http.Client{Timeout: channelTimeout},
		log:       log.With().Str("component", "notify").Logger(),
	}
}

// channel resolves a channel by name regardless of configuration state;
// misconfiguration is reported by the channel's Send before any network call.
func (d *Dispatcher) channel(name string) (Channel, error) {
	switch name {
	case "bark":
		return &barkChannel{url: d.cfg.BarkURL, client: d.client}, nil
	case "webhook":
		return &webhookChannel{url: d.cfg.WebhookURL, client: d.client}, nil
	case "whatsapp_api":
		return &groupAPIChannel{
			baseURL:  d.cfg.WhatsAppAPIURL,
			apiKey:   d.cfg.WhatsAppAPIKey,
			groupJID: d.cfg.WhatsAppGroupJID,
			client:   d.client,
		}, nil
	case "whatsapp_sender":
		return &senderChannel{connector: d.connector, recipient: d.cfg.WhatsAppRecipient}, nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedChannel, name)
	}
}

// Send dispatches the message to exactly one channel.
func (d *Dispatcher) Send(ctx context.Context, channel, message string) error {
	ch, err := d.channel(channel)
	if err != nil {
		return err
	}
	if err := ch.Send(ctx, message); err != nil {
		d.log.Error().Err(err).Str("channel", channel).Msg("delivery failed")
		return err
	}
	d.log.Info().Str("channel", channel).Msg("message delivered")
	return nil
}

// configured returns the channels with complete configuration, in stable order.
func (d *Dispatcher) configured() []Channel {
	var channels []Channel
	if d.cfg.WhatsAppAPIURL != "" && d.cfg.WhatsAppAPIKey != "" && d.cfg.WhatsAppGroupJID != "" {
		ch, _ := d.channel("whatsapp_api")
		channels = append(channels, ch)
	}
	if d.cfg.WhatsAppSenderOn && d.cfg.WhatsAppRecipient != "" && d.connector != nil {
		ch, _ := d.channel("whatsapp_sender")
		channels = append(channels, ch)
	}
	if d.cfg.BarkURL != "" {
		ch, _ := d.channel("bark")
		channels = append(channels, ch)
	}
	if d.cfg.WebhookURL != "" {
		ch, _ := d.channel("webhook")
		channels = append(channels, ch)
	}
	return channels
}

// SendToAll dispatches the message to every configured channel concurrently,
// capturing each outcome independently. It errors only when zero channels are
// configured; partial failure is reported in the Result.
func (d *Dispatcher) SendToAll(ctx context.Context, message string) (*Result, error) {
	channels := d.configured()
	if len(channels) == 0 {
		return nil, errs.ErrNoChannelsConfigured
	}

	outcomes := make([]error, len(channels))
	var wg sync.WaitGroup
	for i, ch := range channels {
		wg.Add(1)
		go func(i int, ch Channel) {
			defer wg.Done()
			outcomes[i] = ch.Send(ctx, message)
		}(i, ch)
	}
	wg.Wait()

	result := &Result{Successful: []string{}, Failed: []Failure{}, Total: len(channels)}
	for i, ch := range channels {
		if outcomes[i] != nil {
			result.Failed = append(result.Failed, Failure{Channel: ch.Name(), Error: outcomes[i].Error()})
			continue
		}
		result.Successful = append(result.Successful, ch.Name())
	}
	result.Message = fmt.Sprintf("成功发送到 %d/%d 个渠道", len(result.Successful), result.Total)

	evt := d.log.Info()
	if len(result.Failed) > 0 {
		evt = d.log.Warn()
	}
	evt.Int("succeeded", len(result.Successful)).Int("total", result.Total).Msg("broadcast finished")

	return result, nil
}
