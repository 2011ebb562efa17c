package consumerWorker

import (
	"context"
	"encoding/json"

	"github.com/wb-go/wbf/zlog"

	"eventsphere/internal/dto"
	"eventsphere/internal/mailer"
	"eventsphere/internal/rabbit"
)

// Reader drains registration notices from RabbitMQ and turns them into
// e-mail notifications, off the request path.
type Reader struct {
	RMQ    *rabbit.Client
	mail   *mailer.Mailer
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq *rabbit.Client, mail *mailer.Mailer) *Reader {
	return &Reader{
		RMQ:  rmq,
		mail: mail,
		done: make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("notification reader started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			var msg dto.RegistrationNoticeMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Msgf("failed to unmarshal message: %s", string(body))
				return err
			}

			zlog.Logger.Info().
				Str("registration_id", msg.RegistrationID).
				Str("event_id", msg.EventID).
				Str("kind", msg.Kind).
				Msg("received registration notice")

			if !r.mail.Enabled() {
				zlog.Logger.Debug().Msg("mailer not configured, skipping notification")
				return nil
			}

			kind := msg.Kind
			if kind == "" {
				kind = "registered"
			}
			if err := r.mail.SendRegistrationEmail(msg.EventTitle, kind, msg.StudentEmail); err != nil {
				zlog.Logger.Warn().
					Err(err).
					Str("registration_id", msg.RegistrationID).
					Msg("failed to send notification e-mail")
			}

			// notification failures are not requeued
			return nil
		}

		if err := r.RMQ.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("notification reader stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
