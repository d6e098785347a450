package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

const closeTimeout = 10 * time.Second

var errRouterStopped = errors.New("router stopped before running")

// Handler processes a single event. Returning an error nacks the message so
// the broker redelivers it; handlers must therefore be idempotent.
type Handler[T any] func(ctx context.Context, event *T) error

// Router runs typed event handlers over one subscriber.
type Router struct {
	router     *message.Router
	subscriber message.Subscriber
	logger     *zap.Logger
	handlers   int
	started    bool
	done       chan struct{}
}

// NewRouter creates a router whose handlers all read from subscriber.
func NewRouter(subscriber message.Subscriber, logger *zap.Logger) (*Router, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: closeTimeout}, NewZapLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}

	router.AddMiddleware(recoverPanics)

	return &Router{
		router:     router,
		subscriber: subscriber,
		logger:     logger,
		done:       make(chan struct{}),
	}, nil
}

// Handle registers handler for JSON encoded T events published on topic.
// Must be called before Start.
func Handle[T any](r *Router, topic string, handler Handler[T]) {
	name := fmt.Sprintf("%s#%d", topic, r.handlers)
	r.handlers++

	logger := r.logger.With(zap.String("topic", topic))

	r.router.AddNoPublisherHandler(name, topic, r.subscriber, func(msg *message.Message) error {
		var event T
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			// Redelivery cannot fix a payload; ack and move on.
			logger.Error("dropping undecodable event",
				zap.String("message_uuid", msg.UUID),
				zap.Error(err),
			)

			return nil
		}

		if err := handler(msg.Context(), &event); err != nil {
			logger.Error("failed to handle event",
				zap.String("message_uuid", msg.UUID),
				zap.String("correlation_id", msg.Metadata.Get(CorrelationIDKey)),
				zap.Error(err),
			)

			return err
		}

		logger.Debug("processed event", zap.String("message_uuid", msg.UUID))

		return nil
	})
}

// Start runs the router in the background and returns once every handler
// is subscribed, or with the error that kept the router from running.
func (r *Router) Start(ctx context.Context) error {
	r.started = true
	errc := make(chan error, 1)

	go func() {
		defer close(r.done)

		errc <- r.router.Run(ctx)
	}()

	select {
	case <-r.router.Running():
		r.logger.Info("event router started", zap.Int("handlers", r.handlers))

		return nil
	case err := <-errc:
		<-r.done

		if err == nil {
			err = errRouterStopped
		}

		return fmt.Errorf("start router: %w", err)
	}
}

// Shutdown stops the handlers, waits for the router to exit and closes the
// subscriber. Every step runs even when an earlier one fails.
func (r *Router) Shutdown() error {
	r.logger.Info("shutting down event router")

	var errs []error

	// Closing a router whose Run already returned blocks until CloseTimeout.
	if !r.exited() {
		if err := r.router.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close router: %w", err))
		}
	}

	if r.started {
		<-r.done
	}

	if err := r.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close subscriber: %w", err))
	}

	return errors.Join(errs...)
}

// exited reports whether Run was started and has returned.
func (r *Router) exited() bool {
	if !r.started {
		return false
	}

	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// recoverPanics turns a panicking handler into an error, nacking the message.
func recoverPanics(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) (produced []*message.Message, err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("handler panic: %v", p)
			}
		}()

		return h(msg)
	}
}
