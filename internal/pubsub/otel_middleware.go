package pubsub

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingPublisher wraps a Publisher and records a span per publish,
// carrying the topic, user and payload size.
type TracingPublisher struct {
	publisher Publisher
	tracer    trace.Tracer
}

// NewTracingPublisher creates a publisher with tracing middleware.
func NewTracingPublisher(publisher Publisher, tracer trace.Tracer) *TracingPublisher {
	return &TracingPublisher{
		publisher: publisher,
		tracer:    tracer,
	}
}

// Publish wraps the publish operation with a span.
func (p *TracingPublisher) Publish(ctx context.Context, msg Message) error {
	spanCtx, span := p.tracer.Start(ctx, fmt.Sprintf("pubsub.publish.%s", msg.Topic),
		trace.WithAttributes(
			attribute.String("messaging.system", "watermill"),
			attribute.String("messaging.operation", "publish"),
			attribute.String("messaging.destination", msg.Topic),
			attribute.String("user.id", msg.UserID),
			attribute.Int("messaging.message_payload_size_bytes", len(msg.Payload)),
		),
	)
	defer span.End()

	err := p.publisher.Publish(spanCtx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// Close closes the underlying publisher.
func (p *TracingPublisher) Close() error {
	return p.publisher.Close()
}
