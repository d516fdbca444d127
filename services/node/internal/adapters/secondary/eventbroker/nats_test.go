package eventbroker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/Nishchay412/Social-Distribution/pkg/core/relation"
)

func TestSubjectFollow(t *testing.T) {
	assert.Equal(t, "social.follow.created", SubjectFollow(relation.ChangeCreated))
	assert.Equal(t, "social.follow.accepted", SubjectFollow(relation.ChangeAccepted))
	assert.Equal(t, "social.follow.deleted", SubjectFollow(relation.ChangeDeleted))
}

func TestNewMsg_InjectsTraceContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	msg, err := newMsg(ctx, SubjectPostDeleted, PostDeletedEvent{ID: "p-1", Author: "alice"})
	require.NoError(t, err)

	assert.Equal(t, SubjectPostDeleted, msg.Subject)
	assert.Equal(t, "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", propagation.HeaderCarrier(msg.Header).Get("traceparent"))

	var got PostDeletedEvent
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, PostDeletedEvent{ID: "p-1", Author: "alice"}, got)
}
