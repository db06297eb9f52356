package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextAndFromContext(t *testing.T) {
	log := zap.NewNop()
	ctx := WithContext(context.Background(), log)

	assert.Equal(t, log, FromContext(ctx))
}

func TestFromContextReturnsNopWhenAbsent(t *testing.T) {
	log := FromContext(context.Background())

	assert.NotNil(t, log)
	assert.NotPanics(t, func() {
		log.Info("safe to log without setup")
	})
}

func TestFromContextIgnoresWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")

	assert.NotNil(t, FromContext(ctx))
}

func TestEnrichmentHelpers(t *testing.T) {
	tests := []struct {
		name   string
		enrich func(context.Context, *zap.Logger, string) (context.Context, *zap.Logger)
		get    func(context.Context) string
		field  string
	}{
		{"request ID", WithRequestID, GetRequestID, "request_id"},
		{"tenant ID", WithTenantID, GetTenantID, "tenant_id"},
		{"user ID", WithUserID, GetUserID, "user_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.InfoLevel)
			log := zap.New(core)

			ctx, enriched := tt.enrich(context.Background(), log, "value-1")

			assert.Equal(t, "value-1", tt.get(ctx), "value must be readable from the context")
			assert.Equal(t, enriched, FromContext(ctx), "enriched logger must replace the one in context")

			enriched.Info("probe")
			entries := recorded.All()
			assert.Len(t, entries, 1)
			assert.Equal(t, "value-1", entries[0].ContextMap()[tt.field])
		})
	}
}

func TestGettersReturnEmptyWhenAbsent(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetTenantID(ctx))
	assert.Empty(t, GetUserID(ctx))
}

func TestEnrichmentChains(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	ctx := context.Background()
	ctx, log = WithRequestID(ctx, log, "req-1")
	ctx, log = WithTenantID(ctx, log, "tenant-1")
	ctx, log = WithUserID(ctx, log, "user-1")

	log.Info("probe")

	entries := recorded.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "tenant-1", fields["tenant_id"])
	assert.Equal(t, "user-1", fields["user_id"])

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "tenant-1", GetTenantID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
}

func TestLaterRequestIDWins(t *testing.T) {
	ctx := context.Background()
	ctx, _ = WithRequestID(ctx, zap.NewNop(), "first")
	ctx, _ = WithRequestID(ctx, zap.NewNop(), "second")

	assert.Equal(t, "second", GetRequestID(ctx))
}
