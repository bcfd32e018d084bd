package clients

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"
)

func newMockValkey(t *testing.T) (*ValkeyClient, *mock.Client) {
	t.Helper()
	client := mock.NewClient(gomock.NewController(t))
	return &ValkeyClient{Client: client}, client
}

func TestValkeyClient_SetScoreSendsExpiryWithSet(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
		want []string
	}{
		{"hours", 24 * time.Hour, []string{"SET", "score:abc", "0.42", "EX", "86400"}},
		{"sub second", 500 * time.Millisecond, []string{"SET", "score:abc", "0.42", "EX", "1"}},
		{"fractional", 1500 * time.Millisecond, []string{"SET", "score:abc", "0.42", "EX", "2"}},
		{"no expiry", 0, []string{"SET", "score:abc", "0.42"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vc, client := newMockValkey(t)
			ctx := context.Background()
			client.EXPECT().
				Do(ctx, mock.Match(tt.want...)).
				Return(mock.Result(mock.ValkeyString("OK"))).
				Times(1)

			require.NoError(t, vc.SetScore(ctx, "score:abc", 0.42, tt.ttl))
		})
	}
}

func TestValkeyClient_RetryRebuildsCommand(t *testing.T) {
	vc, client := newMockValkey(t)
	ctx := context.Background()

	gomock.InOrder(
		client.EXPECT().
			Do(ctx, mock.Match("SET", "score:abc", "0.42", "EX", "60")).
			Return(mock.ErrorResult(errors.New("connection reset"))),
		client.EXPECT().
			Do(ctx, mock.Match("SET", "score:abc", "0.42", "EX", "60")).
			Return(mock.Result(mock.ValkeyString("OK"))),
	)

	require.NoError(t, vc.SetScore(ctx, "score:abc", 0.42, time.Minute))
}

func TestValkeyClient_GetScore(t *testing.T) {
	ctx := context.Background()

	t.Run("hit", func(t *testing.T) {
		vc, client := newMockValkey(t)
		client.EXPECT().
			Do(ctx, mock.Match("GET", "score:abc")).
			Return(mock.Result(mock.ValkeyString("0.42")))

		score, found, err := vc.GetScore(ctx, "score:abc")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 0.42, score)
	})

	t.Run("miss is not retried", func(t *testing.T) {
		vc, client := newMockValkey(t)
		client.EXPECT().
			Do(ctx, mock.Match("GET", "score:abc")).
			Return(mock.Result(mock.ValkeyNil())).
			Times(1)

		_, found, err := vc.GetScore(ctx, "score:abc")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("gives up", func(t *testing.T) {
		vc, client := newMockValkey(t)
		client.EXPECT().
			Do(ctx, mock.Match("GET", "score:abc")).
			Return(mock.ErrorResult(errors.New("connection refused"))).
			Times(MAX_RETRIES)

		_, found, err := vc.GetScore(ctx, "score:abc")
		require.Error(t, err)
		assert.False(t, found)
	})
}

func TestTTLSeconds(t *testing.T) {
	assert.Equal(t, int64(1), ttlSeconds(time.Nanosecond))
	assert.Equal(t, int64(1), ttlSeconds(time.Second))
	assert.Equal(t, int64(2), ttlSeconds(1001*time.Millisecond))
	assert.Equal(t, int64(3600), ttlSeconds(time.Hour))
}
