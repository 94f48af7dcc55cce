package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
)

func TestPingRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rdb.Close() })

	assert.NoError(t, PingRedis(context.Background(), rdb, time.Second))

	mr.Close()
	assert.Error(t, PingRedis(context.Background(), rdb, time.Second))
}
