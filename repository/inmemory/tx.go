package inmemory

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// txPipeline queues LRANGE and DEL and applies them under a single lock on
// Exec, the way MULTI/EXEC does on a real server. Commands it does not queue
// fall through to the embedded nil Pipeliner and panic.
type txPipeline struct {
	redis.Pipeliner
	cache *Cache
	ops   []func()
	cmds  []redis.Cmder
}

// TxPipeline returns a pipeline whose queued commands run atomically.
func (c *Cache) TxPipeline() redis.Pipeliner {
	return &txPipeline{cache: c}
}

func (p *txPipeline) LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	cmd := redis.NewStringSliceCmd(ctx, "lrange", key, start, stop)
	p.ops = append(p.ops, func() { cmd.SetVal(p.cache.lrange(key, start, stop)) })
	p.cmds = append(p.cmds, cmd)
	return cmd
}

func (p *txPipeline) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := []interface{}{"del"}
	for _, k := range keys {
		args = append(args, k)
	}
	cmd := redis.NewIntCmd(ctx, args...)
	p.ops = append(p.ops, func() { cmd.SetVal(p.cache.del(keys)) })
	p.cmds = append(p.cmds, cmd)
	return cmd
}

func (p *txPipeline) Len() int {
	return len(p.cmds)
}

func (p *txPipeline) Discard() {
	p.ops, p.cmds = nil, nil
}

func (p *txPipeline) Exec(_ context.Context) ([]redis.Cmder, error) {
	p.cache.mu.Lock()
	for _, op := range p.ops {
		op()
	}
	p.cache.mu.Unlock()

	cmds := p.cmds
	p.Discard()
	return cmds, nil
}
