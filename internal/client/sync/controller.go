// Package sync reconciles three copies of the site's state: the
// in-memory documents consumers render from, the local persistent cache,
// and the remote entity store. Local mutations go cache-first with an
// async remote upsert; remote changes arrive over the realtime channel
// with interval polling as the safety net. Conflicts resolve as last
// write observed wins on whole documents.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	stdsync "sync"
	"time"

	"github.com/ourunion/unionhub/internal/client/remote"
	"github.com/ourunion/unionhub/internal/common"
	"github.com/ourunion/unionhub/internal/logging"
	core "github.com/ourunion/unionhub/internal/models"
)

// Remote is the entity-store adapter the controller pulls from and
// pushes to.
type Remote interface {
	Enabled() bool
	FetchEntity(ctx context.Context, key core.EntityKey) (*remote.EntityRow, error)
	UpsertEntity(ctx context.Context, key core.EntityKey, data json.RawMessage) (*remote.EntityRow, error)
}

// Notifier delivers remote change events until ctx is cancelled.
type Notifier interface {
	Listen(ctx context.Context, keys []core.EntityKey, handler func(remote.Event)) error
}

// Cache is the local persistent key-value store.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
}

const pushTimeout = 10 * time.Second

// Controller owns the reconciled state of all entity sets.
type Controller struct {
	remote       Remote
	cache        Cache
	notifier     Notifier
	logger       logging.Logger
	pollInterval time.Duration
	initTimeout  time.Duration

	sets map[core.EntityKey]*entitySet

	mu       stdsync.Mutex
	onChange func(core.EntityKey)
}

func NewController(r Remote, c Cache, n Notifier, logger logging.Logger,
	pollInterval, initTimeout time.Duration) *Controller {
	sets := make(map[core.EntityKey]*entitySet)
	for _, key := range core.EntityKeys() {
		sets[key] = newEntitySet(key)
	}
	return &Controller{
		remote:       r,
		cache:        c,
		notifier:     n,
		logger:       logger.With("module", "sync"),
		pollInterval: pollInterval,
		initTimeout:  initTimeout,
		sets:         sets,
	}
}

// OnChange registers the re-render hook, invoked after a document
// actually changes. At most one hook is held.
func (c *Controller) OnChange(fn func(core.EntityKey)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Controller) notify(key core.EntityKey) {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(key)
	}
}

// Value returns the current document for key.
func (c *Controller) Value(key core.EntityKey) json.RawMessage {
	value, _ := c.sets[key].snapshot()
	return value
}

// defaultValue is the built-in document used when neither the remote
// store nor the cache has one.
func defaultValue(key core.EntityKey) json.RawMessage {
	if key == core.KeySettings {
		data, _ := json.Marshal(core.DefaultSettings())
		return data
	}
	return json.RawMessage(`[]`)
}

// Initialize seeds every entity set, trying remote, then cache, then the
// built-in default. It is bounded by the configured init timeout so the
// caller can always render with whatever state is available.
func (c *Controller) Initialize(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.initTimeout)
	defer cancel()

	var wg stdsync.WaitGroup
	for _, key := range core.EntityKeys() {
		wg.Add(1)
		go func(key core.EntityKey) {
			defer wg.Done()
			c.initSet(ctx, key)
		}(key)
	}
	wg.Wait()
}

func (c *Controller) initSet(ctx context.Context, key core.EntityKey) {
	if c.remote.Enabled() {
		row, err := c.remote.FetchEntity(ctx, key)
		if err == nil {
			if verr := core.ValidateEntity(key, row.Data); verr == nil {
				c.sets[key].seed(row.Data, canonicalFingerprint(row.Data))
				c.writeCache(ctx, key, row.Data)
				return
			}
			c.logger.Warn(ctx, "discarding malformed remote document", "key", key)
		} else if !errors.Is(err, common.ErrNotFound) {
			c.logger.Warn(ctx, "initial pull failed", "key", key, "error", err.Error())
		}
	}

	cached, err := c.cache.Get(ctx, string(key))
	if err == nil {
		raw := json.RawMessage(cached)
		if verr := core.ValidateEntity(key, raw); verr == nil {
			c.sets[key].seed(raw, canonicalFingerprint(raw))
			return
		}
		c.logger.Warn(ctx, "discarding malformed cached document", "key", key)
	}

	value := defaultValue(key)
	c.sets[key].seed(value, canonicalFingerprint(value))
}

// Pull fetches the remote document for key and applies it unless the
// fingerprint is unchanged or a local write landed while the fetch was
// in flight.
func (c *Controller) Pull(ctx context.Context, key core.EntityKey) error {
	s := c.sets[key]
	_, startGen := s.snapshot()

	row, err := c.remote.FetchEntity(ctx, key)
	if err != nil {
		return err
	}
	if err := core.ValidateEntity(key, row.Data); err != nil {
		return err
	}

	fp := canonicalFingerprint(row.Data)
	if !s.applyRemote(startGen, row.Data, fp) {
		return nil
	}

	c.writeCache(ctx, key, row.Data)
	c.notify(key)
	return nil
}

// Push installs a locally mutated document: in-memory and cache
// synchronously, remote upsert asynchronously. A failed upsert is
// logged, not retried; the next push carries the latest value.
func (c *Controller) Push(ctx context.Context, key core.EntityKey, value json.RawMessage) error {
	if err := core.ValidateEntity(key, value); err != nil {
		return err
	}

	s := c.sets[key]
	s.applyLocal(value, canonicalFingerprint(value))

	if err := c.cache.Set(ctx, string(key), string(value)); err != nil {
		return err
	}
	c.notify(key)

	if c.remote.Enabled() {
		go func() {
			pushCtx, cancel := context.WithTimeout(context.Background(), pushTimeout)
			defer cancel()
			if _, err := c.remote.UpsertEntity(pushCtx, key, value); err != nil {
				c.logger.Warn(pushCtx, "push failed", "key", key, "error", err.Error())
			}
		}()
	}
	return nil
}

// Resync pulls every entity set once. Used on the poll tick and when the
// application regains focus. Failures are background noise, logged only.
func (c *Controller) Resync(ctx context.Context) {
	if !c.remote.Enabled() {
		return
	}
	for _, key := range core.EntityKeys() {
		if err := c.Pull(ctx, key); err != nil && ctx.Err() == nil {
			c.logger.Warn(ctx, "pull failed", "key", key, "error", err.Error())
		}
	}
}

// Run subscribes to the realtime channel and polls on the configured
// interval until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) {
	if !c.remote.Enabled() {
		<-ctx.Done()
		return
	}

	if c.notifier != nil {
		go func() {
			err := c.notifier.Listen(ctx, core.EntityKeys(), func(ev remote.Event) {
				key := core.EntityKey(ev.Key)
				if !key.Valid() {
					return
				}
				if err := c.Pull(ctx, key); err != nil && ctx.Err() == nil {
					c.logger.Warn(ctx, "pull after notify failed", "key", key, "error", err.Error())
				}
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				c.logger.Warn(ctx, "realtime channel unavailable, relying on polling", "error", err.Error())
			}
		}()
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Resync(ctx)
		}
	}
}

func (c *Controller) writeCache(ctx context.Context, key core.EntityKey, value json.RawMessage) {
	if err := c.cache.Set(ctx, string(key), string(value)); err != nil {
		c.logger.Warn(ctx, "cache write failed", "key", key, "error", err.Error())
	}
}
