package models

import (
	"context"
	"fmt"
	"sync"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

// Purpose separates summarizer and translator entries in the cache.
type Purpose string

const (
	PurposeSummary     Purpose = "summary"
	PurposeTranslation Purpose = "translation"
)

// Key identifies one loaded model.
type Key struct {
	Purpose Purpose
	Model   string
	Source  string
	Target  string
}

type entry struct {
	ready chan struct{}
	val   any
	err   error
}

// Cache loads each model at most once. Concurrent requests for a key that is
// being loaded wait for that load. Failed loads are not kept, so a later
// request retries.
type Cache struct {
	factory Factory
	logger  logger.Logger

	mu      sync.Mutex
	entries map[Key]*entry
}

func NewCache(factory Factory, log logger.Logger) *Cache {
	return &Cache{
		factory: factory,
		logger:  log,
		entries: make(map[Key]*entry),
	}
}

// Summarizer returns the cached summarizer for model, loading it on first use.
func (c *Cache) Summarizer(ctx context.Context, model string) (Summarizer, error) {
	key := Key{Purpose: PurposeSummary, Model: model}
	v, err := c.load(ctx, key, func() (any, error) {
		return c.factory.NewSummarizer(ctx, model)
	})
	if err != nil {
		return nil, err
	}
	return v.(Summarizer), nil
}

// Translator returns the cached translator for route.
func (c *Cache) Translator(ctx context.Context, route Route) (Translator, error) {
	key := Key{Purpose: PurposeTranslation, Model: route.Model, Source: route.Source, Target: route.Target}
	v, err := c.load(ctx, key, func() (any, error) {
		return c.factory.NewTranslator(ctx, route.Model, route.Source, route.Target)
	})
	if err != nil {
		return nil, err
	}
	return v.(Translator), nil
}

// Len reports how many models are loaded or loading.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) load(ctx context.Context, key Key, fn func() (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		select {
		case <-e.ready:
			return e.val, e.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	e := &entry{ready: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	c.logger.Info(ctx, "[models] loading %s model %s", key.Purpose, key.Model)
	e.val, e.err = callLoader(fn)
	if e.err != nil {
		e.err = fmt.Errorf("load %s model %s: %w", key.Purpose, key.Model, e.err)
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
	}
	close(e.ready)
	return e.val, e.err
}

// callLoader runs fn, reporting a panic as an error so waiters are released.
func callLoader(fn func() (any, error)) (val any, err error) {
	defer func() {
		if r := recover(); r != nil {
			val, err = nil, fmt.Errorf("loader panicked: %v", r)
		}
	}()
	return fn()
}
