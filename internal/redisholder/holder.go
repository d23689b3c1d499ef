package redisholder

import (
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// Holder lets the health loop replace the client under running readers.
type Holder struct {
	v atomic.Value // stores box
}

// atomic.Value requires one concrete type; cluster and single-node clients differ.
type box struct {
	c redis.UniversalClient
}

func NewHolder(initial redis.UniversalClient) *Holder {
	h := &Holder{}
	h.v.Store(box{c: initial})
	return h
}

func (h *Holder) Get() redis.UniversalClient {
	b, _ := h.v.Load().(box)
	return b.c
}

func (h *Holder) swap(newc redis.UniversalClient) redis.UniversalClient {
	old := h.Get()
	h.v.Store(box{c: newc})
	return old
}

func (h *Holder) Close() error {
	if c := h.Get(); c != nil {
		return c.Close()
	}
	return nil
}
