package dryrun

import (
	"context"
	"sync"

	"github.com/ETAnderson/catalogsync/internal/channels"
	"github.com/ETAnderson/catalogsync/internal/domain"
	"github.com/ETAnderson/catalogsync/internal/worker"
)

type Logger interface {
	Printf(format string, v ...any)
}

// Client logs what would be sent and never calls anything remote.
type Client struct {
	Logger Logger

	mu      sync.Mutex
	inserts []string
	deletes []string
}

func New(logger Logger) *Client {
	return &Client{Logger: logger}
}

func (c *Client) Name() string { return "dryrun" }

func (c *Client) Insert(ctx context.Context, accountID string, v domain.Variant) error {
	key := channels.VariantKey(v)

	c.mu.Lock()
	c.inserts = append(c.inserts, key)
	c.mu.Unlock()

	if c.Logger != nil {
		c.Logger.Printf("dry-run insert %s account=%s product=%s title=%q", runFields(ctx), accountID, key, v.Title)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, accountID string, productKey string) error {
	c.mu.Lock()
	c.deletes = append(c.deletes, productKey)
	c.mu.Unlock()

	if c.Logger != nil {
		c.Logger.Printf("dry-run delete %s account=%s product=%s", runFields(ctx), accountID, productKey)
	}
	return nil
}

// Calls returns the product keys seen so far.
func (c *Client) Calls() (inserts, deletes []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.inserts...), append([]string(nil), c.deletes...)
}

// runFields tags a log line with the run id and whether that run keeps the
// cache as is. cache=updated means the run records calls that never left
// the process.
func runFields(ctx context.Context) string {
	info, ok := worker.RunFrom(ctx)
	if !ok {
		return "run=-"
	}
	cache := "kept"
	if !info.DryRun {
		cache = "updated"
	}
	return "run=" + info.ID + " cache=" + cache
}
