// Package fetch retrieves player pages. One attempt per address, bounded by
// a timeout; politeness delay is enforced by the collector's limit rule.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
)

// ErrStatus marks a non-2xx response.
var ErrStatus = errors.New("unexpected status")

// Fetcher returns a page's HTML or an error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Options struct {
	UserAgent string
	Timeout   time.Duration
	DelayMin  time.Duration
	DelayMax  time.Duration
}

// Collector is a Fetcher backed by colly.
type Collector struct {
	base *colly.Collector
}

// NewCollector builds the shared collector. Clones share its HTTP backend,
// so the delay applies across every fetch.
func NewCollector(opt Options) (*Collector, error) {
	c := colly.NewCollector(
		colly.UserAgent(opt.UserAgent),
		colly.AllowURLRevisit(),
	)
	if opt.Timeout > 0 {
		c.SetRequestTimeout(opt.Timeout)
	}
	rule := &colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       opt.DelayMin,
	}
	if opt.DelayMax > opt.DelayMin {
		rule.RandomDelay = opt.DelayMax - opt.DelayMin
	}
	if err := c.Limit(rule); err != nil {
		return nil, fmt.Errorf("limit rule: %w", err)
	}
	return &Collector{base: c}, nil
}

// Fetch performs a single GET. A cancelled ctx short-circuits before the
// request goes out.
func (f *Collector) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := f.base.Clone()

	var body []byte
	status := 0
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.7")
	})
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	err := c.Visit(url)
	if status != 0 && (status < 200 || status > 299) {
		return nil, fmt.Errorf("%w %d for %s", ErrStatus, status, url)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	return body, nil
}
