// Package catalog lists every coin object of one token type owned by an
// address, following the ledger's pagination to the end.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	klog "github.com/liquidlink-lab/swirl-engine/internal/log"
	"github.com/liquidlink-lab/swirl-engine/pkg/types"
)

// ErrCatalogUnavailable is returned when the coin listing cannot be read.
var ErrCatalogUnavailable = errors.New("coin catalog unavailable")

// Defaults for Reader paging.
const (
	DefaultPageLimit = 100
	DefaultMaxPages  = 500
)

// Source is the paginated ledger read capability the reader consumes.
// rpcclient.Client satisfies it.
type Source interface {
	GetCoins(ctx context.Context, owner types.Address, coinType types.TokenType, cursor string, limit int) (*types.CoinPage, error)
}

// Reader lists coins through a Source.
type Reader struct {
	src       Source
	pageLimit int
	maxPages  int
	logger    zerolog.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithPageLimit sets the per-request page size.
func WithPageLimit(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.pageLimit = n
		}
	}
}

// WithMaxPages bounds the number of pages read in one listing.
func WithMaxPages(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxPages = n
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Reader) {
		r.logger = l
	}
}

// NewReader creates a catalog reader over src.
func NewReader(src Source, opts ...Option) *Reader {
	r := &Reader{
		src:       src,
		pageLimit: DefaultPageLimit,
		maxPages:  DefaultMaxPages,
		logger:    klog.Catalog,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ListCoins returns all coins of coinType owned by owner, in provider order.
// A coin id reported twice is kept once, at its first position. Any read
// failure is terminal and wraps ErrCatalogUnavailable.
func (r *Reader) ListCoins(ctx context.Context, owner types.Address, coinType types.TokenType) ([]types.Coin, error) {
	var (
		coins   []types.Coin
		seen    = make(map[types.ObjectID]struct{})
		cursors = make(map[string]struct{})
		cursor  string
	)
	for pages := 0; ; pages++ {
		if pages >= r.maxPages {
			return nil, fmt.Errorf("%w: more than %d pages for %s", ErrCatalogUnavailable, r.maxPages, coinType)
		}
		page, err := r.src.GetCoins(ctx, owner, coinType, cursor, r.pageLimit)
		if err != nil {
			return nil, fmt.Errorf("%w: list %s: %v", ErrCatalogUnavailable, coinType, err)
		}
		if page == nil {
			return nil, fmt.Errorf("%w: empty response for %s", ErrCatalogUnavailable, coinType)
		}

		for _, c := range page.Data {
			if c.Type != "" && !c.Type.Equal(coinType) {
				continue
			}
			if _, dup := seen[c.ID]; dup {
				r.logger.Debug().Str("coin", c.ID.String()).Msg("Duplicate coin in listing")
				continue
			}
			seen[c.ID] = struct{}{}
			coins = append(coins, c)
		}

		if !page.HasNextPage || page.NextCursor == "" {
			break
		}
		if _, again := cursors[page.NextCursor]; again {
			return nil, fmt.Errorf("%w: cursor %s repeated", ErrCatalogUnavailable, page.NextCursor)
		}
		cursors[page.NextCursor] = struct{}{}
		cursor = page.NextCursor
	}

	r.logger.Debug().
		Str("owner", owner.Short()).
		Str("type", string(coinType)).
		Int("coins", len(coins)).
		Msg("Listed coins")
	return coins, nil
}

// Balance sums the balances of all coins of coinType owned by owner.
func (r *Reader) Balance(ctx context.Context, owner types.Address, coinType types.TokenType) (uint64, error) {
	coins, err := r.ListCoins(ctx, owner, coinType)
	if err != nil {
		return 0, err
	}
	return types.SumBalances(coins)
}
