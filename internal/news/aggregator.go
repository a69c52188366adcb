// Package news aggregates automotive headlines from RSS feeds.
package news

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"time"

	"car_catalog/internal/model"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/mmcdole/gofeed/rss"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLimit       = 15
	MinLatest          = 9
	DefaultSearchLimit = 10

	noDescription  = "Sin descripción disponible"
	unknownSource  = "Fuente desconocida"
	searchSource   = "Google News"
	searchSuffix   = " automotive cars"
	contentPreview = 200
	cacheSize      = 64
)

// ErrKeywordRequired is returned by Search when no keyword is given.
var ErrKeywordRequired = errors.New("a search keyword is required")

// Options configures an Aggregator.
type Options struct {
	Feeds        []string
	SearchURL    string
	ItemsPerFeed int
	CacheTTL     time.Duration
}

// Aggregator merges several feeds into one newest-first list.
type Aggregator struct {
	fetcher      Fetcher
	log          *slog.Logger
	feeds        []string
	searchURL    string
	itemsPerFeed int
	cache        *expirable.LRU[string, *rss.Feed]
}

// NewAggregator creates an Aggregator. Parsed feeds are cached per URL for opts.CacheTTL.
func NewAggregator(fetcher Fetcher, log *slog.Logger, opts Options) *Aggregator {
	if opts.ItemsPerFeed <= 0 {
		opts.ItemsPerFeed = 8
	}
	return &Aggregator{
		fetcher:      fetcher,
		log:          log,
		feeds:        opts.Feeds,
		searchURL:    opts.SearchURL,
		itemsPerFeed: opts.ItemsPerFeed,
		cache:        expirable.NewLRU[string, *rss.Feed](cacheSize, nil, opts.CacheTTL),
	}
}

// Latest returns the newest items across all feeds. At most ItemsPerFeed items are taken from
// each feed; the result holds max(limit, MinLatest) items when that many are available.
// A feed that fails is logged and skipped.
func (a *Aggregator) Latest(ctx context.Context, limit int) []model.NewsItem {
	if limit <= 0 {
		limit = DefaultLimit
	}

	perFeed := make([][]model.NewsItem, len(a.feeds))
	var g errgroup.Group
	for i, feedURL := range a.feeds {
		i, feedURL := i, feedURL
		g.Go(func() error {
			feed, err := a.load(ctx, feedURL)
			if err != nil {
				a.log.WarnContext(ctx, "failed to fetch news feed", "feed", feedURL, "error", err)
				return nil
			}
			items := convert(feed, unknownSource)
			if len(items) > a.itemsPerFeed {
				items = items[:a.itemsPerFeed]
			}
			perFeed[i] = items
			return nil
		})
	}
	_ = g.Wait()

	var all []model.NewsItem
	for _, items := range perFeed {
		all = append(all, items...)
	}
	sortNewestFirst(all)

	n := max(limit, MinLatest)
	if len(all) > n {
		all = all[:n]
	}
	if all == nil {
		all = []model.NewsItem{}
	}
	return all
}

// Search returns up to limit items matching keyword.
func (a *Aggregator) Search(ctx context.Context, keyword string, limit int) ([]model.NewsItem, error) {
	if keyword == "" {
		return nil, ErrKeywordRequired
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	u, err := url.Parse(a.searchURL)
	if err != nil {
		return nil, fmt.Errorf("invalid search url: %w", err)
	}
	q := u.Query()
	q.Set("q", keyword+searchSuffix)
	u.RawQuery = q.Encode()

	feed, err := a.load(ctx, u.String())
	if err != nil {
		return nil, err
	}
	out := make([]model.NewsItem, 0, min(limit, len(feed.Items)))
	for _, it := range feed.Items {
		if len(out) == limit {
			break
		}
		out = append(out, searchResult(it))
	}
	return out, nil
}

func (a *Aggregator) load(ctx context.Context, feedURL string) (*rss.Feed, error) {
	if feed, ok := a.cache.Get(feedURL); ok {
		return feed, nil
	}
	body, err := a.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	feed, err := (&rss.Parser{}).Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	a.cache.Add(feedURL, feed)
	return feed, nil
}

func convert(feed *rss.Feed, fallbackSource string) []model.NewsItem {
	source := feed.Title
	if source == "" {
		source = fallbackSource
	}
	items := make([]model.NewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		n := model.NewsItem{
			Title:       it.Title,
			Description: describe(it),
			Link:        it.Link,
			PubDate:     it.PubDate,
			Source:      source,
			Published:   it.PubDateParsed,
		}
		if it.Source != nil && it.Source.Title != "" {
			n.Source = it.Source.Title
		}
		if it.Enclosure != nil && it.Enclosure.URL != "" {
			img := it.Enclosure.URL
			n.Image = &img
		}
		items = append(items, n)
	}
	return items
}

// searchResult maps a search hit. Only the snippet and the item's own source are used, and no image.
func searchResult(it *rss.Item) model.NewsItem {
	n := model.NewsItem{
		Title:       it.Title,
		Description: snippet(it.Description),
		Link:        it.Link,
		PubDate:     it.PubDate,
		Source:      searchSource,
		Published:   it.PubDateParsed,
	}
	if n.Description == "" {
		n.Description = noDescription
	}
	if it.Source != nil && it.Source.Title != "" {
		n.Source = it.Source.Title
	}
	return n
}

func describe(it *rss.Item) string {
	if s := snippet(it.Description); s != "" {
		return s
	}
	if it.Content != "" {
		return truncate(it.Content, contentPreview) + "..."
	}
	return noDescription
}

// sortNewestFirst orders by publication date descending; undated items go last.
func sortNewestFirst(items []model.NewsItem) {
	sort.SliceStable(items, func(i, j int) bool {
		pi, pj := items[i].Published, items[j].Published
		switch {
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return pi.After(*pj)
		}
	})
}
