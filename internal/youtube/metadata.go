package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/brandedtube/brandedtube/internal/cache"
)

var (
	ErrVideoNotFound      = errors.New("video not found")
	ErrVideoNotEmbeddable = errors.New("video is not embeddable")
)

const (
	defaultOEmbedEndpoint = "https://www.youtube.com/oembed"
	defaultWatchBaseURL   = "https://www.youtube.com/watch"
	maxWatchPageBytes     = 4 << 20
)

type VideoData struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type MetadataConfig struct {
	HTTPClient     *http.Client
	Cache          cache.Store
	TTL            time.Duration
	OEmbedEndpoint string
	WatchBaseURL   string
}

// MetadataClient looks up titles for the player page. A missing cache means every lookup hits YouTube.
type MetadataClient struct {
	httpClient     *http.Client
	cache          cache.Store
	ttl            time.Duration
	oembedEndpoint string
	watchBaseURL   string
}

func NewMetadataClient(cfg MetadataConfig) *MetadataClient {
	c := &MetadataClient{
		httpClient:     cfg.HTTPClient,
		cache:          cfg.Cache,
		ttl:            cfg.TTL,
		oembedEndpoint: cfg.OEmbedEndpoint,
		watchBaseURL:   cfg.WatchBaseURL,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	if c.ttl <= 0 {
		c.ttl = 6 * time.Hour
	}
	if c.oembedEndpoint == "" {
		c.oembedEndpoint = defaultOEmbedEndpoint
	}
	if c.watchBaseURL == "" {
		c.watchBaseURL = defaultWatchBaseURL
	}
	return c
}

func cacheKey(videoID string) string {
	return "video:" + videoID
}

func (c *MetadataClient) Lookup(ctx context.Context, videoID string) (*VideoData, error) {
	if c.cache != nil {
		if raw, err := c.cache.Get(ctx, cacheKey(videoID)); err == nil {
			var data VideoData
			if err := json.Unmarshal(raw, &data); err == nil {
				return &data, nil
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			slog.WarnContext(ctx, "metadata cache read failed", "video_id", videoID, "error", err)
		}
	}

	data, err := c.fromOEmbed(ctx, videoID)
	if err != nil {
		if !errors.Is(err, ErrVideoNotEmbeddable) {
			return nil, fmt.Errorf("get video data with oembed: %w", err)
		}

		data, err = c.fromWatchPage(ctx, videoID)
		if err != nil {
			return nil, fmt.Errorf("get video data from page: %w", err)
		}
	}

	if c.cache != nil {
		if raw, err := json.Marshal(data); err == nil {
			if err := c.cache.Set(ctx, cacheKey(videoID), raw, c.ttl); err != nil {
				slog.WarnContext(ctx, "metadata cache write failed", "video_id", videoID, "error", err)
			}
		}
	}

	return data, nil
}

func (c *MetadataClient) fromOEmbed(ctx context.Context, videoID string) (*VideoData, error) {
	query := url.Values{}
	query.Set("url", WatchURL(videoID))
	query.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.oembedEndpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusNotFound:
		return nil, ErrVideoNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrVideoNotEmbeddable
	default:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var data VideoData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode oembed response: %w", err)
	}
	return &data, nil
}

func (c *MetadataClient) fromWatchPage(ctx context.Context, videoID string) (*VideoData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.watchBaseURL+"?v="+url.QueryEscape(videoID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxWatchPageBytes))
	if err != nil {
		return nil, fmt.Errorf("parse watch page: %w", err)
	}

	return &VideoData{
		Title:        strings.TrimSuffix(strings.TrimSpace(findTitle(doc)), " - YouTube"),
		AuthorName:   findItempropName(doc),
		ThumbnailURL: ThumbnailURL(videoID),
	}, nil
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		if n.FirstChild != nil {
			return n.FirstChild.Data
		}
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}

// findItempropName reads <link itemprop="name" content="..."> which carries the channel name.
func findItempropName(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "link" && attr(n, "itemprop") == "name" {
		return attr(n, "content")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if content := findItempropName(c); content != "" {
			return content
		}
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
