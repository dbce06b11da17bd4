package transcript

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	watchPageURL = "https://www.youtube.com/watch?v="
	timedTextURL = "https://www.youtube.com/api/timedtext?lang=en&v="
)

// captionRe matches timedtext caption elements. It is deliberately a
// best-effort scrape, not a conformant XML parse: elements that don't match
// simply produce no entry. Downstream callers depend on these exact
// semantics, so don't "fix" it.
var captionRe = regexp.MustCompile(`<text start="([\d.]+)" dur="([\d.]+)">(.*?)</text>`)

// ProxyFetcher retrieves captions with plain GETs routed through an HTTP
// proxy: a watch-page availability probe followed by the public timedtext
// endpoint. Any failure is recoverable by the caller falling back to the
// direct client.
type ProxyFetcher struct {
	httpClient *http.Client
	watchURL   string
	captionURL string
}

func NewProxyFetcher(proxyURL *url.URL) *ProxyFetcher {
	return &ProxyFetcher{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				Proxy: http.ProxyURL(proxyURL),
			},
		},
		watchURL:   watchPageURL,
		captionURL: timedTextURL,
	}
}

func (p *ProxyFetcher) Fetch(ctx context.Context, videoID string) ([]Entry, error) {
	// Probe the watch page first; the body is discarded. A failure here is
	// not distinguished from any other proxy failure.
	if err := p.probe(ctx, p.watchURL+videoID); err != nil {
		return nil, fmt.Errorf("proxy probe: %w", err)
	}

	body, err := p.get(ctx, p.captionURL+videoID)
	if err != nil {
		return nil, fmt.Errorf("proxy caption fetch: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("could not get transcript: empty caption response")
	}

	entries, err := ParseCaptionXML(string(body))
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("could not get transcript: no caption entries matched")
	}
	return entries, nil
}

func (p *ProxyFetcher) probe(ctx context.Context, rawURL string) error {
	_, err := p.get(ctx, rawURL)
	return err
}

func (p *ProxyFetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ParseCaptionXML scans caption XML for <text start=".." dur="..">..</text>
// elements in document order. Offsets and durations are converted from
// seconds to integer milliseconds; text has literal '+' replaced by spaces
// before percent-decoding. A malformed percent escape fails the whole parse.
func ParseCaptionXML(body string) ([]Entry, error) {
	matches := captionRe.FindAllStringSubmatch(body, -1)

	entries := make([]Entry, 0, len(matches))
	for _, m := range matches {
		start, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		dur, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		text, err := url.PathUnescape(strings.ReplaceAll(m[3], "+", " "))
		if err != nil {
			return nil, fmt.Errorf("decode caption text: %w", err)
		}
		entries = append(entries, Entry{
			OffsetMs:   int64(math.Round(start * 1000)),
			DurationMs: int64(math.Round(dur * 1000)),
			Text:       text,
		})
	}
	return entries, nil
}
