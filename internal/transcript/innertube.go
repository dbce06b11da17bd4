package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	playerAPIURL     = "https://www.youtube.com/youtubei/v1/player?prettyPrint=false"
	iosClientVersion = "20.11.6"
	iosUserAgent     = "com.google.ios.youtube/20.11.6 (iPhone16,2; U; CPU iOS 18_1_0 like Mac OS X;)"
)

// playerResponse is the subset of the Innertube /player response we need.
type playerResponse struct {
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" for auto-generated
}

// timedTextDoc parses YouTube's timedtext XML: <transcript><text start dur>.
type timedTextDoc struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Start float64 `xml:"start,attr"`
		Dur   float64 `xml:"dur,attr"`
		Value string  `xml:",chardata"`
	} `xml:"text"`
}

// Client fetches captions directly from YouTube's Innertube API.
type Client struct {
	httpClient *http.Client
	playerURL  string
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		playerURL:  playerAPIURL,
	}
}

// Fetch resolves the video's English caption track and returns its entries.
func (c *Client) Fetch(ctx context.Context, videoID string) ([]Entry, error) {
	player, err := c.callPlayerAPI(ctx, videoID)
	if err != nil {
		return nil, err
	}

	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no caption tracks for video %s", ErrUnavailable, videoID)
	}

	track := pickTrack(tracks)
	log.Debug().Str("video_id", videoID).Str("lang", track.LanguageCode).Str("kind", track.Kind).
		Msg("fetching caption track")

	return c.fetchTimedText(ctx, track.BaseURL)
}

func (c *Client) callPlayerAPI(ctx context.Context, videoID string) (*playerResponse, error) {
	payload := map[string]any{
		"context": map[string]any{
			"client": map[string]any{
				"clientName":    "IOS",
				"clientVersion": iosClientVersion,
				"deviceMake":    "Apple",
				"deviceModel":   "iPhone16,2",
				"userAgent":     iosUserAgent,
				"osName":        "iOS",
				"osVersion":     "18.1.0.22B83",
				"hl":            "en",
				"gl":            "US",
			},
		},
		"videoId":        videoID,
		"contentCheckOk": true,
		"racyCheckOk":    true,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal player request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.playerURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create player request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", iosUserAgent)
	req.Header.Set("X-Youtube-Client-Name", "5") // iOS client ID
	req.Header.Set("X-Youtube-Client-Version", iosClientVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("player API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read player response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("player API status %d", resp.StatusCode)
	}

	var player playerResponse
	if err := json.Unmarshal(body, &player); err != nil {
		return nil, fmt.Errorf("parse player response: %w", err)
	}

	if s := player.PlayabilityStatus.Status; s != "" && s != "OK" {
		return nil, fmt.Errorf("%w: video %s not playable: %s %s",
			ErrUnavailable, videoID, s, player.PlayabilityStatus.Reason)
	}

	return &player, nil
}

func (c *Client) fetchTimedText(ctx context.Context, baseURL string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create timedtext request: %w", err)
	}
	req.Header.Set("User-Agent", iosUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("timedtext request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read timedtext response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timedtext status %d", resp.StatusCode)
	}

	return parseTimedText(body)
}

func parseTimedText(body []byte) ([]Entry, error) {
	var doc timedTextDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	entries := make([]Entry, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		// YouTube double-escapes entities (&amp;#39;), so unescape once more
		// after the XML decoder.
		text := strings.TrimSpace(html.UnescapeString(t.Value))
		if text == "" {
			continue
		}
		entries = append(entries, Entry{
			OffsetMs:   int64(math.Round(t.Start * 1000)),
			DurationMs: int64(math.Round(t.Dur * 1000)),
			Text:       text,
		})
	}
	return entries, nil
}

// pickTrack prefers a manual English track, then auto-generated English,
// then whatever comes first.
func pickTrack(tracks []captionTrack) captionTrack {
	var asrEnglish *captionTrack
	for i, t := range tracks {
		if t.LanguageCode != "en" && !strings.HasPrefix(t.LanguageCode, "en-") {
			continue
		}
		if t.Kind != "asr" {
			return t
		}
		if asrEnglish == nil {
			asrEnglish = &tracks[i]
		}
	}
	if asrEnglish != nil {
		return *asrEnglish
	}
	return tracks[0]
}
