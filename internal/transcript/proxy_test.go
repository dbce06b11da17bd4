package transcript

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseCaptionXML(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []Entry
	}{
		{
			name: "single entry with plus decoding",
			body: `<text start="1.5" dur="2.25">hello+world</text>`,
			want: []Entry{{OffsetMs: 1500, DurationMs: 2250, Text: "hello world"}},
		},
		{
			name: "entries preserve document order",
			body: `<transcript><text start="0" dur="1.0">first</text><text start="1" dur="2">second</text><text start="3.5" dur="0.5">third</text></transcript>`,
			want: []Entry{
				{OffsetMs: 0, DurationMs: 1000, Text: "first"},
				{OffsetMs: 1000, DurationMs: 2000, Text: "second"},
				{OffsetMs: 3500, DurationMs: 500, Text: "third"},
			},
		},
		{
			name: "percent escapes decoded after plus substitution",
			body: `<text start="0.1" dur="0.2">a%2Bb+c%20d</text>`,
			want: []Entry{{OffsetMs: 100, DurationMs: 200, Text: "a+b c d"}},
		},
		{
			name: "malformed elements are skipped",
			body: `<text start="abc" dur="1">bad</text><text start="2" dur="3">good</text><text dur="4">no start</text>`,
			want: []Entry{{OffsetMs: 2000, DurationMs: 3000, Text: "good"}},
		},
		{
			name: "no matches yields empty result",
			body: `<html><body>not captions at all</body></html>`,
			want: []Entry{},
		},
		{
			name: "non-greedy match stops at first close tag",
			body: `<text start="1" dur="1">one</text> junk <text start="2" dur="1">two</text>`,
			want: []Entry{
				{OffsetMs: 1000, DurationMs: 1000, Text: "one"},
				{OffsetMs: 2000, DurationMs: 1000, Text: "two"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCaptionXML(tt.body)
			if err != nil {
				t.Fatalf("ParseCaptionXML() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseCaptionXML() = %d entries, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseCaptionXMLBadEscape(t *testing.T) {
	_, err := ParseCaptionXML(`<text start="1" dur="1">bad%zzescape</text>`)
	if err == nil {
		t.Fatal("expected error for malformed percent escape")
	}
}

func newTestProxyFetcher(srv *httptest.Server) *ProxyFetcher {
	return &ProxyFetcher{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		watchURL:   srv.URL + "/watch?v=",
		captionURL: srv.URL + "/api/timedtext?lang=en&v=",
	}
}

func TestProxyFetcherSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			w.Write([]byte("<html>watch page</html>"))
		case "/api/timedtext":
			w.Write([]byte(`<transcript><text start="0" dur="1.5">hello+there</text></transcript>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	entries, err := newTestProxyFetcher(srv).Fetch(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Text != "hello there" || entries[0].DurationMs != 1500 {
		t.Errorf("Fetch() = %+v", entries)
	}
}

func TestProxyFetcherErrors(t *testing.T) {
	tests := []struct {
		name        string
		watchStatus int
		captionBody string
	}{
		{name: "probe failure", watchStatus: http.StatusForbidden, captionBody: `<text start="0" dur="1">x</text>`},
		{name: "empty caption body", watchStatus: http.StatusOK, captionBody: ""},
		{name: "no regex matches", watchStatus: http.StatusOK, captionBody: "<html>captcha wall</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/watch":
					w.WriteHeader(tt.watchStatus)
				case "/api/timedtext":
					w.Write([]byte(tt.captionBody))
				}
			}))
			defer srv.Close()

			if _, err := newTestProxyFetcher(srv).Fetch(context.Background(), "abc123"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
