package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/darekanikki/diary-backend/internal/types"
)

func newTestFeedService(t *testing.T, entries *fakeEntryRepo) FeedService {
	t.Helper()
	channel := FeedChannel{
		Title:       "誰かが書く日記",
		Description: "自分が書かなければおそらく誰かが書く日記",
		Language:    "ja",
	}
	return NewFeedService(newTestLogger(t), testCalendar(), entries, channel)
}

const emptyChannelRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>誰かが書く日記</title>
    <link>https://example.com</link>
    <description>自分が書かなければおそらく誰かが書く日記</description>
    <language>ja</language>

  </channel>
</rss>`

func TestRenderRSSEmptyChannel(t *testing.T) {
	svc := newTestFeedService(t, newFakeEntryRepo())

	got := svc.RenderRSS(context.Background(), "https://example.com")
	if got != emptyChannelRSS {
		t.Fatalf("empty channel mismatch:\ngot:\n%s\nwant:\n%s", got, emptyChannelRSS)
	}
}

func TestRenderRSSSingleItem(t *testing.T) {
	entries := newFakeEntryRepo()
	entries.seed(&types.Entry{
		Date:      "2025-01-14",
		Content:   "昨日の日記です。",
		CreatedAt: "2025-01-14T10:30:45Z",
		UpdatedAt: "2025-01-14T10:30:45Z",
	})
	svc := newTestFeedService(t, entries)

	want := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>誰かが書く日記</title>
    <link>https://example.com</link>
    <description>自分が書かなければおそらく誰かが書く日記</description>
    <language>ja</language>
    <item>
      <title>2025-01-14の日記</title>
      <link>https://example.com/entries/2025-01-14</link>
      <guid>https://example.com/entries/2025-01-14</guid>
      <pubDate>Tue, 14 Jan 2025 19:30:45 +0900</pubDate>
      <description>昨日の日記です。</description>
    </item>
  </channel>
</rss>`

	got := svc.RenderRSS(context.Background(), "https://example.com")
	if got != want {
		t.Fatalf("document mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderRSSExcludesToday(t *testing.T) {
	entries := newFakeEntryRepo()
	entries.seed(&types.Entry{Date: "2025-01-15", Content: "編集中", UpdatedAt: "2025-01-15T01:00:00Z"})
	entries.seed(&types.Entry{Date: "2025-01-14", Content: "確定済み", UpdatedAt: "2025-01-14T01:00:00Z"})
	entries.seed(&types.Entry{Date: "2025-01-12", Content: "古い日記", UpdatedAt: "2025-01-12T01:00:00Z"})
	svc := newTestFeedService(t, entries)

	got := svc.RenderRSS(context.Background(), "https://example.com")
	if strings.Contains(got, "2025-01-15") {
		t.Fatalf("today's entry leaked into the feed:\n%s", got)
	}
	newer := strings.Index(got, "2025-01-14の日記")
	older := strings.Index(got, "2025-01-12の日記")
	if newer == -1 || older == -1 || newer > older {
		t.Fatalf("items must be newest first: idx(14)=%d idx(12)=%d", newer, older)
	}
}

func TestRenderRSSEscapesText(t *testing.T) {
	entries := newFakeEntryRepo()
	entries.seed(&types.Entry{
		Date:      "2025-01-14",
		Content:   `<b>太字 & "quotes" & 'apostrophe'</b>`,
		UpdatedAt: "2025-01-14T10:30:45Z",
	})
	svc := newTestFeedService(t, entries)

	got := svc.RenderRSS(context.Background(), "https://example.com")
	want := "&lt;b&gt;太字 &amp; &quot;quotes&quot; &amp; &apos;apostrophe&apos;&lt;/b&gt;"
	if !strings.Contains(got, want) {
		t.Fatalf("escaped description missing:\n%s", got)
	}
	if strings.Contains(got, "<b>") {
		t.Fatalf("raw markup leaked:\n%s", got)
	}
}

func TestRenderRSSTruncatesDescription(t *testing.T) {
	entries := newFakeEntryRepo()
	entries.seed(&types.Entry{
		Date:      "2025-01-14",
		Content:   strings.Repeat("あ", 300),
		UpdatedAt: "2025-01-14T10:30:45Z",
	})
	svc := newTestFeedService(t, entries)

	got := svc.RenderRSS(context.Background(), "https://example.com")
	if !strings.Contains(got, strings.Repeat("あ", 200)+"...") {
		t.Fatalf("truncated description missing")
	}
	if strings.Contains(got, strings.Repeat("あ", 201)) {
		t.Fatalf("description exceeds 200 code points")
	}
}

func TestRenderRSSStorageErrorDegradesToEmptyChannel(t *testing.T) {
	entries := newFakeEntryRepo()
	entries.listErr = errors.New("connection reset")
	svc := newTestFeedService(t, entries)

	got := svc.RenderRSS(context.Background(), "https://example.com")
	if got != emptyChannelRSS {
		t.Fatalf("degraded document mismatch:\n%s", got)
	}
}
