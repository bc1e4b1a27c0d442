package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/darekanikki/diary-backend/internal/clock"
	"github.com/darekanikki/diary-backend/internal/observability"
	"github.com/darekanikki/diary-backend/internal/pkg/logger"
	"github.com/darekanikki/diary-backend/internal/repos"
)

// feedItemLimit caps the channel at the newest finalized entries.
const feedItemLimit = 20

// feedDescriptionRunes bounds item descriptions, counted in code points.
const feedDescriptionRunes = 200

type FeedService interface {
	// RenderRSS builds the RSS 2.0 document for past entries. Today's
	// entry is still editable and never appears. Storage errors degrade
	// to an empty channel so readers keep a valid document.
	RenderRSS(ctx context.Context, baseURL string) string
}

// FeedChannel is the channel identity, sourced from the embedded site
// configuration.
type FeedChannel struct {
	Title       string
	Description string
	Language    string
}

type feedService struct {
	log       *logger.Logger
	calendar  *clock.Calendar
	entryRepo repos.EntryRepo
	channel   FeedChannel
}

func NewFeedService(baseLog *logger.Logger, calendar *clock.Calendar, entryRepo repos.EntryRepo, channel FeedChannel) FeedService {
	return &feedService{
		log:       baseLog.With("service", "FeedService"),
		calendar:  calendar,
		entryRepo: entryRepo,
		channel:   channel,
	}
}

func (s *feedService) RenderRSS(ctx context.Context, baseURL string) string {
	entries, err := s.entryRepo.ListRecent(ctx, nil, s.calendar.CurrentDateKey(), feedItemLimit)
	if err != nil {
		s.log.Error("RenderRSS: list entries failed", "error", err)
		entries = nil
	}

	items := make([]string, 0, len(entries))
	for _, entry := range entries {
		date := escapeXML(entry.Date)
		items = append(items, fmt.Sprintf(`    <item>
      <title>%sの日記</title>
      <link>%s/entries/%s</link>
      <guid>%s/entries/%s</guid>
      <pubDate>%s</pubDate>
      <description>%s</description>
    </item>`,
			date,
			baseURL, date,
			baseURL, date,
			clock.FormatFeedTimestamp(entry.UpdatedAt),
			escapeXML(feedDescription(entry.Content)),
		))
	}

	observability.Current().FeedRendered()
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>%s</title>
    <link>%s</link>
    <description>%s</description>
    <language>%s</language>
%s
  </channel>
</rss>`,
		escapeXML(s.channel.Title),
		baseURL,
		escapeXML(s.channel.Description),
		escapeXML(s.channel.Language),
		strings.Join(items, "\n"))
}

// feedDescription truncates raw content; the bound applies before
// escaping.
func feedDescription(content string) string {
	runes := []rune(content)
	if len(runes) > feedDescriptionRunes {
		return string(runes[:feedDescriptionRunes]) + "..."
	}
	return content
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
