package analytics

import (
	"fmt"
	"sort"
	"time"

	"usadba-bot/internal/storage"
)

// DailyStats aggregates turn events for one calendar day.
type DailyStats struct {
	Date          string         `json:"date"`
	TotalMessages int            `json:"total_messages"`
	UniqueChats   int            `json:"unique_chats"`
	CacheHits     int            `json:"cache_hits"`
	ByIntent      map[string]int `json:"by_intent"`
}

// AnalyzeDailyLogs filters events to the target date and aggregates.
func AnalyzeDailyLogs(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:     startOfDay.Format("2006-01-02"),
		ByIntent: make(map[string]int),
	}

	uniqueChats := make(map[int64]bool)
	for _, event := range events {
		if event.Timestamp.Before(startOfDay) || !event.Timestamp.Before(endOfDay) {
			continue
		}
		stats.TotalMessages++
		uniqueChats[event.ChatID] = true
		if event.FromCache {
			stats.CacheHits++
		}
		if event.Intent != "" {
			stats.ByIntent[event.Intent]++
		}
	}
	stats.UniqueChats = len(uniqueChats)
	return stats
}

// FormatReport renders the stats as a plain-text admin message.
func (s *DailyStats) FormatReport() string {
	out := fmt.Sprintf(
		"📊 Отчёт за %s\n\nСообщений: %d\nДиалогов: %d\nОтветов из кэша: %d\n",
		s.Date, s.TotalMessages, s.UniqueChats, s.CacheHits,
	)
	if len(s.ByIntent) == 0 {
		return out
	}
	intents := make([]string, 0, len(s.ByIntent))
	for name := range s.ByIntent {
		intents = append(intents, name)
	}
	sort.Strings(intents)
	out += "\nПо темам:\n"
	for _, name := range intents {
		out += fmt.Sprintf("• %s: %d\n", name, s.ByIntent[name])
	}
	return out
}
