package event

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

var eventFileRe = regexp.MustCompile(`foxctl-(?P<timestamp>[0-9]{13})-[0-9]{3}-[0-9a-f]{12}\.json$`)

// EventJanitor removes event files older than the cleanup delay.
type EventJanitor struct {
	logHandler slog.Handler
	pattern    string
	delaySec   uint
}

func NewEventJanitor(log slog.Handler, eventDir string, delaySec uint) (EventJanitor, error) {
	pattern := filepath.Join(eventDir, "foxctl-?????????????-???-????????????.json")
	if _, err := filepath.Glob(pattern); err != nil {
		return EventJanitor{}, err
	}
	if delaySec == 0 {
		return EventJanitor{}, fmt.Errorf("cleanup delay should be at least 1 second")
	}

	return EventJanitor{
		logHandler: log,
		pattern:    pattern,
		delaySec:   delaySec,
	}, nil
}

// Start runs the cleanup every delaySec seconds until ctx is done.
func (j EventJanitor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Duration(j.delaySec) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				j.cleanupEventFiles(now)
			}
		}
	}()
}

func (j EventJanitor) cleanupEventFiles(now time.Time) {
	files, _ := filepath.Glob(j.pattern)
	boundaryTimestamp := now.UnixMilli() - int64(j.delaySec)*1000
	for _, file := range files {
		matches := eventFileRe.FindStringSubmatch(file)
		if len(matches) == 0 {
			// file globbed but not matched by regex
			continue
		}

		timestamp, _ := strconv.ParseInt(matches[eventFileRe.SubexpIndex("timestamp")], 10, 64)
		if timestamp > boundaryTimestamp {
			// file is too fresh
			continue
		}

		if err := os.Remove(file); err != nil {
			logError(j.logHandler, err.Error())
		}
	}
}

func logError(log slog.Handler, msg string) {
	if log == nil {
		return
	}

	record := slog.NewRecord(time.Now(), slog.LevelError, msg, 0)
	_ = log.Handle(context.Background(), record)
}
