package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventType identifies a catalog mutation
type EventType string

const (
	EventSongAdded   EventType = "song_added"
	EventSongUpdated EventType = "song_updated"
	EventSongDeleted EventType = "song_deleted"
	EventFileClaimed EventType = "file_claimed"
	EventFileRelease EventType = "file_released"
	EventFileAdded   EventType = "file_added"
	EventFileDeleted EventType = "file_deleted"
	EventNameAdded   EventType = "name_added"
	EventNameDeleted EventType = "name_deleted"
	EventLink        EventType = "link"
	EventUnlink      EventType = "unlink"
	EventError       EventType = "error"
)

// EventLevel represents the severity level
type EventLevel string

const (
	LevelDebug   EventLevel = "debug"
	LevelInfo    EventLevel = "info"
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
)

var levelPriority = map[EventLevel]int{
	LevelDebug:   0,
	LevelInfo:    1,
	LevelWarning: 2,
	LevelError:   3,
}

// Event is one line of the audit log
type Event struct {
	Timestamp time.Time         `json:"ts"`
	Level     EventLevel        `json:"level"`
	Event     EventType         `json:"event"`
	SongID    int64             `json:"song_id,omitempty"`
	Title     string            `json:"title,omitempty"`
	Kind      string            `json:"kind,omitempty"`
	TargetID  int64             `json:"target_id,omitempty"`
	Name      string            `json:"name,omitempty"`
	FileID    int64             `json:"file_id,omitempty"`
	Path      string            `json:"path,omitempty"`
	Error     string            `json:"error,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// EventLogger appends catalog mutations to a JSONL file.
// A nil *EventLogger is valid and discards everything.
type EventLogger struct {
	file     *os.File
	encoder  *json.Encoder
	mu       sync.Mutex
	path     string
	minLevel EventLevel
}

// NewEventLogger creates audit-YYYYMMDD-HHMMSS.jsonl in outputDir
func NewEventLogger(outputDir string, minLevel EventLevel) (*EventLogger, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := fmt.Sprintf("audit-%s.jsonl", time.Now().Format("20060102-150405"))
	path := filepath.Join(outputDir, filename)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create event log: %w", err)
	}

	return &EventLogger{
		file:     file,
		encoder:  json.NewEncoder(file),
		path:     path,
		minLevel: minLevel,
	}, nil
}

// Log writes an event to the JSONL file
func (l *EventLogger) Log(event *Event) error {
	if l == nil || l.file == nil {
		return nil
	}

	if levelPriority[event.Level] < levelPriority[l.minLevel] {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := l.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	return nil
}

// LogSong records a song being added, updated or deleted
func (l *EventLogger) LogSong(event EventType, songID int64, title string) error {
	return l.Log(&Event{
		Level:  LevelInfo,
		Event:  event,
		SongID: songID,
		Title:  title,
	})
}

// LogFile records a file being added, deleted, claimed or released
func (l *EventLogger) LogFile(event EventType, songID, fileID int64, path string) error {
	return l.Log(&Event{
		Level:  LevelInfo,
		Event:  event,
		SongID: songID,
		FileID: fileID,
		Path:   path,
	})
}

// LogName records an artist, album or genre being created or deleted
func (l *EventLogger) LogName(event EventType, kind string, id int64, name string) error {
	return l.Log(&Event{
		Level:    LevelInfo,
		Event:    event,
		Kind:     kind,
		TargetID: id,
		Name:     name,
	})
}

// LogLink records a junction row being added or removed
func (l *EventLogger) LogLink(event EventType, kind string, songID, targetID int64, name string) error {
	return l.Log(&Event{
		Level:    LevelDebug,
		Event:    event,
		Kind:     kind,
		SongID:   songID,
		TargetID: targetID,
		Name:     name,
	})
}

// LogError records a failed mutation
func (l *EventLogger) LogError(op string, err error) error {
	return l.Log(&Event{
		Level: LevelError,
		Event: EventError,
		Error: err.Error(),
		Extra: map[string]string{"op": op},
	})
}

// Close closes the event log file
func (l *EventLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}

// Path returns the path to the event log file
func (l *EventLogger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// ParseLevel converts a config string to an EventLevel, defaulting to info
func ParseLevel(s string) EventLevel {
	level := EventLevel(s)
	if _, ok := levelPriority[level]; ok {
		return level
	}
	return LevelInfo
}
