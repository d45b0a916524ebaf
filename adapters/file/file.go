// Package file provides a dependency-free repository backend persisting
// the whole board into a single JSON document:
//
//	{
//	    "duration": 60,
//	    "speed": 0.005,
//	    "status": {"off": false},
//	    "messages": [{"uuid": ..., "message": ..., "start": ..., "end": ...}]
//	}
//
// Writes go to a temp file and are renamed into place, so a crash mid-save
// never corrupts the document. Suited for single-board deployments without
// a database.
package file

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/coregx/messageboard"
	"github.com/coregx/messageboard/model"
)

type docStatus struct {
	Off bool `json:"off"`
}

type docMessage struct {
	UUID    string `json:"uuid"`
	Message string `json:"message"`
	Start   int64  `json:"start"`
	End     int64  `json:"end"`
}

type document struct {
	Duration float64      `json:"duration"`
	Speed    float64      `json:"speed"`
	Status   docStatus    `json:"status"`
	Messages []docMessage `json:"messages"`
}

// store owns the document and its file. Both repositories share one store
// so a save always writes a consistent snapshot of the whole board.
type store struct {
	path string

	mu        sync.Mutex
	doc       document
	seq       int64
	haveSaved bool // false until the first persisted write or load
}

func openStore(path string) (*store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("document path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	s := &store{
		path: path,
		doc: document{
			Duration: model.DefaultDuration,
			Speed:    model.DefaultSpeed,
		},
	}

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Fresh board; the document is created on the first save.
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(b, &s.doc); err != nil {
			return nil, err
		}
		s.seq = int64(len(s.doc.Messages))
		s.haveSaved = true
	}

	return s, nil
}

// flushLocked writes the document atomically. Callers hold s.mu.
func (s *store) flushLocked() error {
	b, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return err
	}
	s.haveSaved = true
	return nil
}

func toMessage(d docMessage, seq int64) model.Message {
	return model.Message{
		ID:    seq,
		UUID:  d.UUID,
		Text:  d.Message,
		Start: d.Start,
		End:   d.End,
	}
}

// Repositories bundles the file-backed repository implementations.
type Repositories struct {
	Message messageboard.MessageRepository
	Config  messageboard.ConfigRepository
}

// NewRepositories opens (or prepares to create) the board document at path
// and returns repositories sharing it.
func NewRepositories(path string) (*Repositories, error) {
	s, err := openStore(path)
	if err != nil {
		return nil, err
	}
	return &Repositories{
		Message: &messageRepository{store: s},
		Config:  &configRepository{store: s},
	}, nil
}
