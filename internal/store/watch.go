package store

import (
	"context"
	"os"
	"time"
)

// Watch polls the backing file and calls onChange whenever its presence or
// modification time changes, e.g. when another process logs in or out.
// It blocks until ctx is done.
func (s *FileStore) Watch(ctx context.Context, interval time.Duration, onChange func()) {
	last := s.stamp()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := s.stamp()
			if cur != last {
				last = cur
				onChange()
			}
		}
	}
}

type fileStamp struct {
	exists  bool
	modTime time.Time
	size    int64
}

func (s *FileStore) stamp() fileStamp {
	fi, err := os.Stat(s.path)
	if err != nil {
		return fileStamp{}
	}
	return fileStamp{exists: true, modTime: fi.ModTime(), size: fi.Size()}
}
