package storage

import (
	"github.com/nzoba/keva-go/internal/infra/fswatch"
)

// startWatcher reports writes to the store file made by other
// processes. This process holds the writer lock, so such a write means
// a misconfigured deployment or manual tampering.
func (s *Store) startWatcher() error {
	w, err := fswatch.New(s.cfg.Path, fswatch.WithLogger(s.logger))
	if err != nil {
		return err
	}
	w.OnChange(s.fileChanged)
	w.StartAsync()
	s.watcher = w
	return nil
}

// fileChanged checks whether the on-disk file still matches the last
// write made by this process. Saves update lastChecksum under saveMu
// before releasing it, so a mismatch here is a foreign write.
func (s *Store) fileChanged(string) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	sum, err := s.snap.Checksum()
	if err != nil {
		s.logger.Warn("store file changed on disk and cannot be read",
			"path", s.cfg.Path,
			"error", err)
		return
	}

	last, _ := s.lastChecksum.Load().(string)
	if sum != last {
		s.logger.Warn("store file changed on disk outside this process",
			"path", s.cfg.Path,
			"checksum", sum)
	}
}
