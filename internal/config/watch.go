package config

import (
	"path/filepath"
	"sync"
	"time"

	"amber-server/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher следит за файлом баланса и присылает перечитанную таблицу.
// Следим за каталогом, а не за файлом: редакторы сохраняют через rename.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	Updates chan *Balance
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		path:    abs,
		watcher: w,
		Updates: make(chan *Balance, 4),
		Errors:  make(chan error, 4),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Updates)
	defer close(w.Errors)

	log := logger.Component("balance_watcher").WithField("path", w.path)

	// Перечитываем после паузы: запись файла приходит пачкой событий.
	timer := time.NewTimer(reloadDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			timer.Reset(reloadDebounce)

		case <-timer.C:
			b, err := Load(w.path)
			if err != nil {
				log.WithError(err).Warn("Balance reload rejected, keeping previous table.")
				w.emitError(err)
				continue
			}
			log.WithFields(logrus.Fields{"boss_health": b.Boss.Health}).Info("Balance reloaded.")
			select {
			case w.Updates <- b:
			case <-w.closeCh:
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.emitError(err)

		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) emitError(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}
