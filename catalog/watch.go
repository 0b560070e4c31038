package catalog

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	errtype "github.com/xgx-io/xgx-errtype"
)

// Watch reloads the catalog at path every time the file is written or
// created, and passes the result to fn. Watcher failures are passed to fn
// as ErrLoad instances. It blocks until ctx is done.
//
// The parent directory is watched so editors that replace the file by
// rename are still followed.
func Watch(ctx context.Context, path string, fn func(*Catalog, error)) error {
	pathField := errtype.Attrs{"path": errtype.ReadOnly(path)}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrLoad.Wrap(err, "unable to create file watcher", pathField)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return ErrLoad.Wrap(err, "unable to watch catalog directory", pathField)
	}
	name := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != name {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			fn(Load(path))
		case err, ok := <-w.Errors:
			if !ok || errors.Is(err, fsnotify.ErrClosed) {
				return nil
			}
			fn(nil, ErrLoad.Wrap(err, "file watcher error", pathField))
		}
	}
}
