package viz

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// ReloadMsg reports that the watched model file changed.
type ReloadMsg struct {
	Err error
}

// newWatcher watches the directory holding path, so that editors which
// replace the file on save are still seen.
func newWatcher(path string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// waitForChange blocks until path is written or recreated.
func waitForChange(w *fsnotify.Watcher, path string) tea.Cmd {
	target := filepath.Clean(path)
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) == target && ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					return ReloadMsg{}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				return ReloadMsg{Err: err}
			}
		}
	}
}
