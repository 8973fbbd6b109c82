package playback

import (
	"time"

	"github.com/llehouerou/streamq/internal/download"
	"github.com/llehouerou/streamq/internal/playlist"
	"github.com/llehouerou/streamq/internal/prefetch"
)

// mockPlayer is a test double for Player.
type mockPlayer struct {
	loads    []*playlist.Item
	handoffs []*prefetch.Handoff
	replays  int
	clears   int
	position time.Duration
	loadErr  error
}

func (m *mockPlayer) Load(item *playlist.Item, h *prefetch.Handoff) error {
	m.loads = append(m.loads, item)
	m.handoffs = append(m.handoffs, h)
	return m.loadErr
}

func (m *mockPlayer) Replay() error {
	m.replays++
	return nil
}

func (m *mockPlayer) Clear() { m.clears++ }

func (m *mockPlayer) Position() time.Duration { return m.position }

// mockDownloader hands out idle tasks.
type mockDownloader struct {
	started  []download.Request
	tasks    []*download.Task
	canceled int
}

func (d *mockDownloader) Start(req download.Request) (*download.Task, error) {
	t := download.NewTask(req)
	d.started = append(d.started, req)
	d.tasks = append(d.tasks, t)
	return t, nil
}

func (d *mockDownloader) Cancel(t *download.Task) {
	d.canceled++
	t.Cancel()
}

// mockResolver maps sources to fixed paths.
type mockResolver struct{}

func (mockResolver) ResolvePath(locator, identity, ext string) string {
	if identity == "" {
		identity = locator
	}
	return "/cache/" + identity + "." + ext
}
