package shutdown

import (
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"
)

// SIGNALS are the termination requests the monitor observes.
var SIGNALS = []os.Signal{os.Interrupt, unix.SIGTERM}

type notifyFunc func(c chan<- os.Signal, sig ...os.Signal)
type resetFunc func(c chan<- os.Signal)

// Monitor turns termination signals into a Latch trigger. The handler never
// touches anything but the latch; whoever polls the latch owns the cleanup.
type Monitor struct {
	latch   *Latch
	signals chan os.Signal
	quit    chan struct{}
	done    chan struct{}
	stop    sync.Once
	reset   resetFunc
}

// Install starts watching SIGINT and SIGTERM. Stop must be called to restore
// the default signal behaviour.
func Install(latch *Latch) *Monitor {
	return install(latch, signal.Notify, signal.Stop)
}

func install(latch *Latch, notify notifyFunc, reset resetFunc) (m *Monitor) {
	m = &Monitor{
		latch:   latch,
		signals: make(chan os.Signal, len(SIGNALS)),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		reset:   reset,
	}

	notify(m.signals, SIGNALS...)
	go m.watch()

	return
}

func (m *Monitor) Latch() *Latch {
	return m.latch
}

func (m *Monitor) watch() {
	defer close(m.done)

	for {
		select {
		case <-m.signals:
			m.latch.Trigger()
		case <-m.quit:
			return
		}
	}
}

// Stop deregisters the signals and waits for the watcher to exit. It is safe
// to call more than once.
func (m *Monitor) Stop() {
	m.stop.Do(func() {
		m.reset(m.signals)
		close(m.quit)
		<-m.done
	})
}
