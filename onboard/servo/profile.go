package servo

import (
	"fmt"
	"time"
)

// Profile selects how long the sustained pulse is held and whether
// termination signals are observed.
type Profile struct {
	Name          string
	Interval      time.Duration
	MaxIterations int
	WatchSignals  bool
}

var (
	// PROFILE_SIGNALS runs for up to ten seconds and stops early on SIGINT/SIGTERM.
	PROFILE_SIGNALS = Profile{
		Name:          "signals",
		Interval:      time.Second,
		MaxIterations: 10,
		WatchSignals:  true,
	}

	// PROFILE_BOUNDED is the bench variant: ten short cycles, no signal handling.
	PROFILE_BOUNDED = Profile{
		Name:          "bounded",
		Interval:      500 * time.Millisecond,
		MaxIterations: 10,
		WatchSignals:  false,
	}

	PROFILES = map[string]Profile{
		PROFILE_SIGNALS.Name: PROFILE_SIGNALS,
		PROFILE_BOUNDED.Name: PROFILE_BOUNDED,
	}
)

func ProfileByName(name string) (p Profile, err error) {
	p, ok := PROFILES[name]
	if !ok {
		err = fmt.Errorf("unknown profile %q", name)
	}
	return
}

func (p Profile) String() string {
	return fmt.Sprintf("%s (%d x %s, signals=%t)", p.Name, p.MaxIterations, p.Interval, p.WatchSignals)
}
