package debug

import (
	"os"
	"strconv"
)

// Environment switches read by Init. Any of them set to a true value
// ("1", "t", "true") turns debug mode on.
const (
	EnvDebug        = "STORY_DEBUG"
	EnvSingleThread = "STORY_DEBUG_SINGLE_THREAD"
	EnvRoutes       = "STORY_DEBUG_ROUTES"
)

// Config is the process-wide debug switchboard.
type Config struct {
	Enabled bool

	// SingleThreaded dispatches the story-list refresh signal inline.
	SingleThreaded bool

	// Routes mounts /_debug on the dev server.
	Routes bool
}

// Active is read by Bootstrap and the dev server; set it through Init.
var Active Config

// Init loads Active from the environment. Unparseable values count as unset.
func Init() {
	c := Config{
		Enabled:        envBool(EnvDebug),
		SingleThreaded: envBool(EnvSingleThread),
		Routes:         envBool(EnvRoutes),
	}
	c.Enabled = c.Enabled || c.SingleThreaded || c.Routes
	Active = c
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

// IsEnabled reports Active.Enabled.
func IsEnabled() bool {
	return Active.Enabled
}
