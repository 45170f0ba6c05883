package logger

import "sync"

var (
	registryMu sync.RWMutex
	loggers    = make(map[string]*Logger)
)

// Register stores a named component logger. Pipeline packages resolve
// their loggers by name so applications can swap one in before any
// stream opens.
func Register(name string, l *Logger) {
	registryMu.Lock()
	loggers[name] = l
	registryMu.Unlock()
}

// Get returns the logger registered under name. Unregistered names
// resolve to the global logger tagged with the component, and the
// result is memoized so repeated lookups stay cheap.
func Get(name string) *Logger {
	registryMu.RLock()
	l, ok := loggers[name]
	registryMu.RUnlock()
	if ok {
		return l
	}

	l = GetGlobalLogger().WithComponent(name)
	registryMu.Lock()
	if existing, ok := loggers[name]; ok {
		l = existing
	} else {
		loggers[name] = l
	}
	registryMu.Unlock()
	return l
}

// RegisterDefaults seeds the registry with component loggers derived
// from the global logger. Call after Init so the components pick up
// the configured level and format.
func RegisterDefaults(names ...string) {
	for _, name := range names {
		Register(name, GetGlobalLogger().WithComponent(name))
	}
}
