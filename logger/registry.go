package logger

import (
	"sync"
)

// categories caches one component logger per category name. Entries derive
// from the global logger at first use and are dropped by Init.
var categories sync.Map // map[string]*Logger

// Category returns the logger for a named category, creating it from the
// global logger on first use.
func Category(name string) *Logger {
	if l, ok := categories.Load(name); ok {
		return l.(*Logger)
	}
	l, _ := categories.LoadOrStore(name, GetGlobalLogger().WithComponent(name))
	return l.(*Logger)
}

// Register overrides the logger used for a category.
func Register(name string, l *Logger) {
	categories.Store(name, l)
}

// resetCategories forgets every cached category logger.
func resetCategories() {
	categories.Clear()
}
