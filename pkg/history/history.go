package history

// Mode determines how a URL write affects the back stack.
type Mode int

const (
	// ModePush adds a new history entry (default behavior).
	ModePush Mode = iota

	// ModeReplace replaces the current history entry.
	ModeReplace
)

// String returns "push" or "replace".
func (m Mode) String() string {
	if m == ModeReplace {
		return "replace"
	}
	return "push"
}

// Listener is called after the current location changed.
type Listener func(Location)

// UnloadHandler is polled when the document is about to unload. Returning
// true asks for user confirmation before leaving.
type UnloadHandler func() bool

// History is the adapter between the router and the browser (or in-memory)
// location and back stack.
type History interface {
	// Location returns the current location.
	Location() Location

	// Push writes url as a new history entry.
	Push(url string) error

	// Replace overwrites the current history entry with url.
	Replace(url string) error

	// Back moves one entry back. It reports false if there is none.
	Back() bool

	// Listen registers fn for location changes and returns a function that
	// removes it.
	Listen(fn Listener) func()

	// OnBeforeUnload registers fn for unload interception and returns a
	// function that removes it.
	OnBeforeUnload(fn UnloadHandler) func()
}

// Write pushes or replaces url on h depending on mode.
func Write(h History, url string, mode Mode) error {
	if mode == ModeReplace {
		return h.Replace(url)
	}
	return h.Push(url)
}
