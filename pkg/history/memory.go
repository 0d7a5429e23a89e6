package history

import "sync"

// Memory is an in-memory History. It keeps a back stack with a cursor and
// notifies listeners after every push, replace, back and forward.
// Listeners are invoked without holding the lock, so they may write to the
// history again.
type Memory struct {
	mu      sync.Mutex
	entries []Location
	cursor  int

	nextID    int
	listeners []listenerEntry
	unloaders []unloadEntry
}

type listenerEntry struct {
	id int
	fn Listener
}

type unloadEntry struct {
	id int
	fn UnloadHandler
}

var _ History = (*Memory)(nil)

// NewMemory creates a Memory history whose single entry is initial.
// An invalid initial URL falls back to "/".
func NewMemory(initial string) *Memory {
	loc, err := ParseLocation(initial)
	if err != nil {
		loc = Location{Path: "/"}
	}
	return &Memory{entries: []Location{loc}}
}

// Location returns the current location.
func (m *Memory) Location() Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.cursor]
}

// Push adds url after the current entry and discards every forward entry.
func (m *Memory) Push(url string) error {
	loc, err := ParseLocation(url)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.entries = append(m.entries[:m.cursor+1], loc)
	m.cursor++
	m.mu.Unlock()

	m.notify(loc)
	return nil
}

// Replace overwrites the current entry with url.
func (m *Memory) Replace(url string) error {
	loc, err := ParseLocation(url)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.entries[m.cursor] = loc
	m.mu.Unlock()

	m.notify(loc)
	return nil
}

// Back moves the cursor one entry back.
func (m *Memory) Back() bool {
	return m.Go(-1)
}

// Forward moves the cursor one entry forward.
func (m *Memory) Forward() bool {
	return m.Go(1)
}

// Go moves the cursor by delta entries. It reports false and does nothing
// if the target is outside the stack.
func (m *Memory) Go(delta int) bool {
	m.mu.Lock()
	target := m.cursor + delta
	if delta == 0 || target < 0 || target >= len(m.entries) {
		m.mu.Unlock()
		return false
	}
	m.cursor = target
	loc := m.entries[target]
	m.mu.Unlock()

	m.notify(loc)
	return true
}

// CanGoBack reports whether Back would move.
func (m *Memory) CanGoBack() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor > 0
}

// CanGoForward reports whether Forward would move.
func (m *Memory) CanGoForward() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor < len(m.entries)-1
}

// Len returns the number of entries in the back stack.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Index returns the position of the current entry.
func (m *Memory) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}

// Entries returns a copy of the back stack.
func (m *Memory) Entries() []Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Location(nil), m.entries...)
}

// Listen registers fn for location changes.
func (m *Memory) Listen(fn Listener) func() {
	if fn == nil {
		return func() {}
	}

	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, listenerEntry{id: id, fn: fn})
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, l := range m.listeners {
			if l.id == id {
				m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// OnBeforeUnload registers fn for unload interception.
func (m *Memory) OnBeforeUnload(fn UnloadHandler) func() {
	if fn == nil {
		return func() {}
	}

	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.unloaders = append(m.unloaders, unloadEntry{id: id, fn: fn})
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, u := range m.unloaders {
			if u.id == id {
				m.unloaders = append(m.unloaders[:i], m.unloaders[i+1:]...)
				return
			}
		}
	}
}

// Unload simulates the browser's beforeunload event. It polls every unload
// handler and reports whether any of them asked for confirmation.
func (m *Memory) Unload() bool {
	m.mu.Lock()
	handlers := make([]UnloadHandler, len(m.unloaders))
	for i, u := range m.unloaders {
		handlers[i] = u.fn
	}
	m.mu.Unlock()

	confirm := false
	for _, fn := range handlers {
		if fn() {
			confirm = true
		}
	}
	return confirm
}

// notify calls every listener with loc.
// Copy-before-notify: listeners may register, unregister or navigate.
func (m *Memory) notify(loc Location) {
	m.mu.Lock()
	listeners := make([]Listener, len(m.listeners))
	for i, l := range m.listeners {
		listeners[i] = l.fn
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(loc)
	}
}
