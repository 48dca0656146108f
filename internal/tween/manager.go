package tween

// Manager owns the set of Fading tweens and advances them on song time.
// It is driven from a single tick loop and is not safe for concurrent use.
type Manager struct {
	now    float64
	active []*Tween
}

func NewManager() *Manager {
	return &Manager{}
}

// Now is the song time of the last SetTime or Tick.
func (m *Manager) Now() float64 { return m.now }

// SetTime moves the clock used by Restart and Resume without advancing
// any tween.
func (m *Manager) SetTime(songTime float64) { m.now = songTime }

// Restart begins t again at the current song time, running for t.Duration.
func (m *Manager) Restart(t *Tween) {
	t.start = m.now
	t.end = m.now + t.Duration
	t.progress = 0
	t.state = Fading
	t.ForceOnUpdate()
	m.enqueue(t)
}

// Resume continues t with its existing start and end, which may lie in
// the past.
func (m *Manager) Resume(t *Tween) {
	t.state = Fading
	m.enqueue(t)
	t.advance(m.now)
}

// Kill snaps t to its target and drops it from the active set.
func (m *Manager) Kill(t *Tween) {
	t.Kill()
	m.dequeue(t)
}

// Remove kills t and detaches it so nothing it referenced stays reachable
// from the manager.
func (m *Manager) Remove(t *Tween) {
	m.Kill(t)
	t.onUpdate = nil
	t.PreviousEvent = nil
}

// Tick advances every Fading tween to songTime. Tweens that finish or were
// killed since the last tick leave the active set.
func (m *Manager) Tick(songTime float64) {
	m.now = songTime
	kept := m.active[:0]
	for _, t := range m.active {
		if t.advance(songTime) {
			kept = append(kept, t)
		} else {
			t.queued = false
		}
	}
	for i := len(kept); i < len(m.active); i++ {
		m.active[i] = nil
	}
	m.active = kept
}

// Active returns the number of tweens that will be advanced next tick.
func (m *Manager) Active() int { return len(m.active) }

func (m *Manager) enqueue(t *Tween) {
	if t.queued {
		return
	}
	t.queued = true
	m.active = append(m.active, t)
}

func (m *Manager) dequeue(t *Tween) {
	if !t.queued {
		return
	}
	t.queued = false
	for i, a := range m.active {
		if a == t {
			copy(m.active[i:], m.active[i+1:])
			m.active[len(m.active)-1] = nil
			m.active = m.active[:len(m.active)-1]
			return
		}
	}
}
