package token

import "time"

func (m *Manager) SetCached(accessToken string, expiresAt time.Time) {
	m.current.Store(&snapshot{accessToken: accessToken, expiresAt: expiresAt})
}

func (m *Manager) Cached() (string, time.Time, bool) {
	snap := m.current.Load()
	if snap == nil {
		return "", time.Time{}, false
	}
	return snap.accessToken, snap.expiresAt, true
}
