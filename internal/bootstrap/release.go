package bootstrap

import "go.uber.org/zap"

type release struct {
	name string
	fn   func()
}

// releaseStack holds the release function of every acquired handle. Handles
// are pushed right after acquisition and released last-in first-out.
type releaseStack struct {
	entries []release
}

func (s *releaseStack) push(name string, fn func()) {
	s.entries = append(s.entries, release{name: name, fn: fn})
}

func (s *releaseStack) len() int {
	return len(s.entries)
}

// releaseAll empties the stack, so a second call does nothing.
func (s *releaseStack) releaseAll(logger *zap.Logger) {
	for len(s.entries) > 0 {
		last := len(s.entries) - 1
		r := s.entries[last]
		s.entries = s.entries[:last]

		logger.Debug("releasing", zap.String("handle", r.name))
		r.fn()
	}
}
