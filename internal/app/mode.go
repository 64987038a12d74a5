package app

import (
	"strings"
	"time"

	"clozedojo/internal/passage"
)

type GameMode string

const (
	ModePractice GameMode = "practice"
	ModeTimed    GameMode = "timed"
)

func normalizeMode(raw string) GameMode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(ModePractice), "free":
		return ModePractice
	case string(ModeTimed), "countdown":
		return ModeTimed
	default:
		return GameMode(raw)
	}
}

func (m GameMode) Label() string {
	if m == ModeTimed {
		return "Timed"
	}
	return "Practice"
}

// timeLimit is the countdown for p in timed mode. Practice mode never counts
// down.
func (m GameMode) timeLimit(p passage.Passage, fallbackSec int) time.Duration {
	if m != ModeTimed {
		return 0
	}
	sec := p.TimeLimitSec
	if sec <= 0 {
		sec = fallbackSec
	}
	return time.Duration(sec) * time.Second
}
