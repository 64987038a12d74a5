package app

import "time"

// activeRun is the passage currently on the exercise screen.
type activeRun struct {
	PackID    string
	PassageID string
	Started   time.Time
}

func (r activeRun) active() bool {
	return r.PackID != "" && r.PassageID != ""
}

const (
	settingLastPack    = "picker.last_pack"
	settingLastPassage = "picker.last_passage"
)
