package boxscore

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of one game. Transitions are
// one-directional: NotStarted -> InProgress -> {Final, Canceled}.
// Final and Canceled are terminal; re-entering them performs no parsing.
type Status int

const (
	NotStarted Status = iota
	InProgress
	Final
	Canceled
)

// String renders the status the way the store persists it.
func (s Status) String() string {
	switch s {
	case NotStarted:
		return "scheduled"
	case InProgress:
		return "in_progress"
	case Final:
		return "final"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further extraction should occur.
func (s Status) Terminal() bool {
	return s == Final || s == Canceled
}

// ParseStatus is the inverse of String. Unknown values map to NotStarted.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in_progress", "live":
		return InProgress
	case "final":
		return Final
	case "canceled", "cancelled":
		return Canceled
	default:
		return NotStarted
	}
}

// Decision is the classifier's verdict for one game this pass.
type Decision int

const (
	Parse Decision = iota
	SkipNotStarted
	SkipTerminal
)

// Classify decides whether a game's documents should be fetched and parsed
// this pass. A prior terminal status short-circuits before any fetch; a
// future kickoff contributes zero without a fetch.
func Classify(kickoff, now time.Time, prior Status) Decision {
	if prior.Terminal() {
		return SkipTerminal
	}
	if now.Before(kickoff) {
		return SkipNotStarted
	}
	return Parse
}

// Provider status markers. The feed uses STATUS_* names; the tree form
// carries the same words in its status node text.
const (
	markerFinal    = "STATUS_FINAL"
	markerCanceled = "STATUS_CANCELED"
)

// Status reads the game-state markers out of the fetched pair.
func (p *DocumentPair) Status() Status {
	if p.Feed != nil {
		return feedStatus(p.Feed.Status)
	}
	return treeStatus(p.BoxScore)
}

func feedStatus(st FeedStatus) Status {
	switch strings.ToUpper(st.Name) {
	case markerFinal:
		return Final
	case markerCanceled:
		return Canceled
	}
	if st.Completed {
		return Final
	}
	switch strings.ToLower(st.State) {
	case "pre":
		return NotStarted
	case "post":
		return Final
	default:
		return InProgress
	}
}

// TimeRemaining renders the in-progress clock as "<clock> <period-label>".
// Unrecognized period numbers render as "?".
func (p *DocumentPair) TimeRemaining() string {
	return fmt.Sprintf("%s %s", p.Clock, periodLabel(p.Period))
}

func periodLabel(period int) string {
	switch period {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	case 4:
		return "4th"
	case 5:
		return "OT"
	default:
		return "?"
	}
}
