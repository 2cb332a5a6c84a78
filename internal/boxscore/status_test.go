package boxscore

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	kickoff := time.Date(2025, 9, 7, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		now   time.Time
		prior Status
		want  Decision
	}{
		{"before kickoff", kickoff.Add(-2 * time.Hour), NotStarted, SkipNotStarted},
		{"at kickoff", kickoff, NotStarted, Parse},
		{"after kickoff", kickoff.Add(90 * time.Minute), NotStarted, Parse},
		{"live game keeps parsing", kickoff.Add(2 * time.Hour), InProgress, Parse},
		{"final never reparses", kickoff.Add(6 * time.Hour), Final, SkipTerminal},
		{"canceled never reparses", kickoff.Add(6 * time.Hour), Canceled, SkipTerminal},
		{"terminal wins over future kickoff", kickoff.Add(-1 * time.Hour), Canceled, SkipTerminal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(kickoff, tt.now, tt.prior); got != tt.want {
				t.Errorf("Classify(prior=%v) = %v, want %v", tt.prior, got, tt.want)
			}
		})
	}
}

func TestClassifyTerminalIdempotence(t *testing.T) {
	kickoff := time.Date(2025, 9, 7, 13, 0, 0, 0, time.UTC)
	now := kickoff.Add(4 * time.Hour)

	for i := 0; i < 3; i++ {
		if got := Classify(kickoff, now, Final); got != SkipTerminal {
			t.Fatalf("pass %d over a final game classified %v", i, got)
		}
	}
}

func TestStatusStringRoundTrip(t *testing.T) {
	for _, s := range []Status{NotStarted, InProgress, Final, Canceled} {
		if got := ParseStatus(s.String()); got != s {
			t.Errorf("ParseStatus(%q) = %v, want %v", s.String(), got, s)
		}
	}
}

func TestParseStatusUnknown(t *testing.T) {
	if got := ParseStatus("postponed-ish"); got != NotStarted {
		t.Errorf("ParseStatus(unknown) = %v, want NotStarted", got)
	}
	if got := ParseStatus(""); got != NotStarted {
		t.Errorf("ParseStatus(empty) = %v, want NotStarted", got)
	}
}

func TestTerminal(t *testing.T) {
	if NotStarted.Terminal() || InProgress.Terminal() {
		t.Error("non-terminal statuses reported terminal")
	}
	if !Final.Terminal() || !Canceled.Terminal() {
		t.Error("terminal statuses not reported terminal")
	}
}

func TestFeedStatus(t *testing.T) {
	tests := []struct {
		name string
		st   FeedStatus
		want Status
	}{
		{"final marker", FeedStatus{Name: "STATUS_FINAL"}, Final},
		{"canceled marker", FeedStatus{Name: "STATUS_CANCELED"}, Canceled},
		{"completed flag", FeedStatus{Name: "STATUS_UNKNOWN", Completed: true}, Final},
		{"pregame", FeedStatus{State: "pre"}, NotStarted},
		{"postgame", FeedStatus{State: "post"}, Final},
		{"live", FeedStatus{State: "in", Period: 3}, InProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := feedStatus(tt.st); got != tt.want {
				t.Errorf("feedStatus(%+v) = %v, want %v", tt.st, got, tt.want)
			}
		})
	}
}

func TestTimeRemaining(t *testing.T) {
	tests := []struct {
		clock  string
		period int
		want   string
	}{
		{"12:34", 1, "12:34 1st"},
		{"0:48", 2, "0:48 2nd"},
		{"7:00", 3, "7:00 3rd"},
		{"2:00", 4, "2:00 4th"},
		{"10:00", 5, "10:00 OT"},
		{"10:00", 9, "10:00 ?"},
	}

	for _, tt := range tests {
		p := &DocumentPair{Clock: tt.clock, Period: tt.period}
		if got := p.TimeRemaining(); got != tt.want {
			t.Errorf("TimeRemaining(%q, %d) = %q, want %q", tt.clock, tt.period, got, tt.want)
		}
	}
}
