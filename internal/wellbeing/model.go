package wellbeing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Severity is the ordered well-being scale, best to worst. The order
// matters: anything at SeverityStruggling or above escalates.
type Severity int

const (
	SeverityThriving Severity = iota
	SeverityOkay
	SeverityStruggling
	SeverityInCrisis
)

var severityNames = map[Severity]string{
	SeverityThriving:   "thriving",
	SeverityOkay:       "okay",
	SeverityStruggling: "struggling",
	SeverityInCrisis:   "in_crisis",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

func (s Severity) Valid() bool {
	_, ok := severityNames[s]
	return ok
}

// Escalates reports whether the severity routes to the escalation hook.
func (s Severity) Escalates() bool {
	return s >= SeverityStruggling
}

func ParseSeverity(raw string) (Severity, error) {
	for s, name := range severityNames {
		if name == raw {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q", raw)
}

func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

const (
	// CadenceWindow is the rolling interval during which a student may
	// submit at most one report.
	CadenceWindow = 7 * 24 * time.Hour

	MaxNotesLen = 500
)

// Report is an immutable well-being submission. There is no edit or
// withdraw operation; reports are terminal once created.
type Report struct {
	ID          uuid.UUID
	StudentID   uuid.UUID
	Status      Severity
	Notes       string
	SubmittedAt time.Time
}
