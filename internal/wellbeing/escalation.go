package wellbeing

import (
	"context"

	"go.uber.org/zap"
)

// EscalationHook receives reports whose severity is Struggling or
// worse. Implementations must not block the submission path; they
// return nothing and any failure stays on their side of the contract.
type EscalationHook interface {
	Escalate(ctx context.Context, r *Report)
}

// LogEscalation is the default hook: it flags the report for the
// supervisor in the structured log. Notification delivery proper is a
// separate system.
type LogEscalation struct {
	Log *zap.Logger
}

func (e LogEscalation) Escalate(ctx context.Context, r *Report) {
	e.Log.Warn("student reported elevated severity",
		zap.String("report_id", r.ID.String()),
		zap.String("student_id", r.StudentID.String()),
		zap.String("status", r.Status.String()),
		zap.Time("submitted_at", r.SubmittedAt))
}
