package usage

import "time"

// Plans. Free carries a fixed analysis allowance; pro is unlimited.
const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// Usage represents a user's plan and consumption snapshot.
type Usage struct {
	Plan       string     `json:"plan"`
	Limit      int        `json:"limit"`
	Used       int        `json:"used"`
	PaymentID  string     `json:"paymentId,omitempty"`
	UpgradedAt *time.Time `json:"upgradedAt,omitempty"`
}

// Unlimited reports whether the plan has no analysis cap.
func (u Usage) Unlimited() bool {
	return u.Plan == PlanPro
}

// Remaining returns the analyses left, or -1 for unlimited plans.
func (u Usage) Remaining() int {
	if u.Unlimited() {
		return -1
	}
	remaining := u.Limit - u.Used
	if remaining < 0 {
		return 0
	}
	return remaining
}
