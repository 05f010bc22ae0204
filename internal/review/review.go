// Package review is the optional AI content reviewer. It is never on the
// critical path: callers fire it asynchronously and consume the result as a
// display string only.
package review

import "context"

type ErrKind int

const (
	NotConfigured ErrKind = iota
	QuotaExceeded
	Transient
)

// Error is the typed failure of a review call. The core never inspects
// free-form provider error fields; everything is folded into Kind.
type Error struct {
	Kind ErrKind
	Msg  string
}

func (e *Error) Error() string {
	switch e.Kind {
	case NotConfigured:
		return "reviewer not configured"
	case QuotaExceeded:
		return "reviewer quota exceeded"
	default:
		if e.Msg != "" {
			return "reviewer unavailable: " + e.Msg
		}
		return "reviewer unavailable"
	}
}

// Reviewer returns free-text commentary on a capped snapshot of question
// texts.
type Reviewer interface {
	Review(ctx context.Context, questions []string) (string, error)
}

// Advisory converts a review outcome into the user-facing advisory string.
func Advisory(commentary string, err error) string {
	if err == nil {
		return commentary
	}
	if re, ok := err.(*Error); ok {
		switch re.Kind {
		case NotConfigured:
			return "Chưa cấu hình khóa AI; bỏ qua bước rà soát nội dung."
		case QuotaExceeded:
			return "Đã hết hạn mức AI trong ngày; bỏ qua bước rà soát nội dung."
		}
	}
	return "Không kết nối được dịch vụ rà soát nội dung."
}
