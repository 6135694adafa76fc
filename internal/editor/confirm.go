package editor

import "context"

// Prompt is a yes/no question put to the operator before anything
// destructive or draft-discarding happens.
type Prompt struct {
	Title       string `json:"title"`
	Desc        string `json:"desc"`
	ConfirmText string `json:"confirmText"`
	CancelText  string `json:"cancelText"`
}

// Confirmer resolves a Prompt to the operator's answer. The session
// awaits the resolution; how the question is rendered is not its concern.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// AnswerConfirmer carries an answer supplied up front, or records the
// prompt and fails with ErrConfirmRequired when no answer was given.
// The HTTP layer uses it to turn confirmation into a 409 round trip.
type AnswerConfirmer struct {
	Answer *bool

	Asked *Prompt
}

func (c *AnswerConfirmer) Confirm(_ context.Context, p Prompt) (bool, error) {
	c.Asked = &p
	if c.Answer == nil {
		return false, ErrConfirmRequired
	}
	return *c.Answer, nil
}

// StaticConfirmer always answers the same way. Used in tests and by the
// cron jobs that must never block on an operator.
type StaticConfirmer bool

func (c StaticConfirmer) Confirm(context.Context, Prompt) (bool, error) {
	return bool(c), nil
}
