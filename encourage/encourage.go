/*
Package encourage produces short praise messages for logged activity.

PURPOSE:
  Wraps the external text-generation collaborator. Given a child's name,
  the minutes involved and the transaction kind, it returns one or two
  friendly sentences. The ledger never depends on it: callers record the
  transaction with Fallback() whenever Encourage fails.

FAILURE CLASSES:
  ErrAuthIssue: the credential was rejected. Callers should prompt the user
                to select a new key, and still record the transaction.
  anything else: transient. Callers use the canned fallback.

IMPLEMENTATIONS:
  - Static:   never calls out, always returns the canned message
  - Prompted: builds a prompt and asks a TextGenerator (gemini.go)
*/
package encourage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/warp/timebank/bank"
)

// ErrAuthIssue marks a rejected or missing credential.
var ErrAuthIssue = errors.New("encouragement credential issue")

// Encourager returns a message for a user-initiated transaction.
type Encourager interface {
	Encourage(ctx context.Context, name string, minutes int64, kind bank.Kind) (string, error)
}

// Fallback is the canned message used when the collaborator is unavailable.
func Fallback(name string, kind bank.Kind) string {
	switch kind {
	case bank.Withdraw:
		return fmt.Sprintf("%s, enjoy your screen time! 📺", name)
	case bank.Interest:
		return InterestMessage
	default:
		return fmt.Sprintf("%s, amazing work! You studied hard today! 👏", name)
	}
}

// InterestMessage accompanies every synthesized interest transaction.
const InterestMessage = "Your patience is paying off! Your time is growing! 📈"

// emptyReply is used when the collaborator answers with no text.
const emptyReply = "Great job! 👍"

// Static never fails and never calls out.
type Static struct{}

func (Static) Encourage(_ context.Context, name string, _ int64, kind bank.Kind) (string, error) {
	return Fallback(name, kind), nil
}

// =============================================================================
// PROMPTED ENCOURAGER
// =============================================================================

// TextGenerator is the raw text-generation call.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Prompted builds a prompt per transaction kind and classifies failures.
type Prompted struct {
	Generator TextGenerator
}

func NewPrompted(g TextGenerator) *Prompted {
	return &Prompted{Generator: g}
}

func (p *Prompted) Encourage(ctx context.Context, name string, minutes int64, kind bank.Kind) (string, error) {
	text, err := p.Generator.GenerateText(ctx, Prompt(name, minutes, kind))
	if err != nil {
		return "", classify(err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return emptyReply, nil
	}
	return text, nil
}

// Prompt returns the instruction sent to the generator.
func Prompt(name string, minutes int64, kind bank.Kind) string {
	if kind == bank.Withdraw {
		return fmt.Sprintf(`You are a friendly guardian.
%s is using %d minutes of their saved time to watch TV.
Write a very short, friendly message (1 sentence) saying "Enjoy your break!" or "Have fun!".
Remind them gently that resting is important too. Use emojis.`, name, minutes)
	}
	return fmt.Sprintf(`You are a cheerful, encouraging older sibling or guardian figure.
%s just studied for %d minutes!
Write a very short, enthusiastic message (1-2 sentences) praising them.
Use emojis. Make them feel proud. Don't be too formal.`, name, minutes)
}

// authMarkers are substrings that indicate a credential problem rather than
// a transient failure.
var authMarkers = []string{
	"requested entity was not found",
	"api_key",
	"api key",
	"project",
	"permission",
	"unauthenticated",
}

func classify(err error) error {
	if errors.Is(err, ErrAuthIssue) {
		return err
	}
	msg := strings.ToLower(err.Error())
	for _, m := range authMarkers {
		if strings.Contains(msg, m) {
			return fmt.Errorf("%w: %v", ErrAuthIssue, err)
		}
	}
	return err
}
