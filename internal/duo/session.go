// Package duo drives the persona chat endpoints from the client side: a
// single-persona conversation, or a scripted two-persona ("duo") exchange in
// which Alan and Amanda answer the visitor and banter with each other.
package duo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/leadballoon/villacare/internal/persona"
)

// Mode selects who the visitor is talking to.
type Mode string

// Session modes. Single-persona modes share their persona's identifier.
const (
	ModeDuo      Mode = "duo"
	ModeAlan     Mode = Mode(persona.Alan)
	ModeAmanda   Mode = Mode(persona.Amanda)
	ModeInvestor Mode = Mode(persona.Investor)
)

// ParseMode validates s as a session mode.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if Mode(s) == ModeDuo {
		return ModeDuo, nil
	}
	id, err := persona.Parse(s)
	if err != nil {
		return "", fmt.Errorf("unknown mode %q: want duo, alan, amanda or investor", s)
	}
	return Mode(id), nil
}

// Pacing between the two persona calls of a duo exchange.
const (
	UserTurnDelay = 500 * time.Millisecond
	BanterDelay   = 800 * time.Millisecond
)

// banterWindow is how many trailing transcript entries seed a banter exchange.
const banterWindow = 4

// engagedAfter is the number of visitor messages after which the visitor
// counts as engaged.
const engagedAfter = 3

// Session state errors.
var (
	ErrNotStarted = errors.New("duo: session not started")
	ErrNotDuo     = errors.New("duo: banter needs duo mode")
)

// Entry is one transcript line. Agent is set on assistant lines and names
// the persona that wrote them.
type Entry struct {
	Role    string
	Content string
	Agent   persona.ID
}

// duoPair is the fixed speaking order of a duo exchange.
var duoPair = [2]persona.ID{persona.Alan, persona.Amanda}

// script holds the per-persona instruction turns and opening lines of duo mode.
var script = map[persona.ID]struct {
	userTurn string // formatted with the visitor's message
	banter   string
	opening  string
}{
	persona.Alan: {
		userTurn: `A villa owner asks: "%s" - Give a short, punchy response and maybe make a joke about Amanda.`,
		banter:   "Continue the conversation with Amanda about VillaCare or Spanish villas. Be playful and tease her a bit. Keep it short - 1-2 sentences.",
		opening:  "Oh my GOD, Amanda! We're doing VillaCare together now! Can you IMAGINE?! 🎤",
	},
	persona.Amanda: {
		userTurn: `A villa owner asks: "%s" - Give a short, warm response and maybe lovingly tease Alan.`,
		banter:   "Respond to Alan about VillaCare or Spanish villas. Be warm but give him a bit of gentle teasing back. Keep it short - 1-2 sentences.",
		opening:  "I KNOW darling! Finally, a platform that actually makes Spanish villa ownership easy. Where was this when we were doing the Spanish Job?! 💕",
	},
}

// Session owns one visitor's transcript. Operations are serialized; the
// persona calls of one exchange are issued strictly one after the other.
type Session struct {
	replier  Replier
	personas *persona.Store
	sleep    func(ctx context.Context, d time.Duration) error
	observe  func(Entry)
	logger   *zap.Logger

	mu         sync.Mutex
	mode       Mode
	transcript []Entry
}

// Option configures a Session.
type Option func(*Session)

// WithSleep replaces the pacing delay between persona calls.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Session) { s.sleep = sleep }
}

// WithObserver registers fn to be called with every entry appended to the
// transcript. fn runs with the session locked and must not call back into it.
func WithObserver(fn func(Entry)) Option {
	return func(s *Session) { s.observe = fn }
}

// NewSession creates an idle session; call Start to pick a mode.
func NewSession(replier Replier, logger *zap.Logger, opts ...Option) *Session {
	s := &Session{
		replier:  replier,
		personas: persona.Default(),
		sleep:    sleepContext,
		logger:   logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Start replaces the transcript with the opening lines of mode.
func (s *Session) Start(mode Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = ""
	s.transcript = nil

	if mode == ModeDuo {
		s.mode = mode
		for _, id := range duoPair {
			s.append(Entry{Role: "assistant", Agent: id, Content: script[id].opening})
		}
		return nil
	}

	p, err := s.personas.Lookup(persona.ID(mode))
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	s.mode = mode
	s.append(Entry{Role: "assistant", Agent: p.ID, Content: p.Greeting})
	return nil
}

// Reset ends the session and clears the transcript.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ""
	s.transcript = nil
}

// Mode returns the current mode, or "" before Start.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Transcript returns a copy of the transcript.
func (s *Session) Transcript() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Engaged reports whether the visitor has sent enough messages to be
// offered the investor signup.
func (s *Session) Engaged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.transcript {
		if e.Role == "user" {
			n++
		}
	}
	return n >= engagedAfter
}

// Send records the visitor's message and collects the replies. Blank input
// is ignored. A failed persona call leaves no reply in the transcript and is
// not returned; only session state errors and cancellation are.
func (s *Session) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.mode {
	case "":
		return ErrNotStarted
	case ModeDuo:
		return s.userTurn(ctx, text)
	default:
		s.sendSingle(ctx, text)
		return nil
	}
}

// Banter lets the duo talk among themselves about the last few lines.
func (s *Session) Banter(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.mode {
	case "":
		return ErrNotStarted
	case ModeDuo:
	default:
		return ErrNotDuo
	}

	window := s.transcript
	if len(window) > banterWindow {
		window = window[len(window)-banterWindow:]
	}
	window = append([]Entry(nil), window...)

	return s.exchange(ctx, BanterDelay, window, func(id persona.ID) string {
		return script[id].banter
	})
}

// sendSingle sends the whole transcript, tags included, to the mode's persona.
func (s *Session) sendSingle(ctx context.Context, text string) {
	s.append(Entry{Role: "user", Content: text})

	id := persona.ID(s.mode)
	msgs := append([]Entry(nil), s.transcript...)
	s.ask(ctx, id, msgs)
}

// userTurn asks both personas about text. Both see the transcript as it was
// before the visitor spoke; the second persona does not see the first's reply.
func (s *Session) userTurn(ctx context.Context, text string) error {
	before := append([]Entry(nil), s.transcript...)
	s.append(Entry{Role: "user", Content: text})

	return s.exchange(ctx, UserTurnDelay, before, func(id persona.ID) string {
		return fmt.Sprintf(script[id].userTurn, text)
	})
}

// exchange asks the duo in order, pausing between the calls. Each request is
// built from the same history.
func (s *Session) exchange(ctx context.Context, delay time.Duration, history []Entry, instruction func(persona.ID) string) error {
	for i, id := range duoPair {
		if i > 0 {
			if err := s.sleep(ctx, delay); err != nil {
				return err
			}
		}
		msgs := s.labelled(history, id)
		msgs = append(msgs, Entry{Role: "user", Content: instruction(id)})
		s.ask(ctx, id, msgs)
	}
	return nil
}

// ask performs one persona call and appends the reply. Failures are logged
// and dropped.
func (s *Session) ask(ctx context.Context, id persona.ID, msgs []Entry) {
	reply, err := s.replier.Reply(ctx, id, msgs)
	if err != nil {
		s.logger.Warn("persona reply failed",
			zap.String("agent", string(id)),
			zap.Error(err),
		)
		return
	}
	s.append(Entry{Role: "assistant", Agent: id, Content: reply})
}

// labelled renders history for audience: persona lines carry a speaker
// label, "[You]" for the audience's own lines.
func (s *Session) labelled(history []Entry, audience persona.ID) []Entry {
	out := make([]Entry, len(history))
	for i, e := range history {
		out[i] = Entry{Role: e.Role, Content: e.Content}
		if e.Agent == "" {
			continue
		}
		label := "You"
		if e.Agent != audience {
			label = s.displayName(e.Agent)
		}
		out[i].Content = "[" + label + "]: " + e.Content
	}
	return out
}

func (s *Session) displayName(id persona.ID) string {
	if p, err := s.personas.Lookup(id); err == nil {
		return p.DisplayName
	}
	return string(id)
}

// append must be called with s.mu held.
func (s *Session) append(e Entry) {
	s.transcript = append(s.transcript, e)
	if s.observe != nil {
		s.observe(e)
	}
}
