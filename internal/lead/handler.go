// Package lead implements investor lead capture: it sends the pitch deck to
// the submitter and notifies the team.
package lead

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/leadballoon/villacare/internal/mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const maxBodyBytes = 64 << 10

// Fixed client-facing error messages.
const (
	errFieldsRequired = "Name and email are required"
	errSignupFailed   = "Failed to process signup"
)

const deckSubject = "VillaCare Investor Deck"

// timeLayout renders timestamps in UTC with millisecond precision.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Config holds lead-capture settings.
type Config struct {
	From          string // sender for both emails
	NotifyAddress string // internal recipient of the notification
}

// Request is the signup form.
type Request struct {
	Name  string `json:"name" example:"Ana"`
	Email string `json:"email" example:"ana@example.com"`
}

// Response is returned when both emails were sent.
type Response struct {
	Success bool `json:"success" example:"true"`
}

// Handler serves POST /api/signup.
type Handler struct {
	mailer mail.Mailer
	cfg    Config
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock replaces the wall clock used for notification timestamps.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// NewHandler creates a lead-capture handler.
func NewHandler(mailer mail.Mailer, cfg Config, logger *zap.Logger, opts ...Option) *Handler {
	h := &Handler{mailer: mailer, cfg: cfg, now: time.Now, logger: logger}
	for _, o := range opts {
		o(h)
	}
	return h
}

// RegisterRoutes mounts the signup endpoint.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/signup", h.handleSignup)
}

// handleSignup emails the pitch deck to the submitter and notifies the team.
//
//	@Summary		Investor signup
//	@Description	Sends the pitch deck to the submitted address and notifies the team.
//	@Tags			lead
//	@Accept			json
//	@Produce		json
//	@Param			request	body		Request	true	"Signup form"
//	@Success		200		{object}	Response
//	@Failure		400		{object}	server.ErrorResponse
//	@Failure		500		{object}	server.ErrorResponse
//	@Router			/signup [post]
func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errFieldsRequired)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, errFieldsRequired)
		return
	}

	emails, err := h.compose(req)
	if err != nil {
		h.logger.Error("render signup emails", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errSignupFailed)
		return
	}

	// Sequential; a failure stops the sequence and nothing is retried.
	for _, e := range emails {
		if err := h.mailer.Send(r.Context(), e.Email); err != nil {
			leadEmails.WithLabelValues(e.kind, "error").Inc()
			h.logger.Error("signup email failed",
				zap.String("kind", e.kind),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, errSignupFailed)
			return
		}
		leadEmails.WithLabelValues(e.kind, "ok").Inc()
	}

	h.logger.Info("investor lead captured")
	writeJSON(w, http.StatusOK, Response{Success: true})
}

type outgoing struct {
	mail.Email
	kind string
}

// compose renders the deck email and the internal notification.
func (h *Handler) compose(req Request) ([]outgoing, error) {
	var deck, notify bytes.Buffer
	if err := templates.ExecuteTemplate(&deck, "deck.html", req); err != nil {
		return nil, fmt.Errorf("deck template: %w", err)
	}
	data := struct {
		Name, Email, Time string
	}{req.Name, req.Email, h.now().UTC().Format(timeLayout)}
	if err := templates.ExecuteTemplate(&notify, "notify.html", data); err != nil {
		return nil, fmt.Errorf("notify template: %w", err)
	}

	return []outgoing{
		{kind: "deck", Email: mail.Email{
			From:    h.cfg.From,
			To:      req.Email,
			Subject: deckSubject,
			HTML:    deck.String(),
		}},
		{kind: "notify", Email: mail.Email{
			From:    h.cfg.From,
			To:      h.cfg.NotifyAddress,
			Subject: "New Investor Interest: " + req.Name,
			HTML:    notify.String(),
		}},
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
