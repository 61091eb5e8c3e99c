package httpapi

import (
	"net/http"

	webhooksapp "burnrate/internal/application/webhooks"
)

type webhookView struct {
	ID           string   `json:"id"`
	URL          string   `json:"url"`
	EventFilter  []string `json:"event_filter,omitempty"`
	FailureCount int      `json:"failure_count"`
	Disabled     bool     `json:"disabled"`
	CursorSeq    int64    `json:"cursor_seq"`
}

func (s *Server) handleListWebhooks(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &webhooksapp.ListWebhooksQuery{})
	if !ok {
		return
	}
	subs := resp.(*webhooksapp.ListWebhooksResponse).Webhooks
	views := make([]webhookView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, webhookView{
			ID:           sub.ID,
			URL:          sub.URL,
			EventFilter:  sub.EventFilter,
			FailureCount: sub.FailureCount,
			Disabled:     sub.Disabled,
			CursorSeq:    sub.CursorSeq,
		})
	}
	writeJSON(w, http.StatusOK, struct {
		Webhooks []webhookView `json:"webhooks"`
	}{Webhooks: views})
}

func (s *Server) handleRegisterWebhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &webhooksapp.RegisterWebhookCommand{
		URL:         req.URL,
		EventFilter: req.EventFilter,
	})
	if !ok {
		return
	}
	registered := resp.(*webhooksapp.RegisterWebhookResponse)
	// The signing secret appears here and nowhere else.
	writeJSON(w, http.StatusCreated, struct {
		Webhook webhookView `json:"webhook"`
		Secret  string      `json:"secret"`
	}{
		Webhook: webhookView{
			ID:          registered.Webhook.ID,
			URL:         registered.Webhook.URL,
			EventFilter: registered.Webhook.EventFilter,
			CursorSeq:   registered.Webhook.CursorSeq,
		},
		Secret: registered.Secret,
	})
}

func (s *Server) handleDeleteWebhook(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &webhooksapp.DeleteWebhookCommand{WebhookID: r.PathValue("id")})
	if !ok {
		return
	}
	deleted := resp.(*webhooksapp.DeleteWebhookResponse)
	writeJSON(w, http.StatusOK, struct {
		WebhookID string `json:"webhook_id"`
	}{WebhookID: deleted.WebhookID})
}
