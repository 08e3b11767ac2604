package contact

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/aneeqm/bloghub/internal/telemetry/metrics"
	"github.com/aneeqm/bloghub/pkg"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type Handler struct {
	mailer         Mailer
	metricsManager *metrics.Manager
}

func NewHandler(mailer Mailer, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		mailer:         mailer,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/contact", handler.handleSend).Methods("POST", "OPTIONS").Name("contact-send")
	router.HandleFunc("/contact", handler.handleGet).Methods("GET").Name("contact-get")
}

// handleGet exists for the frontend form page, there is nothing to render
// server side
func (handler *Handler) handleGet(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "ok")
}

func (handler *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var contactReq contactRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&contactReq); err != nil {
			log.Errorf("contact message, unmarshal json params: %s", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("contact message, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return
		}
		contactReq = contactRequest{
			Name:    r.Form.Get("name"),
			Email:   r.Form.Get("email"),
			Phone:   r.Form.Get("phone"),
			Message: r.Form.Get("message"),
		}
	}

	if contactReq.Name == "" || contactReq.Email == "" || contactReq.Message == "" {
		http.Error(w, "error, name, email or message empty", http.StatusBadRequest)
		return
	}

	err := handler.mailer.SendContactMessage(
		contactReq.Name, contactReq.Email, contactReq.Phone, contactReq.Message,
	)
	if err != nil {
		log.Errorf("contact message from %s failed: %s", contactReq.Email, err)
		http.Error(w, "sending message failed", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterContactMessages.Inc()
	log.Tracef("contact message sent, from %s", contactReq.Email)

	pkg.WriteTextResponseOK(w, "sent")
}
