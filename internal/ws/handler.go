package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	authDomain "github.com/allisson/forum/internal/auth/domain"
	authUseCase "github.com/allisson/forum/internal/auth/usecase"
	apperrors "github.com/allisson/forum/internal/errors"
	"github.com/allisson/forum/internal/httputil"
)

// Handler upgrades authenticated requests to websocket connections.
//
// The credential arrives in a Token header at upgrade time and is checked
// BEFORE the upgrade: a missing, malformed or expired token is rejected with
// 401 and the structured error body while the exchange is still plain HTTP.
// On success the subject id is bound to the connection for its whole lifetime;
// there is no mid-connection revalidation.
type Handler struct {
	hub      *Hub
	useCase  authUseCase.AuthUseCase
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a websocket handler bound to a hub.
func NewHandler(hub *Hub, useCase authUseCase.AuthUseCase, logger *slog.Logger) *Handler {
	return &Handler{
		hub:     hub,
		useCase: useCase,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cross-origin policy is enforced by the CORS layer in front.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ServeHTTP implements http.Handler so the endpoint can be mounted with
// gin.WrapH without passing through the gin authentication middleware.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("Token")
	if token == "" {
		h.reject(w, apperrors.ErrUnauthorized)
		return
	}

	subjectID, err := h.useCase.VerifyToken(token)
	if err != nil {
		h.logger.Debug("websocket handshake rejected: token verification failed",
			slog.String("error", err.Error()))
		h.reject(w, err)
		return
	}

	identity, err := h.useCase.Identify(r.Context(), subjectID)
	if err != nil {
		if apperrors.Is(err, authDomain.ErrSubjectNotFound) {
			// A connection cannot be anonymous; a token without a subject is
			// as good as an invalid one here.
			h.reject(w, apperrors.ErrInvalidCredential)
			return
		}
		h.logger.Error("websocket handshake failed: subject resolution error",
			slog.String("error", err.Error()))
		h.reject(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote its own error response.
		h.logger.Debug("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &connection{
		subjectID: identity.SubjectID(),
		conn:      conn,
		send:      make(chan []byte, sendQueueSize),
	}
	h.hub.register(c)

	go c.writePump(h.hub)
	go c.readPump(h.hub)
}

// reject writes the structured error body on the plain response writer.
func (h *Handler) reject(w http.ResponseWriter, err error) {
	statusCode, body := httputil.ErrorResponseFor(err)
	httputil.MakeJSONResponse(w, statusCode, body)
}
