package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/alfagnish/userbook/internal/events"
	"github.com/alfagnish/userbook/internal/middleware"
	"github.com/alfagnish/userbook/internal/users"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Response messages. Clients match on these, so they are part of the API.
const (
	msgRegistered    = "Registered successfully"
	msgNotFound      = "User not found"
	msgUnreadable    = "Data file not readable"
	msgReadFailed    = "Could not read data file"
	msgSaveFailed    = "Error saving data. Please try again."
	msgExists        = "User already exists"
	msgMissingField  = "All fields are mandatory"
	msgInvalidName   = "Name must contain only letters"
	msgShortPassword = "Password must be at least 8 characters long"
	msgBadBody       = "Invalid request body"
)

const maxFormMemory = 1 << 20

var validationMessages = map[string]string{
	users.ReasonMissingField:     msgMissingField,
	users.ReasonInvalidName:      msgInvalidName,
	users.ReasonPasswordTooShort: msgShortPassword,
}

// UsersHandler serves user lookup and registration.
type UsersHandler struct {
	svc *users.Service
	hub *events.Hub
	log *zap.Logger
}

// NewUsersHandler creates a new UsersHandler. hub may be nil, in which case
// no registration events are published.
func NewUsersHandler(svc *users.Service, hub *events.Hub, log *zap.Logger) *UsersHandler {
	return &UsersHandler{svc: svc, hub: hub, log: log}
}

// Routes registers user routes on the given chi router.
func (h *UsersHandler) Routes(r chi.Router) {
	r.Get("/users", h.ListUsers)
	r.Get("/users/{id}", h.GetUser)
	r.Post("/post", h.Register)
}

// ListUsers returns every stored user.
func (h *UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.GetAllUsers(r.Context())
	if err != nil {
		h.logger(r).Error("list users", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgUnreadable)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetUser returns the user whose id matches the path parameter. An id that
// is not an integer cannot match and yields 404.
func (h *UsersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}

	u, err := h.svc.GetUserByID(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, u)
	case errors.Is(err, users.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	default:
		h.logger(r).Error("get user", zap.Int("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgUnreadable)
	}
}

// Register creates a user from a JSON or form-encoded body.
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	reg, err := decodeRegistration(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadBody)
		return
	}

	u, err := h.svc.RegisterUser(r.Context(), reg)
	if err != nil {
		h.registerFailed(w, r, err)
		return
	}

	if h.hub != nil {
		h.hub.Publish(events.Event{
			Type: events.TypeUserRegistered,
			User: events.Account{ID: u.ID, Name: u.Name, Email: u.Email},
		})
	}
	h.logger(r).Info("user registered", zap.Int("id", u.ID))

	w.Header().Set("Location", fmt.Sprintf("/users/%d", u.ID))
	writeJSON(w, http.StatusCreated, map[string]string{"message": msgRegistered})
}

func (h *UsersHandler) registerFailed(w http.ResponseWriter, r *http.Request, err error) {
	var ve *users.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, validationMessages[ve.Reason])
		return
	}
	if errors.Is(err, users.ErrConflict) {
		writeError(w, http.StatusConflict, msgExists)
		return
	}

	h.logger(r).Error("register user", zap.Error(err))
	var se *users.StoreError
	if errors.As(err, &se) && se.Op == users.OpWrite {
		writeError(w, http.StatusInternalServerError, msgSaveFailed)
		return
	}
	writeError(w, http.StatusInternalServerError, msgReadFailed)
}

func (h *UsersHandler) logger(r *http.Request) *zap.Logger {
	return h.log.With(zap.String("request_id", middleware.RequestIDFromContext(r.Context())))
}

// decodeRegistration reads the body as a form when the client sent one and
// as JSON otherwise. An empty JSON body decodes to an empty registration.
func decodeRegistration(r *http.Request) (users.Registration, error) {
	var reg users.Registration

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		parse := r.ParseForm
		if mt == "multipart/form-data" {
			parse = func() error { return r.ParseMultipartForm(maxFormMemory) }
		}
		if err := parse(); err != nil {
			return reg, err
		}
		reg.Name = r.PostFormValue("name")
		reg.Email = r.PostFormValue("email")
		reg.Password = r.PostFormValue("password")
		return reg, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil && !errors.Is(err, io.EOF) {
		return reg, err
	}
	return reg, nil
}
