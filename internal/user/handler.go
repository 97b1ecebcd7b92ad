package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"langlink/internal/common"
	"langlink/internal/dbmysql"
)

// Handler wires HTTP requests to the user and friend services. Authentication
// happens in middleware; handlers read the resolved actor id from the
// request context.
type Handler struct {
	userService   UserService
	friendService FriendService
	log           *logrus.Logger
}

func NewHandler(userService UserService, friendService FriendService, log *logrus.Logger) *Handler {
	return &Handler{userService: userService, friendService: friendService, log: log}
}

// RegisterRoutes mounts the API. Everything except signup and login sits
// behind the auth middleware.
func (h *Handler) RegisterRoutes(r *mux.Router, auth mux.MiddlewareFunc) {
	r.HandleFunc("/api/auth/signup", h.Signup).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.Login).Methods(http.MethodPost)

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(auth)
	protected.HandleFunc("/auth/me", h.Me).Methods(http.MethodGet)
	protected.HandleFunc("/auth/onboarding", h.Onboard).Methods(http.MethodPost)
	protected.HandleFunc("/users", h.RecommendedUsers).Methods(http.MethodGet)
	protected.HandleFunc("/users/friends", h.Friends).Methods(http.MethodGet)
	protected.HandleFunc("/users/friend-request/{id}", h.SendFriendRequest).Methods(http.MethodPost)
	protected.HandleFunc("/users/friend-request/{id}/accept", h.AcceptFriendRequest).Methods(http.MethodPut)
	protected.HandleFunc("/users/friend-requests", h.FriendRequests).Methods(http.MethodGet)
	protected.HandleFunc("/users/outgoing-friend-requests", h.OutgoingFriendRequests).Methods(http.MethodGet)
}

type signupRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string        `json:"token"`
	User  *dbmysql.User `json:"user"`
}

type friendRequestsResponse struct {
	IncomingRequests []*dbmysql.FriendRequest `json:"incoming_requests"`
	AcceptedRequests []*dbmysql.FriendRequest `json:"accepted_requests"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, common.ErrValidation)
		return
	}

	user, token, err := h.userService.RegisterUser(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, common.ErrValidation)
		return
	}

	user, token, err := h.userService.LoginUser(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actorID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	user, err := h.userService.GetProfile(r.Context(), actorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) Onboard(w http.ResponseWriter, r *http.Request) {
	actorID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	var in OnboardingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, r, common.ErrValidation)
		return
	}

	user, err := h.userService.OnboardUser(r.Context(), actorID, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) RecommendedUsers(w http.ResponseWriter, r *http.Request) {
	actorID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	users, err := h.userService.RecommendUsers(r.Context(), actorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) Friends(w http.ResponseWriter, r *http.Request) {
	actorID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	friends, err := h.userService.ListFriends(r.Context(), actorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, friends)
}

func (h *Handler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	actorID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	targetID, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	req, err := h.friendService.SendRequest(r.Context(), actorID, targetID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) AcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	actorID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	requestID, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.friendService.AcceptRequest(r.Context(), actorID, requestID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "friend request accepted"})
}

func (h *Handler) FriendRequests(w http.ResponseWriter, r *http.Request) {
	actorID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	incoming, accepted, err := h.friendService.ListFriendRequests(r.Context(), actorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, friendRequestsResponse{
		IncomingRequests: incoming,
		AcceptedRequests: accepted,
	})
}

func (h *Handler) OutgoingFriendRequests(w http.ResponseWriter, r *http.Request) {
	actorID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	outgoing, err := h.friendService.ListOutgoingRequests(r.Context(), actorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, outgoing)
}

func pathID(r *http.Request) (uint64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, common.ErrValidation
	}
	return id, nil
}

// writeError maps the failure taxonomy onto status codes. Errors outside the
// taxonomy are infrastructure failures: logged with detail, masked from the
// client.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var code int
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrSelfRequest):
		code = http.StatusBadRequest
	case errors.Is(err, common.ErrInvalidCredentials):
		code = http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, common.ErrAlreadyFriends),
		errors.Is(err, common.ErrDuplicateRequest),
		errors.Is(err, common.ErrInvalidState):
		code = http.StatusConflict
	default:
		h.log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("internal error")
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "internal server error"})
		return
	}
	writeJSON(w, code, messageResponse{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
