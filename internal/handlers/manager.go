package handlers

import (
	"net/http"

	"github.com/AlbertoMK/tier-app/internal/metrics"
	"github.com/AlbertoMK/tier-app/internal/middleware"
	"github.com/AlbertoMK/tier-app/internal/services"
	"github.com/gorilla/mux"
)

type HandlerManager struct {
	UserSvc    *services.UserService
	FriendSvc  *services.FriendService
	RoutineSvc *services.RoutineService
}

func NewHandlerManager(
	userSvc *services.UserService,
	friendSvc *services.FriendService,
	routineSvc *services.RoutineService,
) *HandlerManager {
	return &HandlerManager{
		UserSvc:    userSvc,
		FriendSvc:  friendSvc,
		RoutineSvc: routineSvc,
	}
}

// Router wires every endpoint and the middleware chain.
func (h *HandlerManager) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.AccessLog, middleware.Metrics)

	r.HandleFunc("/healthz", h.HandleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	// Accounts
	r.HandleFunc("/user", h.HandleGetUser).Methods(http.MethodGet)
	r.HandleFunc("/user", h.HandleRegister).Methods(http.MethodPost)
	r.HandleFunc("/user/login", h.HandleLogin).Methods(http.MethodPost)

	// Friend requests
	r.HandleFunc("/user/friend", h.HandleSendFriendRequest).Methods(http.MethodPost)
	r.HandleFunc("/user/friend", h.HandleRemoveFriendRequest).Methods(http.MethodDelete)
	r.HandleFunc("/user/friend/accept", h.HandleAcceptFriendRequest).Methods(http.MethodPost)
	r.HandleFunc("/user/friend/reject", h.HandleRejectFriendRequest).Methods(http.MethodPost)
	r.HandleFunc("/user/friend/incoming", h.HandleListIncoming).Methods(http.MethodGet)
	r.HandleFunc("/user/friend/outgoing", h.HandleListOutgoing).Methods(http.MethodGet)

	// Friendships
	r.HandleFunc("/user/friends", h.HandleListFriends).Methods(http.MethodGet)
	r.HandleFunc("/user/friends", h.HandleRemoveFriendship).Methods(http.MethodDelete)

	// Catalog
	r.HandleFunc("/exercise", h.HandleListExercises).Methods(http.MethodGet)
	r.HandleFunc("/exercise/{name}", h.HandleGetExercise).Methods(http.MethodGet)

	// Routines
	r.HandleFunc("/routine", h.HandleListRoutines).Methods(http.MethodGet)
	r.HandleFunc("/routine", h.HandleCreateRoutine).Methods(http.MethodPost)
	r.HandleFunc("/routine/popular", h.HandlePopularRoutines).Methods(http.MethodGet)
	r.HandleFunc("/routine/{id:[0-9]+}", h.HandleGetRoutine).Methods(http.MethodGet)
	r.HandleFunc("/routine/{id:[0-9]+}", h.HandleRenameRoutine).Methods(http.MethodPut)
	r.HandleFunc("/routine/{id:[0-9]+}", h.HandleDeleteRoutine).Methods(http.MethodDelete)
	r.HandleFunc("/routine/{id:[0-9]+}/exercise", h.HandleAddRoutineExercise).Methods(http.MethodPost)
	r.HandleFunc("/routine/{id:[0-9]+}/exercise/{position:[0-9]+}", h.HandleRemoveRoutineExercise).Methods(http.MethodDelete)
	r.HandleFunc("/routine/{id:[0-9]+}/share", h.HandleShareRoutine).Methods(http.MethodPost)

	return r
}

func (h *HandlerManager) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "ok")
}
