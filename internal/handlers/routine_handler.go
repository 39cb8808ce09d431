package handlers

import (
	"net/http"
	"strconv"

	"github.com/AlbertoMK/tier-app/internal/services"
	"github.com/AlbertoMK/tier-app/pkg/errors"
	"github.com/gorilla/mux"
)

type routineBody struct {
	SessionToken string                  `json:"session_token"`
	Name         string                  `json:"routine_name"`
	Exercises    []services.RoutineEntry `json:"exercise_sets"`
}

type routineEntryBody struct {
	SessionToken string `json:"session_token"`
	services.RoutineEntry
}

type shareBody struct {
	SessionToken string `json:"session_token"`
	Friend       string `json:"friend"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

func routineID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New(errors.ErrCodeValidation, "Invalid routine id")
	}
	return uint(id), nil
}

func (h *HandlerManager) HandleListExercises(w http.ResponseWriter, r *http.Request) {
	filters := map[string]string{}
	for key, values := range r.URL.Query() {
		if key == "session_token" {
			continue
		}
		if len(values) > 0 {
			filters[key] = values[0]
		}
	}

	exercises, err := h.RoutineSvc.ListExercises(r.Context(), filters)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (h *HandlerManager) HandleGetExercise(w http.ResponseWriter, r *http.Request) {
	exercise, err := h.RoutineSvc.GetExercise(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exercise)
}

// HandleListRoutines returns the caller's routines, or just their number
// with ?count=true.
func (h *HandlerManager) HandleListRoutines(w http.ResponseWriter, r *http.Request) {
	caller, err := h.authenticate(r, "")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if count, _ := strconv.ParseBool(r.URL.Query().Get("count")); count {
		n, err := h.RoutineSvc.CountRoutines(r.Context(), caller)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, countResponse{Count: n})
		return
	}

	routines, err := h.RoutineSvc.ListRoutines(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, routines)
}

func (h *HandlerManager) HandleCreateRoutine(w http.ResponseWriter, r *http.Request) {
	var body routineBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	caller, err := h.authenticate(r, body.SessionToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	routine, err := h.RoutineSvc.CreateRoutine(r.Context(), caller, body.Name, body.Exercises)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, routine)
}

func (h *HandlerManager) HandlePopularRoutines(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	popular, err := h.RoutineSvc.ListPopular(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, popular)
}

func (h *HandlerManager) HandleGetRoutine(w http.ResponseWriter, r *http.Request) {
	id, err := routineID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	caller, err := h.authenticate(r, "")
	if err != nil {
		writeError(w, r, err)
		return
	}

	routine, err := h.RoutineSvc.GetRoutine(r.Context(), caller, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, routine)
}

func (h *HandlerManager) HandleRenameRoutine(w http.ResponseWriter, r *http.Request) {
	id, err := routineID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body routineBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	caller, err := h.authenticate(r, body.SessionToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	routine, err := h.RoutineSvc.RenameRoutine(r.Context(), caller, id, body.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, routine)
}

func (h *HandlerManager) HandleDeleteRoutine(w http.ResponseWriter, r *http.Request) {
	id, err := routineID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body routineBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	caller, err := h.authenticate(r, body.SessionToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.RoutineSvc.DeleteRoutine(r.Context(), caller, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeText(w, http.StatusOK, "Routine deleted")
}

func (h *HandlerManager) HandleAddRoutineExercise(w http.ResponseWriter, r *http.Request) {
	id, err := routineID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body routineEntryBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	caller, err := h.authenticate(r, body.SessionToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	routine, err := h.RoutineSvc.AddExercise(r.Context(), caller, id, body.RoutineEntry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, routine)
}

func (h *HandlerManager) HandleRemoveRoutineExercise(w http.ResponseWriter, r *http.Request) {
	id, err := routineID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	position, err := strconv.Atoi(mux.Vars(r)["position"])
	if err != nil {
		writeError(w, r, errors.New(errors.ErrCodeValidation, "Invalid position"))
		return
	}

	caller, err := h.authenticate(r, "")
	if err != nil {
		writeError(w, r, err)
		return
	}

	routine, err := h.RoutineSvc.RemoveExercise(r.Context(), caller, id, position)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, routine)
}

func (h *HandlerManager) HandleShareRoutine(w http.ResponseWriter, r *http.Request) {
	id, err := routineID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body shareBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	caller, err := h.authenticate(r, body.SessionToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	copied, err := h.RoutineSvc.ShareWithFriend(r.Context(), caller, id, body.Friend)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, copied)
}
