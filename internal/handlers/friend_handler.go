package handlers

import (
	"net/http"
	"strconv"
)

type friendRequestBody struct {
	SessionToken string `json:"session_token"`
	Requested    string `json:"requested"`
	Requester    string `json:"requester"`
	Friend       string `json:"friend"`
}

// friendAction decodes the body, authenticates the caller and runs action.
func (h *HandlerManager) friendAction(w http.ResponseWriter, r *http.Request, action func(caller string, body friendRequestBody) error, success string) {
	var body friendRequestBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	caller, err := h.authenticate(r, body.SessionToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := action(caller, body); err != nil {
		writeError(w, r, err)
		return
	}

	writeText(w, http.StatusOK, success)
}

func (h *HandlerManager) HandleSendFriendRequest(w http.ResponseWriter, r *http.Request) {
	h.friendAction(w, r, func(caller string, body friendRequestBody) error {
		return h.FriendSvc.Send(r.Context(), caller, body.Requested)
	}, "Friend request sent")
}

func (h *HandlerManager) HandleRemoveFriendRequest(w http.ResponseWriter, r *http.Request) {
	h.friendAction(w, r, func(caller string, body friendRequestBody) error {
		return h.FriendSvc.RemoveRequest(r.Context(), caller, body.Requested)
	}, "Friend request removed")
}

func (h *HandlerManager) HandleAcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	h.friendAction(w, r, func(caller string, body friendRequestBody) error {
		return h.FriendSvc.Accept(r.Context(), caller, body.Requester)
	}, "Friend request accepted")
}

func (h *HandlerManager) HandleRejectFriendRequest(w http.ResponseWriter, r *http.Request) {
	h.friendAction(w, r, func(caller string, body friendRequestBody) error {
		return h.FriendSvc.Reject(r.Context(), caller, body.Requester)
	}, "Friend request rejected")
}

func (h *HandlerManager) HandleRemoveFriendship(w http.ResponseWriter, r *http.Request) {
	h.friendAction(w, r, func(caller string, body friendRequestBody) error {
		return h.FriendSvc.RemoveFriendship(r.Context(), caller, body.Friend)
	}, "Friendship removed")
}

func (h *HandlerManager) HandleListIncoming(w http.ResponseWriter, r *http.Request) {
	caller, err := h.authenticate(r, "")
	if err != nil {
		writeError(w, r, err)
		return
	}

	pending, err := h.FriendSvc.ListIncoming(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

func (h *HandlerManager) HandleListOutgoing(w http.ResponseWriter, r *http.Request) {
	caller, err := h.authenticate(r, "")
	if err != nil {
		writeError(w, r, err)
		return
	}

	pending, err := h.FriendSvc.ListOutgoing(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

// HandleListFriends returns friend usernames, or full accounts with ?detail=true.
func (h *HandlerManager) HandleListFriends(w http.ResponseWriter, r *http.Request) {
	caller, err := h.authenticate(r, "")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if detail, _ := strconv.ParseBool(r.URL.Query().Get("detail")); detail {
		accounts, err := h.FriendSvc.ListFriendAccounts(r.Context(), caller)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, accounts)
		return
	}

	friends, err := h.FriendSvc.ListFriends(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, friends)
}
