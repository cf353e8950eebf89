package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Trevrosa/pcupback/internal/server/models"
)

// Wire DTOs. Models carry no JSON tags on purpose; the wire shape is owned
// by this package.

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID int64  `json:"user_id"`
	ID     string `json:"id"`
}

type appInfoDTO struct {
	Name  string `json:"name"`
	Usage int64  `json:"usage"`
	Limit int64  `json:"limit"`
}

type debugRecordDTO struct {
	Stored string `json:"stored"`
}

type usageSnapshotDTO struct {
	AppUsage []appInfoDTO     `json:"app_usage"`
	Debug    []debugRecordDTO `json:"debug"`
}

type syncResponse struct {
	Data   usageSnapshotDTO `json:"data"`
	Failed int              `json:"failed"`
}

func toSnapshotModel(dto *usageSnapshotDTO) *models.UsageSnapshot {
	if dto == nil {
		return nil
	}
	snapshot := &models.UsageSnapshot{}
	for _, a := range dto.AppUsage {
		snapshot.AppUsage = append(snapshot.AppUsage, models.AppInfo{Name: a.Name, Usage: a.Usage, Limit: a.Limit})
	}
	for _, d := range dto.Debug {
		snapshot.Debug = append(snapshot.Debug, models.DebugRecord{Stored: d.Stored})
	}
	return snapshot
}

func toSnapshotDTO(snapshot models.UsageSnapshot) usageSnapshotDTO {
	dto := usageSnapshotDTO{
		AppUsage: []appInfoDTO{},
		Debug:    []debugRecordDTO{},
	}
	for _, a := range snapshot.AppUsage {
		dto.AppUsage = append(dto.AppUsage, appInfoDTO{Name: a.Name, Usage: a.Usage, Limit: a.Limit})
	}
	for _, d := range snapshot.Debug {
		dto.Debug = append(dto.Debug, debugRecordDTO{Stored: d.Stored})
	}
	return dto
}

func (s *HTTPServer) handleAuth(w http.ResponseWriter, r *http.Request) {

	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	session, err := s.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		s.logger.Error(r.Context(), err.Error())
		writeErr(w, err)
		return
	}

	s.logger.Info(r.Context(), "Authenticated", "user_id", session.UserID)
	writeOK(w, sessionResponse{UserID: session.UserID, ID: session.ID})
}

func (s *HTTPServer) handleResetSession(w http.ResponseWriter, r *http.Request) {

	sessionID := chi.URLParam(r, "session_id")

	session, err := s.sessions.Reset(r.Context(), sessionID)
	if err != nil {
		s.logger.Error(r.Context(), err.Error())
		writeErr(w, err)
		return
	}

	writeOK(w, sessionResponse{UserID: session.UserID, ID: session.ID})
}

// handleValidateSession answers a bare JSON boolean, no envelope. The check
// never reports faults to the client; anything short of a live session is
// just false.
func (s *HTTPServer) handleValidateSession(w http.ResponseWriter, r *http.Request) {

	sessionID := chi.URLParam(r, "session_id")

	valid := s.sessions.IsValid(r.Context(), sessionID)
	writeJSON(w, http.StatusOK, valid)
}

func (s *HTTPServer) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {

	sessionID := chi.URLParam(r, "session_id")

	if err := s.accounts.Delete(r.Context(), sessionID); err != nil {
		s.logger.Error(r.Context(), err.Error())
		writeErr(w, err)
		return
	}

	s.logger.Info(r.Context(), "Account deleted")
	writeOK(w, nil)
}

// handleSync accepts an optional snapshot body: an empty body or a JSON
// null both mean "merge nothing, just fetch the stored state".
func (s *HTTPServer) handleSync(w http.ResponseWriter, r *http.Request) {

	sessionID := chi.URLParam(r, "session_id")

	var snapshot *usageSnapshotDTO
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := s.sync.Sync(r.Context(), sessionID, toSnapshotModel(snapshot))
	if err != nil {
		s.logger.Error(r.Context(), err.Error())
		writeErr(w, err)
		return
	}

	writeOK(w, syncResponse{Data: toSnapshotDTO(result.Data), Failed: result.Failed})
}
