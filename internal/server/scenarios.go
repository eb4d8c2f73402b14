package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"defikit/internal/clmm"
	"defikit/internal/database"
	"defikit/internal/model"
)

var errScenariosDisabled = errors.New("scenario store is not configured")

type scenarioRequest struct {
	Name   string             `json:"name"`
	Kind   model.ScenarioKind `json:"kind"`
	Inputs json.RawMessage    `json:"inputs"`
}

func (req scenarioRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	if !req.Kind.Valid() {
		return fmt.Errorf("unknown scenario kind %q", req.Kind)
	}
	if len(req.Inputs) == 0 {
		return errors.New("inputs are required")
	}
	switch req.Kind {
	case model.ScenarioCLMM:
		var in clmm.Inputs
		if err := json.Unmarshal(req.Inputs, &in); err != nil {
			return fmt.Errorf("clmm inputs: %w", err)
		}
	case model.ScenarioPTYT:
		var in ForecastRequest
		if err := json.Unmarshal(req.Inputs, &in); err != nil {
			return fmt.Errorf("ptyt inputs: %w", err)
		}
	}
	return nil
}

func (s *Server) handleCreateScenario(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, errScenariosDisabled)
		return
	}
	var req scenarioRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	sc := &model.Scenario{
		ID:     uuid.New(),
		Name:   strings.TrimSpace(req.Name),
		Kind:   req.Kind,
		Inputs: req.Inputs,
	}
	if err := s.repo.SaveScenario(r.Context(), sc); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.logger.InfoContext(r.Context(), "Scenario saved", "id", sc.ID, "kind", sc.Kind)
	s.writeJSON(w, r, http.StatusCreated, sc)
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, errScenariosDisabled)
		return
	}
	kind := model.ScenarioKind(r.URL.Query().Get("kind"))
	if kind != "" && !kind.Valid() {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("unknown scenario kind %q", kind))
		return
	}
	list, err := s.repo.ListScenarios(r.Context(), kind)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if list == nil {
		list = []model.Scenario{}
	}
	s.writeJSON(w, r, http.StatusOK, list)
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	id, ok := s.scenarioID(w, r)
	if !ok {
		return
	}
	sc, err := s.repo.GetScenario(r.Context(), id)
	if err != nil {
		s.writeError(w, r, repoStatus(err), err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, sc)
}

func (s *Server) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	id, ok := s.scenarioID(w, r)
	if !ok {
		return
	}
	if err := s.repo.DeleteScenario(r.Context(), id); err != nil {
		s.writeError(w, r, repoStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// scenarioID parses the {id} path variable, writing the error response itself
// when the store is off or the id is malformed.
func (s *Server) scenarioID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if s.repo == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, errScenariosDisabled)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid scenario id: %w", err))
		return uuid.Nil, false
	}
	return id, true
}

func repoStatus(err error) int {
	if errors.Is(err, database.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
