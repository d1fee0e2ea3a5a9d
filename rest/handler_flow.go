package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/siatlabs/siat/logger"
	"github.com/siatlabs/siat/model"
	"go.uber.org/zap"
)

func (s *Server) HandleCreateFlow(w http.ResponseWriter, r *http.Request) {
	var req model.CreateFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()
	tenantId, userId := s.caller(r)
	flow, err := s.flowService.Create(tenantId, userId, req)
	if err != nil {
		logger.Error("error creating flow", zap.String("tenantId", tenantId), zap.Error(err))
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, flow)
}

func (s *Server) HandleListFlows(w http.ResponseWriter, r *http.Request) {
	tenantId, _ := s.caller(r)
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	flows, err := s.flowService.List(tenantId, model.PageRequest{Page: page, Limit: limit})
	if err != nil {
		logger.Error("error listing flows", zap.String("tenantId", tenantId), zap.Error(err))
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, flows)
}

func (s *Server) HandleGetFlow(w http.ResponseWriter, r *http.Request) {
	flowId := mux.Vars(r)["id"]
	tenantId, _ := s.caller(r)
	flow, err := s.flowService.Get(tenantId, flowId)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, flow)
}

func (s *Server) HandleUpdateFlow(w http.ResponseWriter, r *http.Request) {
	flowId := mux.Vars(r)["id"]
	var req model.UpdateFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()
	tenantId, _ := s.caller(r)
	flow, err := s.flowService.Update(tenantId, flowId, req)
	if err != nil {
		logger.Error("error updating flow", zap.String("flowId", flowId), zap.Error(err))
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, flow)
}

func (s *Server) HandleDeleteFlow(w http.ResponseWriter, r *http.Request) {
	flowId := mux.Vars(r)["id"]
	tenantId, _ := s.caller(r)
	if err := s.flowService.Delete(tenantId, flowId); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func (s *Server) HandleGenerateFlow(w http.ResponseWriter, r *http.Request) {
	flowId := mux.Vars(r)["id"]
	var genCtx *model.GenerationContext
	if r.Body != nil {
		var body struct {
			Context *model.GenerationContext `json:"context"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			genCtx = body.Context
		}
		r.Body.Close()
	}
	tenantId, _ := s.caller(r)
	flow, err := s.flowService.Generate(tenantId, flowId, genCtx)
	if err != nil {
		logger.Error("error starting generation", zap.String("flowId", flowId), zap.Error(err))
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusAccepted, flow)
}

func (s *Server) HandleDeployFlow(w http.ResponseWriter, r *http.Request) {
	flowId := mux.Vars(r)["id"]
	var body struct {
		Config map[string]any `json:"config"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
		r.Body.Close()
	}
	tenantId, _ := s.caller(r)
	result, err := s.flowService.Deploy(tenantId, flowId, body.Config)
	if err != nil {
		logger.Error("error deploying flow", zap.String("flowId", flowId), zap.Error(err))
		respondWithServiceError(w, err)
		return
	}
	if !result.Success {
		respondWithJSON(w, http.StatusBadRequest, result)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (s *Server) HandleExecuteFlow(w http.ResponseWriter, r *http.Request) {
	flowId := mux.Vars(r)["id"]
	var req model.ExecuteFlowRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
		r.Body.Close()
	}
	tenantId, _ := s.caller(r)
	result, err := s.flowService.Execute(r.Context(), tenantId, flowId, req.Input)
	if err != nil {
		logger.Error("error executing flow", zap.String("flowId", flowId), zap.Error(err))
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (s *Server) HandleListExecutions(w http.ResponseWriter, r *http.Request) {
	flowId := mux.Vars(r)["id"]
	tenantId, _ := s.caller(r)
	executions, err := s.flowService.ListExecutions(tenantId, flowId)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, executions)
}
