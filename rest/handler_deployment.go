package rest

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, s.flowService.Templates())
}

func (s *Server) HandleListDeployments(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{"deployments": s.flowService.Deployments()})
}

func (s *Server) HandleGetDeployment(w http.ResponseWriter, r *http.Request) {
	deploymentId := mux.Vars(r)["id"]
	status, err := s.flowService.DeploymentStatus(deploymentId)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, status)
}

func (s *Server) HandleDeleteDeployment(w http.ResponseWriter, r *http.Request) {
	deploymentId := mux.Vars(r)["id"]
	result, err := s.flowService.Undeploy(deploymentId)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}
