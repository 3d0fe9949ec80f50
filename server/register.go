package server

import (
	"net/http"
)

const protocolName = "mcp"

type (
	ToolSummary struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
	}

	RegisterResult struct {
		Name     string        `json:"name"`
		Version  string        `json:"version"`
		Protocol string        `json:"protocol"`
		Tools    []ToolSummary `json:"tools"`
	}

	InfoResult struct {
		Name            string          `json:"name"`
		Version         string          `json:"version"`
		Protocol        string          `json:"protocol"`
		ProtocolVersion string          `json:"protocolVersion"`
		Status          string          `json:"status"`
		Capabilities    map[string]bool `json:"capabilities"`
	}
)

// Register returns the discovery listing of tool names and descriptions.
func (s *Server) Register() *RegisterResult {
	descriptors := s.registry.Descriptors()
	ret := &RegisterResult{Name: s.info.Name, Version: s.info.Version, Protocol: protocolName, Tools: make([]ToolSummary, 0, len(descriptors))}
	for _, descriptor := range descriptors {
		summary := ToolSummary{Name: descriptor.Name}
		if descriptor.Description != nil {
			summary.Description = *descriptor.Description
		}
		ret.Tools = append(ret.Tools, summary)
	}
	return ret
}

// Info returns the static health payload.
func (s *Server) Info() *InfoResult {
	return &InfoResult{
		Name:            s.info.Name,
		Version:         s.info.Version,
		Protocol:        protocolName,
		ProtocolVersion: s.protocolVersion,
		Status:          "ok",
		Capabilities: map[string]bool{
			"tools":     true,
			"prompts":   false,
			"resources": false,
			"streaming": true,
		},
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, _ *http.Request) {
	s.writeResponse(w, http.StatusOK, s.Register())
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	s.writeResponse(w, http.StatusOK, s.Info())
}
