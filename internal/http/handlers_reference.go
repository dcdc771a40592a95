package http

import "net/http"

type registerJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type categoryJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Affinity string `json:"affinity,omitempty"`
}

func (s *Server) handleListRegisters(w http.ResponseWriter, r *http.Request) {
	registers, err := s.ledger.ListRegisters(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]registerJSON, len(registers))
	for i, reg := range registers {
		out[i] = registerJSON{ID: reg.ID, Name: reg.Name, Kind: string(reg.Kind)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.ledger.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]categoryJSON, len(categories))
	for i, c := range categories {
		out[i] = categoryJSON{ID: c.ID, Name: c.Name, Affinity: string(c.Affinity)}
	}
	writeJSON(w, http.StatusOK, out)
}
