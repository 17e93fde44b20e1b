// Package server exposes the conversion engine over HTTP for frontends that
// keep the engine out of process: POST /convert for candidates, POST
// /commit for learning, GET /healthz for liveness.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/akaza-im/akaza"
	"github.com/akaza-im/akaza/lattice"
)

// maxRequestBody bounds request bodies; keystroke payloads are tiny.
const maxRequestBody = 64 * 1024

// Server handles the HTTP API around one Engine.
type Server struct {
	eng    *akaza.Engine
	router chi.Router
}

// New returns a Server routing to eng.
func New(eng *akaza.Engine) *Server {
	s := &Server{eng: eng}

	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Post("/convert", s.handleConvert)
	r.Post("/commit", s.handleCommit)
	r.Get("/healthz", s.handleHealth)
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves the API on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	log.Info().Str("addr", addr).Msg("conversion server listening")
	return http.ListenAndServe(addr, s)
}

// requestLogger tags every request with an id and logs its outcome.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("request_id", id).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request served")
	})
}

// SpanModel is a forced clause boundary in request bodies.
type SpanModel struct {
	Start int `json:"start"`
	Stop  int `json:"stop"`
}

// ConvertRequest is the POST /convert body.
type ConvertRequest struct {
	Text   string      `json:"text"`
	Forced []SpanModel `json:"forced,omitempty"`
}

// CandidateModel is one candidate in a conversion response.
type CandidateModel struct {
	Word    string `json:"word"`
	Yomi    string `json:"yomi"`
	Surface string `json:"surface"`
}

// ConvertResponse is the POST /convert reply: one candidate list per
// clause, best first.
type ConvertResponse struct {
	Clauses [][]CandidateModel `json:"clauses"`
}

// CommitRequest is the POST /commit body: the confirmed pick for each
// clause, in order.
type CommitRequest struct {
	Nodes []CommitNode `json:"nodes"`
}

// CommitNode is one confirmed word in a commit request.
type CommitNode struct {
	Word string `json:"word"`
	Yomi string `json:"yomi"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if !decodeBody(w, r, &req) {
		return
	}

	forced := make([]lattice.Span, 0, len(req.Forced))
	for _, sp := range req.Forced {
		forced = append(forced, lattice.Span{Start: sp.Start, Stop: sp.Stop})
	}

	clauses := s.eng.Convert(req.Text, forced)
	resp := ConvertResponse{Clauses: make([][]CandidateModel, 0, len(clauses))}
	for _, clause := range clauses {
		cands := make([]CandidateModel, 0, len(clause))
		for _, n := range clause {
			cands = append(cands, CandidateModel{
				Word:    n.Word,
				Yomi:    n.Yomi,
				Surface: s.eng.Surface(n),
			})
		}
		resp.Clauses = append(resp.Clauses, cands)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req CommitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Nodes) == 0 {
		writeError(w, http.StatusBadRequest, "nodes must not be empty")
		return
	}

	nodes := make([]*akaza.Node, 0, len(req.Nodes))
	for _, n := range req.Nodes {
		if n.Word == "" || n.Yomi == "" {
			writeError(w, http.StatusBadRequest, "every node needs word and yomi")
			return
		}
		nodes = append(nodes, lattice.NewNode(0, n.Word, n.Yomi))
	}
	s.eng.Commit(nodes)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBody reads a JSON request body into v, replying with a 400 on any
// decoding problem. It returns whether the handler should continue.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "request body is required")
		} else {
			writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		}
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("cannot write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
