package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang/glog"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	pcfg "github.com/ling0322/treepcfg"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

type parseRequest struct {
	Text   string   `json:"text"`
	Tokens []string `json:"tokens"`
}

type taggedJSON struct {
	Token   string `json:"token"`
	Label   string `json:"label"`
	Unknown bool   `json:"unknown"`
}

type parseResponse struct {
	Tree    string       `json:"tree"`
	LogProb float64      `json:"log_prob"`
	Tagged  []taggedJSON `json:"tagged"`
}

type statsResponse struct {
	Start            string `json:"start"`
	Productions      int    `json:"productions"`
	Lexical          int    `json:"lexical"`
	Unary            int    `json:"unary"`
	Binary           int    `json:"binary"`
	Nonterminals     int    `json:"nonterminals"`
	Synthetic        int    `json:"synthetic"`
	Terminals        int    `json:"terminals"`
	UnknownReachable bool   `json:"unknown_reachable"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		glog.Warningf("encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// parseStatus maps parser errors to HTTP statuses
func parseStatus(err error) int {
	switch errors.Cause(err) {
	case pcfg.ErrNoParse:
		return http.StatusUnprocessableEntity
	case pcfg.ErrSentenceTooLong:
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

func handleParse(parser *pcfg.Parser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		var body parseRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "body must be JSON with 'text' or 'tokens'")
			return
		}
		tokens := body.Tokens
		if len(tokens) == 0 {
			tokens = strings.Fields(body.Text)
		}
		if len(tokens) == 0 {
			writeError(w, http.StatusBadRequest, "empty sentence")
			return
		}

		result, err := parser.Parse(r.Context(), tokens)
		if err != nil {
			writeError(w, parseStatus(err), err.Error())
			return
		}
		tagged := result.Tagged()
		out := parseResponse{
			Tree:    result.Tree.Bracketed(),
			LogProb: result.LogProb,
			Tagged:  make([]taggedJSON, len(tagged)),
		}
		for i, leaf := range tagged {
			out.Tagged[i] = taggedJSON{Token: leaf.Token, Label: leaf.Label, Unknown: result.Unknown[i]}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleStats(grammar *pcfg.Grammar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		stats := grammar.Stats()
		writeJSON(w, http.StatusOK, statsResponse{
			Start:            grammar.Start().String(),
			Productions:      stats.Productions,
			Lexical:          stats.Lexical,
			Unary:            stats.Unary,
			Binary:           stats.Binary,
			Nonterminals:     stats.Nonterminals,
			Synthetic:        stats.Synthetic,
			Terminals:        stats.Terminals,
			UnknownReachable: grammar.UnknownReachable(),
		})
	}
}

// newHandler routes the API of parser behind CORS
func newHandler(parser *pcfg.Parser, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/parse", handleParse(parser))
	mux.HandleFunc("/api/grammar/stats", handleStats(parser.Grammar()))
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(mux)
}

func Serve(cmd *commander.Command, args []string) error {
	if err := applyConfig(cmd); err != nil {
		return err
	}
	if err := VerifyFlags(cmd, []string{"g", "addr"}); err != nil {
		return err
	}
	parser, err := newParser(conf.Grammar.Smoothed)
	if err != nil {
		return err
	}
	glog.Infof("listening on %s", conf.Serve.Addr)
	return errors.WithStack(http.ListenAndServe(conf.Serve.Addr, newHandler(parser, conf.Serve.AllowedOrigins)))
}

func ServeCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Serve,
		UsageLine: "serve <file options>",
		Short:     "serves the parser as a JSON API",
		Long: `
serves the parser as a JSON API

	POST /api/parse           body: {"text":"the dog barks"} or {"tokens":[...]}
	GET  /api/grammar/stats

	$ pcfg serve -g <grammar file> [-addr :8080] [options]

`,
		Flag: *flag.NewFlagSet("serve", flag.ExitOnError),
	}
	bindCommon(&cmd.Flag)
	bindParse(&cmd.Flag)
	cmd.Flag.StringVar(&conf.Grammar.Smoothed, "g", conf.Grammar.Smoothed, "Grammar File")
	cmd.Flag.StringVar(&conf.Serve.Addr, "addr", conf.Serve.Addr, "Listen Address")
	return cmd
}
