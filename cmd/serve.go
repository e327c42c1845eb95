package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jsphweid/earworm/constants"
	"github.com/jsphweid/earworm/difficulty"
	"github.com/jsphweid/earworm/midi"
	"github.com/jsphweid/earworm/model"
	"github.com/jsphweid/earworm/simplify"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

func init() {
	serveCmd.Flags().String("addr", constants.DefaultAddr, "Address to listen on")
	cobra.CheckErr(v.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr")))
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves analysis and simplification over http",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		var reports ReportStore
		if store != nil {
			reports = store
		}
		srv, err := NewServer(cfg.Simplify, reports, logger)
		if err != nil {
			return err
		}
		return listen(cmd.Context(), cfg.Serve.Addr, srv.Handler(cfg.Serve.AllowedOrigins))
	},
}

// ReportStore is the part of the report table the api uses.
type ReportStore interface {
	Put(ctx context.Context, source string, r difficulty.Report) error
	GetReports(ctx context.Context, sources []string) (map[string]difficulty.Report, error)
}

type Server struct {
	strategies map[simplify.Level]simplify.Strategy
	reports    ReportStore
	logger     *slog.Logger
}

// NewServer builds every strategy up front so a bad configuration fails
// before listening. reports may be nil.
func NewServer(c simplify.Config, reports ReportStore, logger *slog.Logger) (*Server, error) {
	all, err := simplify.All(c)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{strategies: make(map[simplify.Level]simplify.Strategy), reports: reports, logger: logger}
	for _, st := range all {
		s.strategies[st.Level()] = st
	}
	return s, nil
}

func (s *Server) Handler(allowedOrigins []string) http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/levels", s.HandleLevels).Methods("GET")
	router.HandleFunc("/analyse", s.HandleAnalyse).Methods("POST")
	router.HandleFunc("/simplify/{level}", s.HandleSimplify).Methods("POST")
	router.HandleFunc("/reports/{source}", s.HandleReport).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(router)
}

func (s *Server) HandleLevels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.LevelsResponse{Levels: levelNames()})
}

// HandleAnalyse rates the midi file in the request body. With ?source=name
// and a report table, the report is also stored under name.
func (s *Server) HandleAnalyse(w http.ResponseWriter, r *http.Request) {
	stream, ok := s.readStream(w, r)
	if !ok {
		return
	}
	report := difficulty.Analyse(stream)

	if source := r.URL.Query().Get("source"); source != "" && s.reports != nil {
		if err := s.reports.Put(r.Context(), source, report); err != nil {
			s.logger.Warn("could not store report", "source", source, "err", err)
		}
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) HandleSimplify(w http.ResponseWriter, r *http.Request) {
	level, err := simplify.ParseLevel(mux.Vars(r)["level"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	stream, ok := s.readStream(w, r)
	if !ok {
		return
	}

	out, err := s.strategies[level].Transform(stream)
	if err != nil {
		s.logger.Error("simplify failed", "level", level, "err", err)
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	data, err := midi.EncodeBytes(out)
	if err != nil {
		s.logger.Error("encode failed", "level", level, "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "audio/midi")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) HandleReport(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		writeError(w, http.StatusNotFound, errors.New("report table is disabled"))
		return
	}
	source := mux.Vars(r)["source"]
	found, err := s.reports.GetReports(r.Context(), []string{source})
	if err != nil {
		s.logger.Error("report lookup failed", "source", source, "err", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	report, ok := found[source]
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("no report for "+source))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) readStream(w http.ResponseWriter, r *http.Request) (model.Stream, bool) {
	body := http.MaxBytesReader(w, r.Body, constants.MaxUploadSize)
	data, err := io.ReadAll(body)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return model.Stream{}, false
	}
	stream, err := midi.DecodeBytes(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return model.Stream{}, false
	}
	return stream, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func listen(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errs := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}
