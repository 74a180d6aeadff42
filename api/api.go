// Package api exposes the Controller over HTTP. Each POST to /commands sends one command and
// stores it with the expected board state.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/calvinmclean/babyapi"
	"go.uber.org/zap"

	"github.com/bigfootbot/bigfootbot"
	"github.com/bigfootbot/bigfootbot/controller"
	"github.com/bigfootbot/bigfootbot/sim"
)

// Sender sends a command to the firmware. *controller.Controller implements it.
type Sender interface {
	Send(context.Context, bigfootbot.Command) (sim.Snapshot, error)
}

// CommandRecord is a command that was sent. Command accepts either the name or the code.
type CommandRecord struct {
	babyapi.DefaultResource

	Command string        `json:"command"`
	Code    string        `json:"code,omitempty"`
	SentAt  time.Time     `json:"sent_at"`
	State   *sim.Snapshot `json:"state,omitempty"`
}

func (c *CommandRecord) Bind(r *http.Request) error {
	err := c.DefaultResource.Bind(r)
	if err != nil {
		return err
	}

	switch r.Method {
	case http.MethodPost:
		in := c.Command
		if in == "" {
			in = c.Code
		}

		cmd, ok := bigfootbot.LookupCommand(in)
		if !ok {
			return fmt.Errorf("%w: %q", controller.ErrUnknownCommand, in)
		}

		c.Command = cmd.String()
		c.Code = cmd.Code()
		c.SentAt = time.Time{}
		c.State = nil
	case http.MethodPut, http.MethodPatch:
		return errors.New("sent commands cannot be modified")
	}

	return nil
}

// Server serves the /commands API
type Server struct {
	api    *babyapi.API[*CommandRecord]
	sender Sender
	logger *zap.Logger
}

// New creates a Server that sends commands with sender
func New(sender Sender, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{sender: sender, logger: logger}

	s.api = babyapi.NewAPI("Commands", "/commands", func() *CommandRecord { return &CommandRecord{} })
	s.api.SetOnCreateOrUpdate(s.send)

	return s
}

// Handler returns the HTTP handler for the API
func (s *Server) Handler() (http.Handler, error) {
	router, err := s.api.Router()
	if err != nil {
		return nil, fmt.Errorf("error creating router: %w", err)
	}
	return router, nil
}

// Run serves the API on addr until ctx is done
func (s *Server) Run(ctx context.Context, addr string) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			s.logger.Error("error shutting down server", zap.Error(err))
		}
	}()

	s.logger.Info("serving API", zap.String("addr", addr))
	err = server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) send(_ http.ResponseWriter, r *http.Request, rec *CommandRecord) *babyapi.ErrResponse {
	if r.Method != http.MethodPost {
		return nil
	}

	cmd := bigfootbot.ParseCommand(rec.Code)
	state, err := s.sender.Send(r.Context(), cmd)
	if err != nil {
		s.logger.Error("error sending command", zap.Stringer("command", cmd), zap.Error(err))
		return babyapi.InternalServerError(err)
	}

	rec.SentAt = time.Now()
	rec.State = &state

	s.logger.Info("sent command", zap.String("id", rec.GetID()), zap.Stringer("command", cmd))
	return nil
}
