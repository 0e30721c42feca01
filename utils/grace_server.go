package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	readTimeout     = 30 * time.Second
	writeTimeout    = 2 * time.Minute // XLSX generation of long counts is slow
	shutdownTimeout = 30 * time.Second

	// inheritedEnv marks a child started by SIGUSR2; it serves on fd 3.
	inheritedEnv = "TC_INHERITED_LISTENER=1"
	inheritedFD  = 3
)

// Server is an http.Server that drains on SIGTERM/SIGINT and hands its
// listener to a fresh copy of the binary on SIGUSR2.
type Server struct {
	*http.Server

	listener  net.Listener
	inherited bool
	logger    *zap.Logger
	signals   chan os.Signal
	done      chan struct{}
}

// NewServer creates a Server for handler.
func NewServer(addr string, handler http.Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: readTimeout,
			WriteTimeout:      writeTimeout,
		},
		inherited: hasEnv(inheritedEnv),
		logger:    logger,
		signals:   make(chan os.Signal, 1),
		done:      make(chan struct{}),
	}
}

func hasEnv(kv string) bool {
	for _, e := range os.Environ() {
		if e == kv {
			return true
		}
	}
	return false
}

// ListenAndServe blocks until the server has been shut down by a signal.
func (s *Server) ListenAndServe() error {
	ln, err := s.listen()
	if err != nil {
		return err
	}
	s.listener = ln

	signal.Notify(s.signals, syscall.SIGTERM, syscall.SIGINT, syscall.SIGUSR2)
	go s.handleSignals()

	err = s.Serve(ln)
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-s.done
	return nil
}

func (s *Server) listen() (net.Listener, error) {
	if s.inherited {
		ln, err := net.FileListener(os.NewFile(inheritedFD, "listener"))
		if err != nil {
			return nil, fmt.Errorf("inherit listener: %w", err)
		}
		return ln, nil
	}
	addr := s.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}

func (s *Server) handleSignals() {
	for sig := range s.signals {
		switch sig {
		case syscall.SIGUSR2:
			pid, err := s.fork()
			if err != nil {
				s.logger.Error("restart failed, still serving", zap.Error(err))
				continue
			}
			s.logger.Info("restarted, draining old process", zap.Int("pid", pid))
		default:
			s.logger.Info("shutting down", zap.String("signal", sig.String()))
		}
		s.drain()
		return
	}
}

func (s *Server) drain() {
	signal.Stop(s.signals)
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		s.logger.Error("shutdown incomplete", zap.Error(err))
	} else {
		s.logger.Info("server stopped")
	}
	close(s.done)
}

// fork starts the same binary with the listening socket as fd 3.
func (s *Server) fork() (int, error) {
	tcp, ok := s.listener.(*net.TCPListener)
	if !ok {
		return 0, errors.New("listener is not a TCP listener")
	}
	f, err := tcp.File()
	if err != nil {
		return 0, fmt.Errorf("listener file: %w", err)
	}
	defer f.Close()

	env := make([]string, 0, len(os.Environ())+1)
	for _, e := range os.Environ() {
		if e != inheritedEnv {
			env = append(env, e)
		}
	}
	env = append(env, inheritedEnv)

	return syscall.ForkExec(os.Args[0], os.Args, &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), f.Fd()},
	})
}

// GraceServer serves handler on addr until SIGTERM or SIGINT.
func GraceServer(addr string, handler http.Handler) error {
	return NewServer(addr, handler, Logger).ListenAndServe()
}
