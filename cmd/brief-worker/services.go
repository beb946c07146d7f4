package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

type auditConsumer interface {
	Consume(ctx context.Context, handler func(ctx context.Context, key, value []byte) error) error
}

type auditHandler interface {
	Handle(ctx context.Context, key, value []byte) error
}

// consumerService feeds report.generated messages to the audit handler.
// A handler error stops Consume without committing, so suture restarts the
// service and the message is redelivered.
type consumerService struct {
	consumer auditConsumer
	handler  auditHandler
	topic    string
}

func (s *consumerService) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "kafka consumer started", "topic", s.topic)
	err := s.consumer.Consume(ctx, s.handler.Handle)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return errors.Wrap(err, "consume")
}

func (s *consumerService) String() string { return "audit-consumer" }

type httpService struct {
	addr     string
	handler  http.Handler
	onListen func(addr string)
}

func (s *httpService) Serve(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	if s.onListen != nil {
		s.onListen(lis.Addr().String())
	}

	srv := &http.Server{Handler: s.handler, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(lis) }()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	<-serveErr
	return ctx.Err()
}

func (s *httpService) String() string { return "worker-http" }
