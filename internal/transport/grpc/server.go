package grpc_server

import (
	"context"
	"net"
	"time"

	"studytracker/internal/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes grpc.health.v1.Health for the service name and the empty
// (whole server) name. Status follows storage reachability.
type Server struct {
	srv     *grpc.Server
	health  *health.Server
	store   Pinger
	service string
	log     *logger.Logger
}

func NewServer(service string, store Pinger, log *logger.Logger) *Server {
	s := &Server{
		srv:     grpc.NewServer(),
		health:  health.NewServer(),
		store:   store,
		service: service,
		log:     log,
	}
	healthpb.RegisterHealthServer(s.srv, s.health)
	reflection.Register(s.srv)
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

func (s *Server) Serve(lis net.Listener) error {
	return s.srv.Serve(lis)
}

// Probe pings storage once and publishes the result.
func (s *Server) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.store.Ping(ctx); err != nil {
		s.log.Warn("storage ping failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.setStatus(status)
	return status
}

// Watch probes every interval until ctx is done.
func (s *Server) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Probe(ctx)
		}
	}
}

func (s *Server) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	res, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return res.GetStatus(), nil
}

// GracefulStop flips every status to NOT_SERVING before draining.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(s.service, status)
}
