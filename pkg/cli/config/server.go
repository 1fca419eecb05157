package config

import (
	"time"

	"github.com/m-mizutani/webship/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

const (
	defaultAddr            = "localhost:8080"
	defaultShutdownTimeout = 5 * time.Minute
)

// Server holds server configuration
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address (default [serve] addr, then " + defaultAddr + ")",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("WEBSHIP_ADDR"),
		},
		&cli.DurationFlag{
			Name:        "shutdown-timeout",
			Usage:       "How long shutdown waits for running syncs to finish",
			Value:       defaultShutdownTimeout,
			Destination: &c.ShutdownTimeout,
			Sources:     cli.EnvVars("WEBSHIP_SHUTDOWN_TIMEOUT"),
		},
	}
}

// ResolveAddr returns the flag value, then [serve] addr, then the default
func (c *Server) ResolveAddr(s model.Settings) string {
	if c.Addr != "" {
		return c.Addr
	}
	return s.GetOr(model.SectionServe, "addr", defaultAddr)
}
