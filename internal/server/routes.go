package server

import (
	"github.com/katariyakhushi/umbrella-customiser/internal/handlers"
)

// RegisterRoutes sets up the routes the server owns itself. Feature routes
// are added by modules during Boot.
func (s *Server) RegisterRoutes() {
	s.E.GET("/health", handlers.Health)
}
