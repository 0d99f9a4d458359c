package server

import (
	"github.com/gofiber/fiber/v2"
)

// DashboardStats handles GET /v1/dashboard/stats. Admins get platform-wide
// totals; everyone else gets the counters for their own writing.
func (s *Server) DashboardStats(c *fiber.Ctx) error {
	if s.isAdmin(c) {
		stats, err := s.statsRepo.GlobalStats(c.UserContext())
		if err != nil {
			return internalError(c, err)
		}
		return c.JSON(fiber.Map{
			"scope": "global",
			"stats": stats,
		})
	}

	stats, err := s.statsRepo.AuthorStats(c.UserContext(), s.currentUserID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{
		"scope": "author",
		"stats": stats,
	})
}
