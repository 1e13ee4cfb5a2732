package utils

import "github.com/gofiber/fiber/v2"

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Pagination parses limit/offset query parameters with sane bounds.
func Pagination(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", DefaultPageLimit)
	if limit <= 0 || limit > MaxPageLimit {
		limit = DefaultPageLimit
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
