package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// paginationParams reads ?limit and ?page. limit defaults to 0 (no
// paging), page to 1. Out-of-range values are rejected, not clamped.
func paginationParams(c *fiber.Ctx) (int, int, error) {
	limit, err := strconv.Atoi(c.Query("limit", "0"))
	if err != nil || limit < 0 {
		return 0, 0, errors.New("Limit must be a non-negative number")
	}

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return 0, 0, errors.New("Page must be a positive number")
	}

	return limit, page, nil
}
