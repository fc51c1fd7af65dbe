package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/example/abhyaas/internal/middleware"
)

// DashboardHandler serves the role-gated greeting endpoints.
type DashboardHandler struct{}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// Student greets an authenticated student.
func (h *DashboardHandler) Student(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "missing authentication")
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Welcome Student: %s", user.Name),
	})
}

// Teacher greets an authenticated teacher.
func (h *DashboardHandler) Teacher(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "missing authentication")
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Welcome Teacher: %s", user.Name),
	})
}
