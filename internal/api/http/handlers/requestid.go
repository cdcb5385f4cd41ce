package handlers

import "github.com/gofiber/fiber/v2"

// reqID reads the id assigned by the requestid middleware for envelope
// tracing.
func reqID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
