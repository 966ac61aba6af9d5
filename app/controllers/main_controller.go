package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/tacweb/tacweb/internal/pkg/session"
)

func HandleHome(c *fiber.Ctx) error {
	products, err := repos.Product.List(0, 24)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not load products")
	}

	return c.Render("home", fiber.Map{
		"Title":    "tacweb",
		"Username": session.Username(c),
		"Products": products,
		"Flash":    flash.Get(c),
	}, "layouts/main")
}
