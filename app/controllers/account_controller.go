package controllers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"

	"github.com/tacweb/tacweb/app/models"
	"github.com/tacweb/tacweb/internal/pkg/session"
)

// HandleAccountPage renders a single page containing both the login and the
// register form.
func HandleAccountPage(c *fiber.Ctx) error {
	if session.Username(c) != "" {
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	return c.Render("account", fiber.Map{
		"Title": "Account",
		"Flash": flash.Get(c),
	}, "layouts/main")
}

func HandleLogin(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")
	if email == "" || password == "" {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Email and password are required"}).Redirect("/account")
	}

	user, err := repos.User.GetByEmail(email)
	if err != nil || !user.CheckPassword(password) || !user.IsActive() {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Invalid credentials"}).Redirect("/account")
	}

	if err := session.Login(c, user.ID, user.Name); err != nil {
		log.Printf("session login for user %d failed: %v", user.ID, err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Login failed, please try again"}).Redirect("/account")
	}

	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": "Welcome back, " + user.Name}).Redirect("/")
}

func HandleRegister(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.FormValue("username"))
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	if _, err := repos.User.GetByName(username); err == nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Username is already taken"}).Redirect("/account")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Registration failed, please try again"}).Redirect("/account")
	}

	user, err := models.CreateUser(username, email, password)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Please check your input: " + err.Error()}).Redirect("/account")
	}
	if err := repos.User.Create(user); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Registration failed, please try again"}).Redirect("/account")
	}

	// Every account gets an (empty) shipping profile up front.
	if _, err := repos.Profile.GetOrCreateByUserID(user.ID); err != nil {
		log.Printf("profile creation for user %d failed: %v", user.ID, err)
	}

	if err := session.Login(c, user.ID, user.Name); err != nil {
		log.Printf("session login for user %d failed: %v", user.ID, err)
	}

	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": "Account created"}).Redirect("/")
}

func HandleLogout(c *fiber.Ctx) error {
	if err := session.Logout(c); err != nil {
		log.Printf("logout failed: %v", err)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}
