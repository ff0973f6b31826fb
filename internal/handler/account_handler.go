package handler

import (
	"errors"
	"net/http"

	"github.com/blogdesk/internal/form"
	"github.com/blogdesk/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ShowLogin renders the login form.
func (a *API) ShowLogin(c *gin.Context) {
	next := safeNext(c.Query("next"))
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, next)
		return
	}
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title":  "Log in",
		"next":   next,
		"form":   form.LoginForm{},
		"errors": form.Errors{},
	})
}

// Login checks the credentials and starts a session.
func (a *API) Login(c *gin.Context) {
	var loginForm form.LoginForm
	errs := form.Errors{}
	if err := c.ShouldBind(&loginForm); err != nil {
		errs.Add(form.NonField, "Invalid submission.")
	} else {
		errs = loginForm.Validate()
	}
	next := safeNext(loginForm.Next)

	if errs.Valid() {
		user, err := a.accounts.Authenticate(loginForm.Username, loginForm.Password)
		switch {
		case err == nil:
			if err := logIn(c, user); err != nil {
				a.renderServerError(c, err)
				return
			}
			log.Info().Uint("user_id", user.ID).Msg("user logged in")
			c.Redirect(http.StatusFound, next)
			return
		case errors.Is(err, service.ErrInvalidLogin):
			errs.Add(form.NonField, "Please enter a correct username and password. Note that both fields may be case-sensitive.")
		default:
			a.renderServerError(c, err)
			return
		}
	}

	loginForm.Password = ""
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title":  "Log in",
		"next":   next,
		"form":   loginForm,
		"errors": errs,
	})
}

// Logout ends the session.
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		c.Error(err)
	}
	c.Redirect(http.StatusFound, "/")
}

// ShowRegister renders the sign up form.
func (a *API) ShowRegister(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "register.html", gin.H{
		"title":  "Register",
		"form":   form.RegisterForm{},
		"errors": form.Errors{},
	})
}

// Register creates an account and logs the new user in.
func (a *API) Register(c *gin.Context) {
	var registerForm form.RegisterForm
	errs := form.Errors{}
	if err := c.ShouldBind(&registerForm); err != nil {
		errs.Add(form.NonField, "Invalid submission.")
	} else {
		registerForm.Normalize()
		errs = registerForm.Validate()
	}

	if errs.Valid() {
		user, err := a.accounts.Register(service.RegisterInput{
			Username: registerForm.Username,
			Email:    registerForm.Email,
			Password: registerForm.Password1,
		})
		switch {
		case err == nil:
			if err := logIn(c, user); err != nil {
				a.renderServerError(c, err)
				return
			}
			log.Info().Uint("user_id", user.ID).Msg("user registered")
			c.Redirect(http.StatusFound, "/")
			return
		case errors.Is(err, service.ErrUsernameTaken):
			errs.Add("username", "A user with that username already exists.")
		default:
			a.renderServerError(c, err)
			return
		}
	}

	registerForm.Password1, registerForm.Password2 = "", ""
	a.renderHTML(c, http.StatusOK, "register.html", gin.H{
		"title":  "Register",
		"form":   registerForm,
		"errors": errs,
	})
}

// ShowPasswordReset renders the "forgot password" form.
func (a *API) ShowPasswordReset(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "password_reset.html", gin.H{
		"title":  "Password reset",
		"form":   form.PasswordResetForm{},
		"errors": form.Errors{},
	})
}

// PasswordReset mails a reset link. The response never reveals whether the
// address belongs to an account.
func (a *API) PasswordReset(c *gin.Context) {
	var resetForm form.PasswordResetForm
	errs := form.Errors{}
	if err := c.ShouldBind(&resetForm); err != nil {
		errs.Add(form.NonField, "Invalid submission.")
	} else {
		errs = resetForm.Validate()
	}

	if !errs.Valid() {
		a.renderHTML(c, http.StatusOK, "password_reset.html", gin.H{
			"title":  "Password reset",
			"form":   resetForm,
			"errors": errs,
		})
		return
	}

	if err := a.resets.Request(c.Request.Context(), resetForm.Email, a.resetLink); err != nil {
		a.renderServerError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/password-reset/done/")
}

// PasswordResetDone confirms that instructions were sent.
func (a *API) PasswordResetDone(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "password_reset_done.html", gin.H{"title": "Password reset sent"})
}

// ShowPasswordResetConfirm renders the new password form behind a reset link.
func (a *API) ShowPasswordResetConfirm(c *gin.Context) {
	_, err := a.resets.Validate(c.Request.Context(), c.Param("uid"), c.Param("token"))
	if err != nil && !errors.Is(err, service.ErrInvalidResetToken) {
		a.renderServerError(c, err)
		return
	}
	a.renderHTML(c, http.StatusOK, "password_reset_confirm.html", gin.H{
		"title":     "Enter new password",
		"validlink": err == nil,
		"errors":    form.Errors{},
	})
}

// PasswordResetConfirm stores the new password and consumes the link.
func (a *API) PasswordResetConfirm(c *gin.Context) {
	ctx := c.Request.Context()
	uid, token := c.Param("uid"), c.Param("token")

	if _, err := a.resets.Validate(ctx, uid, token); err != nil {
		if !errors.Is(err, service.ErrInvalidResetToken) {
			a.renderServerError(c, err)
			return
		}
		a.renderHTML(c, http.StatusOK, "password_reset_confirm.html", gin.H{
			"title":     "Enter new password",
			"validlink": false,
		})
		return
	}

	var setForm form.SetPasswordForm
	errs := form.Errors{}
	if err := c.ShouldBind(&setForm); err != nil {
		errs.Add(form.NonField, "Invalid submission.")
	} else {
		errs = setForm.Validate()
	}

	if errs.Valid() {
		err := a.resets.Confirm(ctx, uid, token, setForm.NewPassword1)
		if err == nil {
			c.Redirect(http.StatusFound, "/reset/done/")
			return
		}
		if !errors.Is(err, service.ErrInvalidResetToken) {
			a.renderServerError(c, err)
			return
		}
		a.renderHTML(c, http.StatusOK, "password_reset_confirm.html", gin.H{
			"title":     "Enter new password",
			"validlink": false,
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "password_reset_confirm.html", gin.H{
		"title":     "Enter new password",
		"validlink": true,
		"errors":    errs,
	})
}

// PasswordResetComplete tells the user the password was changed.
func (a *API) PasswordResetComplete(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "password_reset_complete.html", gin.H{"title": "Password reset complete"})
}
