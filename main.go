package main

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type app struct {
	profile    Profile
	newPanel   func(Profile) Panel
	store      *Store
	mailer     Mailer
	tracker    *Tracker
	tmpl       *template.Template
	log        *zap.Logger
	adminToken string
}

func main() {
	log := newLogger()
	defer log.Sync()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	tmpl, err := loadTemplates()
	if err != nil {
		log.Fatal("load templates", zap.Error(err))
	}

	store, err := OpenStore(cfg.DBPath)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}
	defer store.Close()

	go cleanupOldVisitorData(store, log)

	if !cfg.SMTP.Configured() {
		log.Warn("SMTP_USER/SMTP_PASS not set, contact messages will be stored but not mailed")
	}

	a := &app{
		profile:    cfg.Profile,
		newPanel:   NewPanel,
		store:      store,
		mailer:     newSMTPMailer(cfg.SMTP),
		tracker:    NewTracker(store, cfg.HashSalt, log),
		tmpl:       tmpl,
		log:        log,
		adminToken: resolveAdminToken(cfg.AdminToken, log),
	}

	log.Info("listening", zap.String("port", cfg.Port))
	if err := newRouter(a).Run(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger() *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if gin.Mode() == gin.ReleaseMode {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func motionFor(c *gin.Context) Motion {
	if c.Query("motion") == "off" {
		return NoMotion{}
	}
	return defaultMotion
}

func newRouter(a *app) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(a.tmpl)

	r.Static("/static", "./static")

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	setupAdminRoutes(r, a)

	site := r.Group("/")
	site.Use(a.tracker.Middleware())

	// Home page route
	site.GET("/", func(c *gin.Context) {
		view, err := viewPanel(a.newPanel(a.profile), motionFor(c))
		if err != nil {
			a.log.Error("build contact panel", zap.Error(err))
			c.Status(http.StatusInternalServerError)
			return
		}

		c.HTML(http.StatusOK, "index.html", gin.H{
			"title": a.profile.Name,
			"panel": view,
		})
	})

	// HTMX contact info fragment
	site.GET("/contact-info", func(c *gin.Context) {
		var buf bytes.Buffer
		if err := RenderPanel(&buf, a.tmpl, a.newPanel(a.profile), motionFor(c)); err != nil {
			a.log.Error("render contact panel", zap.Error(err))
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	})

	// HTMX contact form fragment
	site.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact-form.html", gin.H{
			"title": "Send Message",
		})
	})

	site.POST("/contact", func(c *gin.Context) {
		sub, err := parseSubmission(c.PostForm("fullName"), c.PostForm("email"), c.PostForm("message"))
		if err != nil {
			c.HTML(http.StatusUnprocessableEntity, "contact-error.html", gin.H{
				"error": "Please fill in your name, a valid email and a message.",
			})
			return
		}

		msg, err := a.store.SaveMessage(sub.Name, sub.Email, sub.Message)
		if err != nil {
			a.log.Error("save contact message", zap.Error(err))
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Sorry, there was an error sending your message. Please try again later.",
			})
			return
		}

		err = a.mailer.Send(msg)
		switch {
		case errors.Is(err, ErrMailNotConfigured):
			// Mail is optional; the message is already stored.
			a.log.Warn("contact message stored without mail", zap.String("id", msg.ID))
		case err != nil:
			a.log.Error("mail contact message", zap.String("id", msg.ID), zap.Error(err))
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Sorry, there was an error sending your message. Please try again later.",
			})
			return
		default:
			a.log.Info("contact message sent", zap.String("id", msg.ID))
		}

		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"success": "Thank you for your message! I'll get back to you soon.",
		})
	})

	return r
}
