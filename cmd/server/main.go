// Package main runs the tech.safi server: the public site, the Control
// Centre, the admin JSON API and the scheduled maintenance tasks.
package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/mastermind-creat/techsafi/domain/blog"
	"github.com/mastermind-creat/techsafi/domain/contact"
	"github.com/mastermind-creat/techsafi/domain/content"
	"github.com/mastermind-creat/techsafi/domain/dashboard"
	"github.com/mastermind-creat/techsafi/domain/email"
	"github.com/mastermind-creat/techsafi/domain/events"
	"github.com/mastermind-creat/techsafi/domain/health"
	"github.com/mastermind-creat/techsafi/domain/media"
	"github.com/mastermind-creat/techsafi/domain/portfolio"
	"github.com/mastermind-creat/techsafi/domain/pricing"
	"github.com/mastermind-creat/techsafi/domain/scheduler"
	"github.com/mastermind-creat/techsafi/domain/site"
	"github.com/mastermind-creat/techsafi/domain/tracing"
	"github.com/mastermind-creat/techsafi/internal/config"
	"github.com/mastermind-creat/techsafi/internal/docstore"
	"github.com/mastermind-creat/techsafi/internal/server"
	"github.com/mastermind-creat/techsafi/internal/storage"
	"github.com/mastermind-creat/techsafi/pkg/auth"
	"github.com/mastermind-creat/techsafi/pkg/logger"
)

func main() {
	// Load keeps variables already set; Overload lets .env.local win over both.
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	fx.New(
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log}
		}),

		// Infrastructure
		logger.Module,
		config.Module,
		docstore.Module,
		storage.Module,
		server.Module,
		tracing.Module,
		auth.Module,

		// Content and the admin API
		events.Module,
		content.Module,
		pricing.Module,
		portfolio.Module,
		blog.Module,
		media.Module,
		email.Module,
		contact.Module,

		// Background tasks
		scheduler.Module,

		// HTML surfaces. The site owns the catch-all route.
		dashboard.Module,
		health.Module,
		site.Module,
	).Run()
}
