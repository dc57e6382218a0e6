package main

import (
	"context"
	"crm/database"
	"crm/entities/analytics"
	"crm/entities/auth"
	"crm/entities/clients"
	"crm/entities/invoices"
	"crm/entities/legacy"
	"crm/entities/opportunities"
	"crm/entities/prospects"
	"crm/entities/reports"
	"crm/entities/tickets"
	"crm/entities/users"
	"crm/mailer"
	"crm/middlewares"
	"crm/notifications"
	"crm/schemas"
	"crm/utils"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	envFile := pflag.String("env-file", ".env", "path to the environment file")
	port := pflag.String("port", "", "HTTP port, overrides PORT")
	pflag.Parse()

	utils.LoadEnvVariables(*envFile)
	if *port != "" {
		os.Setenv(utils.PORT, *port)
	}

	env := os.Getenv(utils.ENV)

	logger, err := utils.NewLogger(env)
	if err != nil {
		panic(err.Error())
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if env == utils.ENV_RELEASE {
		logger.Warn("running in PRODUCTION")
	} else {
		logger.Info("environment loaded", zap.String("env", env))
	}

	ctx, cancel := database.Timeout(context.Background())
	if err := database.ConnectMongo(ctx, os.Getenv(utils.MONGODB_URI)); err != nil {
		logger.Fatal("cannot connect to MongoDB", zap.Error(err))
	}
	if err := database.EnsureIndexes(ctx); err != nil {
		logger.Fatal("cannot create MongoDB indexes", zap.Error(err))
	}

	if uri := os.Getenv(utils.REDIS_URI); uri != "" {
		if err := database.ConnectRedis(ctx, uri); err != nil {
			logger.Warn("redis unavailable, token revocation and caching disabled", zap.Error(err))
		}
	}
	cancel()

	if uri := os.Getenv(utils.MYSQL_URI); uri != "" {
		if err := database.OpenMySQL(uri); err != nil {
			logger.Warn("legacy MySQL unavailable, import disabled", zap.Error(err))
		}
	}

	mailConfig := mailer.ConfigFromEnv()
	mailer.Configure(mailConfig)
	if !mailConfig.Enabled() {
		logger.Info("SMTP not configured, emails disabled")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", os.Getenv(utils.PORT)),
		Handler:           middlewares.RequestLogger(logger)(middlewares.SecurityHeaders(middlewares.Cors(routes()))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	notifications.Default.Close()
	database.CloseMySQL()
	database.CloseRedis()
	database.DisconnectMongo(shutdownCtx)
}

func routes() *http.ServeMux {
	mux := http.NewServeMux()

	authed := func(h http.HandlerFunc) http.Handler {
		return middlewares.Auth(h)
	}
	only := func(roles []string, h http.HandlerFunc) http.Handler {
		return middlewares.Auth(middlewares.RequireRoles(roles...)(h))
	}

	admins := []string{schemas.ROLE_ADMIN}
	managers := []string{schemas.ROLE_ADMIN, schemas.ROLE_MANAGER}
	sales := []string{schemas.ROLE_ADMIN, schemas.ROLE_MANAGER, schemas.ROLE_COMMERCIAL}
	staff := schemas.StaffRoles
	supportDesk := []string{schemas.ROLE_ADMIN, schemas.ROLE_MANAGER, schemas.ROLE_SUPPORT}

	mux.Handle("POST /v1/auth/register", http.HandlerFunc(auth.Register))
	mux.Handle("POST /v1/auth/login", http.HandlerFunc(auth.Login))
	mux.Handle("GET /v1/auth/me", authed(auth.Me))
	mux.Handle("POST /v1/auth/logout", authed(auth.Logout))
	mux.Handle("PATCH /v1/auth/password", authed(auth.ChangePassword))

	mux.Handle("GET /v1/users", only(admins, users.GetAll))
	mux.Handle("GET /v1/users/{id}", only(admins, users.GetOne))
	mux.Handle("POST /v1/users", only(admins, users.CreateOne))
	mux.Handle("PATCH /v1/users/{id}", only(admins, users.UpdateOne))
	mux.Handle("DELETE /v1/users/{id}", only(admins, users.DeleteOne))

	mux.Handle("GET /v1/prospects", only(sales, prospects.GetAll))
	mux.Handle("GET /v1/prospects/{id}", only(sales, prospects.GetOne))
	mux.Handle("POST /v1/prospects", only(sales, prospects.CreateOne))
	mux.Handle("PATCH /v1/prospects/{id}", only(sales, prospects.UpdateOne))
	mux.Handle("DELETE /v1/prospects/{id}", only(sales, prospects.DeleteOne))
	mux.Handle("POST /v1/prospects/{id}/convert", only(sales, prospects.ConvertOne))

	mux.Handle("GET /v1/opportunities", only(sales, opportunities.GetAll))
	mux.Handle("GET /v1/opportunities/{id}", only(sales, opportunities.GetOne))
	mux.Handle("POST /v1/opportunities", only(sales, opportunities.CreateOne))
	mux.Handle("PATCH /v1/opportunities/{id}", only(sales, opportunities.UpdateOne))
	mux.Handle("PATCH /v1/opportunities/{id}/stage", only(sales, opportunities.UpdateStage))
	mux.Handle("DELETE /v1/opportunities/{id}", only(sales, opportunities.DeleteOne))

	mux.Handle("GET /v1/clients", only(staff, clients.GetAll))
	mux.Handle("GET /v1/clients/me", only([]string{schemas.ROLE_CLIENT}, clients.GetMine))
	mux.Handle("GET /v1/clients/{id}", authed(clients.GetOne))
	mux.Handle("POST /v1/clients", only(sales, clients.CreateOne))
	mux.Handle("PATCH /v1/clients/{id}", only(sales, clients.UpdateOne))
	mux.Handle("DELETE /v1/clients/{id}", only(managers, clients.DeleteOne))

	mux.Handle("GET /v1/tickets", authed(tickets.GetAll))
	mux.Handle("GET /v1/tickets/{id}", authed(tickets.GetOne))
	mux.Handle("POST /v1/tickets", authed(tickets.CreateOne))
	mux.Handle("PATCH /v1/tickets/{id}", authed(tickets.UpdateOne))
	mux.Handle("POST /v1/tickets/{id}/responses", authed(tickets.AddResponse))
	mux.Handle("DELETE /v1/tickets/{id}", only(supportDesk, tickets.DeleteOne))

	mux.Handle("GET /v1/invoices", authed(invoices.GetAll))
	mux.Handle("GET /v1/invoices/{id}", authed(invoices.GetOne))
	mux.Handle("GET /v1/invoices/{id}/pdf", authed(invoices.GetPDF))
	mux.Handle("POST /v1/invoices", only(sales, invoices.CreateOne))
	mux.Handle("PATCH /v1/invoices/{id}", only(sales, invoices.UpdateOne))
	mux.Handle("POST /v1/invoices/{id}/payments", only(managers, invoices.AddPayment))
	mux.Handle("POST /v1/invoices/{id}/send", only(sales, invoices.SendOne))
	mux.Handle("POST /v1/invoices/{id}/cancel", only(managers, invoices.CancelOne))
	mux.Handle("DELETE /v1/invoices/{id}", only(managers, invoices.DeleteOne))

	mux.Handle("GET /v1/analytics/dashboard", only(managers, analytics.GetDashboard))
	mux.Handle("GET /v1/reports/{type}", only(managers, reports.GetReport))

	mux.Handle("POST /v1/legacy/prospects/import", only(admins, legacy.ImportProspects))

	mux.HandleFunc("GET /v1/ws/notifications", notifications.Default.ServeWS)

	return mux
}
