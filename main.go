package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log/level"
	"github.com/robfig/cron/v3"
	"github.com/vuzon/vuzon/apiroutes"
	"github.com/vuzon/vuzon/config"
	"github.com/vuzon/vuzon/global"
	"github.com/vuzon/vuzon/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		level.Error(global.Logger).Log("msg", "failed to load configuration", "err", err)
		os.Exit(1)
	}

	if conf.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// resolve zone/account ids once at startup when not supplied; a failure
	// here is fatal
	acCtx, acCancel := context.WithTimeout(context.Background(), 30*time.Second)
	conf, acErr := services.AutoConfigure(acCtx, conf, false)
	acCancel()
	if acErr != nil {
		level.Error(global.Logger).Log("msg", "auto-configuration failed", "domain", conf.RootDomain, "err", acErr)
		os.Exit(1)
	}

	cloudflareService := services.NewCloudflareService(conf, false)
	sessions := services.NewSessionService(conf)

	// sweep expired sessions in the background
	cronRunner := cron.New()
	cronRunner.AddFunc("@every 10m", func() {
		if purged := sessions.PurgeExpired(); purged > 0 {
			global.Logger.Log("msg", "purged expired sessions", "count", purged)
		}
	})
	cronRunner.Start()
	defer cronRunner.Stop()

	// init routing (for RESTful API endpoints)
	router := gin.Default()
	router = apiroutes.ConfigRoutes(router, conf, cloudflareService, sessions)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		Handler: router,
	}

	// server wait to shutdown monitoring channels
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if sErr := srv.Shutdown(shutdownCtx); sErr != nil {
			level.Error(global.Logger).Log("msg", "server shutdown failed", "err", sErr)
		}
		close(done)
	}()

	global.Logger.Log("msg", "server is ready to handle requests", "addr", srv.Addr, "rootDomain", conf.RootDomain)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		level.Error(global.Logger).Log("msg", "server failed", "err", err)
		os.Exit(1)
	}

	<-done
}
