// Command server runs the scholarfed-engine HTTP facade, background cron
// jobs, and (when launched with -mcp) the Model Context Protocol server.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mileusna/crontab"

	"github.com/scholarfed/engine/app/utils/logger"
	"github.com/scholarfed/engine/config/environment_variables"
)

func main() {
	mcpMode := flag.Bool("mcp", false, "serve the MCP tool surface over stdio instead of HTTP")
	flag.Parse()

	app, err := InitializeApplication()
	if err != nil {
		logger.GetLogger().Fatalf("failed to initialize application: %v", err)
	}

	ctab := crontab.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app.Cron.Start(ctx, ctab)

	if *mcpMode {
		if err := app.MCP.ServeStdio(); err != nil {
			logger.GetLogger().Fatalf("mcp server exited: %v", err)
		}
		return
	}

	runHTTP(ctx, app)
}

func runHTTP(ctx context.Context, app *Application) {
	engine := gin.New()
	engine.Use(gin.Recovery())
	app.Router.Register(engine)

	srv := &http.Server{
		Addr:    environment_variables.EnvironmentVariables.BindAddr,
		Handler: engine,
	}

	go func() {
		logger.GetLogger().Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.GetLogger().Fatalf("http server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().Errorf("error during shutdown: %v", err)
	}
}
