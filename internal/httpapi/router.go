// Package httpapi serves plans, prices and projects as a JSON API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/studioops/internal/service"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine. mode is a gin mode (debug, release, test).
func NewRouter(plans service.PlanService, projects service.ProjectService, logger *slog.Logger, mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	r := gin.New()
	r.Use(recovery(logger), requestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	h := &handler{plans: plans, projects: projects}
	v1 := r.Group("/api/v1")
	{
		v1.POST("/plans", h.generatePlan)
		v1.GET("/plans", h.listPlans)
		v1.GET("/plans/:id", h.getPlan)
		v1.POST("/plans/:id/items", h.addItem)
		v1.PATCH("/plans/:id/items/:index", h.updateItem)
		v1.DELETE("/plans/:id/items/:index", h.deleteItem)
		v1.POST("/plans/:id/approve", h.approvePlan)

		v1.GET("/prices", h.resolvePrice)

		v1.POST("/projects", h.createProject)
		v1.GET("/projects", h.listProjects)
		v1.GET("/projects/:id", h.getProject)
		v1.GET("/projects/:id/plans", h.listProjectPlans)
	}
	return r
}

// Serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}
