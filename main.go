package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"lead_scoring/config"
	"lead_scoring/features"
	"lead_scoring/handlers"
	"lead_scoring/logger"
	"lead_scoring/repository"
	"lead_scoring/services"
)

// @title 线索评分服务 API
// @version 1.0
// @description 基于梯度提升模型和关键词重排的销售线索评分服务
// @BasePath /
// @schemes http https
func main() {
	cfg := config.Load()

	// 初始化日志系统
	if err := logger.Init(cfg); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	logger.Info("日志系统初始化成功", "level", cfg.Log.Level, "format", cfg.Log.Format, "output", cfg.Log.Output)

	artifact, err := repository.LoadModel(cfg.Model.Path)
	if err != nil {
		logger.Error("加载模型失败", "path", cfg.Model.Path, "error", err)
		os.Exit(1)
	}
	scorer, err := services.NewModelScorer(artifact, features.Default)
	if err != nil {
		logger.Error("模型与特征 schema 不一致", "path", cfg.Model.Path, "error", err)
		os.Exit(1)
	}
	logger.Info("模型加载成功",
		"path", cfg.Model.Path,
		"columns", scorer.Columns(),
		"trained_at", artifact.Meta.TrainedAt,
		"accuracy", artifact.Meta.Accuracy)

	svc := services.NewLeadService(
		services.NewValidator(features.Default, cfg.StrictCategories()),
		features.Default,
		scorer,
		repository.NewMemoryLeadStore(),
	)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(handlers.NewCORS(cfg))

	handlers.RegisterRoutes(r, svc)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Timeouts.RequestSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Timeouts.ResponseSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.Timeouts.IdleSec) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("服务器启动", "address", cfg.Server.Addr)
		logger.Info("Swagger文档可访问", "url", fmt.Sprintf("http://%s/swagger/index.html", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("收到退出信号，开始关闭服务器")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Timeouts.ShutdownSec)*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("服务器异常退出", "error", err)
		os.Exit(1)
	}
	logger.Info("服务器已关闭", "leads_recorded", svc.Health().LeadsRecorded)
}
