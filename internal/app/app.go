package app

import (
	"context"
	"log/slog"

	httpapp "odoo_gallery/internal/app/http"
	"odoo_gallery/internal/config"
	"odoo_gallery/internal/lib/logger/sl"
	"odoo_gallery/internal/odoo"
	"odoo_gallery/internal/odoo/rpc"
	"odoo_gallery/internal/repository"
	gallery "odoo_gallery/internal/services/gallery_service"
	token "odoo_gallery/internal/services/token_service"
	user "odoo_gallery/internal/services/user_service"
	filestorage "odoo_gallery/internal/storage/filestorage"
	redisapp "odoo_gallery/internal/storage/redis"
	httprouters "odoo_gallery/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server
	repo       *repository.Repository
	redis      *redisapp.Client
}

func New(log *slog.Logger, cfg *config.Config) *App {
	const op = "app.New"

	redisClient := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
	if err := redisClient.HealthCheck(context.Background()); err != nil {
		panic(err)
	}

	repo, err := repository.NewRepository(context.Background(), cfg.DSN)
	if err != nil {
		panic(err)
	}

	archive, err := filestorage.NewLocalFileStorage(cfg.Archive.BaseDir, cfg.Archive.MaxSize)
	if err != nil {
		panic(err)
	}

	sessions := odoo.NewSessionStore()
	rpcClient := rpc.New(log, cfg.Odoo.RequestTimeout)
	odooClient := odoo.NewClient(log, rpcClient, sessions)

	tokenRepo := repository.NewRedisTokenRepo(redisClient)
	sessionRepo := repository.NewRedisSessionRepo(redisClient)

	userService := user.NewUserService(log, odooClient, sessions, sessionRepo)
	galleryService := gallery.NewGalleryService(log, odooClient, sessions, repo.Journal, archive)
	tokenService := token.NewTokenService(tokenRepo, cfg.Secret)

	routers := httprouters.NewRouter(log, userService, galleryService, tokenService)

	server := httpapp.New(log, cfg.Secret, cfg.HTTP.Host, cfg.HTTP.Port, routers)

	log.Info(op, slog.String("env", cfg.Env))

	return &App{
		HTTPServer: server,
		repo:       repo,
		redis:      redisClient,
	}
}

func (a *App) Stop(log *slog.Logger) {
	if err := a.HTTPServer.Stop(); err != nil {
		log.Error("failed to stop http server", sl.Err(err))
	}

	a.repo.Close()
	a.redis.Close()
}
