// @title DoomLife Pulse API
// @description Streaks, posts and prediction plays for the doom/life feed
// @BasePath /api/v1
// @schemes http
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/doomlife/pulse/internal/api"
	"github.com/doomlife/pulse/internal/repository"
	"github.com/doomlife/pulse/internal/service"
	"github.com/doomlife/pulse/internal/trending"
	"github.com/doomlife/pulse/pkg/cleanup"
	"github.com/doomlife/pulse/pkg/config"
	jwtservice "github.com/doomlife/pulse/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	stateStore := repository.NewStateStore(
		cfg.GetString("STATE_STORE_BACKEND"),
		&dbCfg,
		cfg.GetString("REDIS_ADDRESS"),
		cfg.GetString("REDIS_PASSWORD"),
	)

	board := trending.NewBoard()
	userService := service.NewUserService(repository.NewUsersRepo(&dbCfg))
	streakService := service.NewStreakService(stateStore)
	postsService := service.NewPostsService(repository.NewPostsRepo(&dbCfg), stateStore, streakService, board)
	betsService := service.NewBetsService(stateStore, uint16(cfg.GetInt("BET_FEE_BPS", 200)))

	scheduler := cron.New()
	// Past-midnight sweep lapses streaks left beyond the grace window.
	_, err := scheduler.AddFunc("5 0 * * *", func() {
		streakService.ReconcileLoaded(context.Background())
		slog.Info("streak sweep finished")
	})
	if err != nil {
		log.Fatal("scheduling streak sweep: " + err.Error())
	}
	_, err = scheduler.AddFunc("@hourly", func() {
		dropped := board.Compact()
		slog.Info("trending board compacted", slog.Int("dropped", dropped))
	})
	if err != nil {
		log.Fatal("scheduling trending compaction: " + err.Error())
	}
	scheduler.Start()
	cleanup.Register(&cleanup.Job{
		Name: "scheduler",
		F: func() error {
			scheduler.Stop()
			return nil
		},
	})

	serv := api.New(&api.ServicesList{
		UserService:   userService,
		StreakService: streakService,
		PostsService:  postsService,
		BetsService:   betsService,
		JwtService:    jwtservice.New(cfg.GetString("JWT_SECRET")),
		Board:         board,
	})
	go func() {
		if err := serv.Run(cfg.GetString("API_ADDRESS")); err != nil {
			log.Println("Server error: " + err.Error())
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")
	cleanup.CleanUp()
}
