package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doomlife/pulse/internal/service"
	"github.com/doomlife/pulse/internal/trending"
)

type Server struct {
	mx            *chi.Mux
	userService   service.UserServiceI
	streakService service.StreakServiceI
	postsService  service.PostsServiceI
	betsService   service.BetsServiceI
	jwtService    JWTServiceI
	board         *trending.Board
}

type ServicesList struct {
	UserService   service.UserServiceI
	StreakService service.StreakServiceI
	PostsService  service.PostsServiceI
	BetsService   service.BetsServiceI
	JwtService    JWTServiceI
	Board         *trending.Board
}

func New(servicesOptions *ServicesList) *Server {
	return &Server{
		mx:            chi.NewMux(),
		userService:   servicesOptions.UserService,
		streakService: servicesOptions.StreakService,
		postsService:  servicesOptions.PostsService,
		betsService:   servicesOptions.BetsService,
		jwtService:    servicesOptions.JwtService,
		board:         servicesOptions.Board,
	}
}

func (s *Server) Run(addr string) error {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware, s.MetricsMiddleware)
	s.mx.Handle("/metrics", promhttp.Handler())
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Get("/trending", s.GetTrending)
		r.Get("/pricing/tiers", s.GetPricingTiers)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Delete("/account", s.DeleteAccount)
			r.Get("/streak", s.GetStreak)
			r.Get("/streak/milestones", s.GetMilestones)
			r.Post("/streak/claim/{days}", s.ClaimMilestone)
			r.Post("/streak/reset", s.ResetStreak)
			r.Post("/posts", s.CreatePost)
			r.Get("/posts/life/quote", s.QuoteLifePost)
			r.Post("/bets", s.PlaceBet)
			r.Post("/bets/settle", s.SettleBet)
			r.Get("/bets/stats", s.GetBetStats)
			r.Get("/bets/safeguards", s.GetSafeguards)
			r.Put("/bets/safeguards/limits", s.SetLimits)
			r.Post("/bets/safeguards/cooloff", s.StartCoolingOff)
		})
	})
	return http.ListenAndServe(addr, s.mx)
}
