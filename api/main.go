package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/rogerio-castellano/bizmanage/docs"
	"github.com/rogerio-castellano/bizmanage/internal/auth"
	"github.com/rogerio-castellano/bizmanage/internal/config"
	"github.com/rogerio-castellano/bizmanage/internal/events"
	"github.com/rogerio-castellano/bizmanage/internal/http/ban"
	"github.com/rogerio-castellano/bizmanage/internal/http/handlers"
	mw "github.com/rogerio-castellano/bizmanage/internal/http/middleware"
	rl "github.com/rogerio-castellano/bizmanage/internal/http/rate_limiter"
	"github.com/rogerio-castellano/bizmanage/internal/http/router"
	"github.com/rogerio-castellano/bizmanage/internal/insights"
	"github.com/rogerio-castellano/bizmanage/internal/logging"
	"github.com/rogerio-castellano/bizmanage/internal/redissvc"
	"github.com/rogerio-castellano/bizmanage/internal/scheduler"
)

const visitorIdleTimeout = 5 * time.Minute

// @title BizManage API
// @version 1.0
// @description REST API for managing branches, products, inventory, customers, suppliers and orders, with AI generated business insights.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configFile := flag.String("config", os.Getenv("CONFIG_FILE"), "path to an optional config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logging.Logger.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logging.Init(cfg.LogLevel)
	auth.Configure(cfg.JWTSecret, cfg.AccessTokenTTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.Storage).Msg("could not open storage")
	}
	defer st.Close()
	st.install()
	if created, err := st.ensureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("could not bootstrap admin user")
	} else if created {
		log.Info().Str("username", cfg.AdminUsername).Msg("admin user created")
	}

	redisService, err := redissvc.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to redis")
	}
	var refreshStore auth.RefreshStore = auth.NewMemoryRefreshStore()
	var banner *ban.Banner
	if redisService != nil {
		defer redisService.Close()
		refreshStore = auth.NewRedisRefreshStore(redisService.Rdb())
		banner = ban.NewBanner(redisService.Rdb(), cfg.BanStrikes, cfg.BanDuration, log)
	} else {
		log.Warn().Msg("REDIS_ADDR not set: refresh tokens kept in memory and client banning disabled")
	}
	handlers.SetRefreshStore(refreshStore)
	handlers.SetRefreshTTL(cfg.RefreshTokenTTL)
	handlers.SetLogger(log)

	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		defer publisher.Close()
		handlers.SetPublisher(publisher)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing activity events")
	}

	handlers.SetInsightService(insights.NewService(st.aggregator(), newCompleter(cfg, log), log, cfg.AITimeout))

	visitors := rl.NewVisitors(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limiter := mw.NewRateLimiter(visitors, banner, log)

	jobs := scheduler.New(log)
	mustSchedule(log, jobs, scheduler.Job{
		Name:     "visitor-cleanup",
		Schedule: scheduler.EveryMinute,
		Run: func(context.Context) error {
			visitors.Cleanup(visitorIdleTimeout)
			return nil
		},
	})
	mustSchedule(log, jobs, scheduler.Job{
		Name:     "refresh-token-purge",
		Schedule: scheduler.EveryHalfHour,
		Run: func(ctx context.Context) error {
			n, err := refreshStore.Purge(ctx)
			if n > 0 {
				log.Info().Int("purged", n).Msg("expired refresh tokens removed")
			}
			return err
		},
	})
	if banner != nil {
		mustSchedule(log, jobs, scheduler.Job{
			Name:     "daily-ban-summary",
			Schedule: scheduler.DailyBeforeMidnight,
			Run: func(ctx context.Context) error {
				_, err := banner.SendDailyBanSummary(ctx)
				return err
			},
			Timeout: time.Minute,
		})
	}
	jobs.Start()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.NewRouter(router.WithRateLimiter(limiter), router.WithLogger(log)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("storage", cfg.Storage).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	jobs.Stop(shutdownCtx)
}

// newCompleter returns the Anthropic client, or a completer that always fails when it cannot be built,
// so the insights endpoint keeps answering with the fallback payload.
func newCompleter(cfg config.Config, log zerolog.Logger) insights.Completer {
	completer, err := insights.NewAnthropicCompleter(insights.AnthropicConfig{
		APIKey:      cfg.AnthropicAPIKey,
		Model:       cfg.AIModel,
		MaxTokens:   cfg.AIMaxTokens,
		Temperature: cfg.AITemperature,
		MaxRetries:  2,
	})
	if err != nil {
		log.Error().Err(err).Str("code", insights.CodeTransport).Msg("AI client unavailable, insights will use the fallback response")
		return insights.Unavailable(err)
	}
	return completer
}

func mustSchedule(log zerolog.Logger, s *scheduler.Scheduler, job scheduler.Job) {
	if err := s.Add(job); err != nil {
		log.Fatal().Err(err).Str("job", job.Name).Msg("could not schedule job")
	}
}
