// Эталонный сервер для HTTP RemoteStore клиента.
//
// POST   /api/v1/auth/register                          # Регистрация (публичный)
// POST   /api/v1/auth/login                             # Логин (публичный)
// GET    /api/v1/health                                 # Проверка БД (публичный)
// GET    /api/v1/sources | PUT,DELETE /sources/{id}     # Источники (auth)
// GET    /api/v1/themes  | PUT,DELETE /themes/{id}      # Темы (auth)
// GET    /api/v1/source-themes | PUT,DELETE /source-themes/{source_id}/{theme_id}
// GET    /api/v1/articles?limit=N | PUT /api/v1/articles
// GET    /api/v1/favorites  | PUT,DELETE /favorites/{article_id}
// GET    /api/v1/read-marks | PUT,DELETE /read-marks/{article_id}
// GET    /metrics                                       # Prometheus

package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"

	articleAPI "feedkeeper/internal/app/server/api/http/article"
	healthAPI "feedkeeper/internal/app/server/api/http/health"
	markAPI "feedkeeper/internal/app/server/api/http/mark"
	"feedkeeper/internal/app/server/api/http/middleware"
	"feedkeeper/internal/app/server/api/http/middleware/auth"
	"feedkeeper/internal/app/server/api/http/middleware/logger"
	metricsMW "feedkeeper/internal/app/server/api/http/middleware/metrics"
	sourceAPI "feedkeeper/internal/app/server/api/http/source"
	themeAPI "feedkeeper/internal/app/server/api/http/theme"
	userAPI "feedkeeper/internal/app/server/api/http/user"
	"feedkeeper/internal/domain/news"
	"feedkeeper/internal/domain/session"
	"feedkeeper/internal/domain/user"
	"feedkeeper/internal/infrastructure/storage/postgres"
)

type Handlers struct {
	Health  *healthAPI.Handler
	User    *userAPI.Handler
	Source  *sourceAPI.Handler
	Theme   *themeAPI.Handler
	Article *articleAPI.Handler
	Mark    *markAPI.Handler
}

// New создает *chi.Mux со всеми операциями через huma.Register и /metrics
func New(storage *postgres.Storage, sessions session.Servicer, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)

	config := huma.DefaultConfig("FeedKeeper API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(storage, sessions, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Source.SetupRoutes(API)
	h.Theme.SetupRoutes(API)
	h.Article.SetupRoutes(API)
	h.Mark.SetupRoutes(API)

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func handlers(storage *postgres.Storage, sessions session.Servicer, log *slog.Logger) *Handlers {
	authMW := auth.New(sessions, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(metricsMW.Middleware(), loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(storage, log, middlewares.GetAllAndClear())

	userRepo := postgres.NewUserRepository(storage, log)
	userService := user.NewService(userRepo, user.NewPasswordValidator(), log)
	middlewares.Add(metricsMW.Middleware(), loggerMW.Middleware())
	userHandler := userAPI.NewHandler(userService, sessions, log, middlewares.GetAllAndClear())

	// Все операции с данными пользователя идут через один сервис и auth
	newsRepo := postgres.NewNewsRepository(storage, log)
	newsService := news.NewService(newsRepo, log)
	protected := func() huma.Middlewares {
		middlewares.Add(metricsMW.Middleware(), loggerMW.Middleware(), authMW.Middleware())
		return middlewares.GetAllAndClear()
	}

	return &Handlers{
		Health:  healthHandler,
		User:    userHandler,
		Source:  sourceAPI.NewHandler(newsService, log, protected()),
		Theme:   themeAPI.NewHandler(newsService, log, protected()),
		Article: articleAPI.NewHandler(newsService, log, protected()),
		Mark:    markAPI.NewHandler(newsService, log, protected()),
	}
}
