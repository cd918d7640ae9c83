package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"anoa.com/vidspace/internal/auth"
	"anoa.com/vidspace/internal/config"
	"anoa.com/vidspace/internal/middleware"
	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/pkg/metrics"
	"anoa.com/vidspace/pkg/ratelimit"
	objectstore "anoa.com/vidspace/pkg/storage"

	channelHttp "anoa.com/vidspace/internal/modules/channel/delivery/http"
	channelService "anoa.com/vidspace/internal/modules/channel/service"

	commentHttp "anoa.com/vidspace/internal/modules/comment/delivery/http"
	commentService "anoa.com/vidspace/internal/modules/comment/service"

	historyHttp "anoa.com/vidspace/internal/modules/history/delivery/http"
	historyService "anoa.com/vidspace/internal/modules/history/service"

	notifHttp "anoa.com/vidspace/internal/modules/notification/delivery/http"
	notifService "anoa.com/vidspace/internal/modules/notification/service"

	playlistHttp "anoa.com/vidspace/internal/modules/playlist/delivery/http"
	playlistService "anoa.com/vidspace/internal/modules/playlist/service"

	reactionHttp "anoa.com/vidspace/internal/modules/reaction/delivery/http"
	reactionService "anoa.com/vidspace/internal/modules/reaction/service"

	searchService "anoa.com/vidspace/internal/modules/search/service"

	spaceHttp "anoa.com/vidspace/internal/modules/space/delivery/http"
	spaceService "anoa.com/vidspace/internal/modules/space/service"

	subscriptionHttp "anoa.com/vidspace/internal/modules/subscription/delivery/http"
	subscriptionService "anoa.com/vidspace/internal/modules/subscription/service"

	userHttp "anoa.com/vidspace/internal/modules/user/delivery/http"
	userService "anoa.com/vidspace/internal/modules/user/service"

	videoHttp "anoa.com/vidspace/internal/modules/video/delivery/http"
	videoService "anoa.com/vidspace/internal/modules/video/service"

	viewHttp "anoa.com/vidspace/internal/modules/view/delivery/http"
	viewService "anoa.com/vidspace/internal/modules/view/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Deps are the infrastructure pieces built by main. Redis, Search, Blobs
// and Images are optional; features that need them degrade when nil.
type Deps struct {
	Store    storage.Storage
	Strategy auth.Strategy
	Sessions sessions.Store
	Redis    *redis.Client
	Search   searchService.VideoIndex
	Blobs    objectstore.VideoStorage
	Images   objectstore.ImageStorage
	// MediaDir is served under /media when blobs live on local disk.
	MediaDir string
	Metrics  *metrics.Metrics
	Log      zerolog.Logger
}

type Server struct {
	engine *gin.Engine
	http   *http.Server
	log    zerolog.Logger
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	store := deps.Store

	notificationSvc := notifService.NewNotificationService(store, deps.Redis, deps.Metrics, deps.Log)
	notificationHandler := notifHttp.NewNotificationHandler(notificationSvc, deps.Redis, cfg.AllowedOrigins)

	userSvc := userService.NewUserService(store, imagesOrBlobs(deps))
	userHandler := userHttp.NewUserHandler(userSvc)

	channelSvc := channelService.NewChannelService(store)
	channelHandler := channelHttp.NewChannelHandler(channelSvc)

	videoSvc := videoService.NewVideoService(store, deps.Blobs, deps.Images, deps.Search, notificationSvc, deps.Metrics, deps.Log)
	videoHandler := videoHttp.NewVideoHandler(videoSvc, cfg.MaxUploadMB<<20)

	viewSvc := viewService.NewViewService(store, deps.Metrics, deps.Log)
	viewHandler := viewHttp.NewViewHandler(viewSvc)

	limiter := ratelimit.New(deps.Redis, cfg.RateLimitComment)
	commentSvc := commentService.NewCommentService(store, limiter, notificationSvc, deps.Metrics, deps.Log)
	commentHandler := commentHttp.NewCommentHandler(commentSvc)

	reactionSvc := reactionService.NewReactionService(store, deps.Metrics)
	reactionHandler := reactionHttp.NewReactionHandler(reactionSvc)

	spaceSvc := spaceService.NewSpaceService(store)
	spaceHandler := spaceHttp.NewSpaceHandler(spaceSvc)

	subscriptionSvc := subscriptionService.NewSubscriptionService(store, deps.Metrics)
	subscriptionHandler := subscriptionHttp.NewSubscriptionHandler(subscriptionSvc)

	historySvc := historyService.NewHistoryService(store)
	historyHandler := historyHttp.NewHistoryHandler(historySvc)

	playlistSvc := playlistService.NewPlaylistService(store)
	playlistHandler := playlistHttp.NewPlaylistHandler(playlistSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Log))
	router.Use(middleware.Metrics(deps.Metrics))
	router.Use(sessions.Sessions(auth.SessionCookie, deps.Sessions))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "auth": deps.Strategy.Name()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if deps.MediaDir != "" {
		router.Static("/media", deps.MediaDir)
	}

	authMiddleware := middleware.NewAuthMiddleware(deps.Strategy)
	requireAuth := authMiddleware.RequireAuth()

	api := router.Group("/api")
	api.Use(authMiddleware.OptionalAuth())

	deps.Strategy.RegisterRoutes(api)
	api.GET("/auth/user", requireAuth, userHandler.GetCurrentUser)

	users := api.Group("/users/me", requireAuth)
	{
		users.PATCH("", userHandler.UpdateCurrentUser)
		users.POST("/avatar", userHandler.UploadAvatar)
		users.GET("/blocked-channels", userHandler.GetBlockedChannels)
		users.POST("/blocked-channels/:channelId", userHandler.BlockChannel)
		users.DELETE("/blocked-channels/:channelId", userHandler.UnblockChannel)
	}

	channels := api.Group("/channels")
	{
		channels.GET("", channelHandler.GetChannels)
		channels.GET("/me", requireAuth, channelHandler.GetMyChannel)
		channels.GET("/username/:username", channelHandler.GetChannelByUsername)
		channels.GET("/:id", channelHandler.GetChannel)
		channels.GET("/:id/videos", channelHandler.GetChannelVideos)
		channels.POST("", requireAuth, channelHandler.CreateChannel)
		channels.PATCH("/:id", requireAuth, channelHandler.UpdateChannel)
	}

	// Every /videos/:x route shares the :id name; gin rejects mixed wildcards.
	videos := api.Group("/videos")
	{
		videos.GET("", videoHandler.GetVideos)
		videos.GET("/search", videoHandler.SearchVideos)
		videos.GET("/subscriptions", requireAuth, videoHandler.GetSubscriptionFeed)
		videos.GET("/:id", videoHandler.GetVideo)
		videos.GET("/:id/stream", videoHandler.Stream)
		videos.POST("", requireAuth, videoHandler.CreateVideo)
		videos.POST("/upload", requireAuth, videoHandler.UploadVideo)
		videos.PATCH("/:id", requireAuth, videoHandler.UpdateVideo)
		videos.DELETE("/:id", requireAuth, videoHandler.DeleteVideo)
		videos.POST("/:id/view", viewHandler.RecordView)

		videos.GET("/:id/comments", commentHandler.GetComments)
		videos.POST("/:id/comments", requireAuth, commentHandler.CreateComment)

		videos.POST("/:id/like", requireAuth, reactionHandler.ToggleLike)
		videos.GET("/:id/like", requireAuth, reactionHandler.GetUserLike)
		videos.GET("/:id/likes", reactionHandler.GetLikeCounts)
	}

	comments := api.Group("/comments", requireAuth)
	{
		comments.PATCH("/:id", commentHandler.UpdateComment)
		comments.DELETE("/:id", commentHandler.DeleteComment)
		comments.POST("/:id/like", commentHandler.LikeComment)
	}

	spaces := api.Group("/spaces")
	{
		spaces.GET("/user/:userId", spaceHandler.GetSpacesByUser)
		spaces.GET("/:id", spaceHandler.GetSpace)
		spaces.GET("/:id/videos", spaceHandler.GetSpaceVideos)
		spaces.POST("", requireAuth, spaceHandler.CreateSpace)
		spaces.PATCH("/:id", requireAuth, spaceHandler.UpdateSpace)
		spaces.DELETE("/:id", requireAuth, spaceHandler.DeleteSpace)
	}

	subscriptions := api.Group("/subscriptions", requireAuth)
	{
		subscriptions.GET("", subscriptionHandler.GetSubscriptions)
		subscriptions.GET("/:channelId", subscriptionHandler.IsSubscribed)
		subscriptions.POST("", subscriptionHandler.Subscribe)
		subscriptions.DELETE("/:channelId", subscriptionHandler.Unsubscribe)
	}

	history := api.Group("/history", requireAuth)
	{
		history.GET("", historyHandler.GetHistory)
		history.POST("", historyHandler.AddToHistory)
		history.DELETE("", historyHandler.ClearHistory)
	}

	playlists := api.Group("/playlists")
	{
		playlists.GET("", requireAuth, playlistHandler.GetMyPlaylists)
		playlists.GET("/:id", playlistHandler.GetPlaylist)
		playlists.GET("/:id/videos", playlistHandler.GetPlaylistVideos)
		playlists.POST("", requireAuth, playlistHandler.CreatePlaylist)
		playlists.PATCH("/:id", requireAuth, playlistHandler.UpdatePlaylist)
		playlists.DELETE("/:id", requireAuth, playlistHandler.DeletePlaylist)
		playlists.POST("/:id/videos", requireAuth, playlistHandler.AddVideo)
		playlists.DELETE("/:id/videos/:videoId", requireAuth, playlistHandler.RemoveVideo)
	}

	notifications := api.Group("/notifications", requireAuth)
	{
		notifications.GET("", notificationHandler.GetNotifications)
		notifications.GET("/unread-count", notificationHandler.UnreadCount)
		notifications.PATCH("/:id/read", notificationHandler.MarkAsRead)
		notifications.PATCH("/read-all", notificationHandler.MarkAllAsRead)
	}
	// The only route that accepts ?token=; kept outside the group so the flag
	// is set before RequireAuth runs.
	api.GET("/notifications/ws", auth.AllowQueryToken(), requireAuth, notificationHandler.HandleWebSocket)

	return &Server{
		engine: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: deps.Log,
	}
}

// imagesOrBlobs lets avatars fall back to blob storage when no image CDN
// is configured.
func imagesOrBlobs(deps Deps) objectstore.ImageStorage {
	if deps.Images != nil {
		return deps.Images
	}
	if deps.Blobs != nil {
		return objectstore.NewBlobImageStorage(deps.Blobs)
	}
	return nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to shutdownTimeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.http.Addr).Msg("http server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Range", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Range", "Accept-Ranges", "Retry-After", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
