package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"seratus-studio/config"
	"seratus-studio/database"
	adminapi "seratus-studio/internal/api/admin"
	authapi "seratus-studio/internal/api/auth"
	downloadapi "seratus-studio/internal/api/download"
	ordersapi "seratus-studio/internal/api/orders"
	shopapi "seratus-studio/internal/api/shop"
	siteapi "seratus-studio/internal/api/site"
	routes "seratus-studio/internal/app/http"
	"seratus-studio/internal/app/http/middleware"
	"seratus-studio/internal/infra/filestore"
	"seratus-studio/internal/infra/mailer"
	"seratus-studio/internal/services/accounts"
	"seratus-studio/internal/services/appearance"
	"seratus-studio/internal/services/fulfillment"
	"seratus-studio/internal/services/ordering"
	"seratus-studio/internal/services/storefront"
	"seratus-studio/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func initLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if gin.Mode() != gin.ReleaseMode {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func initFileStore() (filestore.Store, *filestore.Opener) {
	files, err := filestore.New(filestore.Config{
		Type:        config.STORAGE_TYPE,
		PublicDir:   config.PUBLIC_DIR,
		S3Endpoint:  config.S3_ENDPOINT,
		S3Region:    config.S3_REGION,
		S3Bucket:    config.S3_BUCKET,
		S3KeyID:     config.S3_KEY_ID,
		S3AccessKey: config.S3_ACCESS_KEY,
		S3PublicURL: config.S3_PUBLIC_URL,
		S3Timeout:   config.S3_TIMEOUT,
	})
	if err != nil {
		log.Fatal().Err(err).Str("type", config.STORAGE_TYPE).Msg("failed to initialize file store")
	}
	log.Info().Str("type", config.STORAGE_TYPE).Msg("file store initialized")

	// Product files referenced by site-relative paths always live under PUBLIC_DIR.
	if _, isLocal := files.(*filestore.Local); isLocal {
		return files, filestore.NewOpener(files)
	}
	local, err := filestore.NewLocal(config.PUBLIC_DIR)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize public directory")
	}
	return files, filestore.NewOpener(files, local)
}

func main() {
	config.LoadEnv()
	initLogger(config.LOG_LEVEL)
	database.InitDB(config.DB_URL)

	repo := store.New(database.DB)
	files, assets := initFileStore()
	mail := mailer.New(mailer.Config{
		Host:     config.SMTP_HOST,
		Port:     config.SMTP_PORT,
		Username: config.SMTP_USERNAME,
		Password: config.SMTP_PASSWORD,
		FromAddr: config.SMTP_FROM,
		FromName: config.SMTP_FROM_NAME,
	})
	if !mail.Configured() {
		log.Warn().Msg("SMTP not configured, download emails will be skipped")
	}

	accountSvc := accounts.NewService(repo, config.JWT_SECRET)
	orderSvc := ordering.NewService(repo, files)
	fulfillmentSvc := fulfillment.NewService(repo, assets, mail, fulfillment.Options{
		DownloadsDir:  config.DOWNLOADS_DIR,
		WatermarkDir:  config.WATERMARK_DIR,
		TempDir:       config.TEMP_DIR,
		PublicBaseURL: config.PUBLIC_BASE_URL,
	})
	shopSvc := storefront.NewService(repo, files)
	siteSvc := appearance.NewService(repo, files)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := accountSvc.BootstrapAdmin(ctx, config.ADMIN_USERNAME, config.ADMIN_EMAIL, config.ADMIN_PASSWORD); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap admin account")
	}
	cancel()

	var google *accounts.GoogleSignIn
	if config.GoogleEnabled() {
		google = accounts.NewGoogleSignIn(accounts.GoogleConfig{
			ClientID:     config.GOOGLE_CLIENT_ID,
			ClientSecret: config.GOOGLE_CLIENT_SECRET,
			RedirectURL:  config.GOOGLE_REDIRECT_URL,
		}, accountSvc)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.MaxMultipartMemory = 16 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if _, isLocal := files.(*filestore.Local); isLocal {
		r.Static("/uploads", filepath.Join(config.PUBLIC_DIR, "uploads"))
	}
	r.Static("/downloads", config.DOWNLOADS_DIR)

	routes.RegisterRoutes(r, routes.Handlers{
		Auth: authapi.NewHandler(accountSvc, google, authapi.Options{
			CookieSecure:     config.COOKIE_SECURE,
			FrontendRedirect: config.GOOGLE_FRONTEND_REDIRECT,
		}),
		Admin:         adminapi.NewHandler(accountSvc, orderSvc),
		Orders:        ordersapi.NewHandler(orderSvc),
		Download:      downloadapi.NewHandler(fulfillmentSvc),
		Shop:          shopapi.NewHandler(shopSvc),
		Site:          siteapi.NewHandler(siteSvc),
		Authenticator: accountSvc,
	})

	log.Info().Str("port", config.PORT).Msg("server starting")
	if err := r.Run(":" + config.PORT); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
