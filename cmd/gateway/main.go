package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	delivery "instalytics-backend/internal/delivery/http"
	"instalytics-backend/internal/delivery/http/utils"
	kafkarepo "instalytics-backend/internal/repo/kafka"
	"instalytics-backend/internal/repo/postgres"
	"instalytics-backend/internal/usecase/service"
	"instalytics-backend/internal/usecase/service/starapi"
	"instalytics-backend/pkg/connector"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Info(".env файл не обнаружен")
	}
	dbConnectDSN := os.Getenv("DB_CONNECT_DSN")
	jwtSecret := os.Getenv("JWT_SECRET")
	starAPIURL := os.Getenv("STAR_API_URL")
	starAPIKey := os.Getenv("STAR_API_KEY")
	kafkaBrokers := strings.Split(os.Getenv("KAFKA_BROKERS"), ",")

	// postgres
	DBConn, err := connector.GetPostgresConnector(dbConnectDSN)
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	defer func() {
		err := DBConn.Close()
		if err != nil {
			log.Fatalf("Ошибка при закрытии соединения с базой данных: %v", err)
		}
	}()

	// minio
	minioClient, err := connector.GetMinioConnector(
		os.Getenv("MINIO_ENDPOINT"),
		os.Getenv("MINIO_ACCESS_KEY"),
		os.Getenv("MINIO_SECRET_KEY"),
		os.Getenv("MINIO_USE_SSL") == "true",
	)
	if err != nil {
		log.Fatalf("Ошибка при подключении к MinIO: %v", err)
	}

	// запускаем сервисы репозиториев (подключение к базе данных)
	userRepo := postgres.NewUser(DBConn)
	postRepo := postgres.NewPost(DBConn)
	collectionRepo := postgres.NewCollection(DBConn)
	snapshotRepo, err := postgres.NewSnapshot(DBConn, minioClient)
	if err != nil {
		log.Fatalf("Ошибка при создании репозитория Snapshot: %v", err)
	}
	eventRepo, err := kafkarepo.NewCollectionEventKafkaRepository(kafkaBrokers)
	if err != nil {
		log.Fatalf("Ошибка при создании Kafka репозитория: %v", err)
	}

	// запускаем сервисы usecase (бизнес-логика)
	starAPIClient := starapi.NewClient(starAPIURL, starAPIKey)
	userUseCase := service.NewUser(userRepo)
	analyticsUseCase := service.NewAnalytics(postRepo)
	collectionUseCase := service.NewCollection(collectionRepo, postRepo, snapshotRepo, eventRepo, starAPIClient)

	// запускаем сервисы delivery (обработка запросов)
	cookieManager := utils.NewCookieManager(false)
	authManager := utils.NewAuthManager([]byte(jwtSecret), time.Hour*24*365)
	userDelivery := delivery.NewUser(userUseCase, authManager, cookieManager)
	mediaDelivery := delivery.NewMedia(analyticsUseCase, authManager)
	analyticsDelivery := delivery.NewAnalytics(analyticsUseCase, authManager)
	collectionDelivery := delivery.NewCollection(collectionUseCase, authManager)

	// REST API
	echoServer := echo.New()

	// Не более 1 МБ
	echoServer.Use(middleware.BodyLimit("1M"))
	// gzip на прием
	echoServer.Use(middleware.Decompress())
	// gzip на отдачу
	echoServer.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
	// request id
	echoServer.Use(middleware.RequestID())

	// CORS
	echoServer.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctx.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "localhost:3000")
			ctx.Response().Header().Set(echo.HeaderAccessControlAllowMethods, strings.Join([]string{
				http.MethodGet,
				http.MethodPost,
				http.MethodOptions,
			}, ","))
			ctx.Response().Header().Set(echo.HeaderAccessControlAllowHeaders, strings.Join([]string{
				echo.HeaderOrigin,
				echo.HeaderAccept,
				echo.HeaderXRequestedWith,
				echo.HeaderContentType,
				echo.HeaderAccessControlRequestMethod,
				echo.HeaderAccessControlRequestHeaders,
				echo.HeaderCookie,
				"X-Csrf",
			}, ","))
			ctx.Response().Header().Set(echo.HeaderAccessControlAllowCredentials, "true")
			ctx.Response().Header().Set(echo.HeaderAccessControlMaxAge, "86400")
			return next(ctx)
		}
	})

	// Endpoints
	api := echoServer.Group("/api")
	// users
	users := api.Group("/user")
	userDelivery.Configure(users)
	// media
	media := api.Group("/media")
	mediaDelivery.Configure(media)
	// analytics
	analytics := api.Group("/analytics")
	analyticsDelivery.Configure(analytics)
	// star-api (сбор данных у провайдера)
	starAPI := api.Group("/star-api")
	collectionDelivery.Configure(starAPI)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()
	go func(server *echo.Echo) {
		if err := server.Start("0.0.0.0:80"); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Logger.Fatalf("Сервер завершил свою работу по причине: %v\n", err)
		}
	}(echoServer)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(10)*time.Second,
	)
	defer cancel()
	if err := echoServer.Shutdown(shutdownCtx); err != nil {
		echoServer.Logger.Fatalf("Во время выключения сервера возникла ошибка: %s\n", err)
	}
}
