package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	kafkarepo "instalytics-backend/internal/repo/kafka"
	"instalytics-backend/internal/repo/postgres"
	"instalytics-backend/internal/usecase/service"
	"instalytics-backend/internal/usecase/service/starapi"
	"instalytics-backend/pkg/connector"
	"instalytics-backend/pkg/goosehelper"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func init() {
	// Загружаем переменные окружения
	err := godotenv.Load()
	if err != nil {
		log.Info(".env файл не обнаружен")
	}

	// Выполнить миграции при старте
	dbConnectDSN := os.Getenv("DB_CONNECT_DSN")
	DBConn, err := connector.GetPostgresConnector(dbConnectDSN)
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	// Получаем *sql.DB из *sqlx.DB
	sqldb := DBConn.DB
	migrationsDir := "./migrations"
	if err := goosehelper.MigrateUp(sqldb, migrationsDir); err != nil {
		log.Fatalf("Ошибка при применении миграций: %v", err)
	}
	if err := DBConn.Close(); err != nil {
		log.Fatalf("Ошибка при закрытии соединения с базой данных: %v", err)
	}
}

func main() {
	// Настройка контекста для graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	// Получаем переменные окружения
	dbConnectDSN := os.Getenv("DB_CONNECT_DSN")
	starAPIURL := os.Getenv("STAR_API_URL")
	starAPIKey := os.Getenv("STAR_API_KEY")
	kafkaBrokers := strings.Split(os.Getenv("KAFKA_BROKERS"), ",")
	workerID := os.Getenv("COLLECTOR_WORKER_ID")
	workerIntervalStr := os.Getenv("COLLECTOR_WORKER_INTERVAL")

	if dbConnectDSN == "" {
		log.Fatal("DB_CONNECT_DSN переменная окружения обязательна")
	}
	if starAPIURL == "" {
		log.Fatal("STAR_API_URL переменная окружения обязательна")
	}

	if workerID == "" {
		hostname, err := os.Hostname()
		if err != nil {
			workerID = fmt.Sprintf("collector-worker-%d", time.Now().Unix())
		} else {
			workerID = fmt.Sprintf("collector-worker-%s-%d", hostname, time.Now().Unix())
		}
	}

	// Парсим интервал обработки задач (по умолчанию 30 секунд)
	workerInterval := 30 * time.Second
	if workerIntervalStr != "" {
		if parsedInterval, err := time.ParseDuration(workerIntervalStr); err == nil {
			workerInterval = parsedInterval
		} else {
			log.Warnf("Неверный формат COLLECTOR_WORKER_INTERVAL: %s, используется 30s", workerIntervalStr)
		}
	}

	log.Infof("Запуск воркера сбора данных с ID: %s, интервал: %s", workerID, workerInterval)

	// Подключение к базе данных
	dbConn, err := connector.GetPostgresConnector(dbConnectDSN)
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			log.Errorf("Ошибка при закрытии соединения с базой данных: %v", err)
		}
	}()

	// Подключение к MinIO
	minioClient, err := connector.GetMinioConnector(
		os.Getenv("MINIO_ENDPOINT"),
		os.Getenv("MINIO_ACCESS_KEY"),
		os.Getenv("MINIO_SECRET_KEY"),
		os.Getenv("MINIO_USE_SSL") == "true",
	)
	if err != nil {
		log.Fatalf("Ошибка при подключении к MinIO: %v", err)
	}

	// Инициализация репозиториев
	postRepo := postgres.NewPost(dbConn)
	collectionRepo := postgres.NewCollection(dbConn)
	snapshotRepo, err := postgres.NewSnapshot(dbConn, minioClient)
	if err != nil {
		log.Fatalf("Ошибка при создании репозитория Snapshot: %v", err)
	}
	eventRepo, err := kafkarepo.NewCollectionEventKafkaRepository(kafkaBrokers)
	if err != nil {
		log.Fatalf("Ошибка при создании Kafka репозитория: %v", err)
	}

	// Инициализация клиента провайдера и основного сервиса сбора
	starAPIClient := starapi.NewClient(starAPIURL, starAPIKey)
	collectionUseCase := service.NewCollection(collectionRepo, postRepo, snapshotRepo, eventRepo, starAPIClient)

	// Создание и запуск воркера
	collectorWorker := service.NewCollectorWorker(collectionUseCase, workerID, workerInterval)

	log.Info("Воркер сбора данных запущен")
	collectorWorker.Start(ctx)
	log.Info("Воркер сбора данных остановлен")
}
