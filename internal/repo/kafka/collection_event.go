package kafka

import (
	"context"
	"errors"
	"fmt"
	"instalytics-backend/internal/entity"
	"instalytics-backend/internal/repo"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	numPartitions            = 3
	desiredReplicationFactor = 3
)

type CollectionEventKafkaRepository struct {
	writer            *kafka.Writer
	readerFactory     func(username string) *kafka.Reader
	brokers           []string
	replicationFactor int
}

// topicForAccount возвращает имя топика событий сбора для аккаунта
func topicForAccount(username string) string {
	return fmt.Sprintf("collection-events-%s", username)
}

// createTopicIfNotExists создает топик, если он не существует
func createTopicIfNotExists(brokers []string, topic string, replicationFactor int) error {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	// Если топик уже существует, ничего не делаем
	partitions, err := conn.ReadPartitions(topic)
	if err != nil && !errors.Is(err, kafka.UnknownTopicOrPartition) {
		return err
	}
	if len(partitions) > 0 {
		return nil
	}

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer func() { _ = controllerConn.Close() }()

	return controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     numPartitions,
		ReplicationFactor: replicationFactor,
	})
}

func NewCollectionEventKafkaRepository(brokers []string) (repo.CollectionEvent, error) {
	if len(brokers) == 0 {
		return nil, errors.New("не предоставлены брокеры Kafka")
	}

	// Фактор репликации не может превышать число брокеров
	replicationFactor := min(len(brokers), desiredReplicationFactor)

	return &CollectionEventKafkaRepository{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
		readerFactory: func(username string) *kafka.Reader {
			// GroupID уникален на каждое подключение: подписчик получает
			// только новые события, без перечитывания истории
			groupID := fmt.Sprintf("collection-listener-%s-%d", username, time.Now().UnixNano())
			return kafka.NewReader(kafka.ReaderConfig{
				Brokers:     brokers,
				Topic:       topicForAccount(username),
				GroupID:     groupID,
				MinBytes:    1,
				MaxBytes:    10e6,
				StartOffset: kafka.LastOffset,
			})
		},
		brokers:           brokers,
		replicationFactor: replicationFactor,
	}, nil
}

func (r *CollectionEventKafkaRepository) PublishCollectionEvent(ctx context.Context, event *entity.CollectionEvent) error {
	topic := topicForAccount(event.Username)
	if err := createTopicIfNotExists(r.brokers, topic, r.replicationFactor); err != nil {
		return fmt.Errorf("ошибка при создании топика для аккаунта %s: %w", event.Username, err)
	}

	// сериализация события
	b, err := msgpack.Marshal(event)
	if err != nil {
		return err
	}

	return r.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(event.JobID),
		Value: b,
	})
}

func (r *CollectionEventKafkaRepository) SubscribeCollectionEvents(ctx context.Context, username string) (<-chan *entity.CollectionEvent, error) {
	topic := topicForAccount(username)
	if err := createTopicIfNotExists(r.brokers, topic, r.replicationFactor); err != nil {
		return nil, fmt.Errorf("ошибка при создании топика для аккаунта %s: %w", username, err)
	}

	reader := r.readerFactory(username)
	ch := make(chan *entity.CollectionEvent)
	go func() {
		defer close(ch)
		defer func() { _ = reader.Close() }()
		for {
			m, err := reader.ReadMessage(ctx)
			if err != nil {
				return
			}
			var event entity.CollectionEvent
			if err := msgpack.Unmarshal(m.Value, &event); err == nil {
				select {
				case ch <- &event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}
