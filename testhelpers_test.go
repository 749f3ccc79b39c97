//go:build integration

package main_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/application"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/captcha"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/config"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/database"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/booking"
	leadEvents "github.com/Sparkle-Window-Cleaning/service-booking/internal/events"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/kafka"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/notifications"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// quoteStack holds wired-up quote service components.
type quoteStack struct {
	Quotes          *application.QuoteService
	Leads           *application.LeadService
	Consumer        *leadEvents.LeadEventConsumer
	Mailbox         *mailbox
	CleanupProducer func()
}

// mailbox is a fake transactional email API that records recipients.
type mailbox struct {
	mu         sync.Mutex
	recipients []string
	srv        *httptest.Server
}

func newMailbox(t *testing.T) *mailbox {
	t.Helper()
	m := &mailbox{}
	m.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			To []struct {
				Email string `json:"email"`
			} `json:"to"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		m.mu.Lock()
		for _, to := range payload.To {
			m.recipients = append(m.recipients, to.Email)
		}
		m.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"` + uuid.NewString() + `"}`))
	}))
	t.Cleanup(m.srv.Close)
	return m
}

func (m *mailbox) sentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.recipients...)
}

// setupContainers starts PostgreSQL and Kafka testcontainers, runs the SQL
// migrations and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_quotes",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dbCfg := config.DatabaseConfig{
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_quotes",
		SSLMode:  "disable",
	}

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = database.Connect(dbCfg.DSN(), log)
		return err == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(dbCfg.DatabaseURL(), "migrations", log))

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	// Pre-create required topics.
	createTopics(t, kafkaBrokers, application.TopicLeadEvents, application.TopicFormAnalytics)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupQuoteStack wires up the full quote service stack.
func setupQuoteStack(t *testing.T, db *gorm.DB, brokers []string) *quoteStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	box := newMailbox(t)
	email := notifications.NewEmailClient(config.EmailConfig{
		APIURL:        box.srv.URL,
		APIKey:        "test-key",
		SenderEmail:   "quotes@sparkle.example",
		BusinessEmail: "office@sparkle.example",
		Sandbox:       true,
	})

	leadRepo := repository.NewGormLeadRepository(db)
	producer := kafka.NewProducer(brokers, logger)
	quotes := application.NewQuoteService(
		leadRepo,
		booking.NewStandardPricingStrategy(booking.DefaultPricingConfig()),
		booking.NewFormValidator(),
		captcha.NewVerifier(config.CaptchaConfig{}),
		email,
		producer,
		logger,
	)
	leads := application.NewLeadService(leadRepo, email, producer, logger)

	groupID := fmt.Sprintf("test-quotes-%s", uuid.New().String()[:8])
	consumer := leadEvents.NewLeadEventConsumer(brokers, groupID, leads, logger)

	return &quoteStack{
		Quotes:          quotes,
		Leads:           leads,
		Consumer:        consumer,
		Mailbox:         box,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// waitForNotified polls the leads table until notified_at is set.
func waitForNotified(t *testing.T, db *gorm.DB, reference string, timeout time.Duration) repository.LeadModel {
	t.Helper()
	var result repository.LeadModel
	require.Eventually(t, func() bool {
		var model repository.LeadModel
		if err := db.Where("reference = ?", reference).First(&model).Error; err != nil {
			return false
		}
		if model.NotifiedAt != nil {
			result = model
			return true
		}
		return false
	}, timeout, 200*time.Millisecond, "lead %s was never marked notified", reference)
	return result
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		var ce kafka.CloudEvent
		if err := json.Unmarshal(msg.Value, &ce); err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
