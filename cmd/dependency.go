package cmd

import (
	"context"
	"fmt"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"log"
	queue "museum-ticket/common/jetstream"
	"museum-ticket/common/otel"
	"museum-ticket/outbound/payment"
	"os"
	"time"
)

func newCfg(name string) *viper.Viper {
	config := viper.New()

	config.SetConfigName(name)
	config.SetConfigType("yaml")
	config.AddConfigPath(".")

	config.SetDefault("server.timezone", "Europe/Rome")
	config.SetDefault("payment.currency", "eur")
	config.SetDefault("availability.refresh.interval", 5*time.Second)
	config.SetDefault("availability.refresh.timeout", 3*time.Second)
	config.SetDefault("reservation.lock_ttl", 15*time.Minute)
	config.SetDefault("admin.token_ttl", 12*time.Hour)

	err := config.ReadInConfig()
	if err != nil {
		log.Fatalln(err)
	}

	err = os.Setenv("TZ", config.GetString("server.timezone"))
	if err != nil {
		log.Fatalln(err)
	}

	return config
}

func newLocation(cfg *viper.Viper) *time.Location {
	location, err := time.LoadLocation(cfg.GetString("server.timezone"))
	if err != nil {
		log.Fatalln(err)
	}

	return location
}

func newTracer(ctx context.Context, cfg *viper.Viper, component string) func(context.Context) error {
	shutdown, err := otel.NewTracerProvider(ctx,
		fmt.Sprintf("%s-%s", cfg.GetString("otel.service_name"), component),
		cfg.GetString("otel.endpoint"),
	)
	if err != nil {
		log.Fatalln("unable to init tracer provider", err)
	}

	return shutdown
}

func newDb(cfg *viper.Viper) *pgxpool.Pool {
	username := cfg.GetString("db.user")
	password := cfg.GetString("db.password")
	host := cfg.GetString("db.host")
	port := cfg.GetInt("db.port")
	database := cfg.GetString("db.name")
	maxConn := cfg.GetInt("db.pool.max")
	minConn := cfg.GetInt("db.pool.min")
	timezone := cfg.GetString("server.timezone")

	connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?timezone=%s",
		username, password, host, port, database, timezone)

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		log.Fatalln(err)
	}

	config.MaxConns = int32(maxConn)
	config.MinConns = int32(minConn)
	config.ConnConfig.Tracer = &otel.PgxCustomTracer{DatabaseName: database}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatalln(err)
	}

	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatalln(err)
	}

	return pool
}

func newRedis(cfg *viper.Viper) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.GetString("redis.addr"),
		Password: cfg.GetString("redis.password"),
		DB:       cfg.GetInt("redis.db"),
	})

	err := rdb.Ping(context.Background()).Err()
	if err != nil {
		log.Fatalln(err)
	}

	return rdb
}

func newNats(viper *viper.Viper) *nats.Conn {
	conn, err := nats.Connect(viper.GetString("nats.addr"))
	if err != nil {
		log.Fatalln(err)
	}

	return conn
}

func newJs(conn *nats.Conn) jetstream.JetStream {
	js, err := jetstream.New(conn)
	if err != nil {
		log.Fatalln(err)
	}

	return js
}

func createStreamWorkQueue(ctx context.Context, js jetstream.JetStream) jetstream.Stream {
	st, err := queue.CreateQueueStream(ctx, js, -1)
	if err != nil {
		panic(err)
	}

	return st
}

func newPaymentProvider(cfg *viper.Viper) *payment.StripeProvider {
	secretKey := cfg.GetString("payment.secret_key")
	if secretKey == "" {
		log.Fatalln("payment.secret_key is required")
	}

	return payment.NewStripeProvider(secretKey, nil)
}
