package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	cartApp "github.com/LeHongMinh-ST/ca-eco/internal/cart/application"
	cartHttp "github.com/LeHongMinh-ST/ca-eco/internal/cart/infra/inbound/http"
	"github.com/LeHongMinh-ST/ca-eco/internal/cart/infra/outbound/catalog"
	cartRepo "github.com/LeHongMinh-ST/ca-eco/internal/cart/infra/outbound/db/sqlrepo"
	"github.com/LeHongMinh-ST/ca-eco/internal/config"
	inventoryApp "github.com/LeHongMinh-ST/ca-eco/internal/inventory/application"
	inventoryHttp "github.com/LeHongMinh-ST/ca-eco/internal/inventory/infra/inbound/http"
	inventoryRepo "github.com/LeHongMinh-ST/ca-eco/internal/inventory/infra/outbound/db/sqlrepo"
	orderApp "github.com/LeHongMinh-ST/ca-eco/internal/order/application"
	orderEvents "github.com/LeHongMinh-ST/ca-eco/internal/order/infra/inbound/events"
	orderHttp "github.com/LeHongMinh-ST/ca-eco/internal/order/infra/inbound/http"
	orderCart "github.com/LeHongMinh-ST/ca-eco/internal/order/infra/outbound/cart"
	orderRepo "github.com/LeHongMinh-ST/ca-eco/internal/order/infra/outbound/db/sqlrepo"
	productApp "github.com/LeHongMinh-ST/ca-eco/internal/product/application"
	productHttp "github.com/LeHongMinh-ST/ca-eco/internal/product/infra/inbound/http"
	productRepo "github.com/LeHongMinh-ST/ca-eco/internal/product/infra/outbound/db/sqlrepo"
	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	sharedEvents "github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/analytics/clickhouse"
	infraEvents "github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/events"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/outbox"
	sharedBus "github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/bus"
	sharedCache "github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/cache"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/db/mongodb"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/db/sqldb"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/relayer"
	userApp "github.com/LeHongMinh-ST/ca-eco/internal/user/application"
	userHttp "github.com/LeHongMinh-ST/ca-eco/internal/user/infra/inbound/http"
	userRepo "github.com/LeHongMinh-ST/ca-eco/internal/user/infra/outbound/db/sqlrepo"
	"github.com/LeHongMinh-ST/ca-eco/pkg/logger"
	"github.com/LeHongMinh-ST/ca-eco/pkg/tracing"
)

const serviceName = "ordersaga"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger.Init(cfg.IsProduction())
	log := logger.Logger()
	defer log.Sync()

	// ---------------- Tracing ----------------
	shutdownTracing, err := tracing.Setup(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Warn("⚠️ Tracing no disponible", zap.Error(err))
	}
	defer shutdownTracing(context.Background())

	// ---------------- DB ----------------
	dialect, err := sqldb.ParseDialect(cfg.DBDriver)
	if err != nil {
		log.Fatal("invalid DB_DRIVER", zap.Error(err))
	}
	db, err := openDB(ctx, dialect, cfg)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()
	writer := outbox.NewWriter(db, dialect)

	// ---------------- Cache ----------------
	var orderCache sharedCache.Cache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("⚠️ Redis no disponible, cache en memoria", zap.Error(err))
		mem := sharedCache.NewInMemoryCache(time.Duration(cfg.CacheTTL)*time.Second, 3*time.Duration(cfg.CacheTTL)*time.Second)
		defer mem.Stop()
		orderCache = mem
	} else {
		orderCache = sharedCache.NewRedisCache(rdb, serviceName+":")
		log.Info("✅ Redis conectado, cache habilitado")
	}
	defer rdb.Close()

	// --------------- Servicios --------------
	users := userApp.NewUserService(userRepo.NewUserRepoSQL(writer), orderCache, log)
	products := productApp.NewProductService(productRepo.NewProductRepoSQL(writer), log)
	inventoryStore := inventoryRepo.NewInventoryRepoSQL(writer)
	stock := inventoryApp.NewInventoryService(inventoryStore, log)
	carts := cartApp.NewCartService(cartRepo.NewCartRepoSQL(writer), catalog.NewProductCatalog(products), log)
	orderStore := orderRepo.NewOrderRepoSQL(writer)
	orders := orderApp.NewOrderService(orderStore, orderCart.NewCartAdapter(carts), stock, orderCache, cfg.CacheTTL, log)

	// ---------------- Events ---------------
	bus, closeBus := startBus(ctx, cfg, orders, log)
	defer closeBus()

	// ------------ Outbox processor ------------
	registry := buildRegistry(sagaDeps{
		orders:     orderStore,
		inventory:  inventoryStore,
		dispatcher: writer,
		stock:      stock,
		carts:      carts,
		forwarder:  infraEvents.NewIntegrationForwarder(bus, log),
	}, log)

	opts := []relayer.Option{relayer.WithMaxRetries(cfg.OutboxMaxRetries)}
	deliveryLog, closeDeliveryLog := openDeliveryLog(ctx, cfg, log)
	defer closeDeliveryLog()
	if deliveryLog != nil {
		opts = append(opts, relayer.WithDeliveryLog(deliveryLog))
	}
	processor := relayer.NewProcessor(sqldb.NewOutboxRepoSQL(db, dialect), registry, cfg.OutboxPeriod, cfg.OutboxLimit, log, opts...)
	go processor.Start(ctx)

	// ---------------- HTTP ----------------
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	userHttp.RegisterUserRoutes(router, userHttp.NewUserHandler(users))
	productHttp.RegisterProductRoutes(router, productHttp.NewProductHandler(products))
	inventoryHttp.RegisterInventoryRoutes(router, inventoryHttp.NewInventoryHandler(stock))
	cartHttp.RegisterCartRoutes(router, cartHttp.NewCartHandler(carts))
	orderHttp.RegisterOrderRoutes(router, orderHttp.NewOrderHandler(orders))

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: router}
	go func() {
		log.Info("🚀 Server running", zap.String("url", "http://localhost:"+cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("🛑 Apagando...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("❌ Error al apagar el servidor HTTP", zap.Error(err))
	}
}

func openDB(ctx context.Context, dialect sqldb.Dialect, cfg *config.Config) (*sql.DB, error) {
	dsn := cfg.SQLitePath
	if dialect == sqldb.Postgres {
		dsn = cfg.DatabaseURL
	}
	db, err := sqldb.Open(dialect, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := sqldb.Migrate(ctx, db, dialect); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// startBus arranca el bus de integración (Kafka o en memoria) y el consumidor que
// invalida la caché de pedidos.
func startBus(ctx context.Context, cfg *config.Config, orders *orderApp.OrderService, log *zap.Logger) (sharedBus.EventBus, func()) {
	consumer := orderEvents.NewOrderConsumer(orders, log)

	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos", zap.Strings("brokers", cfg.KafkaBrokers))
		publisher := infraEvents.NewKafkaPublisher(infraEvents.NewKafkaWriter(cfg.KafkaBrokers), "events", log)
		reader := infraEvents.NewKafkaReader(cfg.KafkaBrokers, cfg.KafkaGroupID, sharedEvents.OrderTopic)
		infraEvents.NewConsumerAdapter(reader, consumer, log).Start(ctx)
		return publisher, func() { publisher.Close() }
	}

	log.Info("⚡️Usando bus de eventos en memoria (canales de Go)")
	bus := infraEvents.NewInMemoryEventBus()
	orderEvents.BackgroundConsumerChan(ctx, bus.Subscribe(100), consumer)
	return bus, bus.Close
}

// openDeliveryLog devuelve nil si DELIVERY_LOG=none o si el destino no responde.
func openDeliveryLog(ctx context.Context, cfg *config.Config, log *zap.Logger) (sharedDomain.DeliveryLog, func()) {
	noop := func() {}
	switch cfg.DeliveryLog {
	case config.DeliveryLogClickHouse:
		repo, err := clickhouse.NewDeliveryAnalyticsRepo(cfg.ClickHouseAddr, cfg.ClickHouseDB)
		if err != nil {
			log.Warn("⚠️ ClickHouse no disponible, sin registro de entregas", zap.Error(err))
			return nil, noop
		}
		if err := repo.InitSchema(ctx); err != nil {
			log.Warn("⚠️ No se pudo crear la tabla de entregas", zap.Error(err))
		}
		log.Info("✅ Registro de entregas en ClickHouse")
		return repo, func() { repo.Close() }

	case config.DeliveryLogMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Warn("⚠️ MongoDB no disponible, sin registro de entregas", zap.Error(err))
			return nil, noop
		}
		closeClient := func() { client.Disconnect(context.Background()) }
		repo, err := mongodb.NewDeliveryLogMongo(ctx, client, cfg.MongoDB)
		if err != nil {
			log.Warn("⚠️ MongoDB no disponible, sin registro de entregas", zap.Error(err))
			closeClient()
			return nil, noop
		}
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn("⚠️ No se pudieron crear los índices de entregas", zap.Error(err))
		}
		log.Info("✅ Registro de entregas en MongoDB")
		return repo, closeClient

	default:
		return nil, noop
	}
}
