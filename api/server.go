package api

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/VellaPay/VellaPay-Backend/db"
	"github.com/VellaPay/VellaPay-Backend/models"
	"github.com/VellaPay/VellaPay-Backend/providers"
	"github.com/VellaPay/VellaPay-Backend/providers/bills"
	"github.com/VellaPay/VellaPay-Backend/providers/fiat"
	"github.com/VellaPay/VellaPay-Backend/services/catalog"
	"github.com/VellaPay/VellaPay-Backend/services/gateway"
	"github.com/VellaPay/VellaPay-Backend/services/ledger"
	"github.com/VellaPay/VellaPay-Backend/services/monitoring/logging"
	"github.com/VellaPay/VellaPay-Backend/services/notification"
	redis_service "github.com/VellaPay/VellaPay-Backend/services/redis"
	"github.com/VellaPay/VellaPay-Backend/services/transaction"
	user_service "github.com/VellaPay/VellaPay-Backend/services/user"
	"github.com/VellaPay/VellaPay-Backend/services/wallet"
	"github.com/VellaPay/VellaPay-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

var TokenController *utils.JWTToken

type Server struct {
	router       *gin.Engine
	store        *db.Store
	config       *utils.Config
	logger       *logging.Logger
	provider     *providers.ProviderService
	users        *user_service.UserService
	wallets      *wallet.WalletService
	transactions *transaction.TransactionService
	catalog      *catalog.CatalogService
}

func NewServer(envPath string) *Server {
	c, err := utils.LoadConfig(envPath)
	if err != nil {
		panic(fmt.Sprintf("Could not load config: %v", err))
	}

	conn, err := sql.Open(c.DBDriver, utils.GetDBSource(c, c.DBName))
	if err != nil {
		panic(fmt.Sprintf("Could not load DB: %v", err))
	}

	m, err := migrate.New(
		"file://db/migrations",
		utils.GetDBSource(c, c.DBName),
	)
	if err != nil {
		log.Fatalf("Unable to instantiate the database schema migrator - %v", err)
	}

	if err := m.Up(); err != nil {
		if err != migrate.ErrNoChange {
			log.Fatalf("Unable to migrate up to the latest database schema - %v", err)
		}
	}

	store := db.NewStore(conn)
	g := gin.Default()
	l := logging.NewLogger()
	l.Info("configuration loaded", c.Redact())

	p := providers.NewProviderService()
	billProvider := bills.NewBillProvider(l)
	paystack := fiat.NewPaystackProvider(l)
	flutterwave := fiat.NewFlutterwaveProvider(l)
	p.AddProvider(billProvider)
	p.AddProvider(paystack)
	p.AddProvider(flutterwave)

	var redisService *redis_service.RedisService
	if c.RedisHost != "" {
		redisService, err = redis_service.NewRedisService(&redis_service.RedisConfig{
			Host:     c.RedisHost,
			Port:     c.RedisPort,
			Password: c.RedisPassword,
		})
		if err != nil {
			l.Error("redis unavailable, catalog will serve from the local cache only", err)
		}
	}

	catalogService := catalog.NewCatalogService(billProvider, redisService, l)
	go catalogService.StartRefreshLoop(context.Background())

	ledgerStore := ledger.NewPostgresStore(store, l)
	walletService := wallet.NewWalletService(ledgerStore, l)

	var retryConfig gateway.RetryConfig
	if err := utils.LoadCustomConfig(envPath, &retryConfig); err != nil {
		l.Error("could not load gateway retry config, using defaults", err)
	}

	providerGateway := gateway.NewProviderGateway(
		billProvider,
		[]fiat.Collector{paystack, flutterwave},
		catalogService,
		retryConfig.Policy(),
		l,
	)

	salt := c.ReferenceSalt
	if salt == "" {
		// references only need a per-process encoding salt; a random one
		// serves when none is configured
		salt = utils.GenerateRandomString(16)
	}

	refs, err := utils.NewRequestReference(salt)
	if err != nil {
		panic(fmt.Sprintf("Could not build reference generator: %v", err))
	}

	userService := user_service.NewUserService(store, l)
	transactionService := transaction.NewTransactionService(
		ledgerStore,
		walletService,
		providerGateway,
		transaction.NewPostgresRequestRepository(store),
		refs,
		l,
	).WithNotifier(notification.NewReceiptNotifier(userService, c, l))

	g.Use(CORSMiddleware())
	g.Use(l.LoggingMiddleWare())

	TokenController = utils.NewJWTToken(c)

	return &Server{
		router:       g,
		store:        store,
		config:       c,
		logger:       l,
		provider:     p,
		users:        userService,
		wallets:      walletService,
		transactions: transactionService,
		catalog:      catalogService,
	}
}

func (s *Server) Start() {

	dr := models.SuccessResponse{
		Status:  "success",
		Message: "Welcome to VellaPay!",
		Version: utils.REVISION,
	}

	s.router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dr)
	})

	/// Register Object Routers Below
	Auth{}.router(s)
	Wallet{}.router(s)
	Bills{}.router(s)
	Transactions{}.router(s)
	Profile{}.router(s)
	Webhooks{}.router(s)

	s.router.Run(fmt.Sprintf(":%v", s.config.ServerPort))
}
