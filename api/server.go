package api

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	db "github.com/Perkly/Perkly-Backend/db/sqlc"
	"github.com/Perkly/Perkly-Backend/models"
	"github.com/Perkly/Perkly-Backend/providers"
	"github.com/Perkly/Perkly-Backend/providers/ledger"
	"github.com/Perkly/Perkly-Backend/services/monitoring/logging"
	"github.com/Perkly/Perkly-Backend/services/opportunity"
	"github.com/Perkly/Perkly-Backend/services/redis"
	"github.com/Perkly/Perkly-Backend/services/rewardledger"
	"github.com/Perkly/Perkly-Backend/services/scheduler"
	"github.com/Perkly/Perkly-Backend/services/wallet"
	"github.com/Perkly/Perkly-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// / If there's a better place to access this
// / TODO, I feel the config should be the one accessible like this
var TokenController *utils.JWTToken

type Server struct {
	router   *gin.Engine
	store    *db.Store
	config   *utils.Config
	logger   *logging.Logger
	provider *providers.ProviderService

	walletService      *wallet.WalletService
	rewardService      *rewardledger.RewardLedgerService
	opportunityService *opportunity.OpportunityService
	sweeper            *scheduler.BatchScheduler
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
	p := providers.NewProviderService()

	// Set up the ledger provider with its token cache
	lp := ledger.NewLedgerProvider(l, ledger.NewTokenStore())
	p.AddProvider(lp)

	var cache *redis.RedisService
	if c.RedisHost != "" {
		cache, err = redis.NewRedisService(&redis.RedisConfig{
			Host:     c.RedisHost,
			Port:     c.RedisPort,
			Password: c.RedisPassword,
		})
		if err != nil {
			l.Warn(fmt.Sprintf("redis unavailable, balance caching disabled: %v", err))
			cache = nil
		}
	}

	rewardService := rewardledger.NewRewardLedgerService(
		rewardledger.NewSQLRepository(store),
		l,
		int32(c.MaxRetryAttempts),
	)
	walletService := wallet.NewWalletServiceWithCache(
		wallet.NewSQLWalletRepository(store),
		rewardService,
		lp,
		l,
		int32(c.MaxRetryAttempts),
		cache,
	)
	opportunityService := opportunity.NewOpportunityService(
		opportunity.NewSQLRepository(store),
		l,
	)
	sweeper := scheduler.NewBatchScheduler(
		walletService,
		rewardService,
		opportunityService,
		lp,
		l,
		scheduler.Config{
			WalletCreation: scheduler.JobConfig{
				BatchSize:   int32(c.WalletBatchSize),
				MaxInterval: time.Duration(c.WalletMaxIntervalHours) * time.Hour,
			},
			RewardTransactions: scheduler.JobConfig{
				BatchSize:   int32(c.RewardBatchSize),
				MaxInterval: time.Duration(c.RewardMaxIntervalHours) * time.Hour,
			},
		},
	)

	g.Use(CORSMiddleware())
	g.Use(l.LoggingMiddleWare())

	TokenController = utils.NewJWTToken(c)

	return &Server{
		router:             g,
		store:              store,
		config:             c,
		logger:             l,
		provider:           p,
		walletService:      walletService,
		rewardService:      rewardService,
		opportunityService: opportunityService,
		sweeper:            sweeper,
	}
}

// Sweeper exposes the batch scheduler so the entrypoint can hook it up to
// cron triggers.
func (s *Server) Sweeper() *scheduler.BatchScheduler {
	return s.sweeper
}

func (s *Server) Config() *utils.Config {
	return s.config
}

func (s *Server) Logger() *logging.Logger {
	return s.logger
}

func (s *Server) Start() {

	dr := models.SuccessResponse{
		Status:  "success",
		Message: "Welcome to Perkly!",
		Version: utils.REVISION,
	}

	s.router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dr)
	})

	/// Register Object Routers Below
	Wallet{}.router(s)
	Reward{}.router(s)

	s.router.Run(fmt.Sprintf(":%v", s.config.ServerPort))
}
