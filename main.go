package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trello-project/microservices/planner-service/ai"
	"trello-project/microservices/planner-service/config"
	"trello-project/microservices/planner-service/handlers"
	"trello-project/microservices/planner-service/interfaces"
	"trello-project/microservices/planner-service/logging"
	"trello-project/microservices/planner-service/middleware"
	"trello-project/microservices/planner-service/repositories"
	"trello-project/microservices/planner-service/services"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_INVALID, Description: %v", err)
	}
	logging.InitLogger("planner-service", cfg.LogFile)
	handlers.ExposeInternalErrors = cfg.IsDevelopment()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Connected to MongoDB database %s", cfg.MongoDBName)

	db := client.Database(cfg.MongoDBName)
	projectRepo := repositories.NewProjectRepository(db.Collection("projects"))
	taskRepo := repositories.NewTaskRepository(db.Collection("tasks"))
	userRepo := repositories.NewUserRepository(db.Collection("users"))
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}

	blackList := map[string]bool{}
	if cfg.PasswordBlacklist != "" {
		blackList, err = services.LoadBlackList(cfg.PasswordBlacklist)
		if err != nil {
			logging.Logger.Fatalf("Event ID: BLACKLIST_LOAD_FAILED, Description: Failed to load password blacklist: %v", err)
		}
	}

	var graph interfaces.DependencyGraph
	if cfg.Neo4jEnabled() {
		driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
		if err != nil {
			logging.Logger.Fatalf("Event ID: NEO4J_DRIVER_FAILED, Description: Failed to create Neo4j driver: %v", err)
		}
		dependencyRepo := repositories.NewDependencyRepository(driver)
		defer dependencyRepo.Close(context.Background())
		graph = dependencyRepo
	} else {
		logging.Logger.Info("Event ID: NEO4J_DISABLED, Description: No Neo4j configured, dependency routes answer 503")
	}

	var notificationService *services.NotificationService
	var notifier services.Notifier
	if cfg.CassandraEnabled() {
		notificationRepo, err := repositories.NewNotificationRepo(cfg.CassandraHosts)
		if err != nil {
			logging.Logger.Fatalf("Event ID: CASSANDRA_CONNECTION_FAILED, Description: %v", err)
		}
		defer notificationRepo.CloseSession()
		if err := notificationRepo.CreateTable(); err != nil {
			logging.Logger.Fatalf("Event ID: CASSANDRA_TABLE_FAILED, Description: %v", err)
		}
		notificationService = services.NewNotificationService(notificationRepo)
		notifier = notificationService
	} else {
		logging.Logger.Info("Event ID: CASSANDRA_DISABLED, Description: No Cassandra configured, notifications are off")
	}

	selector := ai.DetectModelRuntime(context.Background(), ai.NewModelClient(cfg.ModelServerURL, nil), cfg.ModelProbeTimeout)
	predictors := ai.NewPredictors(selector)
	store := ai.Store{Projects: projectRepo, Tasks: taskRepo, Users: userRepo}
	if graph != nil {
		store.Graph = graph
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	projectService := services.NewProjectService(projectRepo, taskRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, projectService, graph, notifier)

	router := handlers.NewRouter(handlers.Handlers{
		Users:    handlers.NewUserHandler(services.NewUserService(userRepo, jwtService, blackList)),
		Projects: handlers.NewProjectHandler(projectService),
		Tasks:    handlers.NewTaskHandler(taskService),
		AI: handlers.NewAIHandler(projectService, taskService,
			ai.NewDurationEstimator(store, predictors.Duration),
			ai.NewTaskSuggester(store, predictors.Classifier, ai.NewRandomSource(uint64(time.Now().UnixNano()))),
			ai.NewWorkflowAnalyzer(store, predictors.Scorer)),
		Workflow:      handlers.NewWorkflowHandler(projectService, taskService, graph),
		Notifications: handlers.NewNotificationHandler(notificationService),
	}, handlers.RouterOptions{
		Validator:  jwtService,
		Limiter:    middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		CORSOrigin: cfg.CORSOrigin,
	})

	srv := &http.Server{
		Handler:      router,
		Addr:         ":" + cfg.ServerPort,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	go func() {
		logging.Logger.Infof("Event ID: SERVER_STARTED, Description: Planner service running on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatalf("Event ID: SERVER_FAILED, Description: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_SHUTDOWN_FAILED, Description: %v", err)
	}
	logging.Logger.Info("Event ID: SERVER_STOPPED, Description: Planner service stopped")
}
