package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"storefront-service/internal/controllers/http"
	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	"storefront-service/internal/infra/cartstore"
	mmysql "storefront-service/internal/infra/mysql"
	"storefront-service/internal/infra/rabbitmq"
	mysqlrepo "storefront-service/internal/repository/mysql"
	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func storeConfigFromEnv() domain.StoreConfig {
	cfg := domain.StoreConfig{
		DeliveryEnabled: getEnv("STORE_DELIVERY_ENABLED", "true") == "true",
		PickupEnabled:   getEnv("STORE_PICKUP_ENABLED", "true") == "true",
		FeeTable:        domain.DefaultFeeTable(),
		Currency:        getEnv("STORE_CURRENCY", "BRL"),
	}

	latStr, lngStr := os.Getenv("STORE_ORIGIN_LAT"), os.Getenv("STORE_ORIGIN_LNG")
	if latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr == nil && lngErr == nil {
			cfg.Origin = &domain.Coordinates{Lat: lat, Lng: lng}
		} else {
			log.Printf("invalid store origin coordinates, delivery fees will stay indeterminate")
		}
	}
	return cfg
}

func main() {
	db, err := mmysql.NewMySQLFromEnv()
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	orderRepo := mysqlrepo.NewOrderRepository(db)
	profileRepo := mysqlrepo.NewProfileRepository(db)
	roleRepo := mysqlrepo.NewRoleRepository(db)

	requestTimeout := 5 * time.Second
	geocodeClient := infra.NewGeocodeClient(os.Getenv("GEOCODE_SERVICE_URL"), requestTimeout)
	identityClient := infra.NewIdentityClient(os.Getenv("IDENTITY_SERVICE_URL"), os.Getenv("IDENTITY_API_KEY"), requestTimeout)
	paymentClient := infra.NewPaymentClient(os.Getenv("PAYMENT_SERVICE_URL"), requestTimeout)
	menuClient := infra.NewMenuClient(os.Getenv("MENU_SERVICE_URL"), 2*time.Second)

	publisher, err := rabbitmq.NewPublisher(os.Getenv("RABBITMQ_URL"), "storefront.exchange")
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:         getEnv("REDIS_HOST", "localhost") + ":6379",
		DB:           0,
		PoolSize:     100,
		MinIdleConns: 10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	menuService := services.NewMenuService(menuClient)
	menuService.SetRedisClient(redisClient)

	cartService := services.NewCartService(cartstore.NewRedisStore(redisClient), menuService)
	feeCalculator := services.NewFeeCalculator(geocodeClient)
	resolver := services.NewGuestIdentityResolver(identityClient, profileRepo)
	checkoutService := services.NewCheckoutService(orderRepo, profileRepo, cartService, resolver, feeCalculator, paymentClient, publisher)
	orderService := services.NewOrderService(orderRepo, roleRepo, paymentClient, publisher)
	settings := services.NewStoreSettings(storeConfigFromEnv())

	handler := http.NewHandler(cartService, checkoutService, orderService, feeCalculator, settings, identityClient, redisClient)

	go func() {
		time.Sleep(5 * time.Second)
		if err := menuService.WarmupCache(context.Background(), []uint64{1, 2, 3}); err != nil {
			log.Printf("Failed to warm up menu cache: %v", err)
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	port := getEnv("PORT", "8080")
	log.Printf("Starting storefront service on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
