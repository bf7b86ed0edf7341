package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"homeland-merchant-backend/catalog"
	"homeland-merchant-backend/controller"
	"homeland-merchant-backend/dao"
	"homeland-merchant-backend/pkg/gemini"
	"homeland-merchant-backend/pkg/notify"
	"homeland-merchant-backend/scan"
	"homeland-merchant-backend/usecase"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// 1. DB Connection
	user := envOr("MYSQL_USER", "user")
	pwd := envOr("MYSQL_PWD", "password")
	host := envOr("MYSQL_HOST", "tcp(127.0.0.1:3306)")
	dbName := envOr("MYSQL_DATABASE", "homeland_db")

	dsn := fmt.Sprintf("%s:%s@%s/%s?parseTime=true&loc=Local", user, pwd, host, dbName)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		logger.Fatal("opening mysql failed", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatal("connecting to mysql failed", zap.Error(err))
	}
	logger.Info("connected to database")

	// 2. Local cart cache
	cartCache, err := dao.OpenCartCache(envOr("CART_DB_PATH", "cart.db"))
	if err != nil {
		logger.Fatal("opening cart cache failed", zap.Error(err))
	}
	defer cartCache.Close()

	// 3. OCR engine
	ctx := context.Background()
	ocr, err := gemini.NewClient(ctx, os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		logger.Fatal("creating gemini client failed", zap.Error(err))
	}

	// 4. Dependency Injection
	cat := catalog.Default()
	notifier := notify.NewListingNotifier()
	scanner := scan.NewScanner(cat, ocr, logger)

	listingRepo := dao.NewListingRepository(db)
	listingUsecase := usecase.NewListingUsecase(listingRepo, notifier, cat, scanner, logger)
	listingController := controller.NewListingController(listingUsecase, logger)

	cartUsecase := usecase.NewCartUsecase(cartCache, dao.NewCartMirror(db), cat, logger)
	cartController := controller.NewCartController(cartUsecase, logger)

	// The cart engine consumes listing-change events; edits and deletions
	// made through the listing usecase reconcile every cached cart.
	notifier.SubscribeUpdated(cartUsecase.HandleListingUpdated)
	notifier.SubscribeDeleted(cartUsecase.HandleListingDeleted)

	userRepo := dao.NewUserRepository(db)
	userUsecase := usecase.NewUserUsecase(userRepo)
	userController := controller.NewUserController(userUsecase)

	// 5. Routing
	http.HandleFunc("/listings", listingController.HandleListings)
	http.HandleFunc("/listings/scan", listingController.HandleScan)
	http.HandleFunc("/listings/", listingController.HandleListingDetail)
	http.HandleFunc("/cart", cartController.HandleCart)
	http.HandleFunc("/cart/items", cartController.HandleCartItems)
	http.HandleFunc("/register", userController.Register)

	// 6. Start Server
	port := envOr("PORT", "8080")
	logger.Info("server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
