package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/equipmentshop/lib/myhttpclient"
	"github.com/MarcGrol/equipmentshop/lib/mylock"
	"github.com/MarcGrol/equipmentshop/lib/mypublisher"
	"github.com/MarcGrol/equipmentshop/lib/mypubsub"
	"github.com/MarcGrol/equipmentshop/lib/myqueue"
	"github.com/MarcGrol/equipmentshop/lib/mystore"
	"github.com/MarcGrol/equipmentshop/lib/mytime"
	"github.com/MarcGrol/equipmentshop/lib/myuuid"
	"github.com/MarcGrol/equipmentshop/lib/myvault"
	"github.com/MarcGrol/equipmentshop/services/authz"
	"github.com/MarcGrol/equipmentshop/services/backendapi"
	"github.com/MarcGrol/equipmentshop/services/cart"
	"github.com/MarcGrol/equipmentshop/services/checkout"
	"github.com/MarcGrol/equipmentshop/services/session"
	"github.com/MarcGrol/equipmentshop/services/warmup"
)

type config struct {
	port           string
	backendBaseURL string
	razorpayKeyID  string
	publicBaseURL  string
	redisAddr      string
}

func main() {
	c := context.Background()

	cfg := loadConfig()

	router := mux.NewRouter()

	nower := mytime.RealNower{}

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating queue: %s", err)
	}
	defer queueCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, nower)
	if err != nil {
		log.Fatalf("Error creating publisher: %s", err)
	}
	defer publisherCleanup()
	publisher.RegisterEndpoints(c, router)

	locker, lockerCleanup, err := mylock.New(c, cfg.redisAddr)
	if err != nil {
		log.Fatalf("Error creating submit guard: %s", err)
	}
	defer lockerCleanup()

	backend := backendapi.NewClient(cfg.backendBaseURL, myhttpclient.New("backend"))

	vault, vaultCleanup, err := myvault.New[myvault.Token](c)
	if err != nil {
		log.Fatalf("Error creating vault: %s", err)
	}
	defer vaultCleanup()

	sessionStore, sessionStoreCleanup, err := mystore.New[session.Session](c)
	if err != nil {
		log.Fatalf("Error creating session store: %s", err)
	}
	defer sessionStoreCleanup()

	sessionManager := session.NewManager(sessionStore, vault, backend, nower, myuuid.RealUUIDer{})
	router.Use(authz.Middleware(authz.DefaultPolicy(), sessionManager))

	err = session.NewWebService(sessionManager).RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering session endpoints: %s", err)
	}

	warmup.NewService(vault).RegisterEndpoints(c, router)

	checkoutStore, checkoutStoreCleanup, err := mystore.New[checkout.CheckoutState](c)
	if err != nil {
		log.Fatalf("Error creating checkout store: %s", err)
	}
	defer checkoutStoreCleanup()

	localStore, localStoreCleanup, err := mystore.New[checkout.LocalEntry](c)
	if err != nil {
		log.Fatalf("Error creating local store: %s", err)
	}
	defer localStoreCleanup()

	gatewayStore, gatewayStoreCleanup, err := mystore.New[checkout.GatewayOptions](c)
	if err != nil {
		log.Fatalf("Error creating gateway store: %s", err)
	}
	defer gatewayStoreCleanup()

	checkoutService := checkout.NewService(
		checkout.Config{
			RazorpayKeyID: cfg.razorpayKeyID,
			BaseURL:       cfg.publicBaseURL,
		},
		checkoutStore,
		checkout.NewAddressCache(localStore, nower),
		backend,
		checkout.NewPageGateway(gatewayStore),
		locker,
		publisher,
		queue,
		sessionManager,
		nower)
	err = checkoutService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering checkout endpoints: %s", err)
	}

	cartStore, cartStoreCleanup, err := mystore.New[cart.CartView](c)
	if err != nil {
		log.Fatalf("Error creating cart store: %s", err)
	}
	defer cartStoreCleanup()

	err = cart.NewService(cartStore, backend, publisher, nower, cfg.publicBaseURL).RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering cart endpoints: %s", err)
	}

	startWebServerBlocking(cfg.port, router)
}

func loadConfig() config {
	cfg := config{
		port:           getenvOrDefault("PORT", "8080"),
		backendBaseURL: mustGetenv("BACKEND_BASE_URL"),
		razorpayKeyID:  mustGetenv("RAZORPAY_KEY_ID"),
		redisAddr:      os.Getenv("REDIS_ADDR"),
	}
	cfg.publicBaseURL = getenvOrDefault("PUBLIC_BASE_URL", fmt.Sprintf("http://localhost:%s", cfg.port))

	return cfg
}

func mustGetenv(name string) string {
	value := os.Getenv(name)
	if value == "" {
		log.Fatalf("Missing env-var %s", name)
	}
	return value
}

func getenvOrDefault(name string, defaultValue string) string {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}
	return value
}

func startWebServerBlocking(port string, router *mux.Router) {
	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
