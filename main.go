package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/pshannon/minustide/pkg/cache"
	"github.com/pshannon/minustide/pkg/handlers"
	"github.com/pshannon/minustide/pkg/lowtide"
	"github.com/pshannon/minustide/pkg/metrics"
	"github.com/pshannon/minustide/pkg/noaa"
)

type Config struct {
	Port   string `default:"8080"`
	Prefix string `default:"/"`
	// CachePath is the sqlite file for the prediction cache; empty keeps the
	// cache in memory only.
	CachePath string `split_words:"true"`
}

func main() {
	// A missing .env is fine; the environment wins either way.
	godotenv.Load()

	var env Config
	if err := envconfig.Process("", &env); err != nil {
		log.Fatal(err.Error())
	}

	var store cache.Store
	if env.CachePath != "" {
		sqlStore, err := cache.OpenSQLite(env.CachePath)
		if err != nil {
			log.Fatalf("Failed to open cache at %q: %v", env.CachePath, err)
		}
		defer sqlStore.Close()
		store = sqlStore
		log.Printf("Caching predictions in %s", env.CachePath)
	} else {
		store = cache.NewMemory()
		log.Printf("Caching predictions in memory only")
	}

	svc := lowtide.NewService(noaa.NewClient(), cache.NewLoader(store))

	r := mux.NewRouter().StrictSlash(true)
	r.Use(metrics.LatencyHandler)
	s := r.PathPrefix(env.Prefix).Subrouter()
	handlers.Register(s, svc)

	srv := &http.Server{
		Handler:      r,
		Addr:         "0.0.0.0:" + env.Port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	log.Printf("Listening and serving on %s/%s", srv.Addr, env.Prefix[1:])
	log.Fatal(srv.ListenAndServe())
}
