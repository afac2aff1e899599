package main

import (
	"fmt"
	logger "log"
	"os"

	"github.com/airsidetools/departcast/app/flyer-gen/flyergen"
	"github.com/airsidetools/departcast/foundation/database"
	"github.com/ardanlabs/conf"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "FLYER_GEN : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
	if err := run(log); err != nil {
		log.Printf("main: error: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	var cfg struct {
		conf.Version
		Args conf.Args
		DB   struct {
			User       string `conf:"default:postgres"`
			Password   string `conf:"default:postgres,noprint"`
			Host       string `conf:"default:0.0.0.0"`
			Name       string `conf:"default:postgres"`
			DisableTLS bool   `conf:"default:true"`
		}
		Flyers struct {
			Seed int64 `conf:"default:1"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Generate randomized flyer populations for trial departures"
	if err := conf.Parse(os.Args[1:], "FLYER_GEN", &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage("FLYER_GEN", &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %w", err)
			}
			fmt.Println(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString("FLYER_GEN", &cfg)
			if err != nil {
				return fmt.Errorf("generating config version: %w", err)
			}
			fmt.Println(version)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	log.Printf("main : Started : Application initializing : version %s", build)
	defer log.Println("main: Completed")

	generator := flyergen.MakeGenerator(cfg.Flyers.Seed)
	manifests := flyergen.DefaultManifests()

	switch cfg.Args.Num(0) {
	case "print":
		return flyergen.PrintFlyers(os.Stdout, generator, manifests)
	case "load":
		log.Println("main: Initializing database support")
		db, err := database.Open(database.Config{
			User:       cfg.DB.User,
			Password:   cfg.DB.Password,
			Host:       cfg.DB.Host,
			Name:       cfg.DB.Name,
			DisableTLS: cfg.DB.DisableTLS,
		})
		if err != nil {
			return fmt.Errorf("connecting to db: %w", err)
		}
		defer func() {
			log.Printf("main: Database Stopping : %s", cfg.DB.Host)
			if err = db.Close(); err != nil {
				log.Printf("main: error closing database: %v", err)
			}
		}()
		return flyergen.LoadFlyers(log, db, generator, manifests)
	default:
		fmt.Println("print: write generated flyer populations to stdout as json")
		fmt.Println("load: generate flyer populations and record them in the database")
		usage, err := conf.Usage("FLYER_GEN", &cfg)
		if err != nil {
			return fmt.Errorf("generating config usage: %w", err)
		}
		fmt.Println(usage)
	}
	return nil
}
