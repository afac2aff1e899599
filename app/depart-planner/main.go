package main

import (
	"fmt"
	logger "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/airsidetools/departcast/app/depart-planner/planner"
	"github.com/airsidetools/departcast/business/scheduler"
	"github.com/airsidetools/departcast/foundation/database"
	"github.com/ardanlabs/conf"
	"github.com/nats-io/nats.go"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "PLANNER : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
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
		NATS struct {
			Url           string `conf:"default:nats://localhost:4222"`
			Disable       bool   `conf:"default:false"`
			PickupSubject string `conf:"default:pickup-recommendations"`
		}
		Web struct {
			HttpPort int `conf:"default:8723"`
		}
		Routing struct {
			ProviderUrl    string `conf:"default:"`
			ProviderKey    string `conf:"default:,noprint"`
			TimeoutSeconds int    `conf:"default:5"`
		}
		Scheduler struct {
			BufferPolicy               string `conf:"default:subtract"`
			SafetyBufferSeconds        int    `conf:"default:600"`
			AssistancePadSeconds       int    `conf:"default:900"`
			FallbackToWorstCase        bool   `conf:"default:false"`
			WorstCaseSecuritySeconds   int    `conf:"default:3600"`
			WorstCaseCheckInSeconds    int    `conf:"default:2700"`
			WorstCaseTravelSeconds     int    `conf:"default:5400"`
			TravelProbeIntervalSeconds int    `conf:"default:300"`
			MaxTravelProbes            int    `conf:"default:20"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Departure planning web service"
	const prefix = "PLANNER"
	if err := conf.Parse(os.Args[1:], prefix, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %w", err)
			}
			fmt.Println(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config version: %w", err)
			}
			fmt.Println(version)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Printf("main : Started : Application initializing : version %s", build)
	defer log.Println("main: Completed")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Printf("main: Config :\n%v\n", out)

	// =========================================================================
	// Start Database

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

	// =========================================================================
	// Start NATS

	var natsConn *nats.Conn
	if !cfg.NATS.Disable {
		log.Printf("main: Connecting to NATS at %s", cfg.NATS.Url)
		natsConn, err = nats.Connect(cfg.NATS.Url)
		if err != nil {
			return fmt.Errorf("connecting to nats at %s: %w", cfg.NATS.Url, err)
		}
		defer natsConn.Close()
	} else {
		log.Println("main: NATS disabled, pickup recommendations will not be published")
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	return planner.Run(log, db, natsConn, shutdown, planner.Conf{
		HttpPort:              cfg.Web.HttpPort,
		PickupSubject:         cfg.NATS.PickupSubject,
		RoutingProviderUrl:    cfg.Routing.ProviderUrl,
		RoutingProviderKey:    cfg.Routing.ProviderKey,
		RoutingTimeoutSeconds: cfg.Routing.TimeoutSeconds,
		SchedulerConf: scheduler.Conf{
			BufferPolicy:               scheduler.BufferPolicy(cfg.Scheduler.BufferPolicy),
			SafetyBufferSeconds:        cfg.Scheduler.SafetyBufferSeconds,
			AssistancePadSeconds:       cfg.Scheduler.AssistancePadSeconds,
			FallbackToWorstCase:        cfg.Scheduler.FallbackToWorstCase,
			WorstCaseSecuritySeconds:   cfg.Scheduler.WorstCaseSecuritySeconds,
			WorstCaseCheckInSeconds:    cfg.Scheduler.WorstCaseCheckInSeconds,
			WorstCaseTravelSeconds:     cfg.Scheduler.WorstCaseTravelSeconds,
			TravelProbeIntervalSeconds: cfg.Scheduler.TravelProbeIntervalSeconds,
			MaxTravelProbes:            cfg.Scheduler.MaxTravelProbes,
		},
	})
}
