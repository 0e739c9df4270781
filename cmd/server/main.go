// Server entrypoint. Wires stores, services, and transport from
// configuration: with no external URLs configured everything runs
// in-memory for development; Postgres, Redis, MinIO, and Kafka are each
// enabled independently by their config values.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"resgate/internal/accounts"
	"resgate/internal/accounts/adapters"
	"resgate/internal/accounts/credential"
	accountmetrics "resgate/internal/accounts/metrics"
	accountservice "resgate/internal/accounts/service"
	"resgate/internal/accounts/store/revocation"
	"resgate/internal/accounts/store/userstore"
	"resgate/internal/accounts/token"
	"resgate/internal/audit"
	"resgate/internal/cases"
	"resgate/internal/cases/feed"
	casemetrics "resgate/internal/cases/metrics"
	caseservice "resgate/internal/cases/service"
	"resgate/internal/cases/store/casestore"
	"resgate/internal/cases/store/messagestore"
	"resgate/internal/httpapi"
	"resgate/internal/orgs"
	orgmetrics "resgate/internal/orgs/metrics"
	orgservice "resgate/internal/orgs/service"
	"resgate/internal/orgs/store/orgstore"
	"resgate/internal/platform/config"
	"resgate/internal/platform/httpserver"
	"resgate/internal/platform/logger"
	platformpg "resgate/internal/platform/postgres"
	platformredis "resgate/internal/platform/redis"
	"resgate/internal/storage"
	id "resgate/pkg/domain"
)

const auditInboxSize = 256

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	db, err := platformpg.Open(ctx, cfg.PostgresURL)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		if err := platformpg.Migrate(ctx, db); err != nil {
			return err
		}
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Stores. Each pair shares an interface; the mode is picked here once.
	var (
		caseStore caseservice.CaseStore = casestore.NewInMemory()
		msgStore  messagestore.Store    = messagestore.NewInMemory()
		orgStore  orgstore.Store        = orgstore.NewInMemory()
		userStore userstore.Store       = userstore.NewInMemory()
		auditLog  audit.Store           = audit.NewInMemoryStore()
	)
	if db != nil {
		caseStore = casestore.NewPostgres(db)
		msgStore = messagestore.NewPostgres(db)
		orgStore = orgstore.NewPostgres(db)
		userStore = userstore.NewPostgres(db)
		auditLog = audit.NewPostgresStore(db)
	}

	var objects storage.ObjectStore = storage.NewInMemory()
	if cfg.Storage.Endpoint != "" {
		objects, err = storage.NewMinio(cfg.Storage)
		if err != nil {
			return err
		}
	}

	var caseFeed feed.Feed = feed.NewInMemory()
	var revocations revocation.List = revocation.NewInMemory()
	if redisClient != nil {
		caseFeed = feed.NewRedis(redisClient.Client, log)
		revocations = revocation.NewRedis(redisClient.Client)
	}

	// Audit trail: services publish to a channel, the worker persists off
	// the request path. Kafka, when configured, gets every event too.
	inbox := make(chan audit.Event, auditInboxSize)
	worker := audit.NewWorker(auditLog, inbox, log)
	var publisher audit.Publisher = audit.NewChannelPublisher(inbox, log)
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.AuditTopic, log)
		if err != nil {
			return err
		}
		defer kafkaPub.Close()
		publisher = audit.Tee{publisher, kafkaPub}
	}

	scheme, err := credential.FromConfig(cfg.CredentialScheme, cfg.LegacyHMACKey)
	if err != nil {
		return err
	}
	issuer := token.NewIssuer(cfg.JWTSigningKey, cfg.SessionTTL)

	orgsService := orgs.NewService(orgStore, objects, scheme,
		orgservice.WithLogger(log),
		orgservice.WithAuditPublisher(publisher),
		orgservice.WithMetrics(orgmetrics.New()),
	)
	accountsService := accounts.NewService(userStore, adapters.NewOrgsDirectory(orgsService), scheme, issuer,
		accountservice.WithLogger(log),
		accountservice.WithAuditPublisher(publisher),
		accountservice.WithMetrics(accountmetrics.New()),
		accountservice.WithRevocationList(revocations),
	)
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if err := accountsService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return err
		}
	}
	casesService := cases.NewService(caseStore, msgStore, orgsService,
		directory{users: accountsService, orgs: orgsService},
		caseservice.WithLogger(log),
		caseservice.WithAuditPublisher(publisher),
		caseservice.WithMetrics(casemetrics.New()),
		caseservice.WithFeed(caseFeed),
	)

	router := httpapi.NewRouter(httpapi.Deps{
		Accounts:    accounts.NewHandler(accountsService, log),
		Orgs:        orgs.NewHandler(orgsService, log),
		Cases:       cases.NewHandler(casesService, log),
		Verifier:    issuer,
		Revocations: revocations,
		Logger:      log,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return worker.Run(ctx)
	})

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// directory resolves display names from both account and organization
// records for the case conversation log.
type directory struct {
	users *accounts.Service
	orgs  *orgs.Service
}

func (d directory) UserName(ctx context.Context, userID id.UserID) (string, error) {
	return d.users.UserName(ctx, userID)
}

func (d directory) OrgName(ctx context.Context, orgID id.OrgID) (string, error) {
	return d.orgs.OrgName(ctx, orgID)
}
