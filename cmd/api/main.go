package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "private-credit-pool/internal/adapter/http"
	idemp "private-credit-pool/internal/adapter/middleware"
	"private-credit-pool/internal/adapter/repository/mysql"
	"private-credit-pool/internal/config"
	attestationDomain "private-credit-pool/internal/domain/attestation"
	auditDomain "private-credit-pool/internal/domain/audit"
	loanDomain "private-credit-pool/internal/domain/loan"
	poolDomain "private-credit-pool/internal/domain/pool"
	receiptDomain "private-credit-pool/internal/domain/receipt"
	"private-credit-pool/internal/infrastructure/cache"
	"private-credit-pool/internal/infrastructure/db"
	attestationUC "private-credit-pool/internal/usecase/attestation"
	auditUC "private-credit-pool/internal/usecase/audit"
	loanUC "private-credit-pool/internal/usecase/loan"
	poolUC "private-credit-pool/internal/usecase/pool"
	receiptUC "private-credit-pool/internal/usecase/receipt"
	"private-credit-pool/internal/verifier"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := gdb.AutoMigrate(
		&poolDomain.Record{},
		&loanDomain.Commit{},
		&attestationDomain.Record{},
		&receiptDomain.Mint{},
		&receiptDomain.TokenAccount{},
		&auditDomain.Request{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	// repositories + unit of work
	pools := mysql.NewPoolRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	attestations := mysql.NewAttestationRepository(gdb)
	receipts := mysql.NewReceiptRepository(gdb)
	audits := mysql.NewAuditRepository(gdb)
	guow := mysql.NewGormUoW(gdb)

	// usecases
	thresholdVerifier := verifier.NewEd25519Verifier(cfg.AttesterKeys)
	poolSvc := poolUC.NewUsecase(pools, guow)
	loanSvc := loanUC.NewUsecase(loans, guow)
	attestationSvc := attestationUC.NewUsecase(attestations, thresholdVerifier)
	receiptSvc := receiptUC.NewUsecase(receipts, guow)
	auditSvc := auditUC.NewUsecase(audits, guow)

	// handlers
	h := httpadp.NewHandler()
	poolH := httpadp.NewPoolHandler(poolSvc)
	loanH := httpadp.NewLoanHandler(loanSvc)
	attestationH := httpadp.NewAttestationHandler(attestationSvc)
	receiptH := httpadp.NewReceiptHandler(receiptSvc)
	auditH := httpadp.NewAuditHandler(auditSvc)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())
	e.Use(idemp.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	// routes
	e.GET("/health", h.Health)

	e.POST("/pools", poolH.CreatePool)
	e.GET("/pools/:pool_key", poolH.GetPool)
	e.PUT("/pools/:pool_key/config", poolH.UpdateConfig)
	e.POST("/pools/:pool_key/pause", poolH.TriggerPause)

	e.POST("/loans", loanH.CreateLoan)
	e.GET("/loans/:loan_id", loanH.GetLoan)
	e.PATCH("/loans/:loan_id/status", loanH.UpdateStatus)

	e.POST("/attestations", attestationH.Submit)
	e.GET("/attestations/:attestation_hash", attestationH.Get)
	e.POST("/attestations/:attestation_hash/verify", attestationH.Verify)

	e.POST("/pools/:pool_key/receipts/mint", receiptH.Mint)
	e.POST("/pools/:pool_key/receipts/burn", receiptH.Burn)
	e.GET("/pools/:pool_key/receipts/:owner", receiptH.GetAccount)

	e.POST("/audits", auditH.RequestAccess)
	e.POST("/audits/grant", auditH.GrantAccess)
	e.GET("/audits/:loan_id/:auditor", auditH.GetRequest)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
