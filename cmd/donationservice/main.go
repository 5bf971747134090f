package main

import (
	stlog "log"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"satsforgood/donation/db"
	"satsforgood/donation/invoice"
	"satsforgood/donation/ledger"
	"satsforgood/donation/manager"
	"satsforgood/utils"
	"satsforgood/web/controllers"
	"satsforgood/web/middleware"
)

func init() {
	utils.LoadEnv()
}

func main() {
	var ledgerStore ledger.Store
	if os.Getenv("DB") != "" {
		db.Connect()
		db.Sync()
		ledgerStore = ledger.NewGormStore(db.DB)
	} else {
		stlog.Println("DB not set, donations are kept in memory")
		ledgerStore = ledger.NewMemoryStore()
	}

	encoder, err := invoice.NewSimulatedEncoder()
	if err != nil {
		stlog.Fatalln("Error creating invoice encoder:", err)
	}
	stlog.Println("Node ID:", encoder.NodeID())

	var oracle manager.Oracle
	if url := os.Getenv("LND_REST_URL"); url != "" {
		oracle = manager.NewLNDOracle(url, os.Getenv("LND_MACAROON"))
	} else {
		// dev mode: no node configured. SIMULATE_PAID_AFTER=N marks an
		// invoice paid on its Nth poll; unset, nothing ever gets paid.
		paidAfter, _ := strconv.Atoi(os.Getenv("SIMULATE_PAID_AFTER"))
		stlog.Println("LND_REST_URL not set, using simulated payment detection")
		oracle = manager.NewFakeOracle(paidAfter)
	}

	m := manager.New(invoice.NewStore(), ledgerStore, oracle, encoder)

	sweepSecs, _ := strconv.Atoi(utils.EnvOr("SWEEP_INTERVAL", "60"))
	if sweepSecs > 0 {
		m.StartSweep(time.Duration(sweepSecs) * time.Second)
	}

	dh := controllers.NewDonationHandler(m)

	globalLimiter := middleware.NewRateLimiter(30, time.Minute) // 30 requests/min/IP
	globalLimiter.StartCleanup(10*time.Minute, 10*time.Minute)

	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/health", controllers.Health)
	r.GET("/create-invoice", globalLimiter.Middleware(), dh.CreateInvoice)
	r.GET("/check-payment", dh.CheckPayment)
	r.GET("/donation-stats", dh.DonationStats)
	r.GET("/recent-donations", dh.RecentDonations)
	r.GET("/donation-receipt", dh.DonationReceipt)

	port := utils.EnvOr("PORT", "3001")
	if err := r.Run(":" + port); err != nil {
		stlog.Fatalln(err)
	}
}
