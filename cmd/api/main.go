package main

import (
	"fmt"
	"net/http"

	"github.com/gajihub/payroll-engine-go/internal/config"
	appHTTP "github.com/gajihub/payroll-engine-go/internal/handler/http"
	"github.com/gajihub/payroll-engine-go/internal/pkg/database"
	"github.com/gajihub/payroll-engine-go/internal/pkg/jwt"
	"github.com/gajihub/payroll-engine-go/internal/repository/postgresql"
	adjustmentService "github.com/gajihub/payroll-engine-go/internal/service/adjustment"
	payrollService "github.com/gajihub/payroll-engine-go/internal/service/payroll"
	taxService "github.com/gajihub/payroll-engine-go/internal/service/tax"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	companyRepo := postgresql.NewCompanyRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	settingRepo := postgresql.NewPayrollSettingRepository(db)
	allowanceRepo := postgresql.NewAllowanceRepository(db)
	recordRepo := postgresql.NewPayrollRecordRepository(db)
	adjustmentRepo := postgresql.NewAdjustmentRepository(db)
	taxRepo := postgresql.NewTaxRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	taxEngine := taxService.NewEngine(taxRepo)
	calculator := payrollService.NewCalculator(taxEngine)
	payrollSvc := payrollService.NewPayrollService(
		db,
		settingRepo,
		allowanceRepo,
		recordRepo,
		adjustmentRepo,
		employeeRepo,
		companyRepo,
		calculator,
	)
	adjustmentSvc := adjustmentService.NewAdjustmentService(db, adjustmentRepo, employeeRepo)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	adjustmentHandler := appHTTP.NewAdjustmentHandler(adjustmentSvc)
	taxHandler := appHTTP.NewTaxHandler(taxEngine)

	router := appHTTP.NewRouter(
		JWTService,
		payrollHandler,
		adjustmentHandler,
		taxHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
