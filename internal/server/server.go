package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	appdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/domain"
	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	billingdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/config"
	documentdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/document/domain"
	taskdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/fieldtask/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/observability/logger"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/observability/metrics"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/observability/tracing"
	operationsdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/operations/domain"
	paymentdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	defaultEstimateLimit = 60
	estimateWindow       = time.Minute
)

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Provide(NewEngine),
	fx.Invoke(RunHTTP),
)

type Params struct {
	fx.In

	Cfg         config.Config
	Log         *zap.Logger
	Authn       authdomain.Authenticator
	AppSvc      appdomain.Service
	TaskSvc     taskdomain.Service
	BillingSvc  billingdomain.Service
	PaymentSvc  paymentdomain.Service
	DocumentSvc documentdomain.Service
	OpsSvc      operationsdomain.Service
	HTTPMetrics *metrics.HTTPMetrics `optional:"true"`
}

type Server struct {
	cfg         config.Config
	log         *zap.Logger
	authn       authdomain.Authenticator
	appSvc      appdomain.Service
	taskSvc     taskdomain.Service
	billingSvc  billingdomain.Service
	paymentSvc  paymentdomain.Service
	documentSvc documentdomain.Service
	opsSvc      operationsdomain.Service
	httpMetrics *metrics.HTTPMetrics

	estimateLimiter *rateLimiter
}

func NewServer(p Params) *Server {
	limit := p.Cfg.EstimateRateLimit
	if limit <= 0 {
		limit = defaultEstimateLimit
	}
	return &Server{
		cfg:             p.Cfg,
		log:             p.Log.Named("server"),
		authn:           p.Authn,
		appSvc:          p.AppSvc,
		taskSvc:         p.TaskSvc,
		billingSvc:      p.BillingSvc,
		paymentSvc:      p.PaymentSvc,
		documentSvc:     p.DocumentSvc,
		opsSvc:          p.OpsSvc,
		httpMetrics:     p.HTTPMetrics,
		estimateLimiter: newRateLimiter(limit, estimateWindow),
	}
}

// NewEngine builds the gin engine with the observability middleware chain and every route.
func NewEngine(s *Server) *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/api/health", "/metrics"},
	}))
	r.Use(tracing.GinMiddleware())
	r.Use(metrics.GinMiddleware(s.httpMetrics))

	s.RegisterRoutes(r)
	return r
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) { AbortWithError(c, ErrNotFound) })

	api := r.Group("/api")
	api.GET("/health", s.Health)
	api.POST("/bills/estimate", s.RateLimit(s.estimateLimiter), s.EstimateBill)

	authed := api.Group("")
	authed.Use(s.AuthRequired())

	const (
		customer   = authdomain.RoleCustomer
		admin      = authdomain.RoleAdmin
		fieldStaff = authdomain.RoleFieldStaff
		billing    = authdomain.RoleBilling
	)

	applications := authed.Group("/applications")
	applications.POST("", RequireRoles(customer), s.SubmitApplication)
	applications.GET("/mine", RequireRoles(customer), s.ListMyApplications)
	applications.GET("", RequireRoles(admin), s.ListApplications)
	applications.GET("/:id", RequireRoles(customer, admin, fieldStaff, billing), s.GetApplication)
	applications.GET("/:id/history", RequireRoles(customer, admin, fieldStaff), s.ApplicationHistory)
	applications.PUT("/:id/status", RequireRoles(admin, fieldStaff), s.TransitionApplication)
	applications.POST("/:id/approve", RequireRoles(admin), s.ApproveApplication)
	applications.POST("/:id/reject", RequireRoles(admin), s.RejectApplication)
	applications.POST("/:id/activate", RequireRoles(admin, billing), s.ActivateApplication)
	applications.POST("/:id/documents", RequireRoles(customer, admin), s.RecordDocument)
	applications.GET("/:id/documents", RequireRoles(customer, admin), s.ListDocuments)
	applications.POST("/:id/tasks", RequireRoles(admin), s.AssignTask)
	applications.POST("/:id/tasks/auto", RequireRoles(admin), s.AutoAssignTask)
	applications.GET("/:id/bills", RequireRoles(customer, admin, billing), s.ListApplicationBills)

	authed.POST("/documents/:id/verify", RequireRoles(admin), s.VerifyDocument)

	tasks := authed.Group("/tasks")
	tasks.GET("", RequireRoles(fieldStaff, admin), s.ListMyTasks)
	tasks.GET("/pending", RequireRoles(admin), s.ListPendingTasks)
	tasks.GET("/stats", RequireRoles(admin), s.TaskStats)
	tasks.GET("/:id", RequireRoles(fieldStaff, admin), s.GetTask)
	tasks.PUT("/:id/status", RequireRoles(fieldStaff, admin), s.UpdateTaskStatus)
	tasks.PUT("/:id/location", RequireRoles(fieldStaff), s.UpdateTaskLocation)
	tasks.POST("/:id/proof", RequireRoles(fieldStaff), s.AttachTaskProof)
	tasks.POST("/:id/complete", RequireRoles(fieldStaff), s.CompleteTask)

	staff := authed.Group("/staff", RequireRoles(admin))
	staff.POST("", s.RegisterStaff)
	staff.GET("", s.ListStaff)
	staff.GET("/:id/metrics", s.StaffMetrics)

	bills := authed.Group("/bills")
	bills.POST("", RequireRoles(admin, billing), s.CreateBill)
	bills.GET("/summary", RequireRoles(admin, billing), s.BillingSummary)
	bills.GET("/:id", RequireRoles(customer, admin, billing), s.GetBill)
	bills.GET("/:id/statement", RequireRoles(customer, admin, billing), s.BillStatement)
	bills.POST("/:id/pay", RequireRoles(admin, billing), s.MarkBillPaid)
	bills.POST("/:id/late-fee", RequireRoles(admin, billing), s.ApplyLateFee)
	bills.POST("/:id/payments", RequireRoles(customer), s.InitiatePayment)

	authed.POST("/payments/:reference/verify", RequireRoles(customer, admin, billing), s.VerifyPayment)

	dashboard := authed.Group("/dashboard", RequireRoles(admin))
	dashboard.GET("/summary", s.DashboardSummary)
	dashboard.GET("/alerts", s.SystemAlerts)
	dashboard.GET("/reports/:kind", s.Report)
}

func (s *Server) Health(c *gin.Context) {
	respondOK(c, http.StatusOK, gin.H{
		"status":  "ok",
		"service": s.cfg.AppName,
		"version": s.cfg.AppVersion,
	})
}

// RunHTTP serves the engine for the lifetime of the fx application.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
