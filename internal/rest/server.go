package rest

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/robalyx/squadpledge/internal/rest/handler"
	"github.com/robalyx/squadpledge/internal/rest/middleware/identity"
	"github.com/robalyx/squadpledge/internal/rest/middleware/ratelimit"
	"github.com/robalyx/squadpledge/internal/service"
	"github.com/robalyx/squadpledge/internal/setup/config"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// Server implements the REST API service.
type Server struct {
	accessHandler  *handler.AccessHandler
	profileHandler *handler.ProfileHandler
	projectHandler *handler.ProjectHandler
	taskHandler    *handler.TaskHandler
	pledgeHandler  *handler.PledgeHandler
	voteHandler    *handler.VoteHandler
}

// NewServer creates a new REST API server.
func NewServer(engine *service.Engine, logger *zap.Logger, cfg *config.APIConfig) http.Handler {
	logger = logger.Named("rest")

	// Create server instance with handlers
	server := &Server{
		accessHandler:  handler.NewAccessHandler(engine, logger),
		profileHandler: handler.NewProfileHandler(engine, logger),
		projectHandler: handler.NewProjectHandler(engine, logger),
		taskHandler:    handler.NewTaskHandler(engine, logger),
		pledgeHandler:  handler.NewPledgeHandler(engine, logger),
		voteHandler:    handler.NewVoteHandler(engine, logger),
	}

	// Create middleware instances
	identityMiddleware := identity.New(logger)
	rateLimiter := ratelimit.New(&cfg.RateLimit, logger)

	router := bunrouter.New()

	router.GET("/healthz", func(w http.ResponseWriter, _ bunrouter.Request) error {
		w.WriteHeader(http.StatusNoContent)
		return nil
	})

	router.Use(
		identityMiddleware.AsRESTMiddleware,
		rateLimiter.AsRESTMiddleware,
	).WithGroup("/v1", server.routes)

	// Add gzip compression
	return gzhttp.GzipHandler(router)
}

func (s *Server) routes(g *bunrouter.Group) {
	g.WithGroup("/access", func(g *bunrouter.Group) {
		g.POST("/init", s.accessHandler.Initialize)
		g.GET("/me", s.accessHandler.Me)
		g.POST("/request", s.accessHandler.RequestApproval)
		g.GET("/approvals", s.accessHandler.ListApprovals)
		g.PUT("/approvals/:identity", s.accessHandler.SetApproval)
		g.PUT("/roles/:identity", s.accessHandler.AssignRole)
	})

	g.WithGroup("/profiles", func(g *bunrouter.Group) {
		g.POST("", s.profileHandler.Register)
		g.GET("", s.profileHandler.List)
		g.GET("/me", s.profileHandler.Me)
		g.PUT("/me", s.profileHandler.UpdateMe)
		g.GET("/:identity", s.profileHandler.Get)
		g.PUT("/:identity/level", s.profileHandler.UpdateLevel)
	})

	g.WithGroup("/projects", func(g *bunrouter.Group) {
		g.POST("", s.projectHandler.Create)
		g.GET("", s.projectHandler.List)
		g.GET("/:id", s.projectHandler.Get)
		g.GET("/:id/ledger", s.projectHandler.Ledger)
		g.POST("/:id/activate", s.projectHandler.Activate)
		g.POST("/:id/complete", s.projectHandler.Complete)
		g.POST("/:id/archive", s.projectHandler.Archive)
		g.GET("/:id/payouts", s.projectHandler.Payouts)
		g.GET("/:id/ratings", s.projectHandler.Ratings)
		g.POST("/:id/ratings", s.projectHandler.Rate)
		g.POST("/:id/challenges/resolve", s.projectHandler.ResolveChallenges)
		g.GET("/:id/tasks", s.taskHandler.List)
		g.POST("/:id/tasks", s.taskHandler.Create)
		g.GET("/:id/pledges", s.pledgeHandler.List)
		g.POST("/:id/pledges", s.pledgeHandler.Create)
	})

	g.WithGroup("/tasks", func(g *bunrouter.Group) {
		g.GET("/:id", s.taskHandler.Get)
		g.POST("/:id/confirm", s.taskHandler.Confirm)
		g.POST("/:id/accept", s.taskHandler.Accept)
		g.POST("/:id/complete", s.taskHandler.Complete)
		g.POST("/:id/approve", s.taskHandler.Approve)
		g.POST("/:id/reject", s.taskHandler.Reject)
		g.GET("/:id/challenges", s.taskHandler.Challenges)
		g.POST("/:id/challenges", s.taskHandler.Challenge)
	})

	g.WithGroup("/pledges", func(g *bunrouter.Group) {
		g.GET("/:id", s.pledgeHandler.Get)
		g.POST("/:id/confirm", s.pledgeHandler.Confirm)
		g.POST("/:id/reassign", s.pledgeHandler.Reassign)
	})

	g.POST("/votes", s.voteHandler.Cast)
	g.GET("/votes/:id", s.voteHandler.List)
}
