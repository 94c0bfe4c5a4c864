package database

import (
	"github.com/robalyx/squadpledge/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// pgTx binds the bun models to one transaction.
type pgTx struct {
	profiles   *models.ProfileModel
	access     *models.AccessModel
	projects   *models.ProjectModel
	tasks      *models.TaskModel
	pledges    *models.PledgeModel
	challenges *models.ChallengeModel
	votes      *models.VoteModel
	ratings    *models.RatingModel
	payouts    *models.PayoutModel
}

func newPgTx(tx bun.Tx, logger *zap.Logger) *pgTx {
	return &pgTx{
		profiles:   models.NewProfile(tx, logger),
		access:     models.NewAccess(tx, logger),
		projects:   models.NewProject(tx, logger),
		tasks:      models.NewTask(tx, logger),
		pledges:    models.NewPledge(tx, logger),
		challenges: models.NewChallenge(tx, logger),
		votes:      models.NewVote(tx, logger),
		ratings:    models.NewRating(tx, logger),
		payouts:    models.NewPayout(tx, logger),
	}
}

func (t *pgTx) Profiles() ProfileRepository     { return t.profiles }
func (t *pgTx) Access() AccessRepository        { return t.access }
func (t *pgTx) Projects() ProjectRepository     { return t.projects }
func (t *pgTx) Tasks() TaskRepository           { return t.tasks }
func (t *pgTx) Pledges() PledgeRepository       { return t.pledges }
func (t *pgTx) Challenges() ChallengeRepository { return t.challenges }
func (t *pgTx) Votes() VoteRepository           { return t.votes }
func (t *pgTx) Ratings() RatingRepository       { return t.ratings }
func (t *pgTx) Payouts() PayoutRepository       { return t.payouts }
