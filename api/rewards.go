package api

import (
	"errors"
	"net/http"

	"github.com/Perkly/Perkly-Backend/api/apistrings"
	models "github.com/Perkly/Perkly-Backend/api/models"
	basemodels "github.com/Perkly/Perkly-Backend/models"
	"github.com/Perkly/Perkly-Backend/services/rewardledger"
	"github.com/Perkly/Perkly-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Reward struct {
	server        *Server
	rewardService *rewardledger.RewardLedgerService
}

func (r Reward) router(server *Server) {
	r.server = server
	r.rewardService = server.rewardService

	serverGroupV1 := server.router.Group("/api/v1/rewards")
	serverGroupV1.POST("schedule", AuthenticatedMiddleware(), r.scheduleReward)
	serverGroupV1.GET("pending", AuthenticatedMiddleware(), r.getPendingRewards)
}

// scheduleReward records a reward owed to a user. Callers retrying the same
// source entity get the already scheduled transaction back instead of a
// duplicate.
func (r *Reward) scheduleReward(ctx *gin.Context) {
	var request models.ScheduleRewardParams

	err := ctx.ShouldBindJSON(&request)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRewardInput))
		return
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(err.Error()))
		return
	}

	source, err := rewardledger.ParseRewardSource(request.SourceEntityType, request.SourceEntityID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRewardSource))
		return
	}

	tx, err := r.rewardService.ScheduleRewardTransaction(ctx, request.UserID, source, request.Amount)
	if err != nil {
		if errors.Is(err, rewardledger.ErrInvalidAmount) {
			ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRewardAmount))
			return
		}
		r.server.logger.Error("failed to schedule reward", err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusCreated, basemodels.NewSuccess(
		"reward scheduled successfully",
		models.RewardTransactionResponse{}.ToRewardTransactionResponse(tx),
	))
}

func (r *Reward) getPendingRewards(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	pending, err := r.rewardService.ListPendingForUser(ctx, activeUser.UserID)
	if err != nil {
		r.server.logger.Error("failed to list pending rewards", err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	response := make([]models.RewardTransactionResponse, 0, len(pending))
	for i := range pending {
		response = append(response, models.RewardTransactionResponse{}.ToRewardTransactionResponse(&pending[i]))
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("pending rewards fetched successfully", response))
}
