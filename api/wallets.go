package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Perkly/Perkly-Backend/api/apistrings"
	models "github.com/Perkly/Perkly-Backend/api/models"
	basemodels "github.com/Perkly/Perkly-Backend/models"
	"github.com/Perkly/Perkly-Backend/services/wallet"
	"github.com/Perkly/Perkly-Backend/utils"
	"github.com/gin-gonic/gin"
)

type Wallet struct {
	server        *Server
	walletService *wallet.WalletService
}

func (w Wallet) router(server *Server) {
	w.server = server
	w.walletService = server.walletService

	serverGroupV1 := server.router.Group("/api/v1/wallets")
	serverGroupV1.POST("provision", AuthenticatedMiddleware(), w.provisionWallet)
	serverGroupV1.GET("balance", AuthenticatedMiddleware(), w.getBalance)
	serverGroupV1.GET("vouchers", AuthenticatedMiddleware(), w.getVouchers)
}

// provisionWallet is called right after registration. It either creates the
// wallet on the ledger now or leaves a pending schedule behind for the sweep,
// so the caller always gets a 2xx.
func (w *Wallet) provisionWallet(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	provisioning, err := w.walletService.CreateWalletOrScheduleCreation(ctx, activeUser.UserID)
	if err != nil {
		w.server.logger.Error("failed to schedule wallet creation", err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess(
		"wallet provisioning accepted",
		models.WalletProvisioningResponse{}.ToWalletProvisioningResponse(provisioning),
	))
}

func (w *Wallet) getBalance(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	balance, err := w.walletService.GetWalletStatusAndBalance(ctx, activeUser.UserID)
	if err != nil {
		w.server.logger.Error("failed to fetch wallet balance", err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("wallet balance fetched successfully", balance))
}

func (w *Wallet) getVouchers(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	filter := wallet.VoucherFilter{
		Status: ctx.Query("status"),
	}
	if limit := ctx.Query("limit"); limit != "" {
		filter.Limit, err = strconv.Atoi(limit)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidVoucherPage))
			return
		}
	}
	if offset := ctx.Query("offset"); offset != "" {
		filter.Offset, err = strconv.Atoi(offset)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidVoucherPage))
			return
		}
	}

	vouchers, err := w.walletService.SearchVouchers(ctx, activeUser.UserID, filter)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrWalletUnscheduled):
			ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.WalletUnscheduled))
		case errors.Is(err, wallet.ErrWalletPending):
			ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.WalletNotReady))
		default:
			w.server.logger.Error("failed to fetch vouchers", err)
			ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		}
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess(
		"vouchers fetched successfully",
		models.ToVoucherCollectionResponse(vouchers),
	))
}
