package handlers

import (
	"net/http"

	"foodtruck/internal/common"
	"foodtruck/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// WalletHandlers expose the customer's prepaid balance
type WalletHandlers struct {
	wallets services.WalletService
}

func NewWalletHandlers(wallets services.WalletService) *WalletHandlers {
	return &WalletHandlers{wallets: wallets}
}

// DepositRequest tops up the wallet
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// GetWallet godoc
// @Summary      The customer's wallet
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Wallet
// @Failure      404  {object}  common.ErrorResponse
// @Router       /v1/wallet [get]
func (h *WalletHandlers) GetWallet(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}

	wallet, err := h.wallets.GetWallet(c.Request().Context(), actor.UserID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, wallet)
}

// Deposit godoc
// @Summary      Add funds to the wallet
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      DepositRequest  true  "Amount"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  common.ErrorResponse
// @Router       /v1/wallet/deposit [post]
func (h *WalletHandlers) Deposit(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}

	var req DepositRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	wallet, txn, err := h.wallets.Deposit(c.Request().Context(), actor.UserID, req.Amount)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"wallet":      wallet,
		"transaction": txn,
	})
}

// ListTransactions godoc
// @Summary      Wallet history, newest first
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "Page size"
// @Param        offset  query  int  false  "Page offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /v1/wallet/transactions [get]
func (h *WalletHandlers) ListTransactions(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}
	limit, offset, err := common.ParsePagination(c)
	if err != nil {
		return common.SendValidationError(c, "offset", err.Error())
	}

	txns, err := h.wallets.ListTransactions(c.Request().Context(), actor.UserID, limit, offset)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"transactions": txns,
		"count":        len(txns),
		"limit":        limit,
		"offset":       offset,
	})
}
