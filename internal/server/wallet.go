package server

import (
	"context"
	"fmt"
	"net/http"

	"luckywheel/internal/infrastructure/walletapi"
	"luckywheel/pkg/contextx"
	"luckywheel/pkg/httpx/reply"
)

type walletService interface {
	Balances(ctx context.Context, userID contextx.UserID) ([]walletapi.Balance, error)
}

type WalletServer struct {
	wallet walletService
}

func NewWalletServer(wallet walletService) WalletServer {
	return WalletServer{
		wallet: wallet,
	}
}

func (s WalletServer) getV1Wallet(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := contextx.UserIDFromContext(ctx)
	if err != nil {
		return fmt.Errorf("contextx.UserIDFromContext: %w", err)
	}

	balances, err := s.wallet.Balances(ctx, userID)
	if err != nil {
		return fmt.Errorf("wallet.Balances: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTWallet(balances))

	return nil
}
