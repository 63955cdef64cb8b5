package endpoints

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/heliospay/tuition-api/kernel"
	"github.com/heliospay/tuition-api/models"
	"github.com/heliospay/tuition-api/wallet"
)

// ConnectWallet runs the gateway connect sequence and issues a session token.
// The raw token goes out once; only its hash is stored.
func ConnectWallet(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	art := rt.AppRuntime
	rt.StepInto("wallet_connect.handler")

	address, err := art.Gateway.Connect(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrProviderUnavailable):
			rt.Ef(503, "wallet provider not available, install a wallet: %v", err)
		case errors.Is(err, wallet.ErrNoAccounts):
			rt.Ef(403, "wallet has no accounts: %v", err)
		default:
			// User decline, switch failure etc. propagate verbatim.
			rt.Ef(502, "wallet connection rejected: %v", err)
		}
		return
	}

	raw, err := kernel.UuidV7()
	if err != nil {
		rt.Ef(500, "could not generate session token: %v", err)
		return
	}

	token := &models.Token{
		ExpiresAt: time.Now().Add(art.SessionTTL),
		TokenHash: kernel.Sha512(raw),
		Address:   address,
	}
	if result := rt.DB.Save(token); result.Error != nil {
		rt.Ef(500, "failed to save session: %v", result.Error)
		return
	}

	c.JSON(201, &gin.H{
		"token":     raw,
		"wallet":    art.Gateway.State(),
		"network":   art.Chain,
		"faucetUrl": art.FaucetURL,
	})
	rt.EndBlock()
}

// WalletState returns the current wallet state projection.
func WalletState(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.StepInto("wallet_state.handler")

	c.JSON(200, &gin.H{
		"wallet": rt.AppRuntime.Gateway.State(),
	})
	rt.EndBlock()
}

// RefreshBalance re-queries the balance for the connected address.
func RefreshBalance(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	art := rt.AppRuntime
	rt.StepInto("wallet_refresh.handler")

	if err := art.Gateway.RefreshBalance(c.Request.Context()); err != nil {
		rt.Ef(502, "failed to refresh balance: %v", err)
		return
	}

	c.JSON(200, &gin.H{
		"wallet": art.Gateway.State(),
	})
	rt.EndBlock()
}
