package tokenization

import (
	"context"
	"fmt"
	"time"

	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
	"go.uber.org/zap"
)

// StellarClient issues asset-backed tokens on Stellar. The lending
// engine never calls this directly; the pledge flow hands tokenized
// assets to the engine through the collateral store.
type StellarClient struct {
	horizon           *horizonclient.Client
	issuerKeyPair     *keypair.Full
	networkPassphrase string
	logger            *zap.Logger
}

// Config contains Stellar network configuration
type Config struct {
	HorizonURL      string `json:"horizon_url"`
	IssuerSecretKey string `json:"issuer_secret_key"`
	Network         string `json:"network"` // "testnet" or "public"
}

// MintRequest asks for tokens representing a pledged asset
type MintRequest struct {
	AssetID       string  `json:"asset_id"`
	AssetCode     string  `json:"asset_code"` // e.g. "RWACRE01"
	OwnerAccount  string  `json:"owner_account"`
	Units         int64   `json:"units"`
	DeclaredValue float64 `json:"declared_value"`
}

// MintResponse reports the outcome of a mint operation
type MintResponse struct {
	TransactionHash string    `json:"transaction_hash"`
	AssetCode       string    `json:"asset_code"`
	Issuer          string    `json:"issuer"`
	LedgerSequence  int32     `json:"ledger_sequence"`
	Successful      bool      `json:"successful"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// NewStellarClient creates a new Stellar client
func NewStellarClient(config *Config, logger *zap.Logger) (*StellarClient, error) {
	horizon := horizonclient.DefaultTestNetClient
	if config.Network == "public" {
		horizon = horizonclient.DefaultPublicNetClient
	} else if config.HorizonURL != "" {
		horizon = &horizonclient.Client{HorizonURL: config.HorizonURL}
	}

	issuerKeyPair, err := keypair.ParseFull(config.IssuerSecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse issuer key pair: %w", err)
	}

	networkPassphrase := network.TestNetworkPassphrase
	if config.Network == "public" {
		networkPassphrase = network.PublicNetworkPassphrase
	}

	return &StellarClient{
		horizon:           horizon,
		issuerKeyPair:     issuerKeyPair,
		networkPassphrase: networkPassphrase,
		logger:            logger,
	}, nil
}

// IssuerAccount returns the public key tokens are issued from
func (s *StellarClient) IssuerAccount() string {
	return s.issuerKeyPair.Address()
}

// MintTokens issues asset tokens to the owner account. The owner must
// hold a trustline for the asset code before minting.
func (s *StellarClient) MintTokens(ctx context.Context, req *MintRequest) (*MintResponse, error) {
	response := &MintResponse{
		AssetCode:   req.AssetCode,
		Issuer:      s.issuerKeyPair.Address(),
		SubmittedAt: time.Now().UTC(),
	}

	issuerAccount, err := s.horizon.AccountDetail(horizonclient.AccountRequest{
		AccountID: s.issuerKeyPair.Address(),
	})
	if err != nil {
		return response, fmt.Errorf("failed to load issuer account: %w", err)
	}

	payment := txnbuild.Payment{
		Destination: req.OwnerAccount,
		Amount:      fmt.Sprintf("%d", req.Units),
		Asset: txnbuild.CreditAsset{
			Code:   req.AssetCode,
			Issuer: s.issuerKeyPair.Address(),
		},
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &issuerAccount,
		IncrementSequenceNum: true,
		Operations:           []txnbuild.Operation{&payment},
		BaseFee:              txnbuild.MinBaseFee,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(300),
		},
		Memo: txnbuild.MemoText(req.AssetID),
	})
	if err != nil {
		return response, fmt.Errorf("failed to build mint transaction: %w", err)
	}

	tx, err = tx.Sign(s.networkPassphrase, s.issuerKeyPair)
	if err != nil {
		return response, fmt.Errorf("failed to sign mint transaction: %w", err)
	}

	txResp, err := s.horizon.SubmitTransaction(tx)
	if err != nil {
		return response, fmt.Errorf("failed to submit mint transaction: %w", err)
	}

	response.TransactionHash = txResp.Hash
	response.LedgerSequence = txResp.Ledger
	response.Successful = txResp.Successful

	s.logger.Info("asset tokens minted",
		zap.String("asset_id", req.AssetID),
		zap.String("asset_code", req.AssetCode),
		zap.Int64("units", req.Units),
		zap.String("tx_hash", txResp.Hash))

	return response, nil
}

// TrustlineOperation builds the change-trust operation an owner wallet
// must sign before it can receive tokens for an asset code.
func (s *StellarClient) TrustlineOperation(assetCode string, limit string) (txnbuild.Operation, error) {
	line := txnbuild.CreditAsset{
		Code:   assetCode,
		Issuer: s.issuerKeyPair.Address(),
	}
	changeTrustAsset, err := line.ToChangeTrustAsset()
	if err != nil {
		return nil, fmt.Errorf("failed to build trustline asset: %w", err)
	}
	return &txnbuild.ChangeTrust{
		Line:  changeTrustAsset,
		Limit: limit,
	}, nil
}
