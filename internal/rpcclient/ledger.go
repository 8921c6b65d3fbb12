package rpcclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/liquidlink-lab/swirl-engine/pkg/types"
)

// Ledger JSON-RPC method names.
const (
	MethodGetCoins             = "iotax_getCoins"
	MethodGetBalance           = "iotax_getBalance"
	MethodGetCoinMetadata      = "iotax_getCoinMetadata"
	MethodGetReferenceGasPrice = "iota_getReferenceGasPrice"
	MethodDryRun               = "iota_dryRunTransactionBlock"
)

// coinJSON is a coin as reported by the full node. Numbers are strings.
type coinJSON struct {
	CoinType     string `json:"coinType"`
	CoinObjectID string `json:"coinObjectId"`
	Version      string `json:"version"`
	Digest       string `json:"digest"`
	Balance      string `json:"balance"`
}

type coinPageJSON struct {
	Data        []coinJSON `json:"data"`
	NextCursor  *string    `json:"nextCursor"`
	HasNextPage bool       `json:"hasNextPage"`
}

// GetCoins fetches one page of coins of coinType owned by owner.
// An empty cursor requests the first page.
func (c *Client) GetCoins(ctx context.Context, owner types.Address, coinType types.TokenType, cursor string, limit int) (*types.CoinPage, error) {
	var cur interface{}
	if cursor != "" {
		cur = cursor
	}
	var raw coinPageJSON
	params := []interface{}{owner.String(), string(coinType), cur, limit}
	if err := c.Call(ctx, MethodGetCoins, params, &raw); err != nil {
		return nil, err
	}

	page := &types.CoinPage{
		Data:        make([]types.Coin, 0, len(raw.Data)),
		HasNextPage: raw.HasNextPage,
	}
	if raw.NextCursor != nil {
		page.NextCursor = *raw.NextCursor
	}
	for _, rc := range raw.Data {
		coin, err := rc.toCoin()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", MethodGetCoins, err)
		}
		page.Data = append(page.Data, coin)
	}
	return page, nil
}

func (rc coinJSON) toCoin() (types.Coin, error) {
	id, err := types.ParseAddress(rc.CoinObjectID)
	if err != nil {
		return types.Coin{}, fmt.Errorf("coin id: %w", err)
	}
	version, err := strconv.ParseUint(rc.Version, 10, 64)
	if err != nil {
		return types.Coin{}, fmt.Errorf("coin %s version: %w", rc.CoinObjectID, err)
	}
	digest, err := types.ParseDigest(rc.Digest)
	if err != nil {
		return types.Coin{}, fmt.Errorf("coin %s: %w", rc.CoinObjectID, err)
	}
	balance, err := strconv.ParseUint(rc.Balance, 10, 64)
	if err != nil {
		return types.Coin{}, fmt.Errorf("coin %s balance: %w", rc.CoinObjectID, err)
	}
	return types.Coin{
		ObjectRef: types.ObjectRef{ID: id, Version: version, Digest: digest},
		Type:      types.TokenType(rc.CoinType),
		Balance:   balance,
	}, nil
}

// Balance is the aggregate balance of one token type.
type Balance struct {
	CoinType        types.TokenType
	CoinObjectCount int
	TotalBalance    uint64
}

// GetBalance returns the total balance of coinType held by owner.
func (c *Client) GetBalance(ctx context.Context, owner types.Address, coinType types.TokenType) (*Balance, error) {
	var raw struct {
		CoinType        string `json:"coinType"`
		CoinObjectCount int    `json:"coinObjectCount"`
		TotalBalance    string `json:"totalBalance"`
	}
	params := []interface{}{owner.String(), string(coinType)}
	if err := c.Call(ctx, MethodGetBalance, params, &raw); err != nil {
		return nil, err
	}
	total, err := strconv.ParseUint(raw.TotalBalance, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: total balance: %w", MethodGetBalance, err)
	}
	return &Balance{
		CoinType:        types.TokenType(raw.CoinType),
		CoinObjectCount: raw.CoinObjectCount,
		TotalBalance:    total,
	}, nil
}

// CoinMetadata describes a token type.
type CoinMetadata struct {
	Decimals    int    `json:"decimals"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
}

// GetCoinMetadata returns display metadata for coinType.
func (c *Client) GetCoinMetadata(ctx context.Context, coinType types.TokenType) (*CoinMetadata, error) {
	var md *CoinMetadata
	if err := c.Call(ctx, MethodGetCoinMetadata, []interface{}{string(coinType)}, &md); err != nil {
		return nil, err
	}
	if md == nil {
		return nil, fmt.Errorf("%s: no metadata for %s", MethodGetCoinMetadata, coinType)
	}
	return md, nil
}

// GetReferenceGasPrice returns the network reference gas price.
func (c *Client) GetReferenceGasPrice(ctx context.Context) (uint64, error) {
	var raw string
	if err := c.Call(ctx, MethodGetReferenceGasPrice, []interface{}{}, &raw); err != nil {
		return 0, err
	}
	price, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", MethodGetReferenceGasPrice, err)
	}
	return price, nil
}

// GasUsed is the fee breakdown reported by a dry run.
type GasUsed struct {
	ComputationCost uint64
	StorageCost     uint64
	StorageRebate   uint64
}

// DryRunResult is the outcome of a simulated execution.
type DryRunResult struct {
	Status  string // "success" or "failure"
	Error   string
	GasUsed GasUsed
}

// DryRunTransactionBlock simulates txBytes without committing anything.
func (c *Client) DryRunTransactionBlock(ctx context.Context, txBytes []byte) (*DryRunResult, error) {
	var raw struct {
		Effects struct {
			Status struct {
				Status string `json:"status"`
				Error  string `json:"error"`
			} `json:"status"`
			GasUsed struct {
				ComputationCost string `json:"computationCost"`
				StorageCost     string `json:"storageCost"`
				StorageRebate   string `json:"storageRebate"`
			} `json:"gasUsed"`
		} `json:"effects"`
	}
	params := []interface{}{base64.StdEncoding.EncodeToString(txBytes)}
	if err := c.Call(ctx, MethodDryRun, params, &raw); err != nil {
		return nil, err
	}

	gu := raw.Effects.GasUsed
	var out DryRunResult
	out.Status = raw.Effects.Status.Status
	out.Error = raw.Effects.Status.Error
	for _, f := range []struct {
		name string
		src  string
		dst  *uint64
	}{
		{"computationCost", gu.ComputationCost, &out.GasUsed.ComputationCost},
		{"storageCost", gu.StorageCost, &out.GasUsed.StorageCost},
		{"storageRebate", gu.StorageRebate, &out.GasUsed.StorageRebate},
	} {
		if f.src == "" {
			continue
		}
		v, err := strconv.ParseUint(f.src, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", MethodDryRun, f.name, err)
		}
		*f.dst = v
	}
	return &out, nil
}
