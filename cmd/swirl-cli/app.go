package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/liquidlink-lab/swirl-engine/config"
	"github.com/liquidlink-lab/swirl-engine/internal/assembler"
	"github.com/liquidlink-lab/swirl-engine/internal/catalog"
	"github.com/liquidlink-lab/swirl-engine/internal/engine"
	"github.com/liquidlink-lab/swirl-engine/internal/executor"
	"github.com/liquidlink-lab/swirl-engine/internal/journal"
	klog "github.com/liquidlink-lab/swirl-engine/internal/log"
	"github.com/liquidlink-lab/swirl-engine/internal/rpcclient"
	"github.com/liquidlink-lab/swirl-engine/internal/signer"
	"github.com/liquidlink-lab/swirl-engine/internal/storage"
	"github.com/liquidlink-lab/swirl-engine/pkg/types"
)

// app wires the engine for one command invocation.
type app struct {
	g        *globalFlags
	cfg      *config.Config
	rpc      *rpcclient.Client
	registry *prometheus.Registry
	reader   *catalog.Reader
	engine   *engine.Engine
	db       storage.DB
}

func openApp(g *globalFlags) (*app, error) {
	cfg, err := config.Load(g.configPath, config.NetworkType(g.network))
	if err != nil {
		return nil, err
	}
	if g.dataDir != "" {
		cfg.DataDir = g.dataDir
	}
	if g.rpcURL != "" {
		cfg.RPC.URL = g.rpcURL
	}
	if g.signerURL != "" {
		cfg.Signer.URL = g.signerURL
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	reg := prometheus.NewRegistry()
	client := rpcclient.New(cfg.RPC.URL,
		rpcclient.WithTimeout(cfg.RPC.Timeout),
		rpcclient.WithMetrics(rpcclient.NewMetrics(reg, "swirl")),
	)
	reader := catalog.NewReader(client,
		catalog.WithPageLimit(cfg.Catalog.PageLimit),
		catalog.WithMaxPages(cfg.Catalog.MaxPages),
	)

	objs, err := cfg.Staking.Objects()
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(reader, engine.Params{
		BaseToken:  types.TokenType(cfg.Tokens.Base),
		CertToken:  types.TokenType(cfg.Tokens.Cert),
		MinReserve: cfg.Gas.MinReserve,
		MaxBudget:  cfg.Gas.MaxBudget,
		MinStake:   cfg.Staking.MinAmount,
		Staking: assembler.Staking{
			Package:     objs.Package,
			Module:      objs.Module,
			Pool:        objs.Pool,
			Metadata:    objs.Metadata,
			SystemState: objs.SystemState,
		},
	})
	if err != nil {
		return nil, err
	}

	klog.CLI.Debug().
		Str("network", string(cfg.Network)).
		Str("rpc", client.Endpoint()).
		Msg("Configuration loaded")

	return &app{
		g:        g,
		cfg:      cfg,
		rpc:      client,
		registry: reg,
		reader:   reader,
		engine:   eng,
	}, nil
}

// Close releases the journal and flushes metrics.
func (a *app) Close() error {
	var errs []error
	if a.db != nil {
		errs = append(errs, a.db.Close())
		a.db = nil
	}
	if a.g.metricsFile != "" {
		errs = append(errs, prometheus.WriteToTextfile(a.g.metricsFile, a.registry))
	}
	return errors.Join(errs...)
}

func (a *app) owner() (types.Address, error) {
	if a.g.owner == "" {
		return types.Address{}, errors.New("--owner is required")
	}
	return types.ParseAddress(a.g.owner)
}

// token resolves a --token value. Empty or "iota" means the base token and
// "cert" the staking certificate; anything else is a full coin type.
func (a *app) token(s string) types.TokenType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "iota", "base":
		return types.TokenType(a.cfg.Tokens.Base)
	case "cert":
		return types.TokenType(a.cfg.Tokens.Cert)
	default:
		return types.TokenType(s)
	}
}

// decimals returns the display decimals of token.
func (a *app) decimals(ctx context.Context, token types.TokenType) (int, error) {
	switch {
	case token.Equal(types.TokenType(a.cfg.Tokens.Base)):
		return a.cfg.Tokens.BaseDecimals, nil
	case token.Equal(types.TokenType(a.cfg.Tokens.Cert)):
		return a.cfg.Tokens.CertDecimals, nil
	}
	md, err := a.rpc.GetCoinMetadata(ctx, token)
	if err != nil {
		return 0, fmt.Errorf("metadata for %s: %w", token, err)
	}
	return md.Decimals, nil
}

func (a *app) journal() (*journal.Journal, error) {
	if a.db == nil {
		db, err := storage.NewBadger(a.cfg.JournalDir())
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		a.db = db
	}
	return journal.New(storage.NewPrefixDB(a.db, []byte("tx/"))), nil
}

// executor returns an executor. The signer and journal are only attached
// when the plan is meant to be submitted.
func (a *app) executor(submit bool) (*executor.Executor, error) {
	logger := executor.WithLogger(klog.WithNetwork(string(a.cfg.Network)).With().Str("component", "executor").Logger())
	if !submit {
		return executor.New(a.engine, a.rpc, nil, a.cfg.Network.ChainID(), logger), nil
	}
	opts := []executor.Option{logger, executor.WithExplorer(a.cfg.ExplorerURL)}
	if a.cfg.Journal.Enabled {
		j, err := a.journal()
		if err != nil {
			return nil, err
		}
		opts = append(opts, executor.WithJournal(j))
	}
	bridge := signer.NewHTTPBridge(a.cfg.Signer.URL, rpcclient.WithTimeout(a.cfg.Signer.Timeout))
	return executor.New(a.engine, a.rpc, bridge, a.cfg.Network.ChainID(), opts...), nil
}
