package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/zjy-dev/evmfuzz/internal/branch"
	"github.com/zjy-dev/evmfuzz/internal/config"
	"github.com/zjy-dev/evmfuzz/internal/evmexec"
	"github.com/zjy-dev/evmfuzz/internal/fuzzloop"
	"github.com/zjy-dev/evmfuzz/internal/logger"
	"github.com/zjy-dev/evmfuzz/internal/mutator"
	"github.com/zjy-dev/evmfuzz/internal/reporter"
	"github.com/zjy-dev/evmfuzz/internal/session"
	"github.com/zjy-dev/evmfuzz/internal/target"
)

// runSetup is everything both subcommands assemble before their mode-specific
// bootstrapping: config, logger, the backend's three collaborators, the
// session (already in the mode passed to setup), and a ready-to-use
// fuzzloop.Config. Only Config.Duration is left for the caller to fill in,
// from the subcommand's own --duration flag.
type runSetup struct {
	param   *config.FuzzParam
	tgt     target.Target
	regions branch.ValidRegions
	cfg     fuzzloop.Config
}

func setup(shared *sharedFlags, mode branch.Mode, execTimeout time.Duration) (*runSetup, error) {
	param, err := config.Load(*shared.configName)
	if err != nil {
		return nil, fmt.Errorf("app: load config: %w", err)
	}

	if param.LogDir != "" {
		if err := logger.InitWithFile(param.LogLevel, param.LogDir); err != nil {
			return nil, fmt.Errorf("app: init logger: %w", err)
		}
	} else {
		logger.Init(param.LogLevel)
	}

	contract, ok := param.MainContract()
	if !ok {
		return nil, fmt.Errorf("app: contract_info has no entry with is_main: true")
	}

	if *shared.backend == "" {
		return nil, fmt.Errorf("app: --backend is required (registered backends: %v)", target.Names())
	}
	tgt, err := target.Open(*shared.backend, contract.Name)
	if err != nil {
		return nil, fmt.Errorf("app: open target: %w", err)
	}

	regions := branch.Regions(tgt.Info, mode)
	sess := session.New(contract.Name, mode)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	sampler := fuzzloop.NewStoreSampler(sess.Leaders, rng)
	mut := mutator.New(mutator.Dictionaries{}, sampler, rng.Int63())

	executor := evmexec.NewTimeoutExecutor(tgt.Raw, execTimeout)

	reporterMode, err := reporter.ParseMode(param.Reporter)
	if err != nil {
		return nil, fmt.Errorf("app: parse reporter mode: %w", err)
	}

	var terminal *session.TerminalUI
	if reporterMode.WantsTerminal() && session.IsTerminal() {
		terminal = session.NewTerminalUI()
	}

	var telemetry *reporter.TelemetryWriter
	if reporterMode.WantsJSON() {
		telemetry = reporter.NewTelemetryWriter(*shared.baseDir, contract.Name)
		telemetry.WriteContractInfo(contract.Name, param.AttackerName, param.IsPreFuzz)
	}

	cfg := fuzzloop.Config{
		Session:      sess,
		Executor:     executor,
		ABI:          tgt.ABI,
		Regions:      regions,
		Mutator:      mut,
		BaseDir:      *shared.baseDir,
		Terminal:     terminal,
		ReporterMode: reporterMode,
		Telemetry:    telemetry,
	}

	return &runSetup{param: param, tgt: tgt, regions: regions, cfg: cfg}, nil
}
