package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/atleta-network/atleta/precompile/faucet"
	"github.com/atleta-network/atleta/precompile/solidity"
	"github.com/atleta-network/atleta/precompile/staking"
	"github.com/atleta-network/atleta/workers"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"atleta"}, args...))
	return out.String(), err
}

func TestLoadConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, []byte(`
[Workers]
Path = "/opt/atleta/workers"
PrepareName = "prep"
ExecuteName = "exec"
VersionTimeout = 5000000000

[Runtime]
FaucetAmount = "0x64"
MaxNominations = 4
`), 0644))

	cfg := defaultConfig()
	require.NoError(t, loadConfig(file, &cfg))
	require.Equal(t, "/opt/atleta/workers", cfg.Workers.Path)
	require.Equal(t, "prep", cfg.Workers.PrepareName)
	require.Equal(t, "exec", cfg.Workers.ExecuteName)
	require.Equal(t, "100", cfg.Runtime.FaucetAmount.String())
	require.Equal(t, 4, cfg.Runtime.MaxNominations)
	require.Equal(t, defaultConfig().Runtime.EpochDuration, cfg.Runtime.EpochDuration)
}

func TestLoadConfigUnknownField(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, []byte("[Workers]\nBogus = 1\n"), 0644))

	cfg := defaultConfig()
	err := loadConfig(file, &cfg)
	require.ErrorContains(t, err, "Bogus")
}

func TestDumpConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "dump.toml")
	_, err := run(t, "dumpconfig", "--workers.prepare-name", "custom-prepare", file)
	require.NoError(t, err)

	cfg := defaultConfig()
	require.NoError(t, loadConfig(file, &cfg))
	require.Equal(t, "custom-prepare", cfg.Workers.PrepareName)
	require.Equal(t, defaultConfig().Runtime.FaucetAmount, cfg.Runtime.FaucetAmount)
}

func TestPrecompilesCommand(t *testing.T) {
	out, err := run(t, "precompiles")
	require.NoError(t, err)
	require.Contains(t, out, faucet.Address.Hex())
	require.Contains(t, out, "requestFunds(address,uint256)")
	require.Contains(t, out, "activeEra()")
	require.Contains(t, out, staking.Address.Hex())
}

func TestCallCommand(t *testing.T) {
	sel := solidity.Selector("activeEra()")
	out, err := run(t, "call", "--to", staking.Address.Hex(), "--input", hexutil.Encode(sel[:]), "--static")
	require.NoError(t, err)
	require.Contains(t, out, "status:   failed: Unable to get active era")
}

func TestCallCommandBadInput(t *testing.T) {
	_, err := run(t, "call", "--to", "nope")
	require.ErrorContains(t, err, "invalid --to address")

	_, err = run(t, "call", "--to", staking.Address.Hex(), "--input", "0xzz")
	require.ErrorContains(t, err, "invalid --input")
}

func TestStartWithoutWorkers(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "--workers-path", dir)

	var missing *workers.MissingBinariesError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, dir, missing.GivenPath)
}
