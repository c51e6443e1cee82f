package main

import (
	"fmt"
	"io"

	"github.com/atleta-network/atleta/cmd/utils"
	"github.com/atleta-network/atleta/core/vm"
	"github.com/atleta-network/atleta/native"
	"github.com/atleta-network/atleta/native/memory"
	"github.com/atleta-network/atleta/precompile"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

var (
	fromFlag = &cli.StringFlag{
		Name:  "from",
		Usage: "Caller address",
		Value: "0x0000000000000000000000000000000000000001",
	}
	toFlag = &cli.StringFlag{
		Name:     "to",
		Usage:    "Precompile address",
		Required: true,
	}
	inputFlag = &cli.StringFlag{
		Name:  "input",
		Usage: "Hex encoded calldata, selector first",
	}
	valueFlag = &cli.StringFlag{
		Name:  "value",
		Usage: "Call value in wei",
		Value: "0",
	}
	gasFlag = &cli.Uint64Flag{
		Name:  "gas",
		Usage: "Gas limit of the call",
		Value: 10_000_000,
	}
	staticFlag = &cli.BoolFlag{
		Name:  "static",
		Usage: "Issue the call as a STATICCALL",
	}
	endowFlag = &cli.StringFlag{
		Name:  "endow",
		Usage: "Credit the caller with this balance before the call",
		Value: "0",
	}
)

var precompilesCommand = &cli.Command{
	Name:   "precompiles",
	Usage:  "List the native precompiles and their methods",
	Flags:  []cli.Flag{utils.ConfigFileFlag},
	Action: listPrecompiles,
}

var callCommand = &cli.Command{
	Name:  "call",
	Usage: "Run a single precompile call against a fresh in-memory runtime",
	Flags: []cli.Flag{utils.ConfigFileFlag, fromFlag, toFlag, inputFlag, valueFlag, gasFlag, staticFlag, endowFlag},
	Description: `
The call command executes one message call on an empty development runtime
and prints the outcome. The caller can be endowed first, e.g.

    atleta call --to 0x...0800 --input 0x... --endow 10000000000000000000`,
	Action: runCall,
}

func listPrecompiles(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	set := vm.DefaultPrecompiles(memory.New(cfg.Runtime, nil))
	writePrecompiles(ctx.App.Writer, set)
	return nil
}

func writePrecompiles(w io.Writer, set *precompile.Set) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Address", "Precompile", "Selector", "Method", "Kind"})
	table.SetAutoWrapText(false)
	for _, addr := range set.Addresses() {
		p, _ := set.Get(addr)
		for _, m := range p.Methods() {
			kind := "call"
			switch {
			case m.View:
				kind = "view"
			case m.Payable:
				kind = "payable"
			}
			sel := m.Selector()
			table.Append([]string{addr.Hex(), p.Name(), hexutil.Encode(sel[:]), m.Signature, kind})
		}
	}
	table.Render()
}

func runCall(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	msg, endow, err := parseCall(ctx)
	if err != nil {
		return err
	}
	rt := memory.New(cfg.Runtime, nil)
	if !endow.IsZero() {
		if err := rt.Endow(rt.IntoAccountID(msg.From), endow); err != nil {
			return err
		}
	}
	res, err := vm.NewExecutor(vm.DefaultPrecompiles(rt)).Call(msg)
	if err != nil {
		return err
	}
	writeResult(ctx.App.Writer, res)
	return nil
}

func parseCall(ctx *cli.Context) (vm.CallMetadata, native.Balance, error) {
	var msg vm.CallMetadata
	for _, f := range []*cli.StringFlag{fromFlag, toFlag} {
		if !common.IsHexAddress(ctx.String(f.Name)) {
			return msg, native.Balance{}, fmt.Errorf("invalid --%s address %q", f.Name, ctx.String(f.Name))
		}
	}
	msg.From = common.HexToAddress(ctx.String(fromFlag.Name))
	msg.To = common.HexToAddress(ctx.String(toFlag.Name))
	if input := ctx.String(inputFlag.Name); input != "" {
		data, err := hexutil.Decode(input)
		if err != nil {
			return msg, native.Balance{}, fmt.Errorf("invalid --%s: %w", inputFlag.Name, err)
		}
		msg.Data = data
	}
	value, err := uint256.FromDecimal(ctx.String(valueFlag.Name))
	if err != nil {
		return msg, native.Balance{}, fmt.Errorf("invalid --%s: %w", valueFlag.Name, err)
	}
	msg.Value = value
	msg.GasLimit = ctx.Uint64(gasFlag.Name)
	msg.Static = ctx.Bool(staticFlag.Name)

	var endow native.Balance
	if err := endow.UnmarshalText([]byte(ctx.String(endowFlag.Name))); err != nil {
		return msg, native.Balance{}, fmt.Errorf("invalid --%s: %w", endowFlag.Name, err)
	}
	return msg, endow, nil
}

func writeResult(w io.Writer, res *vm.ExecutionResult) {
	status := "success"
	if res.Failed() {
		status = "failed: " + res.Err.Error()
	}
	fmt.Fprintf(w, "status:   %s\n", status)
	fmt.Fprintf(w, "gas used: %d\n", res.UsedGas)
	fmt.Fprintf(w, "output:   %s\n", hexutil.Encode(res.ReturnData))
	if res.Reason != "" {
		fmt.Fprintf(w, "reason:   %s\n", res.Reason)
	}
}
