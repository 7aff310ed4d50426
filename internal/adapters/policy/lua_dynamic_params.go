// Package policy holds the optional scripted DynamicParameterPolicy
// (SPEC_FULL DOMAIN STACK, "-useDynamicParameters" with a script path):
// an operator-supplied Lua script decides the granular-neighborhood and
// population growth schedule from an instance's shape instead of the
// built-in heuristic in original_source/Params.cpp.
package policy

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"hgsvrptw/internal/domain"
	"hgsvrptw/internal/ports"
)

// LuaDynamicParameterPolicy runs a user-supplied Lua script once per run,
// after the instance and matrix are built but before the genetic driver
// starts, to set the growth-schedule fields of inst.Cfg. The script sees
// a handful of instance-characteristic globals and is expected to set the
// output globals it cares about; any it leaves unset keep their Default()
// value.
type LuaDynamicParameterPolicy struct {
	ScriptPath string
}

func NewLuaDynamicParameterPolicy(scriptPath string) *LuaDynamicParameterPolicy {
	return &LuaDynamicParameterPolicy{ScriptPath: scriptPath}
}

// Tune loads and runs the script against inst, mirroring the
// hasLargeRoutes/hasLargeTW branching of Params.cpp's
// "isDimacsRun || useDynamicParameters" block, but letting the script
// author the thresholds instead of hardcoding them.
func (p *LuaDynamicParameterPolicy) Tune(nbClients int, inst *domain.Instance) error {
	if p.ScriptPath == "" {
		return fmt.Errorf("lua dynamic parameter policy: no script path configured")
	}

	L := lua.NewState()
	defer L.Close()

	stopsPerRoute := 0.0
	if nbClients > 0 && inst.TotalDemand > 0 {
		stopsPerRoute = float64(inst.VehicleCapacity) / (float64(inst.TotalDemand) / float64(nbClients))
	}
	horizon := 0
	if len(inst.Clients) > 0 {
		horizon = inst.Clients[0].LatestArrival - inst.Clients[0].EarliestArrival
	}
	nbLargeTW := 0
	for _, c := range inst.Clients[1:] {
		if float64(c.LatestArrival-c.EarliestArrival) > 0.7*float64(horizon) {
			nbLargeTW++
		}
	}

	L.SetGlobal("nbClients", lua.LNumber(nbClients))
	L.SetGlobal("vehicleCapacity", lua.LNumber(inst.VehicleCapacity))
	L.SetGlobal("nbVehicles", lua.LNumber(inst.NbVehicles))
	L.SetGlobal("totalDemand", lua.LNumber(inst.TotalDemand))
	L.SetGlobal("stopsPerRoute", lua.LNumber(stopsPerRoute))
	L.SetGlobal("horizon", lua.LNumber(horizon))
	L.SetGlobal("nbLargeTW", lua.LNumber(nbLargeTW))

	if err := L.DoFile(p.ScriptPath); err != nil {
		return fmt.Errorf("lua dynamic parameter policy: run %q: %w", p.ScriptPath, err)
	}

	cfg := &inst.Cfg
	applyIntGlobal(L, "nbGranular", &cfg.NbGranular)
	applyIntGlobal(L, "growNbGranularAfterIterations", &cfg.GrowNbGranularAfterIterations)
	applyIntGlobal(L, "growNbGranularAfterNonImprovingIterations", &cfg.GrowNbGranularAfterNonImprovingIterations)
	applyIntGlobal(L, "growNbGranularSize", &cfg.GrowNbGranularSize)
	applyIntGlobal(L, "growPopulationAfterIterations", &cfg.GrowPopulationAfterIterations)
	applyIntGlobal(L, "growPopulationAfterNonImprovingIterations", &cfg.GrowPopulationAfterNonImprovingIterations)
	applyIntGlobal(L, "growPopulationSize", &cfg.GrowPopulationSize)
	applyIntGlobal(L, "intensificationProbabilityLS", &cfg.IntensificationProbabilityLS)

	return nil
}

// applyIntGlobal overwrites *dst with the Lua global named name, if the
// script set it to a number. A nil/unset global leaves *dst untouched.
func applyIntGlobal(L *lua.LState, name string, dst *int) {
	v := L.GetGlobal(name)
	if n, ok := v.(lua.LNumber); ok {
		*dst = int(n)
	}
}

var _ ports.DynamicParameterPolicy = (*LuaDynamicParameterPolicy)(nil)
