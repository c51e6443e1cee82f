package memory

import "github.com/atleta-network/atleta/native"

// Benchmarked weights of the development runtime. Ref time is in
// picoseconds, proof size in bytes.
var (
	requestFundsWeight   = native.Weight{RefTime: 45_000_000, ProofSize: 3_593}
	bondWeight           = native.Weight{RefTime: 110_000_000, ProofSize: 4_764}
	unbondWeight         = native.Weight{RefTime: 95_000_000, ProofSize: 8_877}
	nominateBaseWeight   = native.Weight{RefTime: 60_000_000, ProofSize: 4_556}
	nominatePerTarget    = native.Weight{RefTime: 6_000_000, ProofSize: 2_520}
	setPayeeWeight       = native.Weight{RefTime: 30_000_000, ProofSize: 4_556}
	chillWeight          = native.Weight{RefTime: 70_000_000, ProofSize: 6_248}
	proposeWeight        = native.Weight{RefTime: 50_000_000, ProofSize: 18_187}
	proposeSpendWeight   = native.Weight{RefTime: 35_000_000, ProofSize: 1_489}
	notePreimageBase     = native.Weight{RefTime: 40_000_000, ProofSize: 3_556}
	notePreimagePerByte  = native.Weight{RefTime: 2_000}
	unnotePreimageWeight = native.Weight{RefTime: 45_000_000, ProofSize: 3_556}
)

func scale(base, per native.Weight, n int) native.Weight {
	return native.Weight{
		RefTime:   base.RefTime + per.RefTime*uint64(n),
		ProofSize: base.ProofSize + per.ProofSize*uint64(n),
	}
}

func nominateWeight(targets int) native.Weight {
	return scale(nominateBaseWeight, nominatePerTarget, targets)
}

// declaredWeight is the worst case weight of call, charged before dispatch.
func declaredWeight(call native.Call, cfg Config) native.Weight {
	switch c := call.(type) {
	case native.FaucetRequestFunds:
		return requestFundsWeight
	case native.StakingBond:
		return bondWeight
	case native.StakingUnbond:
		return unbondWeight
	case native.StakingNominate:
		return nominateWeight(max(len(c.Targets), cfg.MaxNominations))
	case native.StakingSetPayee:
		return setPayeeWeight
	case native.StakingChill:
		return chillWeight
	case native.DemocracyPropose:
		return proposeWeight
	case native.TreasuryProposeSpend:
		return proposeSpendWeight
	case native.PreimageNote:
		return scale(notePreimageBase, notePreimagePerByte, len(c.Bytes))
	case native.PreimageUnnote:
		return unnotePreimageWeight
	}
	return native.Weight{}
}
