package domain

import "fmt"

// Workload selects which requests a lock acquisition considers and the state they must be in.
type Workload struct {
	Kind              WorkloadKind
	PaymentAction     PaymentAction
	RegistrationState RegistrationState
}

// PaymentWorkload targets payment requests awaiting action.
func PaymentWorkload(action PaymentAction) Workload {
	return Workload{Kind: WorkloadPayment, PaymentAction: action}
}

// RegistryWorkload targets registry requests in state.
func RegistryWorkload(state RegistrationState) Workload {
	return Workload{Kind: WorkloadRegistry, RegistrationState: state}
}

// CollateralWorkload targets pending collateral requests.
func CollateralWorkload() Workload {
	return Workload{Kind: WorkloadCollateral}
}

// String returns a label suitable for logs and metrics.
func (w Workload) String() string {
	switch w.Kind {
	case WorkloadPayment:
		return fmt.Sprintf("payment:%s", w.PaymentAction)
	case WorkloadRegistry:
		return fmt.Sprintf("registry:%s", w.RegistrationState)
	case WorkloadCollateral:
		return "collateral"
	default:
		return "unknown"
	}
}

// Validate checks the workload carries the target its kind needs.
func (w Workload) Validate() error {
	switch w.Kind {
	case WorkloadPayment:
		if w.PaymentAction == "" || w.PaymentAction == ActionNone {
			return fmt.Errorf("payment workload requires a target action")
		}
	case WorkloadRegistry:
		if w.RegistrationState == "" {
			return fmt.Errorf("registry workload requires a target state")
		}
	case WorkloadCollateral:
	default:
		return fmt.Errorf("unknown workload kind %q", w.Kind)
	}
	return nil
}

// PaymentEligible reports whether r is waiting on this workload's action.
func (w Workload) PaymentEligible(r *PaymentRequest) bool {
	if w.Kind != WorkloadPayment {
		return false
	}
	switch r.NextAction.Phase {
	case PhaseAwaitingAction:
		return r.NextAction.Failure == nil && r.NextAction.RequestedAction == w.PaymentAction
	case PhasePending, PhaseFailed, PhaseCompleted:
		return false
	default:
		return false
	}
}

// RegistryEligible reports whether r is in this workload's target state.
func (w Workload) RegistryEligible(r *RegistryRequest) bool {
	return w.Kind == WorkloadRegistry && r.State == w.RegistrationState
}

// CollateralEligible reports whether r is pending.
func (w Workload) CollateralEligible(r *CollateralRequest) bool {
	return w.Kind == WorkloadCollateral && r.State == CollateralPending
}
