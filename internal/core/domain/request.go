package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// WorkloadKind names the family of requests a reconciliation worker drives.
type WorkloadKind string

const (
	WorkloadPayment    WorkloadKind = "PAYMENT"
	WorkloadRegistry   WorkloadKind = "REGISTRY"
	WorkloadCollateral WorkloadKind = "COLLATERAL"
)

// Request is implemented by every request kind the lock manager can claim a wallet for.
type Request interface {
	RequestID() uuid.UUID
	SourceID() uuid.UUID
	Kind() WorkloadKind
	WalletBinding() Binding
}

// Binding is either Bound to a specific wallet or Unbound.
type Binding struct {
	walletID uuid.UUID
	bound    bool
}

// Bound returns a binding to walletID.
func Bound(walletID uuid.UUID) Binding {
	return Binding{walletID: walletID, bound: true}
}

// Unbound returns a binding that lets the lock manager pick a wallet.
func Unbound() Binding {
	return Binding{}
}

// WalletID returns the bound wallet, ok is false for Unbound.
func (b Binding) WalletID() (uuid.UUID, bool) {
	return b.walletID, b.bound
}

// IsBound reports whether the binding names a wallet.
func (b Binding) IsBound() bool {
	return b.bound
}

// MarshalJSON encodes Unbound as null.
func (b Binding) MarshalJSON() ([]byte, error) {
	if !b.bound {
		return []byte("null"), nil
	}
	return json.Marshal(b.walletID)
}

// UnmarshalJSON decodes null as Unbound.
func (b *Binding) UnmarshalJSON(data []byte) error {
	var id *uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	if id == nil {
		*b = Unbound()
		return nil
	}
	*b = Bound(*id)
	return nil
}

// RequestPhase is the coarse lifecycle state of a request's next action.
type RequestPhase string

const (
	PhasePending        RequestPhase = "PENDING"
	PhaseAwaitingAction RequestPhase = "AWAITING_ACTION"
	PhaseFailed         RequestPhase = "FAILED"
	PhaseCompleted      RequestPhase = "COMPLETED"
)

// PaymentAction is the state transition a payment request is expected to undergo.
type PaymentAction string

const (
	ActionNone                          PaymentAction = "NONE"
	ActionFundsLockingRequested         PaymentAction = "FUNDS_LOCKING_REQUESTED"
	ActionSubmitResultRequested         PaymentAction = "SUBMIT_RESULT_REQUESTED"
	ActionAuthorizeRefundRequested      PaymentAction = "AUTHORIZE_REFUND_REQUESTED"
	ActionWithdrawRequested             PaymentAction = "WITHDRAW_REQUESTED"
	ActionSetRefundRequestedRequested   PaymentAction = "SET_REFUND_REQUESTED_REQUESTED"
	ActionUnSetRefundRequestedRequested PaymentAction = "UNSET_REFUND_REQUESTED_REQUESTED"
	ActionWithdrawRefundRequested       PaymentAction = "WITHDRAW_REFUND_REQUESTED"
)

// ActionFailure describes why a next action failed. Only set in PhaseFailed.
type ActionFailure struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// NextAction is the pending transition of a payment request.
type NextAction struct {
	Phase           RequestPhase   `json:"phase"`
	RequestedAction PaymentAction  `json:"requested_action"`
	Failure         *ActionFailure `json:"failure,omitempty"`
	ResultHash      string         `json:"result_hash,omitempty"`
}

// AwaitingAction builds a NextAction waiting on action.
func AwaitingAction(action PaymentAction) NextAction {
	return NextAction{Phase: PhaseAwaitingAction, RequestedAction: action}
}

// PaymentRequest is an escrow payment instance. The smart contract wallet is fixed at creation.
type PaymentRequest struct {
	ID                    uuid.UUID  `json:"id"`
	PaymentSourceID       uuid.UUID  `json:"payment_source_id"`
	NextAction            NextAction `json:"next_action"`
	SubmitResultTime      time.Time  `json:"submit_result_time"`
	RefundTime            time.Time  `json:"refund_time"`
	UnlockTime            time.Time  `json:"unlock_time"`
	SellerCoolDownTime    time.Time  `json:"seller_cool_down_time"`
	SmartContractWalletID uuid.UUID  `json:"smart_contract_wallet_id"`
}

func (r *PaymentRequest) RequestID() uuid.UUID   { return r.ID }
func (r *PaymentRequest) SourceID() uuid.UUID    { return r.PaymentSourceID }
func (r *PaymentRequest) Kind() WorkloadKind     { return WorkloadPayment }
func (r *PaymentRequest) WalletBinding() Binding { return Bound(r.SmartContractWalletID) }

// RegistrationState is the lifecycle of an agent registration.
type RegistrationState string

const (
	RegistrationRequested   RegistrationState = "REGISTRATION_REQUESTED"
	RegistrationInitiated   RegistrationState = "REGISTRATION_INITIATED"
	RegistrationConfirmed   RegistrationState = "REGISTRATION_CONFIRMED"
	RegistrationFailed      RegistrationState = "REGISTRATION_FAILED"
	DeregistrationRequested RegistrationState = "DEREGISTRATION_REQUESTED"
	DeregistrationInitiated RegistrationState = "DEREGISTRATION_INITIATED"
	DeregistrationConfirmed RegistrationState = "DEREGISTRATION_CONFIRMED"
	DeregistrationFailed    RegistrationState = "DEREGISTRATION_FAILED"
)

// RegistryRequest registers or deregisters an agent. It may carry a wallet or leave the choice open.
type RegistryRequest struct {
	ID              uuid.UUID         `json:"id"`
	PaymentSourceID uuid.UUID         `json:"payment_source_id"`
	State           RegistrationState `json:"state"`
	Wallet          Binding           `json:"wallet_id"`
}

func (r *RegistryRequest) RequestID() uuid.UUID   { return r.ID }
func (r *RegistryRequest) SourceID() uuid.UUID    { return r.PaymentSourceID }
func (r *RegistryRequest) Kind() WorkloadKind     { return WorkloadRegistry }
func (r *RegistryRequest) WalletBinding() Binding { return r.Wallet }

// CollateralState is the lifecycle of a collateral top-up.
type CollateralState string

const (
	CollateralPending   CollateralState = "PENDING"
	CollateralInitiated CollateralState = "INITIATED"
	CollateralConfirmed CollateralState = "CONFIRMED"
	CollateralFailed    CollateralState = "FAILED"
)

// CollateralRequest tops up collateral from a fixed wallet.
type CollateralRequest struct {
	ID                    uuid.UUID       `json:"id"`
	PaymentSourceID       uuid.UUID       `json:"payment_source_id"`
	State                 CollateralState `json:"state"`
	SmartContractWalletID uuid.UUID       `json:"smart_contract_wallet_id"`
}

func (r *CollateralRequest) RequestID() uuid.UUID   { return r.ID }
func (r *CollateralRequest) SourceID() uuid.UUID    { return r.PaymentSourceID }
func (r *CollateralRequest) Kind() WorkloadKind     { return WorkloadCollateral }
func (r *CollateralRequest) WalletBinding() Binding { return Bound(r.SmartContractWalletID) }
