package types

// Event types for the sponsorship module
// All event types use lowercase with underscore separator (module_action format)
const (
	// Ledger events
	EventTypeGroupCreated   = "sponsorship_group_created"
	EventTypeGroupDeposit   = "sponsorship_group_deposit"
	EventTypeGroupDebited   = "sponsorship_group_debited"
	EventTypeDepositDrained = "sponsorship_deposit_drained"

	// Validation events
	EventTypeOperationApproved = "sponsorship_operation_approved"
	EventTypeOperationRejected = "sponsorship_operation_rejected"
	EventTypeProofVerified     = "sponsorship_proof_verified"
	EventTypeProofCached       = "sponsorship_proof_cached"
	EventTypeProofRefreshed    = "sponsorship_proof_refreshed"

	// Settlement events
	EventTypeOperationSettled = "sponsorship_operation_settled"
	EventTypeSettlementAlarm  = "sponsorship_settlement_alarm"

	// Quota events
	EventTypeQuotaSet      = "sponsorship_quota_set"
	EventTypeEpochAdvanced = "sponsorship_epoch_advanced"

	// Admin events
	EventTypeParamsUpdated = "sponsorship_params_updated"
)

// Event attribute keys for the sponsorship module
const (
	AttributeKeyGroupID     = "group_id"
	AttributeKeyAdmin       = "admin"
	AttributeKeyDepositor   = "depositor"
	AttributeKeyAmount      = "amount"
	AttributeKeyBalance     = "balance"
	AttributeKeySender      = "sender"
	AttributeKeyMode        = "mode"
	AttributeKeyStatus      = "status"
	AttributeKeyNullifier   = "nullifier"
	AttributeKeyEpoch       = "epoch"
	AttributeKeyQuota       = "quota"
	AttributeKeyPreFund     = "pre_fund"
	AttributeKeyActualCost  = "actual_cost"
	AttributeKeyMerkleRoot  = "merkle_root"
	AttributeKeyAuthority   = "authority"
	AttributeKeySeverity    = "severity"
	AttributeKeyDescription = "description"
)
