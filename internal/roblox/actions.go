package roblox

// ActionType is the audit log action filter understood by the groups API.
type ActionType string

// ActionAll requests every action, including membership joins and leaves
// that the unfiltered query does not report.
const ActionAll ActionType = "all"

const (
	ActionDeletePost                  ActionType = "DeletePost"
	ActionRemoveMember                ActionType = "RemoveMember"
	ActionAcceptJoinRequest           ActionType = "AcceptJoinRequest"
	ActionDeclineJoinRequest          ActionType = "DeclineJoinRequest"
	ActionPostStatus                  ActionType = "PostStatus"
	ActionChangeRank                  ActionType = "ChangeRank"
	ActionBuyAd                       ActionType = "BuyAd"
	ActionSendAllyRequest             ActionType = "SendAllyRequest"
	ActionCreateEnemy                 ActionType = "CreateEnemy"
	ActionAcceptAllyRequest           ActionType = "AcceptAllyRequest"
	ActionDeclineAllyRequest          ActionType = "DeclineAllyRequest"
	ActionDeleteAlly                  ActionType = "DeleteAlly"
	ActionDeleteEnemy                 ActionType = "DeleteEnemy"
	ActionAddGroupPlace               ActionType = "AddGroupPlace"
	ActionRemoveGroupPlace            ActionType = "RemoveGroupPlace"
	ActionCreateItems                 ActionType = "CreateItems"
	ActionConfigureItems              ActionType = "ConfigureItems"
	ActionSpendGroupFunds             ActionType = "SpendGroupFunds"
	ActionChangeOwner                 ActionType = "ChangeOwner"
	ActionDelete                      ActionType = "Delete"
	ActionAdjustCurrencyAmounts       ActionType = "AdjustCurrencyAmounts"
	ActionAbandon                     ActionType = "Abandon"
	ActionClaim                       ActionType = "Claim"
	ActionRename                      ActionType = "Rename"
	ActionChangeDescription           ActionType = "ChangeDescription"
	ActionInviteToClan                ActionType = "InviteToClan"
	ActionKickFromClan                ActionType = "KickFromClan"
	ActionCancelClanInvite            ActionType = "CancelClanInvite"
	ActionBuyClan                     ActionType = "BuyClan"
	ActionCreateGroupAsset            ActionType = "CreateGroupAsset"
	ActionUpdateGroupAsset            ActionType = "UpdateGroupAsset"
	ActionConfigureGroupAsset         ActionType = "ConfigureGroupAsset"
	ActionRevertGroupAsset            ActionType = "RevertGroupAsset"
	ActionCreateGroupDeveloperProduct ActionType = "CreateGroupDeveloperProduct"
	ActionConfigureGroupGame          ActionType = "ConfigureGroupGame"
	ActionLock                        ActionType = "Lock"
	ActionUnlock                      ActionType = "Unlock"
	ActionCreateGamePass              ActionType = "CreateGamePass"
	ActionCreateBadge                 ActionType = "CreateBadge"
	ActionConfigureBadge              ActionType = "ConfigureBadge"
	ActionSavePlace                   ActionType = "SavePlace"
	ActionPublishPlace                ActionType = "PublishPlace"
	ActionJoinGroup                   ActionType = "joinGroup"
	ActionLeaveGroup                  ActionType = "leaveGroup"
)

var actionTypes = []ActionType{
	ActionDeletePost, ActionRemoveMember, ActionAcceptJoinRequest, ActionDeclineJoinRequest,
	ActionPostStatus, ActionChangeRank, ActionBuyAd, ActionSendAllyRequest,
	ActionCreateEnemy, ActionAcceptAllyRequest, ActionDeclineAllyRequest, ActionDeleteAlly,
	ActionDeleteEnemy, ActionAddGroupPlace, ActionRemoveGroupPlace, ActionCreateItems,
	ActionConfigureItems, ActionSpendGroupFunds, ActionChangeOwner, ActionDelete,
	ActionAdjustCurrencyAmounts, ActionAbandon, ActionClaim, ActionRename,
	ActionChangeDescription, ActionInviteToClan, ActionKickFromClan, ActionCancelClanInvite,
	ActionBuyClan, ActionCreateGroupAsset, ActionUpdateGroupAsset, ActionConfigureGroupAsset,
	ActionRevertGroupAsset, ActionCreateGroupDeveloperProduct, ActionConfigureGroupGame, ActionLock,
	ActionUnlock, ActionCreateGamePass, ActionCreateBadge, ActionConfigureBadge,
	ActionSavePlace, ActionPublishPlace, ActionJoinGroup, ActionLeaveGroup,
}

var knownActionTypes = func() map[ActionType]bool {
	m := make(map[ActionType]bool, len(actionTypes))
	for _, a := range actionTypes {
		m[a] = true
	}
	return m
}()

// ActionTypes lists the documented filters, excluding ActionAll.
func ActionTypes() []ActionType {
	out := make([]ActionType, len(actionTypes))
	copy(out, actionTypes)
	return out
}

// IsKnown reports whether a is a filter the API documents, or ActionAll.
// The client itself forwards unknown values unchanged.
func (a ActionType) IsKnown() bool {
	return a == ActionAll || knownActionTypes[a]
}
